package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDedupWindowFor(t *testing.T) {
	assert.Equal(t, time.Hour, dedupWindowFor(TYPE_VIDEO))
	assert.Equal(t, 30*time.Minute, dedupWindowFor(TYPE_SHORT))
	// anything unrecognized gets the conservative long window
	assert.Equal(t, time.Hour, dedupWindowFor("clip"))
}
