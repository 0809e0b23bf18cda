package controllers

import (
	"testing"

	"tube-service/models"

	"github.com/stretchr/testify/assert"
)

func TestRestrictedFor(t *testing.T) {
	public := models.Video{UserID: "creator", Visibility: VISIBILITY_EVERYONE}
	gated := models.Video{UserID: "creator", Visibility: VISIBILITY_SUBSCRIBERS}

	// public videos are open to everyone, including anonymous callers
	assert.False(t, restrictedFor(public, ""))
	assert.False(t, restrictedFor(public, "viewer"))

	// subscriber-only videos gate everyone but the uploader
	assert.True(t, restrictedFor(gated, ""))
	assert.True(t, restrictedFor(gated, "viewer"))
	assert.False(t, restrictedFor(gated, "creator"))
}
