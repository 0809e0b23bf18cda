package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestJoinPipeline(t *testing.T) {
	pipeline := joinPipeline()
	require.Len(t, pipeline, 2)

	// stage 1 increments viewers
	assert.Equal(t, bson.M{"$set": bson.M{
		"viewers": bson.M{"$add": bson.A{"$viewers", 1}},
	}}, pipeline[0])

	// stage 2 sees the incremented value, so the peak comparison is
	// against the post-join count
	assert.Equal(t, bson.M{"$set": bson.M{
		"peakviewers": bson.M{"$max": bson.A{"$peakviewers", "$viewers"}},
	}}, pipeline[1])
}

func TestLeavePipeline(t *testing.T) {
	pipeline := leavePipeline()
	require.Len(t, pipeline, 1)

	// decrement floored at zero, peak untouched
	assert.Equal(t, bson.M{"$set": bson.M{
		"viewers": bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{"$viewers", -1}}}},
	}}, pipeline[0])
}
