package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelFor(t *testing.T) {
	assert.Equal(t, "live-stream-abc123", ChannelFor("abc123"))
	assert.Equal(t, "live-stream-", ChannelFor(""))
}

func TestMarshalEnvelope(t *testing.T) {
	body, err := marshalEnvelope(EventViewerCount, map[string]int64{"viewers": 7})
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, EventViewerCount, env.Event)
	assert.NotZero(t, env.At)

	var data map[string]int64
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(7), data["viewers"])
}

func TestMarshalEnvelopeRejectsUnmarshalable(t *testing.T) {
	_, err := marshalEnvelope(EventMessageNew, make(chan int))
	require.Error(t, err)
}
