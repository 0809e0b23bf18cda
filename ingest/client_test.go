package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLiveStreamFromProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/live-streams", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"prov-1","stream_key":"key-1","ingest_url":"rtmps://ingest.example.com/app","playback_url":"https://cdn.example.com/prov-1.m3u8"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", "", "")
	info, err := c.CreateLiveStream(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "prov-1", info.ProviderStreamID)
	assert.Equal(t, "key-1", info.StreamKey)
	assert.Equal(t, "https://cdn.example.com/prov-1.m3u8", info.PlaybackURL)
}

func TestCreateLiveStreamProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "", "")
	_, err := c.CreateLiveStream(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCreateLiveStreamRejectsIncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"prov-1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "", "")
	_, err := c.CreateLiveStream(context.Background())
	require.Error(t, err)
}

func TestCreateLiveStreamSelfHostedFallback(t *testing.T) {
	c := NewClient("", "", "stream.example.com:1935", "https://play.example.com/")
	info, err := c.CreateLiveStream(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, info.StreamKey)
	assert.NotContains(t, info.StreamKey, "-")
	assert.Equal(t, "rtmp://stream.example.com:1935/live", info.IngestURL)
	assert.Equal(t, "https://play.example.com/hls/"+info.StreamKey+".m3u8", info.PlaybackURL)

	// keys are unique per stream
	again, err := c.CreateLiveStream(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, info.StreamKey, again.StreamKey)
}
