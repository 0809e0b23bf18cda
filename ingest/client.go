// Package ingest talks to the external video ingest/transcoding provider
// that supplies ingest and playback URLs for live streams. The provider is
// opaque to the rest of the service; when none is configured the client
// falls back to the self-hosted RTMP endpoint.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Info carries the write-once ingest credentials stored on a new stream
// record.
type Info struct {
	ProviderStreamID string `json:"id"`
	StreamKey        string `json:"stream_key"`
	IngestURL        string `json:"ingest_url"`
	PlaybackURL      string `json:"playback_url"`
}

// Provider provisions live streams.
type Provider interface {
	CreateLiveStream(ctx context.Context) (*Info, error)
}

// Client is an HTTP client for the provider API.
type Client struct {
	baseURL         string
	token           string
	rtmpServer      string
	playbackBaseURL string
	httpClient      *http.Client
}

// NewClient builds a provider client. An empty baseURL selects the
// self-hosted fallback: a locally generated stream key pointed at the
// configured RTMP server.
func NewClient(baseURL, token, rtmpServer, playbackBaseURL string) *Client {
	return &Client{
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		token:           token,
		rtmpServer:      rtmpServer,
		playbackBaseURL: strings.TrimSuffix(playbackBaseURL, "/"),
		httpClient:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) CreateLiveStream(ctx context.Context) (*Info, error) {
	if c.baseURL == "" {
		return c.selfHosted(), nil
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"playback_policy": "public",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/live-streams", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ingest provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("ingest provider returned status %d", resp.StatusCode)
	}

	info := Info{}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding ingest provider response: %w", err)
	}
	if info.StreamKey == "" || info.PlaybackURL == "" {
		return nil, fmt.Errorf("ingest provider response missing stream key or playback url")
	}
	return &info, nil
}

func (c *Client) selfHosted() *Info {
	key := strings.ReplaceAll(uuid.New().String(), "-", "")
	return &Info{
		ProviderStreamID: key,
		StreamKey:        key,
		IngestURL:        "rtmp://" + c.rtmpServer + "/live",
		PlaybackURL:      c.playbackBaseURL + "/hls/" + key + ".m3u8",
	}
}
