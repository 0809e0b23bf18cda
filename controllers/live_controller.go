package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tube-service/configs"
	"tube-service/ingest"
	"tube-service/models"
	"tube-service/realtime"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// LiveController owns the live stream lifecycle and the viewer counter.
// The broadcast gateway is constructor-injected; every broadcast is
// best-effort and never rolls back a committed mutation.
type LiveController struct {
	streams   StreamStore
	provider  ingest.Provider
	broadcast realtime.Publisher
	logger    *logrus.Entry
}

func NewLiveController(streams StreamStore, provider ingest.Provider, broadcast realtime.Publisher) *LiveController {
	return &LiveController{
		streams:   streams,
		provider:  provider,
		broadcast: broadcast,
		logger:    configs.LogWithContext("tube-service", "live"),
	}
}

type viewerActionBody struct {
	Action string `json:"action"`
}

type streamIDBody struct {
	StreamID string `json:"streamId"`
}

// CreateStream provisions ingest credentials from the provider and
// inserts the stream record. The stream key is only ever returned here,
// to the creator.
func (c *LiveController) CreateStream() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID, ok := callerID(r)
		if !ok {
			errorResponse(rw, http.StatusUnauthorized, "authentication required")
			return
		}

		body := models.LiveStreamBody{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			errorResponse(rw, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if body.Title == "" || len(body.Title) > MAX_TITLE_LEN {
			errorResponse(rw, http.StatusBadRequest, "title is required and must be at most 100 characters")
			return
		}

		info, err := c.provider.CreateLiveStream(ctx)
		if err != nil {
			c.logger.Error("ingest provisioning failed: ", err)
			errorResponse(rw, http.StatusBadGateway, "could not provision ingest")
			return
		}

		stream := models.LiveStream{
			UserID:           userID,
			Title:            body.Title,
			Description:      body.Description,
			ProviderStreamID: info.ProviderStreamID,
			StreamKey:        info.StreamKey,
			IngestURL:        info.IngestURL,
			PlaybackURL:      info.PlaybackURL,
			DateCreated:      time.Now(),
		}
		id, err := c.streams.Insert(ctx, &stream)
		if err != nil {
			c.logger.Error("stream insert failed: ", err)
			errorResponse(rw, http.StatusInternalServerError, "could not create stream")
			return
		}
		stream.ID = id

		writeJSON(rw, http.StatusCreated, map[string]interface{}{
			"stream":    stream,
			"streamKey": info.StreamKey,
			"ingestUrl": info.IngestURL,
		})
	}
}

// StartStream flips a stream live. Owner-only; an ended stream can never
// go live again. The StreamStart broadcast fires exactly once per actual
// transition, concurrent starts race on an atomic conditional update.
func (c *LiveController) StartStream() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID, ok := callerID(r)
		if !ok {
			errorResponse(rw, http.StatusUnauthorized, "authentication required")
			return
		}

		body := streamIDBody{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.StreamID == "" {
			errorResponse(rw, http.StatusBadRequest, "streamId is required")
			return
		}

		stream, err := c.streams.Get(ctx, body.StreamID)
		if err == errNotFound {
			errorResponse(rw, http.StatusNotFound, "stream not found")
			return
		}
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not load stream")
			return
		}
		if stream.UserID != userID {
			errorResponse(rw, http.StatusForbidden, "only the stream owner can start it")
			return
		}
		if stream.Ended {
			errorResponse(rw, http.StatusBadRequest, "stream has already ended")
			return
		}

		flipped, err := c.streams.SetLive(ctx, body.StreamID)
		if err != nil && err != errNotFound {
			errorResponse(rw, http.StatusInternalServerError, "could not start stream")
			return
		}
		isLive := true
		if flipped {
			c.publish(ctx, body.StreamID, realtime.EventStreamStart, map[string]interface{}{
				"streamID": body.StreamID,
				"isLive":   true,
			})
		} else {
			// The update didn't apply: either already live, or the stream
			// was ended between the ownership check and the flip. Re-read
			// so the response reports the real state.
			current, err := c.streams.Get(ctx, body.StreamID)
			if err != nil {
				errorResponse(rw, http.StatusInternalServerError, "could not load stream")
				return
			}
			isLive = current.IsLive
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{
			"success": true,
			"stream": map[string]interface{}{
				"_id":    body.StreamID,
				"isLive": isLive,
			},
		})
	}
}

// EndStream is the terminal transition: once ended a stream stays ended.
func (c *LiveController) EndStream() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID, ok := callerID(r)
		if !ok {
			errorResponse(rw, http.StatusUnauthorized, "authentication required")
			return
		}

		body := streamIDBody{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.StreamID == "" {
			errorResponse(rw, http.StatusBadRequest, "streamId is required")
			return
		}

		stream, err := c.streams.Get(ctx, body.StreamID)
		if err == errNotFound {
			errorResponse(rw, http.StatusNotFound, "stream not found")
			return
		}
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not load stream")
			return
		}
		if stream.UserID != userID {
			errorResponse(rw, http.StatusForbidden, "only the stream owner can end it")
			return
		}

		flipped, err := c.streams.SetEnded(ctx, body.StreamID)
		if err != nil && err != errNotFound {
			errorResponse(rw, http.StatusInternalServerError, "could not end stream")
			return
		}
		if flipped {
			c.publish(ctx, body.StreamID, realtime.EventStreamEnd, map[string]interface{}{
				"streamID": body.StreamID,
				"ended":    true,
			})
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{
			"success": true,
			"stream": map[string]interface{}{
				"_id":   body.StreamID,
				"ended": true,
			},
		})
	}
}

func (c *LiveController) ListStreams() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		opts := StreamListOptions{
			UserID:   r.URL.Query().Get("userId"),
			LiveOnly: r.URL.Query().Get("liveOnly") == "true",
			Limit:    parseLimit(r, "limit", 20, 100),
		}

		streams, err := c.streams.List(ctx, opts)
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not list streams")
			return
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{"streams": streams})
	}
}

// ApplyViewerAction handles join/leave. The counter mutation is atomic at
// the store; the ViewerCount broadcast that follows is an absolute
// snapshot, so subscribers that miss one are corrected by the next.
func (c *LiveController) ApplyViewerAction() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		streamID := mux.Vars(r)["StreamID"]

		body := viewerActionBody{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			errorResponse(rw, http.StatusBadRequest, "invalid JSON body")
			return
		}
		action := ViewerAction(body.Action)
		if action != ActionJoin && action != ActionLeave {
			errorResponse(rw, http.StatusBadRequest, "action must be \"join\" or \"leave\"")
			return
		}

		stream, err := c.streams.ApplyViewerAction(ctx, streamID, action)
		if err == errNotFound {
			errorResponse(rw, http.StatusNotFound, "stream not found")
			return
		}
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not update viewer count")
			return
		}

		c.publish(ctx, streamID, realtime.EventViewerCount, map[string]interface{}{
			"streamID":    streamID,
			"viewers":     stream.Viewers,
			"peakViewers": stream.PeakViewers,
		})

		writeJSON(rw, http.StatusOK, map[string]interface{}{"viewers": stream.Viewers})
	}
}

func (c *LiveController) GetViewerCount() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		stream, err := c.streams.Get(ctx, mux.Vars(r)["StreamID"])
		if err == errNotFound {
			errorResponse(rw, http.StatusNotFound, "stream not found")
			return
		}
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not load stream")
			return
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{
			"viewers":     stream.Viewers,
			"peakViewers": stream.PeakViewers,
		})
	}
}

// publish logs and swallows broadcast failures: the mutation already
// committed and the response must stay consistent for the acting client.
func (c *LiveController) publish(ctx context.Context, streamID string, event realtime.Event, payload interface{}) {
	if err := c.broadcast.Publish(ctx, streamID, event, payload); err != nil {
		c.logger.Warnf("broadcast %s for stream %s failed: %v", event, streamID, err)
	}
}
