package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"tube-service/configs"
	"tube-service/models"
	"tube-service/realtime"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	defaultChatPageSize = 100
	maxChatPageSize     = 200
)

// ChatController persists live chat and serves history pages. History is
// fetched newest-first with a "before" timestamp cursor and reversed to
// chronological order before it leaves the boundary.
type ChatController struct {
	messages  MessageStore
	streams   StreamStore
	users     UserDirectory
	broadcast realtime.Publisher
	logger    *logrus.Entry
}

func NewChatController(messages MessageStore, streams StreamStore, users UserDirectory, broadcast realtime.Publisher) *ChatController {
	return &ChatController{
		messages:  messages,
		streams:   streams,
		users:     users,
		broadcast: broadcast,
		logger:    configs.LogWithContext("tube-service", "chat"),
	}
}

func (c *ChatController) PostMessage() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID, ok := callerID(r)
		if !ok {
			errorResponse(rw, http.StatusUnauthorized, "authentication required")
			return
		}
		streamID := mux.Vars(r)["StreamID"]

		body := models.ChatMessageBody{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			errorResponse(rw, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if body.Body == "" {
			errorResponse(rw, http.StatusBadRequest, "message body is required")
			return
		}
		if utf8.RuneCountInString(body.Body) > MAX_CHAT_BODY_LEN {
			errorResponse(rw, http.StatusBadRequest, "message body exceeds 500 characters")
			return
		}

		if _, err := c.streams.Get(ctx, streamID); err != nil {
			if err == errNotFound {
				errorResponse(rw, http.StatusNotFound, "stream not found")
				return
			}
			errorResponse(rw, http.StatusInternalServerError, "could not load stream")
			return
		}

		msg := models.ChatMessage{
			StreamID:    streamID,
			UserID:      userID,
			Body:        body.Body,
			DateCreated: time.Now(),
		}
		id, err := c.messages.Insert(ctx, &msg)
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not save message")
			return
		}
		msg.ID = id

		users, err := c.users.UsersByID(ctx, []string{userID})
		if err != nil {
			c.logger.Warn("author lookup failed: ", err)
			users = map[string]models.User{}
		}
		view := c.messageView(msg, users)

		// Broadcast carries the fully resolved message so subscribers
		// need no follow-up fetch. Failure is non-fatal, the message is
		// already persisted.
		if err := c.broadcast.Publish(ctx, streamID, realtime.EventMessageNew, view); err != nil {
			c.logger.Warnf("broadcast message:new for stream %s failed: %v", streamID, err)
		}

		writeJSON(rw, http.StatusCreated, map[string]interface{}{"message": view})
	}
}

func (c *ChatController) ListMessages() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		streamID := mux.Vars(r)["StreamID"]
		limit := parseLimit(r, "limit", defaultChatPageSize, maxChatPageSize)

		before, err := parseBefore(r.URL.Query().Get("before"))
		if err != nil {
			errorResponse(rw, http.StatusBadRequest, "before must be an RFC3339 timestamp or unix milliseconds")
			return
		}

		messages, err := c.messages.ListBefore(ctx, streamID, limit, before)
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not load messages")
			return
		}

		// Fetched newest-first, returned oldest-first. To page further
		// into the past, pass the first entry's timestamp as "before".
		reverseMessages(messages)

		ids := make([]string, 0, len(messages))
		for _, m := range messages {
			ids = append(ids, m.UserID)
		}
		users, err := c.users.UsersByID(ctx, uniqueIDs(ids))
		if err != nil {
			c.logger.Warn("author lookup failed: ", err)
			users = map[string]models.User{}
		}

		views := make([]models.ChatMessageView, 0, len(messages))
		for _, m := range messages {
			views = append(views, c.messageView(m, users))
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{"messages": views})
	}
}

func (c *ChatController) messageView(msg models.ChatMessage, users map[string]models.User) models.ChatMessageView {
	author := authorIdentity(users, msg.UserID)
	return models.ChatMessageView{
		ID:        msg.ID.Hex(),
		StreamID:  msg.StreamID,
		UserID:    msg.UserID,
		Username:  author.Username,
		Avatar:    author.Avatar,
		Body:      msg.Body,
		Timestamp: msg.DateCreated,
	}
}

func reverseMessages(messages []models.ChatMessage) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}

// parseBefore accepts the timestamp formats clients echo back from
// previous pages: RFC3339 (what time.Time marshals to) or unix
// milliseconds. The zero time means no cursor.
func parseBefore(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts, nil
	}
	var millis int64
	if err := json.Unmarshal([]byte(raw), &millis); err == nil && millis > 0 {
		return time.UnixMilli(millis), nil
	}
	return time.Time{}, errInvalidCursor
}

var errInvalidCursor = errors.New("invalid before cursor")
