package controllers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"tube-service/models"
	"tube-service/realtime"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeMessageStore struct {
	messages  []models.ChatMessage
	lastLimit int64
	err       error
}

func (s *fakeMessageStore) Insert(ctx context.Context, msg *models.ChatMessage) (primitive.ObjectID, error) {
	if s.err != nil {
		return primitive.NilObjectID, s.err
	}
	msg.ID = primitive.NewObjectID()
	s.messages = append(s.messages, *msg)
	return msg.ID, nil
}

func (s *fakeMessageStore) ListBefore(ctx context.Context, streamID string, limit int64, before time.Time) ([]models.ChatMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastLimit = limit

	matched := []models.ChatMessage{}
	for _, m := range s.messages {
		if m.StreamID != streamID {
			continue
		}
		if !before.IsZero() && !m.DateCreated.Before(before) {
			continue
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].DateCreated.After(matched[j].DateCreated)
	})
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type fakeUserDirectory struct {
	users map[string]models.User
}

func (d *fakeUserDirectory) UsersByID(ctx context.Context, ids []string) (map[string]models.User, error) {
	out := map[string]models.User{}
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func newChatFixture() (*ChatController, *fakeMessageStore, *fakeStreamStore, *fakePublisher) {
	messages := &fakeMessageStore{}
	streams := newFakeStreamStore()
	users := &fakeUserDirectory{users: map[string]models.User{
		"alice": {UserID: "alice", UserName: "Alice", ProfilePic: "https://cdn/a.png"},
		"bob":   {UserID: "bob", UserName: "Bob"},
	}}
	pub := &fakePublisher{}
	return NewChatController(messages, streams, users, pub), messages, streams, pub
}

func postMessageRequest(streamID, userID, body string) *http.Request {
	payload := bytes.NewBufferString(fmt.Sprintf(`{"body":%q}`, body))
	r := httptest.NewRequest(http.MethodPost, "/api/v1/live/chat/"+streamID, payload)
	r = mux.SetURLVars(r, map[string]string{"StreamID": streamID})
	return authed(r, userID)
}

func listMessagesRequest(streamID, query string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/live/chat/"+streamID+query, nil)
	return mux.SetURLVars(r, map[string]string{"StreamID": streamID})
}

func seedMessages(store *fakeMessageStore, streamID string, n int, base time.Time) {
	for i := 0; i < n; i++ {
		store.messages = append(store.messages, models.ChatMessage{
			ID:          primitive.NewObjectID(),
			StreamID:    streamID,
			UserID:      "alice",
			Body:        fmt.Sprintf("message %d", i),
			DateCreated: base.Add(time.Duration(i) * time.Second),
		})
	}
}

func TestPostMessage(t *testing.T) {
	ctrl, messages, streams, pub := newChatFixture()
	id := streams.add(&models.LiveStream{UserID: "creator", IsLive: true})

	rec := httptest.NewRecorder()
	ctrl.PostMessage()(rec, postMessageRequest(id, "alice", "hello chat"))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, messages.messages, 1)
	assert.Equal(t, "alice", messages.messages[0].UserID)

	msg := decodeBody(t, rec)["message"].(map[string]interface{})
	assert.Equal(t, "hello chat", msg["body"])
	assert.Equal(t, "Alice", msg["username"])

	// Broadcast carries the resolved view, not the raw record.
	require.Len(t, pub.events, 1)
	assert.Equal(t, realtime.EventMessageNew, pub.events[0].event)
	view := pub.events[0].payload.(models.ChatMessageView)
	assert.Equal(t, "Alice", view.Username)
	assert.Equal(t, "hello chat", view.Body)
}

func TestPostMessageBodyLength(t *testing.T) {
	ctrl, messages, streams, _ := newChatFixture()
	id := streams.add(&models.LiveStream{UserID: "creator", IsLive: true})

	atLimit := strings.Repeat("a", 500)
	rec := httptest.NewRecorder()
	ctrl.PostMessage()(rec, postMessageRequest(id, "alice", atLimit))
	assert.Equal(t, http.StatusCreated, rec.Code)

	overLimit := strings.Repeat("a", 501)
	rec = httptest.NewRecorder()
	ctrl.PostMessage()(rec, postMessageRequest(id, "alice", overLimit))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// multi-byte runes count as one character each
	multibyte := strings.Repeat("é", 500)
	rec = httptest.NewRecorder()
	ctrl.PostMessage()(rec, postMessageRequest(id, "alice", multibyte))
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.Len(t, messages.messages, 2)
}

func TestPostMessageEmptyBody(t *testing.T) {
	ctrl, _, streams, _ := newChatFixture()
	id := streams.add(&models.LiveStream{UserID: "creator", IsLive: true})

	rec := httptest.NewRecorder()
	ctrl.PostMessage()(rec, postMessageRequest(id, "alice", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostMessageUnknownStream(t *testing.T) {
	ctrl, messages, _, pub := newChatFixture()

	rec := httptest.NewRecorder()
	ctrl.PostMessage()(rec, postMessageRequest(primitive.NewObjectID().Hex(), "alice", "anyone here?"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, messages.messages)
	assert.Empty(t, pub.events)
}

func TestPostMessageUnauthenticated(t *testing.T) {
	ctrl, _, streams, _ := newChatFixture()
	id := streams.add(&models.LiveStream{UserID: "creator", IsLive: true})

	payload := bytes.NewBufferString(`{"body":"hi"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/live/chat/"+id, payload)
	r = mux.SetURLVars(r, map[string]string{"StreamID": id})
	rec := httptest.NewRecorder()
	ctrl.PostMessage()(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostMessageBroadcastFailureStillPersists(t *testing.T) {
	ctrl, messages, streams, pub := newChatFixture()
	pub.err = fmt.Errorf("redis is down")
	id := streams.add(&models.LiveStream{UserID: "creator", IsLive: true})

	rec := httptest.NewRecorder()
	ctrl.PostMessage()(rec, postMessageRequest(id, "alice", "still here"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, messages.messages, 1)
}

func TestListMessagesChronologicalOrder(t *testing.T) {
	ctrl, messages, streams, _ := newChatFixture()
	id := streams.add(&models.LiveStream{UserID: "creator", IsLive: true})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessages(messages, id, 5, base)

	rec := httptest.NewRecorder()
	ctrl.ListMessages()(rec, listMessagesRequest(id, "?limit=3"))

	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody(t, rec)["messages"].([]interface{})
	require.Len(t, page, 3)

	// limit applies to the newest messages, returned oldest-first
	assert.Equal(t, "message 2", page[0].(map[string]interface{})["body"])
	assert.Equal(t, "message 3", page[1].(map[string]interface{})["body"])
	assert.Equal(t, "message 4", page[2].(map[string]interface{})["body"])
}

func TestListMessagesCursorPagesWithoutOverlap(t *testing.T) {
	ctrl, messages, streams, _ := newChatFixture()
	id := streams.add(&models.LiveStream{UserID: "creator", IsLive: true})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessages(messages, id, 6, base)

	rec := httptest.NewRecorder()
	ctrl.ListMessages()(rec, listMessagesRequest(id, "?limit=2"))
	require.Equal(t, http.StatusOK, rec.Code)
	first := decodeBody(t, rec)["messages"].([]interface{})
	require.Len(t, first, 2)

	cursor := first[0].(map[string]interface{})["timestamp"].(string)
	rec = httptest.NewRecorder()
	ctrl.ListMessages()(rec, listMessagesRequest(id, "?limit=2&before="+cursor))
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeBody(t, rec)["messages"].([]interface{})
	require.Len(t, second, 2)

	// second page is strictly older, no duplicates and no gaps
	assert.Equal(t, "message 4", first[0].(map[string]interface{})["body"])
	assert.Equal(t, "message 5", first[1].(map[string]interface{})["body"])
	assert.Equal(t, "message 2", second[0].(map[string]interface{})["body"])
	assert.Equal(t, "message 3", second[1].(map[string]interface{})["body"])
}

func TestListMessagesClampsLimit(t *testing.T) {
	ctrl, messages, streams, _ := newChatFixture()
	id := streams.add(&models.LiveStream{UserID: "creator", IsLive: true})

	rec := httptest.NewRecorder()
	ctrl.ListMessages()(rec, listMessagesRequest(id, "?limit=5000"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(maxChatPageSize), messages.lastLimit)
}

func TestListMessagesInvalidCursor(t *testing.T) {
	ctrl, _, streams, _ := newChatFixture()
	id := streams.add(&models.LiveStream{UserID: "creator", IsLive: true})

	rec := httptest.NewRecorder()
	ctrl.ListMessages()(rec, listMessagesRequest(id, "?before=yesterday"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "error")
}

func TestListMessagesUnknownAuthorFallback(t *testing.T) {
	ctrl, messages, streams, _ := newChatFixture()
	id := streams.add(&models.LiveStream{UserID: "creator", IsLive: true})
	messages.messages = append(messages.messages, models.ChatMessage{
		ID:          primitive.NewObjectID(),
		StreamID:    id,
		UserID:      "deleted-user",
		Body:        "ghost message",
		DateCreated: time.Now(),
	})

	rec := httptest.NewRecorder()
	ctrl.ListMessages()(rec, listMessagesRequest(id, ""))

	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody(t, rec)["messages"].([]interface{})
	require.Len(t, page, 1)
	assert.Equal(t, "Unknown", page[0].(map[string]interface{})["username"])
}

func TestParseBefore(t *testing.T) {
	ts, err := parseBefore("2026-03-01T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), ts.UTC())

	ts, err = parseBefore("1767225600000")
	require.NoError(t, err)
	assert.Equal(t, int64(1767225600000), ts.UnixMilli())

	ts, err = parseBefore("")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	_, err = parseBefore("not-a-time")
	assert.Error(t, err)
}

func TestReverseMessages(t *testing.T) {
	msgs := []models.ChatMessage{{Body: "c"}, {Body: "b"}, {Body: "a"}}
	reverseMessages(msgs)
	assert.Equal(t, "a", msgs[0].Body)
	assert.Equal(t, "b", msgs[1].Body)
	assert.Equal(t, "c", msgs[2].Body)
}
