package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"tube-service/configs"
	"tube-service/middleware"
	"tube-service/models"
	"tube-service/responses"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	TYPE_VIDEO = "video"
	TYPE_SHORT = "short"

	VISIBILITY_EVERYONE    = "everyone"
	VISIBILITY_SUBSCRIBERS = "subscribers"

	MAX_TITLE_LEN       = 100
	MAX_DESCRIPTION_LEN = 5000
	MAX_COMMENT_LEN     = 1000
	MAX_CHAT_BODY_LEN   = 500
)

// errNotFound is what stores return for an absent record; handlers map it
// to a 404.
var errNotFound = errors.New("not found")

func getVideosCollection() *mongo.Collection {
	return configs.GetCollection(configs.DB, "videos")
}

func getUsersCollection() *mongo.Collection {
	return configs.GetCollection(configs.DB, "users")
}

func getCommentsCollection() *mongo.Collection {
	return configs.GetCollection(configs.DB, "comments")
}

func getLikesCollection() *mongo.Collection {
	return configs.GetCollection(configs.DB, "likes")
}

func getSubscriptionsCollection() *mongo.Collection {
	return configs.GetCollection(configs.DB, "subscriptions")
}

func getHistoryCollection() *mongo.Collection {
	return configs.GetCollection(configs.DB, "history")
}

func getViewsCollection() *mongo.Collection {
	return configs.GetCollection(configs.DB, "views")
}

func errorResponse(rw http.ResponseWriter, code int, msg string) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)
	json.NewEncoder(rw).Encode(responses.ErrorResponse{Error: msg})
}

func writeJSON(rw http.ResponseWriter, code int, payload interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)
	json.NewEncoder(rw).Encode(payload)
}

func callerID(r *http.Request) (string, bool) {
	return middleware.UserIDFromContext(r.Context())
}

// clientSubject identifies an anonymous viewer by network address, for
// view dedup only.
func clientSubject(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseLimit reads a positive limit from the query string, clamped to
// [1, max], falling back to def when absent or malformed.
func parseLimit(r *http.Request, key string, def, max int64) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// parseOffset reads a non-negative offset from the query string, zero
// when absent or malformed.
func parseOffset(r *http.Request, key string) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// UserDirectory resolves user ids into display identities. Missing ids
// simply don't appear in the result map.
type UserDirectory interface {
	UsersByID(ctx context.Context, ids []string) (map[string]models.User, error)
}

type MongoUserDirectory struct{}

func NewMongoUserDirectory() *MongoUserDirectory {
	return &MongoUserDirectory{}
}

func (d *MongoUserDirectory) UsersByID(ctx context.Context, ids []string) (map[string]models.User, error) {
	users := map[string]models.User{}
	if len(ids) == 0 {
		return users, nil
	}

	cur, err := getUsersCollection().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	found := []models.User{}
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}
	for _, u := range found {
		users[u.UserID] = u
	}
	return users, nil
}

// authorIdentity shapes the denormalized author block, falling back to a
// placeholder when the account no longer resolves.
func authorIdentity(users map[string]models.User, userID string) models.AuthorIdentity {
	if u, ok := users[userID]; ok {
		return models.AuthorIdentity{UserID: userID, Username: u.UserName, Avatar: u.ProfilePic}
	}
	return models.AuthorIdentity{UserID: userID, Username: "Unknown"}
}

// uniqueIDs deduplicates while preserving first-seen order.
func uniqueIDs(ids []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
