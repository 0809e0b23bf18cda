package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"tube-service/configs"
	"tube-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	trendingCacheKey    = "trending:videos"
	trendingCacheTTL    = 30 * time.Second
	trendingWindow      = 48 * time.Hour
	trendingResultLimit = 20
)

// SearchContent runs a case-insensitive regex over title, description and
// tags, across both videos and shorts. The query is escaped, clients
// cannot inject regex syntax.
func SearchContent() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		q := r.URL.Query().Get("q")
		if q == "" {
			errorResponse(rw, http.StatusBadRequest, "q is required")
			return
		}
		limit := parseLimit(r, "limit", 20, 50)

		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter := bson.M{
			"isdeleted":  false,
			"visibility": VISIBILITY_EVERYONE,
			"$or": []bson.M{
				{"title": pattern},
				{"description": pattern},
				{"tags": pattern},
			},
		}
		findOpts := options.Find().
			SetSort(bson.D{{Key: "datecreated", Value: -1}}).
			SetLimit(limit)

		cur, err := getVideosCollection().Find(ctx, filter, findOpts)
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "search failed")
			return
		}
		results := []models.Video{}
		if err := cur.All(ctx, &results); err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not decode results")
			return
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{"results": results})
	}
}

// TrendingVideos serves the most-viewed recent videos, cached in Redis
// for a short TTL. A cache miss or Redis outage falls through to the
// store.
func TrendingVideos() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		logger := configs.LogWithContext("tube-service", "trending")

		if client := configs.GetRedisClient(); client != nil {
			cached, err := client.Get(ctx, trendingCacheKey).Bytes()
			if err == nil {
				rw.Header().Set("Content-Type", "application/json")
				rw.WriteHeader(http.StatusOK)
				rw.Write(cached)
				return
			}
		}

		filter := bson.M{
			"type":        TYPE_VIDEO,
			"isdeleted":   false,
			"visibility":  VISIBILITY_EVERYONE,
			"datecreated": bson.M{"$gte": time.Now().Add(-trendingWindow)},
		}
		findOpts := options.Find().
			SetSort(bson.D{{Key: "views", Value: -1}, {Key: "datecreated", Value: -1}}).
			SetLimit(trendingResultLimit)

		cur, err := getVideosCollection().Find(ctx, filter, findOpts)
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not load trending")
			return
		}
		videos := []models.Video{}
		if err := cur.All(ctx, &videos); err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not decode trending")
			return
		}

		payload, err := json.Marshal(map[string]interface{}{"videos": videos})
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not encode trending")
			return
		}

		if client := configs.GetRedisClient(); client != nil {
			if err := client.Set(ctx, trendingCacheKey, payload, trendingCacheTTL).Err(); err != nil {
				logger.Warn("trending cache write failed: ", err)
			}
		}

		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(http.StatusOK)
		rw.Write(payload)
	}
}
