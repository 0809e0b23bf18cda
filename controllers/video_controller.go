package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tube-service/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxShortDuration caps shorts at 60 seconds.
const maxShortDuration = 60

func PostVideo() http.HandlerFunc {
	return postContent(TYPE_VIDEO)
}

func PostShort() http.HandlerFunc {
	return postContent(TYPE_SHORT)
}

func postContent(contentType string) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID, ok := callerID(r)
		if !ok {
			errorResponse(rw, http.StatusUnauthorized, "authentication required")
			return
		}

		body := models.VideoBody{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			errorResponse(rw, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if body.Title == "" || len(body.Title) > MAX_TITLE_LEN {
			errorResponse(rw, http.StatusBadRequest, "title is required and must be at most 100 characters")
			return
		}
		if len(body.Description) > MAX_DESCRIPTION_LEN {
			errorResponse(rw, http.StatusBadRequest, "description must be at most 5000 characters")
			return
		}
		if body.PlaybackURL == "" {
			errorResponse(rw, http.StatusBadRequest, "playbackUrl is required")
			return
		}
		if contentType == TYPE_SHORT && body.DurationSeconds > maxShortDuration {
			errorResponse(rw, http.StatusBadRequest, "shorts must be at most 60 seconds")
			return
		}
		visibility := body.Visibility
		if visibility != VISIBILITY_SUBSCRIBERS {
			visibility = VISIBILITY_EVERYONE
		}
		tags := body.Tags
		if tags == nil {
			tags = []string{}
		}

		video := models.Video{
			Type:            contentType,
			UserID:          userID,
			Title:           body.Title,
			Description:     body.Description,
			PlaybackURL:     body.PlaybackURL,
			ThumbnailURL:    body.ThumbnailURL,
			DurationSeconds: body.DurationSeconds,
			Tags:            tags,
			Visibility:      visibility,
			DateCreated:     time.Now(),
		}

		res, err := getVideosCollection().InsertOne(ctx, video)
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not save video")
			return
		}
		video.ID = res.InsertedID.(primitive.ObjectID)

		writeJSON(rw, http.StatusCreated, video)
	}
}

func ListVideos() http.HandlerFunc {
	return listContent(TYPE_VIDEO, "videos")
}

func ListShorts() http.HandlerFunc {
	return listContent(TYPE_SHORT, "shorts")
}

func listContent(contentType, key string) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		limit := parseLimit(r, "limit", 20, 100)
		page := parseLimit(r, "page", 1, 10000)
		skip := (page - 1) * limit

		filter := bson.M{
			"type":       contentType,
			"isdeleted":  false,
			"visibility": VISIBILITY_EVERYONE,
		}
		findOpts := options.Find().
			SetSort(bson.D{{Key: "datecreated", Value: -1}}).
			SetSkip(skip).
			SetLimit(limit)

		cur, err := getVideosCollection().Find(ctx, filter, findOpts)
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not list "+key)
			return
		}
		videos := []models.Video{}
		if err := cur.All(ctx, &videos); err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not decode "+key)
			return
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{key: videos, "page": page, "limit": limit})
	}
}

// restrictedFor reports whether the subscriber gate applies to this
// caller: public videos and the uploader's own are always allowed.
func restrictedFor(video models.Video, userID string) bool {
	return video.Visibility == VISIBILITY_SUBSCRIBERS && userID != video.UserID
}

func isSubscribed(ctx context.Context, userID, channel string) bool {
	if userID == "" {
		return false
	}
	err := getSubscriptionsCollection().FindOne(ctx, bson.M{"subscriber": userID, "channel": channel}).Err()
	return err == nil
}

// GetVideo resolves the uploader identity at the boundary: an explicit
// second fetch merged into the response, never an ambiguous populated
// field.
func GetVideo() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		oID, err := primitive.ObjectIDFromHex(mux.Vars(r)["VideoID"])
		if err != nil {
			errorResponse(rw, http.StatusNotFound, "video not found")
			return
		}

		video := models.Video{}
		err = getVideosCollection().FindOne(ctx, bson.M{"_id": oID, "isdeleted": false}).Decode(&video)
		if err == mongo.ErrNoDocuments {
			errorResponse(rw, http.StatusNotFound, "video not found")
			return
		}
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not load video")
			return
		}

		// Same visibility rule as listing and search. 404 rather than
		// 403 so restricted videos don't leak their existence.
		userID, _ := callerID(r)
		if restrictedFor(video, userID) && !isSubscribed(ctx, userID, video.UserID) {
			errorResponse(rw, http.StatusNotFound, "video not found")
			return
		}

		users, err := NewMongoUserDirectory().UsersByID(ctx, []string{video.UserID})
		if err != nil {
			users = map[string]models.User{}
		}

		writeJSON(rw, http.StatusOK, models.VideoWithUploader{
			Video:    video,
			Uploader: authorIdentity(users, video.UserID),
		})
	}
}

// DeleteVideo is a soft delete, owner-only.
func DeleteVideo() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID, ok := callerID(r)
		if !ok {
			errorResponse(rw, http.StatusUnauthorized, "authentication required")
			return
		}

		oID, err := primitive.ObjectIDFromHex(mux.Vars(r)["VideoID"])
		if err != nil {
			errorResponse(rw, http.StatusNotFound, "video not found")
			return
		}

		video := models.Video{}
		err = getVideosCollection().FindOne(ctx, bson.M{"_id": oID, "isdeleted": false}).Decode(&video)
		if err == mongo.ErrNoDocuments {
			errorResponse(rw, http.StatusNotFound, "video not found")
			return
		}
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not load video")
			return
		}
		if video.UserID != userID {
			errorResponse(rw, http.StatusForbidden, "only the uploader can delete this video")
			return
		}

		_, err = getVideosCollection().UpdateOne(ctx, bson.M{"_id": oID}, bson.M{"$set": bson.M{"isdeleted": true}})
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not delete video")
			return
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{"success": true})
	}
}
