package controllers

import (
	"context"
	"net/http"
	"time"

	"tube-service/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ToggleLike inserts a like when none exists and removes it otherwise.
func ToggleLike() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID, ok := callerID(r)
		if !ok {
			errorResponse(rw, http.StatusUnauthorized, "authentication required")
			return
		}
		videoID := mux.Vars(r)["VideoID"]

		oID, err := primitive.ObjectIDFromHex(videoID)
		if err != nil {
			errorResponse(rw, http.StatusNotFound, "video not found")
			return
		}
		err = getVideosCollection().FindOne(ctx, bson.M{"_id": oID, "isdeleted": false}).Err()
		if err == mongo.ErrNoDocuments {
			errorResponse(rw, http.StatusNotFound, "video not found")
			return
		}
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not load video")
			return
		}

		existing := models.Like{}
		err = getLikesCollection().FindOne(ctx, bson.M{"userid": userID, "videoid": videoID}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			like := models.Like{
				UserID:      userID,
				VideoID:     videoID,
				DateCreated: time.Now(),
			}
			if _, err := getLikesCollection().InsertOne(ctx, like); err != nil {
				errorResponse(rw, http.StatusInternalServerError, "could not save like")
				return
			}
			writeJSON(rw, http.StatusOK, map[string]interface{}{"liked": true})
			return
		}
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not check like")
			return
		}

		if _, err := getLikesCollection().DeleteOne(ctx, bson.M{"_id": existing.ID}); err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not remove like")
			return
		}
		writeJSON(rw, http.StatusOK, map[string]interface{}{"liked": false})
	}
}

func CountLikes() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		videoID := mux.Vars(r)["VideoID"]
		count, err := getLikesCollection().CountDocuments(ctx, bson.M{"videoid": videoID})
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not count likes")
			return
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{"likes": count})
	}
}
