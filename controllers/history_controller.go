package controllers

import (
	"context"
	"net/http"
	"time"

	"tube-service/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordWatch upserts the watch entry: one row per user+video, bumped to
// the latest watch time on rewatch.
func RecordWatch() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID, ok := callerID(r)
		if !ok {
			errorResponse(rw, http.StatusUnauthorized, "authentication required")
			return
		}
		videoID := mux.Vars(r)["VideoID"]
		if _, err := primitive.ObjectIDFromHex(videoID); err != nil {
			errorResponse(rw, http.StatusNotFound, "video not found")
			return
		}

		filter := bson.M{"userid": userID, "videoid": videoID}
		update := bson.M{"$set": bson.M{"watchedat": time.Now()}}
		opts := options.Update().SetUpsert(true)

		if _, err := getHistoryCollection().UpdateOne(ctx, filter, update, opts); err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not record watch")
			return
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{"success": true})
	}
}

func ListHistory() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID, ok := callerID(r)
		if !ok {
			errorResponse(rw, http.StatusUnauthorized, "authentication required")
			return
		}
		limit := parseLimit(r, "limit", 50, 200)

		findOpts := options.Find().
			SetSort(bson.D{{Key: "watchedat", Value: -1}}).
			SetLimit(limit)

		cur, err := getHistoryCollection().Find(ctx, bson.M{"userid": userID}, findOpts)
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not list history")
			return
		}
		entries := []models.HistoryEntry{}
		if err := cur.All(ctx, &entries); err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not decode history")
			return
		}

		// Merge video metadata at the boundary. Deleted videos just show
		// as entries without a video.
		oIDs := []primitive.ObjectID{}
		for _, e := range entries {
			if oID, err := primitive.ObjectIDFromHex(e.VideoID); err == nil {
				oIDs = append(oIDs, oID)
			}
		}
		videosByID := map[string]models.Video{}
		if len(oIDs) > 0 {
			vcur, err := getVideosCollection().Find(ctx, bson.M{"_id": bson.M{"$in": oIDs}, "isdeleted": false})
			if err == nil {
				videos := []models.Video{}
				if err := vcur.All(ctx, &videos); err == nil {
					for _, v := range videos {
						videosByID[v.ID.Hex()] = v
					}
				}
			}
		}

		withVideos := make([]models.HistoryEntryWithVideo, 0, len(entries))
		for _, e := range entries {
			item := models.HistoryEntryWithVideo{HistoryEntry: e}
			if v, ok := videosByID[e.VideoID]; ok {
				video := v
				item.Video = &video
			}
			withVideos = append(withVideos, item)
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{"history": withVideos})
	}
}
