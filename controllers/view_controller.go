package controllers

import (
	"context"
	"net/http"
	"time"

	"tube-service/configs"
	"tube-service/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dedup windows: a repeat view by the same subject inside the window is
// not counted again. Expiry is the time-range query itself, the witness
// records are never read back any other way.
const (
	videoDedupWindow = time.Hour
	shortDedupWindow = 30 * time.Minute
)

func dedupWindowFor(contentType string) time.Duration {
	if contentType == TYPE_SHORT {
		return shortDedupWindow
	}
	return videoDedupWindow
}

func RegisterVideoView() http.HandlerFunc {
	return registerView(TYPE_VIDEO, "VideoID")
}

func RegisterShortView() http.HandlerFunc {
	return registerView(TYPE_SHORT, "ShortID")
}

func registerView(contentType, varName string) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		contentID := mux.Vars(r)[varName]
		oID, err := primitive.ObjectIDFromHex(contentID)
		if err != nil {
			errorResponse(rw, http.StatusNotFound, "content not found")
			return
		}

		video := models.Video{}
		err = getVideosCollection().FindOne(ctx, bson.M{"_id": oID, "type": contentType, "isdeleted": false}).Decode(&video)
		if err == mongo.ErrNoDocuments {
			errorResponse(rw, http.StatusNotFound, "content not found")
			return
		}
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not load content")
			return
		}

		// Subject is the authenticated user when there is one, the
		// client network address otherwise.
		subject, ok := callerID(r)
		if !ok {
			subject = clientSubject(r)
		}

		window := dedupWindowFor(contentType)
		witnessFilter := bson.M{
			"contentid":   contentID,
			"contenttype": contentType,
			"subject":     subject,
			"datecreated": bson.M{"$gte": time.Now().Add(-window)},
		}

		err = getViewsCollection().FindOne(ctx, witnessFilter).Err()
		if err == nil {
			// Already viewed inside the window.
			writeJSON(rw, http.StatusOK, map[string]interface{}{"counted": false, "views": video.Views})
			return
		}
		if err != mongo.ErrNoDocuments {
			errorResponse(rw, http.StatusInternalServerError, "could not check view")
			return
		}

		witness := models.View{
			ContentID:   contentID,
			ContentType: contentType,
			Subject:     subject,
			DateCreated: time.Now(),
		}
		if _, err := getViewsCollection().InsertOne(ctx, witness); err != nil {
			// A racing insert means this subject was already counted.
			configs.LogWithContext("tube-service", "views").Warn("witness insert failed, treating as already viewed: ", err)
			writeJSON(rw, http.StatusOK, map[string]interface{}{"counted": false, "views": video.Views})
			return
		}

		if _, err := getVideosCollection().UpdateOne(ctx, bson.M{"_id": oID}, bson.M{"$inc": bson.M{"views": 1}}); err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not count view")
			return
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{"counted": true, "views": video.Views + 1})
	}
}
