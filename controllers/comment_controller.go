package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"unicode/utf8"

	"tube-service/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func AddComment() http.HandlerFunc {
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

		body := models.CommentBody{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			errorResponse(rw, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if body.Comment == "" {
			errorResponse(rw, http.StatusBadRequest, "comment is required")
			return
		}
		if utf8.RuneCountInString(body.Comment) > MAX_COMMENT_LEN {
			errorResponse(rw, http.StatusBadRequest, "comment exceeds 1000 characters")
			return
		}

		comment := models.Comment{
			VideoID:     videoID,
			UserID:      userID,
			Comment:     body.Comment,
			DateCreated: time.Now(),
		}
		res, err := getCommentsCollection().InsertOne(ctx, comment)
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not save comment")
			return
		}
		comment.ID = res.InsertedID.(primitive.ObjectID)

		writeJSON(rw, http.StatusCreated, comment)
	}
}

func ListComments() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		videoID := mux.Vars(r)["VideoID"]
		limit := parseLimit(r, "limit", 50, 200)
		skip := parseOffset(r, "skip")

		filter := bson.M{"videoid": videoID, "isdeleted": false}
		findOpts := options.Find().
			SetSort(bson.D{{Key: "datecreated", Value: -1}}).
			SetSkip(skip).
			SetLimit(limit)

		cur, err := getCommentsCollection().Find(ctx, filter, findOpts)
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not list comments")
			return
		}
		comments := []models.Comment{}
		if err := cur.All(ctx, &comments); err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not decode comments")
			return
		}

		ids := make([]string, 0, len(comments))
		for _, c := range comments {
			ids = append(ids, c.UserID)
		}
		users, err := NewMongoUserDirectory().UsersByID(ctx, uniqueIDs(ids))
		if err != nil {
			users = map[string]models.User{}
		}

		withAuthors := make([]models.CommentWithAuthor, 0, len(comments))
		for _, c := range comments {
			withAuthors = append(withAuthors, models.CommentWithAuthor{
				Comment: c,
				Author:  authorIdentity(users, c.UserID),
			})
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{"comments": withAuthors})
	}
}

// DeleteComment is a soft delete, author-only.
func DeleteComment() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID, ok := callerID(r)
		if !ok {
			errorResponse(rw, http.StatusUnauthorized, "authentication required")
			return
		}

		oID, err := primitive.ObjectIDFromHex(mux.Vars(r)["CommentID"])
		if err != nil {
			errorResponse(rw, http.StatusNotFound, "comment not found")
			return
		}

		comment := models.Comment{}
		err = getCommentsCollection().FindOne(ctx, bson.M{"_id": oID, "isdeleted": false}).Decode(&comment)
		if err == mongo.ErrNoDocuments {
			errorResponse(rw, http.StatusNotFound, "comment not found")
			return
		}
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not load comment")
			return
		}
		if comment.UserID != userID {
			errorResponse(rw, http.StatusForbidden, "only the author can delete this comment")
			return
		}

		_, err = getCommentsCollection().UpdateOne(ctx, bson.M{"_id": oID}, bson.M{"$set": bson.M{"isdeleted": true}})
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not delete comment")
			return
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{"success": true})
	}
}
