package controllers

import (
	"context"
	"net/http"
	"time"

	"tube-service/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ToggleSubscription subscribes the caller to a channel, or unsubscribes
// when already subscribed.
func ToggleSubscription() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID, ok := callerID(r)
		if !ok {
			errorResponse(rw, http.StatusUnauthorized, "authentication required")
			return
		}
		channel := mux.Vars(r)["ChannelID"]
		if channel == userID {
			errorResponse(rw, http.StatusBadRequest, "cannot subscribe to your own channel")
			return
		}

		existing := models.Subscription{}
		err := getSubscriptionsCollection().FindOne(ctx, bson.M{"subscriber": userID, "channel": channel}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			sub := models.Subscription{
				Subscriber:  userID,
				Channel:     channel,
				DateCreated: time.Now(),
			}
			if _, err := getSubscriptionsCollection().InsertOne(ctx, sub); err != nil {
				errorResponse(rw, http.StatusInternalServerError, "could not subscribe")
				return
			}
			writeJSON(rw, http.StatusOK, map[string]interface{}{"subscribed": true})
			return
		}
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not check subscription")
			return
		}

		if _, err := getSubscriptionsCollection().DeleteOne(ctx, bson.M{"_id": existing.ID}); err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not unsubscribe")
			return
		}
		writeJSON(rw, http.StatusOK, map[string]interface{}{"subscribed": false})
	}
}

func ListSubscriptions() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID, ok := callerID(r)
		if !ok {
			errorResponse(rw, http.StatusUnauthorized, "authentication required")
			return
		}

		cur, err := getSubscriptionsCollection().Find(ctx, bson.M{"subscriber": userID})
		if err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not list subscriptions")
			return
		}
		subs := []models.Subscription{}
		if err := cur.All(ctx, &subs); err != nil {
			errorResponse(rw, http.StatusInternalServerError, "could not decode subscriptions")
			return
		}

		channels := make([]string, 0, len(subs))
		for _, s := range subs {
			channels = append(channels, s.Channel)
		}

		writeJSON(rw, http.StatusOK, map[string]interface{}{"channels": channels})
	}
}
