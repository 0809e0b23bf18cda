package routes

import (
	"tube-service/controllers"
	"tube-service/middleware"

	"github.com/gorilla/mux"
)

func SubscriptionRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/subscriptions/{ChannelID}", middleware.RequireAuth(controllers.ToggleSubscription())).Methods("POST")
	router.HandleFunc("/api/v1/subscriptions", middleware.RequireAuth(controllers.ListSubscriptions())).Methods("GET")
}
