package routes

import (
	"tube-service/controllers"
	"tube-service/middleware"

	"github.com/gorilla/mux"
)

func LiveRoutes(router *mux.Router, live *controllers.LiveController, chat *controllers.ChatController) {
	router.HandleFunc("/api/v1/live", middleware.RequireAuth(live.CreateStream())).Methods("POST")
	router.HandleFunc("/api/v1/live", live.ListStreams()).Methods("GET")
	router.HandleFunc("/api/v1/live/start", middleware.RequireAuth(live.StartStream())).Methods("PATCH")
	router.HandleFunc("/api/v1/live/end", middleware.RequireAuth(live.EndStream())).Methods("POST")
	router.HandleFunc("/api/v1/live/chat/{StreamID}", chat.ListMessages()).Methods("GET")
	router.HandleFunc("/api/v1/live/chat/{StreamID}", middleware.RequireAuth(chat.PostMessage())).Methods("POST")
	router.HandleFunc("/api/v1/live/{StreamID}/viewers", live.ApplyViewerAction()).Methods("POST")
	router.HandleFunc("/api/v1/live/{StreamID}/viewers", live.GetViewerCount()).Methods("GET")
}
