package routes

import (
	"tube-service/controllers"
	"tube-service/middleware"

	"github.com/gorilla/mux"
)

func CommentRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/videos/{VideoID}/comments", middleware.RequireAuth(controllers.AddComment())).Methods("POST")
	router.HandleFunc("/api/v1/videos/{VideoID}/comments", controllers.ListComments()).Methods("GET")
	router.HandleFunc("/api/v1/comments/{CommentID}", middleware.RequireAuth(controllers.DeleteComment())).Methods("DELETE")
}
