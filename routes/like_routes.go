package routes

import (
	"tube-service/controllers"
	"tube-service/middleware"

	"github.com/gorilla/mux"
)

func LikeRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/videos/{VideoID}/like", middleware.RequireAuth(controllers.ToggleLike())).Methods("POST")
	router.HandleFunc("/api/v1/videos/{VideoID}/likes", controllers.CountLikes()).Methods("GET")
}
