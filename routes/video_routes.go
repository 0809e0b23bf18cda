package routes

import (
	"tube-service/controllers"
	"tube-service/middleware"

	"github.com/gorilla/mux"
)

func VideoRoutes(router *mux.Router) {
	// trending before the {VideoID} catch-all
	router.HandleFunc("/api/v1/videos/trending", controllers.TrendingVideos()).Methods("GET")

	router.HandleFunc("/api/v1/videos", middleware.RequireAuth(controllers.PostVideo())).Methods("POST")
	router.HandleFunc("/api/v1/videos", controllers.ListVideos()).Methods("GET")
	router.HandleFunc("/api/v1/videos/{VideoID}", controllers.GetVideo()).Methods("GET")
	router.HandleFunc("/api/v1/videos/{VideoID}", middleware.RequireAuth(controllers.DeleteVideo())).Methods("DELETE")
	router.HandleFunc("/api/v1/videos/{VideoID}/view", controllers.RegisterVideoView()).Methods("POST")

	router.HandleFunc("/api/v1/shorts", middleware.RequireAuth(controllers.PostShort())).Methods("POST")
	router.HandleFunc("/api/v1/shorts", controllers.ListShorts()).Methods("GET")
	router.HandleFunc("/api/v1/shorts/{ShortID}/view", controllers.RegisterShortView()).Methods("POST")
}
