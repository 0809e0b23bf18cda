package routes

import (
	"tube-service/controllers"
	"tube-service/middleware"

	"github.com/gorilla/mux"
)

func HistoryRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/history/{VideoID}", middleware.RequireAuth(controllers.RecordWatch())).Methods("POST")
	router.HandleFunc("/api/v1/history", middleware.RequireAuth(controllers.ListHistory())).Methods("GET")
}
