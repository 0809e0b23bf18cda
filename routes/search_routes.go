package routes

import (
	"tube-service/controllers"

	"github.com/gorilla/mux"
)

func SearchRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/search", controllers.SearchContent()).Methods("GET")
}
