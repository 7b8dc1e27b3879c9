package routes

import (
	"campusmatch_server/controllers"
	"campusmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match-related operations under /api/match
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, auth mux.MiddlewareFunc) {
	// Initialize the controller with the MatchService
	controller := controllers.NewMatchController(matchService)

	// Create a subrouter for /api/match
	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.Use(auth)

	// Define routes and their corresponding handlers
	matchRouter.HandleFunc("/connections", controller.HandleGetLikedUsers).Methods("GET")
	matchRouter.HandleFunc("/requests", controller.HandleGetMessageRequests).Methods("GET")
	matchRouter.HandleFunc("/discover", controller.HandleGetDiscoverProfiles).Methods("GET")
}
