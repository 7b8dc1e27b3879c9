package routes

import (
	"campusmatch_server/controllers"
	"campusmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for user profile operations under /api/profiles
func RegisterUserProfileRoutes(r *mux.Router, profiles *services.UserProfileService, requests *services.RequestService, auth mux.MiddlewareFunc) {
	// Initialize the controller with the provided UserProfileService
	controller := controllers.NewUserProfileController(profiles, requests)

	// Create a subrouter for the /api/profiles base path
	profileRouter := r.PathPrefix("/api/profiles").Subrouter()
	profileRouter.Use(auth)

	// Define routes and their corresponding handlers
	profileRouter.HandleFunc("", controller.HandleAddUserProfile).Methods("POST")
	profileRouter.HandleFunc("", controller.HandleGetUserProfile).Methods("GET")
	profileRouter.HandleFunc("", controller.HandleUpdateUserProfile).Methods("PATCH")
	profileRouter.HandleFunc("", controller.HandleDeleteUserProfile).Methods("DELETE")
	profileRouter.HandleFunc("/photos", controller.HandleSetPhotos).Methods("PUT")
	profileRouter.HandleFunc("/block", controller.HandleBlockUser).Methods("POST")
	profileRouter.HandleFunc("/unblock", controller.HandleUnblockUser).Methods("POST")
}
