package routes

import (
	"campusmatch_server/controllers"
	"campusmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for chat-related operations under /api/chat
func RegisterChatRoutes(r *mux.Router, requests *services.RequestService, chats services.ChatStore, auth mux.MiddlewareFunc) {
	// Initialize the controller with the RequestService
	controller := controllers.NewChatController(requests, chats)

	// Create a subrouter for /api/chat
	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.Use(auth)

	// Define routes and their corresponding handlers
	chatRouter.HandleFunc("/message", controller.HandleSendMessage).Methods("POST")
	chatRouter.HandleFunc("/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/status", controller.HandleGetStatus).Methods("GET")
	chatRouter.HandleFunc("/approve", controller.HandleApprove).Methods("POST")
	chatRouter.HandleFunc("/decline", controller.HandleDecline).Methods("POST")
	chatRouter.HandleFunc("/mark-as-read", controller.HandleMarkRead).Methods("POST")
}
