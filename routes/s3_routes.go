package routes

import (
	"campusmatch_server/controllers"
	"campusmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up routes for photo upload operations under /api/s3
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service, auth mux.MiddlewareFunc) {
	controller := controllers.NewS3Controller(s3Service)

	s3Router := r.PathPrefix("/api/s3").Subrouter()
	s3Router.Use(auth)

	s3Router.HandleFunc("/generate-presigned-url", controller.HandleGenerateUploadURL).Methods("POST")
	s3Router.HandleFunc("/get-presigned-read-url", controller.HandleGenerateReadURL).Methods("GET")
}
