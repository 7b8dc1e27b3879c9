package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"campusmatch_server/services"
)

// S3Controller struct
type S3Controller struct {
	S3 *services.S3Service
}

// NewS3Controller initializes the S3 controller
func NewS3Controller(s3 *services.S3Service) *S3Controller {
	return &S3Controller{S3: s3}
}

// HandleGenerateUploadURL - Hand out a presigned PUT URL for a profile photo
func (c *S3Controller) HandleGenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.FileName == "" || request.FileType == "" {
		http.Error(w, `{"error": "fileName and fileType are required"}`, http.StatusBadRequest)
		return
	}

	uploadURL, key, err := c.S3.GenerateUploadURL(r.Context(), request.FileName, request.FileType)
	if err != nil {
		log.Printf("❌ Error generating upload URL: %v", err)
		http.Error(w, `{"error": "Failed to generate upload URL"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"uploadURL": uploadURL,
		"key":       key,
	})
}

// HandleGenerateReadURL - Hand out a presigned GET URL for a stored photo
func (c *S3Controller) HandleGenerateReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, `{"error": "key is required"}`, http.StatusBadRequest)
		return
	}

	readURL, err := c.S3.GenerateReadURL(r.Context(), key)
	if err != nil {
		log.Printf("❌ Error generating read URL: %v", err)
		http.Error(w, `{"error": "Failed to generate read URL"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"readURL": readURL})
}
