package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"campusmatch_server/middleware"
	"campusmatch_server/models"
	"campusmatch_server/services"
)

// UserProfileController struct
type UserProfileController struct {
	Profiles *services.UserProfileService
	Requests *services.RequestService
}

// NewUserProfileController initializes the user profile controller
func NewUserProfileController(profiles *services.UserProfileService, requests *services.RequestService) *UserProfileController {
	return &UserProfileController{Profiles: profiles, Requests: requests}
}

// HandleAddUserProfile - Create the caller's profile
func (c *UserProfileController) HandleAddUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	// A caller can only create their own profile.
	profile.UserID = userID

	created, err := c.Profiles.AddUserProfile(r.Context(), profile)
	if err != nil {
		log.Printf("❌ Error creating profile for %s: %v", userID, err)
		http.Error(w, `{"error": "Failed to create profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// HandleGetUserProfile - Fetch a profile by user id
func (c *UserProfileController) HandleGetUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = middleware.UserID(r)
	}
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	profile, err := c.Profiles.GetProfile(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Error fetching profile %s: %v", userID, err)
		http.Error(w, `{"error": "Failed to fetch profile"}`, http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.Error(w, `{"error": "Profile not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// Scalar profile fields a client may PATCH directly. Identity, photos, and
// the relation sets are managed by dedicated endpoints; letting them through
// here would overwrite a string set with a plain string.
var allowedProfileFields = map[string]bool{
	"name":       true,
	"emailId":    true,
	"bio":        true,
	"dob":        true,
	"gender":     true,
	"lookingFor": true,
}

func filterProfileUpdates(fields map[string]string) map[string]string {
	filtered := make(map[string]string, len(fields))
	for field, value := range fields {
		if allowedProfileFields[field] {
			filtered[field] = value
		}
	}
	return filtered
}

// HandleUpdateUserProfile - Update scalar fields on the caller's profile
func (c *UserProfileController) HandleUpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	fields = filterProfileUpdates(fields)
	if len(fields) == 0 {
		http.Error(w, `{"error": "No updatable fields in request"}`, http.StatusBadRequest)
		return
	}

	updated, err := c.Profiles.UpdateUserProfile(r.Context(), userID, fields)
	if err != nil {
		log.Printf("❌ Error updating profile %s: %v", userID, err)
		http.Error(w, `{"error": "Failed to update profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// HandleSetPhotos - Replace the caller's photo list
func (c *UserProfileController) HandleSetPhotos(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var request struct {
		Photos []string `json:"photos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if err := c.Profiles.SetPhotos(r.Context(), userID, request.Photos); err != nil {
		log.Printf("❌ Error updating photos for %s: %v", userID, err)
		http.Error(w, `{"error": "Failed to update photos"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// HandleDeleteUserProfile - Delete the caller's profile
func (c *UserProfileController) HandleDeleteUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	if err := c.Profiles.DeleteUserProfile(r.Context(), userID); err != nil {
		log.Printf("❌ Error deleting profile %s: %v", userID, err)
		http.Error(w, `{"error": "Failed to delete profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}

// HandleBlockUser - Block a counterpart
func (c *UserProfileController) HandleBlockUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var request struct {
		TargetID string `json:"targetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.TargetID == "" {
		http.Error(w, `{"error": "targetId is required"}`, http.StatusBadRequest)
		return
	}

	if err := c.Requests.Block(r.Context(), userID, request.TargetID); err != nil {
		if errors.Is(err, services.ErrNotAuthenticated) {
			http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
			return
		}
		log.Printf("❌ Error blocking %s by %s: %v", request.TargetID, userID, err)
		http.Error(w, `{"error": "Failed to block user"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "blocked"})
}

// HandleUnblockUser - Remove the caller's block entry. The response reports
// whether the conversation remains blocked by the other side.
func (c *UserProfileController) HandleUnblockUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var request struct {
		TargetID string `json:"targetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.TargetID == "" {
		http.Error(w, `{"error": "targetId is required"}`, http.StatusBadRequest)
		return
	}

	stillBlocked, err := c.Requests.Unblock(r.Context(), userID, request.TargetID)
	if err != nil {
		if errors.Is(err, services.ErrNotAuthenticated) {
			http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
			return
		}
		log.Printf("❌ Error unblocking %s by %s: %v", request.TargetID, userID, err)
		http.Error(w, `{"error": "Failed to unblock user"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       "unblocked",
		"stillBlocked": stillBlocked,
	})
}
