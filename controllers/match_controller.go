package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"campusmatch_server/middleware"
	"campusmatch_server/services"
)

// MatchController struct
type MatchController struct {
	Matches *services.MatchService
}

// NewMatchController initializes the match controller
func NewMatchController(matches *services.MatchService) *MatchController {
	return &MatchController{Matches: matches}
}

// HandleGetLikedUsers - Fetch the caller's approved matches with unread flags
func (c *MatchController) HandleGetLikedUsers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	matches, err := c.Matches.GetLikedUsers(r.Context(), userID)
	if err != nil {
		writeMatchError(w, err, "Failed to fetch matches")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(matches)
}

// HandleGetMessageRequests - Fetch senders awaiting the caller's decision
func (c *MatchController) HandleGetMessageRequests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	requests, err := c.Matches.GetMessageRequests(r.Context(), userID)
	if err != nil {
		writeMatchError(w, err, "Failed to fetch message requests")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requests)
}

// HandleGetDiscoverProfiles - Fetch swipe candidates for the caller
func (c *MatchController) HandleGetDiscoverProfiles(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	profiles, err := c.Matches.GetDiscoverProfiles(r.Context(), userID)
	if err != nil {
		writeMatchError(w, err, "Failed to fetch discover profiles")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profiles)
}

func writeMatchError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, services.ErrNotAuthenticated) {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}
	log.Printf("❌ %s: %v", fallback, err)
	http.Error(w, `{"error": "`+fallback+`"}`, http.StatusInternalServerError)
}
