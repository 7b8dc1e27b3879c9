package models

import "time"

// MatchSummary combines a counterpart's profile card with the state of the
// shared conversation, for the matches and message-requests lists.
type MatchSummary struct {
	UserID      string    `json:"userId"`
	Name        string    `json:"name,omitempty"`
	Photos      []string  `json:"photos,omitempty"`
	Colleges    []string  `json:"colleges,omitempty"`
	ChatID      string    `json:"chatId"`
	ChatStatus  string    `json:"chatStatus"`
	LastUpdated time.Time `json:"lastUpdated,omitempty"`
	HasUnread   bool      `json:"hasUnread"`
}
