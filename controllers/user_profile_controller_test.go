package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterProfileUpdatesDropsProtectedFields(t *testing.T) {
	filtered := filterProfileUpdates(map[string]string{
		"name":            "Alice",
		"bio":             "hi there",
		"userId":          "someone-else",
		"likedUsers":      "mallory",
		"messageRequests": "mallory",
		"blockedUsers":    "",
		"photos":          "http://evil.example/x.png",
	})

	// Relation sets and identity never pass through a scalar PATCH.
	assert.Equal(t, map[string]string{"name": "Alice", "bio": "hi there"}, filtered)
}

func TestFilterProfileUpdatesEmptyWhenNothingAllowed(t *testing.T) {
	filtered := filterProfileUpdates(map[string]string{"likedUsers": "mallory"})
	assert.Empty(t, filtered)
}
