package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationIDIsCommutative(t *testing.T) {
	assert.Equal(t, ConversationID("alice", "bob"), ConversationID("bob", "alice"))
	assert.Equal(t, "alice_bob", ConversationID("bob", "alice"))
}

func TestParticipantIDsRoundTrip(t *testing.T) {
	chatID := ConversationID("carol", "bob")
	assert.Equal(t, []string{"bob", "carol"}, ParticipantIDs(chatID))
}

func TestCounterpartID(t *testing.T) {
	chatID := ConversationID("alice", "bob")

	assert.Equal(t, "bob", CounterpartID(chatID, "alice"))
	assert.Equal(t, "alice", CounterpartID(chatID, "bob"))

	// Non-participants get no counterpart.
	assert.Equal(t, "", CounterpartID(chatID, "mallory"))
}

func TestMessageValid(t *testing.T) {
	msg := Message{ChatID: "alice_bob", SenderID: "alice", Text: "hey"}
	assert.True(t, msg.Valid())

	assert.False(t, Message{ChatID: "alice_bob", SenderID: "alice", Text: "   "}.Valid())
	assert.False(t, Message{ChatID: "alice_bob", Text: "hey"}.Valid())
	assert.False(t, Message{SenderID: "alice", Text: "hey"}.Valid())
}

func TestHasBlocked(t *testing.T) {
	profile := UserProfile{BlockedUsers: []string{"mallory"}}
	assert.True(t, profile.HasBlocked("mallory"))
	assert.False(t, profile.HasBlocked("bob"))
}
