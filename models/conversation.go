package models

import (
	"sort"
	"strings"
	"time"
)

// ChatIDSeparator joins the sorted participant ids into a chat id. User ids
// never contain it.
const ChatIDSeparator = "_"

// ConversationID derives the chat id for a pair of participants. It is
// commutative: both parties compute the same id independently.
func ConversationID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, ChatIDSeparator)
}

// ParticipantIDs splits a chat id back into its participant ids.
func ParticipantIDs(chatID string) []string {
	return strings.Split(chatID, ChatIDSeparator)
}

// CounterpartID returns the other participant of a chat, or "" when selfID is
// not a participant.
func CounterpartID(chatID, selfID string) string {
	ids := ParticipantIDs(chatID)
	if len(ids) != 2 {
		return ""
	}
	switch selfID {
	case ids[0]:
		return ids[1]
	case ids[1]:
		return ids[0]
	}
	return ""
}

// Conversation is the chat record in the Chats table. It is created implicitly
// on first send and never deleted; decline is a terminal status, not removal.
type Conversation struct {
	ChatID          string               `dynamodbav:"chatId" json:"chatId"`
	Participants    []string             `dynamodbav:"participants" json:"participants"`
	Status          string               `dynamodbav:"status" json:"status"`
	RequestSenderID string               `dynamodbav:"requestSenderId,omitempty" json:"requestSenderId,omitempty"`
	LastUpdated     time.Time            `dynamodbav:"lastUpdated" json:"lastUpdated"`
	LastRead        map[string]time.Time `dynamodbav:"lastRead,omitempty" json:"lastRead,omitempty"`
}

// ChatsTable is the DynamoDB table name for conversation records
const ChatsTable = "Chats"
