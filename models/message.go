package models

import (
	"strings"
	"time"
)

// Message is a chat message. Persisted messages carry a server-assigned
// MessageID; pending local copies carry a temporary one until the store
// confirms them.
type Message struct {
	ChatID    string    `dynamodbav:"chatId" json:"chatId"`       // Partition Key
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"` // Sort Key
	MessageID string    `dynamodbav:"messageId" json:"messageId"`
	SenderID  string    `dynamodbav:"senderId" json:"senderId"`
	Text      string    `dynamodbav:"text" json:"text"`
	Status    string    `dynamodbav:"status" json:"status"` // request, approved, declined; sending/failed locally
}

// Valid reports whether a message read back from the store carries the fields
// the merge view requires. Entries failing this are dropped, not surfaced.
func (m Message) Valid() bool {
	return strings.TrimSpace(m.Text) != "" && m.SenderID != "" && m.ChatID != ""
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"
