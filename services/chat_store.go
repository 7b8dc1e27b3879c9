package services

import (
	"context"
	"errors"
	"time"

	"campusmatch_server/models"
)

// Errors surfaced by the chat core. All are recoverable; none terminate the
// process.
var (
	// ErrNotAuthenticated means no session user id was available. The
	// operation is an inert no-op; no remote call is attempted.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrEmptyMessage rejects whitespace-only text before any pending or
	// persisted message is created.
	ErrEmptyMessage = errors.New("message text is empty")

	// ErrBlocked means one of the two parties has blocked the other.
	ErrBlocked = errors.New("conversation is blocked")

	// ErrChatDeclined means the conversation was declined; sends are refused.
	ErrChatDeclined = errors.New("conversation was declined")

	// ErrPartialApproval means the conversation record was committed as
	// approved but the message batch did not fully apply. Re-running Approve
	// is safe and idempotent.
	ErrPartialApproval = errors.New("approval committed but message batch incomplete")
)

// ChatStore is the persisted-conversation contract the chat core consumes.
// The DynamoDB implementation lives in ChatService; tests substitute an
// in-memory fake.
type ChatStore interface {
	// GetConversation returns nil without error when no record exists.
	GetConversation(ctx context.Context, chatID string) (*models.Conversation, error)
	PutConversation(ctx context.Context, conv models.Conversation) error
	// UpdateConversationStatus sets the record status and refreshes
	// lastUpdated. The record must exist.
	UpdateConversationStatus(ctx context.Context, chatID, status string) error
	TouchConversation(ctx context.Context, chatID string) error
	UpdateLastRead(ctx context.Context, chatID, userID string, at time.Time) error

	// AppendMessage persists a message and returns its server-assigned id.
	AppendMessage(ctx context.Context, msg models.Message) (string, error)
	// GetMessages returns the full ordered snapshot, ascending by timestamp,
	// with malformed entries dropped.
	GetMessages(ctx context.Context, chatID string, limit int) ([]models.Message, error)
	// BatchUpdateMessageStatus rewrites every message currently in status
	// `from` to status `to` and returns how many were updated. Re-applying is
	// a no-op.
	BatchUpdateMessageStatus(ctx context.Context, chatID, from, to string) (int, error)

	AddNotification(ctx context.Context, intent models.NotificationIntent) error
}

// ProfileStore is the per-user relation-set contract. Set mutations are
// idempotent unions and removals.
type ProfileStore interface {
	// GetProfile returns nil without error when the user does not exist.
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	AddToSet(ctx context.Context, userID, attribute, member string) error
	RemoveFromSet(ctx context.Context, userID, attribute, member string) error
	// MoveBetweenSets removes member from one set and adds it to another in a
	// single update, so the member never appears in both.
	MoveBetweenSets(ctx context.Context, userID, fromAttr, toAttr, member string) error
}
