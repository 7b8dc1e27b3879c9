package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"campusmatch_server/models"
)

// RequestService owns the chat request/approval state machine and the
// relation fan-out around it. It talks to the store only through the
// ChatStore and ProfileStore contracts.
type RequestService struct {
	Chats    ChatStore
	Profiles ProfileStore
}

// DeriveChatStatus computes a conversation's effective status from the record
// and the message set. A set record status wins; with no record, any approved
// message wins over request messages, a declined message comes next, and bare
// messages mean a request is outstanding.
func DeriveChatStatus(record *models.Conversation, messages []models.Message) string {
	if record != nil {
		switch record.Status {
		case models.ChatStatusDeclined:
			return models.ChatStatusDeclined
		case models.ChatStatusApproved:
			return models.ChatStatusApproved
		case models.ChatStatusRequest:
			return models.ChatStatusRequest
		}
		// Unset or unrecognized record status: fall through to the messages.
	}

	if len(messages) == 0 {
		return models.ChatStatusUnknown
	}
	for _, msg := range messages {
		if msg.Status == models.ChatStatusApproved {
			return models.ChatStatusApproved
		}
	}
	for _, msg := range messages {
		if msg.Status == models.ChatStatusDeclined {
			return models.ChatStatusDeclined
		}
	}
	return models.ChatStatusRequest
}

// ChatStatus fetches record and messages and derives the effective status.
func (s *RequestService) ChatStatus(ctx context.Context, chatID string) (string, error) {
	record, err := s.Chats.GetConversation(ctx, chatID)
	if err != nil {
		return "", err
	}
	messages, err := s.Chats.GetMessages(ctx, chatID, 0)
	if err != nil {
		return "", err
	}
	return DeriveChatStatus(record, messages), nil
}

// IsBlocked reports the effective block state between two users: true when
// either party's own blocked set contains the other.
func (s *RequestService) IsBlocked(ctx context.Context, userA, userB string) (bool, error) {
	profileA, err := s.Profiles.GetProfile(ctx, userA)
	if err != nil {
		return false, err
	}
	if profileA != nil && profileA.HasBlocked(userB) {
		return true, nil
	}

	profileB, err := s.Profiles.GetProfile(ctx, userB)
	if err != nil {
		return false, err
	}
	return profileB != nil && profileB.HasBlocked(userA), nil
}

// CanSend reports whether userID may send to counterpartID. Blocking wins
// over every conversation status, approved included.
func (s *RequestService) CanSend(ctx context.Context, userID, counterpartID string) (bool, error) {
	if userID == "" {
		return false, ErrNotAuthenticated
	}
	blocked, err := s.IsBlocked(ctx, userID, counterpartID)
	if err != nil {
		return false, err
	}
	if blocked {
		return false, nil
	}

	status, err := s.ChatStatus(ctx, models.ConversationID(userID, counterpartID))
	if err != nil {
		return false, err
	}
	return status != models.ChatStatusDeclined, nil
}

// Send persists an outgoing message. When the conversation is not yet
// approved the message is written as a request and the recipient's
// messageRequests set gains the sender (idempotent union); an approved
// conversation gets the message directly plus a notification intent.
func (s *RequestService) Send(ctx context.Context, senderID, recipientID, text string) (*models.Message, error) {
	if senderID == "" {
		return nil, ErrNotAuthenticated
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	blocked, err := s.IsBlocked(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlocked
	}

	chatID := models.ConversationID(senderID, recipientID)

	record, err := s.Chats.GetConversation(ctx, chatID)
	if err != nil {
		return nil, err
	}
	messages, err := s.Chats.GetMessages(ctx, chatID, 0)
	if err != nil {
		return nil, err
	}

	status := DeriveChatStatus(record, messages)
	if status == models.ChatStatusDeclined {
		return nil, ErrChatDeclined
	}

	msg := models.Message{
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if status == models.ChatStatusApproved {
		msg.Status = models.ChatStatusApproved

		if err := s.Chats.TouchConversation(ctx, chatID); err != nil {
			log.Printf("⚠️ Failed to touch conversation %s: %v", chatID, err)
		}

		persistedID, err := s.Chats.AppendMessage(ctx, msg)
		if err != nil {
			return nil, err
		}
		msg.MessageID = persistedID

		intent := models.NotificationIntent{
			ChatID:      chatID,
			RecipientID: recipientID,
			SenderID:    senderID,
			MessageText: text,
		}
		if err := s.Chats.AddNotification(ctx, intent); err != nil {
			log.Printf("⚠️ Failed to store notification intent for chat %s: %v", chatID, err)
		}

		return &msg, nil
	}

	// Request path: make the conversation record explicit before the message
	// lands, then fan out to the recipient's messageRequests set.
	msg.Status = models.ChatStatusRequest

	if record == nil {
		log.Printf("💬 Creating conversation %s with request from %s", chatID, senderID)
		conv := models.Conversation{
			ChatID:          chatID,
			Participants:    models.ParticipantIDs(chatID),
			Status:          models.ChatStatusRequest,
			RequestSenderID: senderID,
			LastUpdated:     time.Now().UTC(),
		}
		if err := s.Chats.PutConversation(ctx, conv); err != nil {
			return nil, err
		}
	} else if err := s.Chats.TouchConversation(ctx, chatID); err != nil {
		log.Printf("⚠️ Failed to touch conversation %s: %v", chatID, err)
	}

	if err := s.Profiles.AddToSet(ctx, recipientID, models.AttrMessageRequests, senderID); err != nil {
		return nil, fmt.Errorf("failed to record message request on %s: %w", recipientID, err)
	}

	persistedID, err := s.Chats.AppendMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	msg.MessageID = persistedID

	return &msg, nil
}

// Approve accepts a pending request. The record-level status change is the
// durable commit point and is issued first; a failing message batch is
// surfaced as ErrPartialApproval, which a caller recovers from by calling
// Approve again (the batch is idempotent).
func (s *RequestService) Approve(ctx context.Context, chatID, approverID string) error {
	if approverID == "" {
		return ErrNotAuthenticated
	}

	counterpartID := models.CounterpartID(chatID, approverID)
	if counterpartID == "" {
		return fmt.Errorf("user %s is not a participant of chat %s", approverID, chatID)
	}

	log.Printf("✅ Approving chat %s by %s", chatID, approverID)

	record, err := s.Chats.GetConversation(ctx, chatID)
	if err != nil {
		return err
	}
	if record == nil {
		conv := models.Conversation{
			ChatID:          chatID,
			Participants:    models.ParticipantIDs(chatID),
			Status:          models.ChatStatusApproved,
			RequestSenderID: counterpartID,
			LastUpdated:     time.Now().UTC(),
		}
		if err := s.Chats.PutConversation(ctx, conv); err != nil {
			return err
		}
	} else if err := s.Chats.UpdateConversationStatus(ctx, chatID, models.ChatStatusApproved); err != nil {
		return err
	}

	// Record committed; everything below is recoverable.
	_, batchErr := s.Chats.BatchUpdateMessageStatus(ctx, chatID, models.ChatStatusRequest, models.ChatStatusApproved)
	if batchErr != nil {
		log.Printf("⚠️ Message batch failed for chat %s, approval stands: %v", chatID, batchErr)
	}

	if err := s.Profiles.MoveBetweenSets(ctx, approverID, models.AttrMessageRequests, models.AttrLikedUsers, counterpartID); err != nil {
		return fmt.Errorf("failed to move %s into likedUsers of %s: %w", counterpartID, approverID, err)
	}

	if batchErr != nil {
		return fmt.Errorf("%w: %v", ErrPartialApproval, batchErr)
	}
	return nil
}

// Decline rejects a request. The record is created with declined status when
// absent, since declining must succeed for conversations with no record yet.
// Existing messages and the likedUsers relation are left untouched, and only
// the decliner's own messageRequests entry is removed.
func (s *RequestService) Decline(ctx context.Context, chatID, declinerID string) error {
	if declinerID == "" {
		return ErrNotAuthenticated
	}

	counterpartID := models.CounterpartID(chatID, declinerID)
	if counterpartID == "" {
		return fmt.Errorf("user %s is not a participant of chat %s", declinerID, chatID)
	}

	log.Printf("🚫 Declining chat %s by %s", chatID, declinerID)

	record, err := s.Chats.GetConversation(ctx, chatID)
	if err != nil {
		return err
	}
	if record == nil {
		conv := models.Conversation{
			ChatID:       chatID,
			Participants: models.ParticipantIDs(chatID),
			Status:       models.ChatStatusDeclined,
			// The decliner is never the one who initiated the request.
			RequestSenderID: counterpartID,
			LastUpdated:     time.Now().UTC(),
		}
		if err := s.Chats.PutConversation(ctx, conv); err != nil {
			return err
		}
	} else if err := s.Chats.UpdateConversationStatus(ctx, chatID, models.ChatStatusDeclined); err != nil {
		return err
	}

	if err := s.Profiles.RemoveFromSet(ctx, declinerID, models.AttrMessageRequests, counterpartID); err != nil {
		return fmt.Errorf("failed to remove %s from messageRequests of %s: %w", counterpartID, declinerID, err)
	}
	return nil
}

// MarkRead stamps the caller's lastRead marker on the conversation.
func (s *RequestService) MarkRead(ctx context.Context, chatID, userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	return s.Chats.UpdateLastRead(ctx, chatID, userID, time.Now().UTC())
}

// Block adds targetID to userID's own blocked set.
func (s *RequestService) Block(ctx context.Context, userID, targetID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	return s.Profiles.AddToSet(ctx, userID, models.AttrBlockedUsers, targetID)
}

// Unblock clears only the caller's own entry for targetID, then re-evaluates
// both directions: the counterpart's block of the caller survives. Returns
// the still-effective block state.
func (s *RequestService) Unblock(ctx context.Context, userID, targetID string) (bool, error) {
	if userID == "" {
		return false, ErrNotAuthenticated
	}
	if err := s.Profiles.RemoveFromSet(ctx, userID, models.AttrBlockedUsers, targetID); err != nil {
		return false, err
	}
	return s.IsBlocked(ctx, userID, targetID)
}
