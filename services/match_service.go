package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"campusmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"campusmatch_server/utils"
)

// MatchService builds the matches and message-requests surfaces: counterpart
// profile cards enriched with conversation state and an unread flag.
type MatchService struct {
	Dynamo   *DynamoService
	Chats    ChatStore
	Profiles ProfileStore
}

// GetLikedUsers returns the caller's approved matches, most recently active
// first, each flagged when the counterpart has written since the caller last
// read the conversation.
func (ms *MatchService) GetLikedUsers(ctx context.Context, userID string) ([]models.MatchSummary, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	profile, err := ms.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("user profile not found for userId: %s", userID)
	}

	summaries, err := ms.summarize(ctx, userID, profile.LikedUsers)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastUpdated.After(summaries[j].LastUpdated)
	})
	return summaries, nil
}

// GetMessageRequests returns the senders awaiting the caller's decision.
func (ms *MatchService) GetMessageRequests(ctx context.Context, userID string) ([]models.MatchSummary, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	profile, err := ms.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("user profile not found for userId: %s", userID)
	}

	return ms.summarize(ctx, userID, profile.MessageRequests)
}

func (ms *MatchService) summarize(ctx context.Context, userID string, counterpartIDs []string) ([]models.MatchSummary, error) {
	summaries := make([]models.MatchSummary, 0, len(counterpartIDs))

	for _, counterpartID := range counterpartIDs {
		counterpart, err := ms.Profiles.GetProfile(ctx, counterpartID)
		if err != nil || counterpart == nil {
			log.Printf("⚠️ Skipping counterpart %s: %v", counterpartID, err)
			continue
		}

		chatID := models.ConversationID(userID, counterpartID)
		summary := models.MatchSummary{
			UserID:     counterpartID,
			Name:       counterpart.Name,
			Photos:     counterpart.Photos,
			Colleges:   counterpart.Colleges,
			ChatID:     chatID,
			ChatStatus: models.ChatStatusUnknown,
		}

		record, err := ms.Chats.GetConversation(ctx, chatID)
		if err != nil {
			log.Printf("⚠️ Failed to fetch conversation %s: %v", chatID, err)
			summaries = append(summaries, summary)
			continue
		}

		messages, err := ms.Chats.GetMessages(ctx, chatID, 0)
		if err != nil {
			log.Printf("⚠️ Failed to fetch messages for %s: %v", chatID, err)
			messages = nil
		}

		summary.ChatStatus = DeriveChatStatus(record, messages)
		if record != nil {
			summary.LastUpdated = record.LastUpdated
		}
		summary.HasUnread = hasUnread(record, messages, userID)

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// hasUnread reports whether the last counterpart message is newer than the
// user's lastRead marker.
func hasUnread(record *models.Conversation, messages []models.Message, userID string) bool {
	if len(messages) == 0 {
		return false
	}

	var lastRead time.Time
	if record != nil {
		lastRead = record.LastRead[userID]
	}

	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].SenderID != userID {
			return messages[i].CreatedAt.After(lastRead)
		}
	}
	return false
}

// GetDiscoverProfiles scans for swipe candidates, excluding the caller and
// everyone already related to them (liked, requested, or blocked in either
// direction of the caller's own sets).
func (ms *MatchService) GetDiscoverProfiles(ctx context.Context, userID string) ([]models.UserProfile, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	profile, err := ms.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("user profile not found for userId: %s", userID)
	}

	exclude := map[string]struct{}{userID: {}}
	for _, id := range profile.LikedUsers {
		exclude[id] = struct{}{}
	}
	for _, id := range profile.MessageRequests {
		exclude[id] = struct{}{}
	}
	for _, id := range profile.BlockedUsers {
		exclude[id] = struct{}{}
	}

	var profiles []models.UserProfile
	err = ms.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		candidateID := utils.ExtractString(item, "userId")
		if candidateID == "" {
			return false
		}
		if _, excluded := exclude[candidateID]; excluded {
			return false
		}
		// Candidates who blocked the caller are filtered out too.
		for _, blocked := range utils.ExtractStringSet(item, models.AttrBlockedUsers) {
			if blocked == userID {
				return false
			}
		}
		return true
	}, nil, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discover profiles: %w", err)
	}

	return profiles, nil
}
