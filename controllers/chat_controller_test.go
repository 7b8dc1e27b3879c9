package controllers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"campusmatch_server/middleware"
	"campusmatch_server/models"
	"campusmatch_server/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChatStore serves one fixed conversation for handler tests.
type stubChatStore struct {
	conv *models.Conversation
	msgs []models.Message
}

func (s *stubChatStore) GetConversation(context.Context, string) (*models.Conversation, error) {
	return s.conv, nil
}
func (s *stubChatStore) PutConversation(context.Context, models.Conversation) error { return nil }
func (s *stubChatStore) UpdateConversationStatus(context.Context, string, string) error {
	return nil
}
func (s *stubChatStore) TouchConversation(context.Context, string) error { return nil }
func (s *stubChatStore) UpdateLastRead(context.Context, string, string, time.Time) error {
	return nil
}
func (s *stubChatStore) AppendMessage(context.Context, models.Message) (string, error) {
	return "srv-1", nil
}
func (s *stubChatStore) GetMessages(context.Context, string, int) ([]models.Message, error) {
	return s.msgs, nil
}
func (s *stubChatStore) BatchUpdateMessageStatus(context.Context, string, string, string) (int, error) {
	return 0, nil
}
func (s *stubChatStore) AddNotification(context.Context, models.NotificationIntent) error {
	return nil
}

type stubProfileStore struct {
	profiles map[string]*models.UserProfile
}

func (s *stubProfileStore) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	return s.profiles[userID], nil
}
func (s *stubProfileStore) AddToSet(context.Context, string, string, string) error      { return nil }
func (s *stubProfileStore) RemoveFromSet(context.Context, string, string, string) error { return nil }
func (s *stubProfileStore) MoveBetweenSets(context.Context, string, string, string, string) error {
	return nil
}

func statusResponse(t *testing.T, chats *stubChatStore, profiles *stubProfileStore, userID string) map[string]interface{} {
	t.Helper()

	requests := &services.RequestService{Chats: chats, Profiles: profiles}
	controller := NewChatController(requests, chats)

	req := httptest.NewRequest("GET", "/api/chat/status?chatId=alice_bob", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rr := httptest.NewRecorder()

	controller.HandleGetStatus(rr, req)
	require.Equal(t, 200, rr.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	return response
}

func TestStatusReportsSendEligibility(t *testing.T) {
	chats := &stubChatStore{
		conv: &models.Conversation{ChatID: "alice_bob", Status: models.ChatStatusApproved},
	}
	profiles := &stubProfileStore{profiles: map[string]*models.UserProfile{
		"alice": {UserID: "alice"},
		"bob":   {UserID: "bob"},
	}}

	response := statusResponse(t, chats, profiles, "alice")
	assert.Equal(t, models.ChatStatusApproved, response["status"])
	assert.Equal(t, false, response["blocked"])
	assert.Equal(t, true, response["canSend"])
}

func TestStatusBlockedDisablesSendDespiteApproval(t *testing.T) {
	chats := &stubChatStore{
		conv: &models.Conversation{ChatID: "alice_bob", Status: models.ChatStatusApproved},
	}
	profiles := &stubProfileStore{profiles: map[string]*models.UserProfile{
		"alice": {UserID: "alice"},
		"bob":   {UserID: "bob", BlockedUsers: []string{"alice"}},
	}}

	response := statusResponse(t, chats, profiles, "alice")
	assert.Equal(t, true, response["blocked"])
	assert.Equal(t, false, response["canSend"])
}

func TestStatusDeclinedDisablesSend(t *testing.T) {
	chats := &stubChatStore{
		conv: &models.Conversation{ChatID: "alice_bob", Status: models.ChatStatusDeclined},
	}
	profiles := &stubProfileStore{profiles: map[string]*models.UserProfile{
		"alice": {UserID: "alice"},
		"bob":   {UserID: "bob"},
	}}

	response := statusResponse(t, chats, profiles, "alice")
	assert.Equal(t, models.ChatStatusDeclined, response["status"])
	assert.Equal(t, false, response["canSend"])
}

func TestStatusRejectsNonParticipant(t *testing.T) {
	chats := &stubChatStore{}
	profiles := &stubProfileStore{profiles: map[string]*models.UserProfile{}}
	requests := &services.RequestService{Chats: chats, Profiles: profiles}
	controller := NewChatController(requests, chats)

	req := httptest.NewRequest("GET", "/api/chat/status?chatId=alice_bob", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "mallory"))
	rr := httptest.NewRecorder()

	controller.HandleGetStatus(rr, req)
	assert.Equal(t, 403, rr.Code)
}
