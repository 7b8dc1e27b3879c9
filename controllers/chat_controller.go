package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"campusmatch_server/middleware"
	"campusmatch_server/models"
	"campusmatch_server/services"
)

// ChatController struct
type ChatController struct {
	Requests *services.RequestService
	Chats    services.ChatStore
}

// NewChatController initializes the chat controller
func NewChatController(requests *services.RequestService, chats services.ChatStore) *ChatController {
	return &ChatController{Requests: requests, Chats: chats}
}

// HandleSendMessage - Sends a message to a counterpart, fanning out a request
// when the conversation is not yet approved
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var request struct {
		RecipientID string `json:"recipientId"`
		Text        string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.RecipientID == "" {
		http.Error(w, `{"error": "recipientId is required"}`, http.StatusBadRequest)
		return
	}

	message, err := c.Requests.Send(r.Context(), userID, request.RecipientID, request.Text)
	if err != nil {
		writeChatError(w, err, "Failed to send message")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(message)
}

// HandleGetMessages - Fetch the ordered message snapshot for a chat
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	chatID := r.URL.Query().Get("chatId")
	limitStr := r.URL.Query().Get("limit")

	if chatID == "" {
		http.Error(w, `{"error": "chatId is required"}`, http.StatusBadRequest)
		return
	}
	if models.CounterpartID(chatID, userID) == "" {
		http.Error(w, `{"error": "Not a participant of this chat"}`, http.StatusForbidden)
		return
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 0 // service default
	}

	messages, err := c.Chats.GetMessages(r.Context(), chatID, limit)
	if err != nil {
		log.Printf("❌ Error fetching messages: %v", err)
		http.Error(w, `{"error": "Failed to fetch messages"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// HandleGetStatus - Report the derived chat status and effective block state
func (c *ChatController) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	chatID := r.URL.Query().Get("chatId")

	if chatID == "" {
		http.Error(w, `{"error": "chatId is required"}`, http.StatusBadRequest)
		return
	}
	counterpartID := models.CounterpartID(chatID, userID)
	if counterpartID == "" {
		http.Error(w, `{"error": "Not a participant of this chat"}`, http.StatusForbidden)
		return
	}

	status, err := c.Requests.ChatStatus(r.Context(), chatID)
	if err != nil {
		http.Error(w, `{"error": "Failed to derive chat status"}`, http.StatusInternalServerError)
		return
	}

	blocked, err := c.Requests.IsBlocked(r.Context(), userID, counterpartID)
	if err != nil {
		http.Error(w, `{"error": "Failed to check block status"}`, http.StatusInternalServerError)
		return
	}

	canSend, err := c.Requests.CanSend(r.Context(), userID, counterpartID)
	if err != nil {
		writeChatError(w, err, "Failed to evaluate send eligibility")
		return
	}

	record, err := c.Chats.GetConversation(r.Context(), chatID)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch conversation"}`, http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"chatId":  chatID,
		"status":  status,
		"blocked": blocked,
		"canSend": canSend,
	}
	if record != nil {
		response["requestSenderId"] = record.RequestSenderID
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleApprove - Approve a pending message request
func (c *ChatController) HandleApprove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var request struct {
		ChatID string `json:"chatId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ChatID == "" {
		http.Error(w, `{"error": "chatId is required"}`, http.StatusBadRequest)
		return
	}

	err := c.Requests.Approve(r.Context(), request.ChatID, userID)
	if errors.Is(err, services.ErrPartialApproval) {
		// The approval itself is committed; the caller may retry the batch.
		log.Printf("⚠️ Partial approval for chat %s: %v", request.ChatID, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "partial",
			"message": "Approval recorded; some messages still pending update, retry to complete",
		})
		return
	}
	if err != nil {
		writeChatError(w, err, "Failed to approve chat")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "approved"})
}

// HandleDecline - Decline a pending message request
func (c *ChatController) HandleDecline(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var request struct {
		ChatID string `json:"chatId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ChatID == "" {
		http.Error(w, `{"error": "chatId is required"}`, http.StatusBadRequest)
		return
	}

	if err := c.Requests.Decline(r.Context(), request.ChatID, userID); err != nil {
		writeChatError(w, err, "Failed to decline chat")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "declined"})
}

// HandleMarkRead - Stamp the caller's lastRead marker on a chat
func (c *ChatController) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var request struct {
		ChatID string `json:"chatId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ChatID == "" {
		http.Error(w, `{"error": "chatId is required"}`, http.StatusBadRequest)
		return
	}

	if err := c.Requests.MarkRead(r.Context(), request.ChatID, userID); err != nil {
		writeChatError(w, err, "Failed to mark chat as read")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// writeChatError maps chat-core sentinels onto HTTP statuses.
func writeChatError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
	case errors.Is(err, services.ErrEmptyMessage):
		http.Error(w, `{"error": "Message text is empty"}`, http.StatusBadRequest)
	case errors.Is(err, services.ErrBlocked):
		http.Error(w, `{"error": "Conversation is blocked"}`, http.StatusForbidden)
	case errors.Is(err, services.ErrChatDeclined):
		http.Error(w, `{"error": "Conversation was declined"}`, http.StatusForbidden)
	default:
		log.Printf("❌ %s: %v", fallback, err)
		http.Error(w, `{"error": "`+fallback+`"}`, http.StatusInternalServerError)
	}
}
