package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"campusmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// snapshotLimit bounds how many messages a snapshot carries.
const snapshotLimit = 100

// ChatService is the DynamoDB-backed ChatStore. Every write that changes a
// conversation's message set publishes a fresh full snapshot on the stream.
type ChatService struct {
	Dynamo *DynamoService
	Stream *ChatStream
}

var _ ChatStore = (*ChatService)(nil)

// GetConversation fetches the conversation record, or nil when absent.
func (s *ChatService) GetConversation(ctx context.Context, chatID string) (*models.Conversation, error) {
	key := map[string]types.AttributeValue{
		"chatId": &types.AttributeValueMemberS{Value: chatID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.ChatsTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation %s: %w", chatID, err)
	}

	var conv models.Conversation
	if err := attributevalue.UnmarshalMap(item, &conv); err != nil {
		return nil, fmt.Errorf("failed to parse conversation %s: %w", chatID, err)
	}
	return &conv, nil
}

func (s *ChatService) PutConversation(ctx context.Context, conv models.Conversation) error {
	if conv.LastUpdated.IsZero() {
		conv.LastUpdated = time.Now().UTC()
	}
	if err := s.Dynamo.PutItem(ctx, models.ChatsTable, conv); err != nil {
		return fmt.Errorf("failed to store conversation %s: %w", conv.ChatID, err)
	}
	return nil
}

// UpdateConversationStatus sets the record status and refreshes lastUpdated.
func (s *ChatService) UpdateConversationStatus(ctx context.Context, chatID, status string) error {
	key := map[string]types.AttributeValue{
		"chatId": &types.AttributeValueMemberS{Value: chatID},
	}
	now, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	updateExpression := "SET #status = :status, lastUpdated = :now"
	expressionValues := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: status},
		":now":    now,
	}
	expressionNames := map[string]string{
		"#status": "status", // reserved word in DynamoDB
	}

	_, err = s.Dynamo.UpdateItem(ctx, models.ChatsTable, updateExpression, key, expressionValues, expressionNames)
	if err != nil {
		return fmt.Errorf("failed to update status of conversation %s: %w", chatID, err)
	}
	return nil
}

// TouchConversation refreshes lastUpdated only.
func (s *ChatService) TouchConversation(ctx context.Context, chatID string) error {
	key := map[string]types.AttributeValue{
		"chatId": &types.AttributeValueMemberS{Value: chatID},
	}
	now, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	_, err = s.Dynamo.UpdateItem(ctx, models.ChatsTable, "SET lastUpdated = :now", key,
		map[string]types.AttributeValue{":now": now}, nil)
	if err != nil {
		return fmt.Errorf("failed to touch conversation %s: %w", chatID, err)
	}
	return nil
}

// UpdateLastRead records when userID last read the conversation.
func (s *ChatService) UpdateLastRead(ctx context.Context, chatID, userID string, at time.Time) error {
	key := map[string]types.AttributeValue{
		"chatId": &types.AttributeValueMemberS{Value: chatID},
	}

	// The nested path below fails when the lastRead map is missing, so make
	// sure it exists first.
	_, err := s.Dynamo.UpdateItem(ctx, models.ChatsTable,
		"SET lastRead = if_not_exists(lastRead, :empty)", key,
		map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{}},
		}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize lastRead on %s: %w", chatID, err)
	}

	ts, err := attributevalue.Marshal(at)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	updateExpression := "SET lastRead.#uid = :at, lastUpdated = :at"
	expressionValues := map[string]types.AttributeValue{":at": ts}
	expressionNames := map[string]string{"#uid": userID}

	_, err = s.Dynamo.UpdateItem(ctx, models.ChatsTable, updateExpression, key, expressionValues, expressionNames)
	if err != nil {
		return fmt.Errorf("failed to update lastRead on %s: %w", chatID, err)
	}
	return nil
}

// AppendMessage persists a message and returns its server-assigned id. The
// caller's temporary id is replaced; de-duplication keys off the returned one.
func (s *ChatService) AppendMessage(ctx context.Context, msg models.Message) (string, error) {
	msg.MessageID = uuid.NewString()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	log.Printf("📩 Storing message %s in chat %s", msg.MessageID, msg.ChatID)

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, msg); err != nil {
		log.Printf("❌ Failed to store message: %v", err)
		return "", fmt.Errorf("failed to store message: %w", err)
	}

	s.publishSnapshot(ctx, msg.ChatID)
	return msg.MessageID, nil
}

// GetMessages fetches the full ordered snapshot for a conversation, ascending
// by timestamp. Entries missing required fields are dropped, not surfaced.
func (s *ChatService) GetMessages(ctx context.Context, chatID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = snapshotLimit
	}

	keyCondition := "#chatId = :chatId"
	expressionValues := map[string]types.AttributeValue{
		":chatId": &types.AttributeValueMemberS{Value: chatID},
	}
	expressionNames := map[string]string{
		"#chatId": "chatId",
	}

	// Latest first so an over-long conversation keeps its newest messages in
	// the snapshot; the stable sort below restores ascending order.
	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, int32(limit), true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	messages := make([]models.Message, 0, len(items))
	for _, item := range items {
		var msg models.Message
		if err := attributevalue.UnmarshalMap(item, &msg); err != nil {
			log.Printf("⚠️ Dropping unparseable message in chat %s: %v", chatID, err)
			continue
		}
		if !msg.Valid() {
			log.Printf("⚠️ Dropping malformed message %s in chat %s", msg.MessageID, chatID)
			continue
		}
		messages = append(messages, msg)
	}

	// The sort key orders items lexicographically, which is only approximate
	// for RFC3339Nano strings; re-sort on the parsed timestamps.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}

// BatchUpdateMessageStatus rewrites every message in status `from` to status
// `to`. Returns how many messages were updated; re-applying is a no-op.
func (s *ChatService) BatchUpdateMessageStatus(ctx context.Context, chatID, from, to string) (int, error) {
	// The rewrite must cover the whole conversation, not one snapshot page,
	// so page through the full query here.
	items, err := s.Dynamo.QueryAllItems(ctx, models.MessagesTable, "#chatId = :chatId",
		map[string]types.AttributeValue{
			":chatId": &types.AttributeValueMemberS{Value: chatID},
		},
		map[string]string{"#chatId": "chatId"})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch messages for status update: %w", err)
	}

	var writeRequests []types.WriteRequest
	for _, item := range items {
		var msg models.Message
		if err := attributevalue.UnmarshalMap(item, &msg); err != nil {
			log.Printf("⚠️ Skipping unparseable message in chat %s: %v", chatID, err)
			continue
		}
		if msg.Status != from {
			continue
		}
		msg.Status = to
		updated, err := attributevalue.MarshalMap(msg)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal message %s: %w", msg.MessageID, err)
		}
		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: updated},
		})
	}

	if len(writeRequests) == 0 {
		return 0, nil
	}

	log.Printf("🔄 Updating %d messages in chat %s: %s → %s", len(writeRequests), chatID, from, to)

	if err := s.Dynamo.BatchWriteItems(ctx, models.MessagesTable, writeRequests); err != nil {
		return 0, fmt.Errorf("failed to batch update message status: %w", err)
	}

	s.publishSnapshot(ctx, chatID)
	return len(writeRequests), nil
}

// AddNotification writes a notification-intent record for the external push
// function. Delivery is not this server's concern.
func (s *ChatService) AddNotification(ctx context.Context, intent models.NotificationIntent) error {
	intent.NotificationID = uuid.NewString()
	if intent.CreatedAt.IsZero() {
		intent.CreatedAt = time.Now().UTC()
	}
	if err := s.Dynamo.PutItem(ctx, models.NotificationsTable, intent); err != nil {
		return fmt.Errorf("failed to store notification intent: %w", err)
	}
	return nil
}

func (s *ChatService) publishSnapshot(ctx context.Context, chatID string) {
	if s.Stream == nil {
		return
	}
	snapshot, err := s.GetMessages(ctx, chatID, snapshotLimit)
	if err != nil {
		log.Printf("⚠️ Failed to build snapshot for chat %s: %v", chatID, err)
		return
	}
	s.Stream.Publish(chatID, snapshot)
}
