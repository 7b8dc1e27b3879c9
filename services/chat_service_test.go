package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"campusmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamoClient serves a fixed message table, paging query results the way
// DynamoDB does: at most pageSize items per call, with LastEvaluatedKey set
// while more remain.
type fakeDynamoClient struct {
	items    []map[string]types.AttributeValue // ascending by createdAt
	pageSize int
	written  []map[string]types.AttributeValue
}

func (f *fakeDynamoClient) Query(_ context.Context, input *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	items := f.items
	if input.ScanIndexForward != nil && !*input.ScanIndexForward {
		items = make([]map[string]types.AttributeValue, len(f.items))
		for i, item := range f.items {
			items[len(f.items)-1-i] = item
		}
	}

	start := 0
	if len(input.ExclusiveStartKey) > 0 {
		after := input.ExclusiveStartKey["createdAt"].(*types.AttributeValueMemberS).Value
		for i, item := range items {
			if item["createdAt"].(*types.AttributeValueMemberS).Value == after {
				start = i + 1
				break
			}
		}
	}

	end := len(items)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}
	if input.Limit != nil && start+int(*input.Limit) < end {
		end = start + int(*input.Limit)
	}

	output := &dynamodb.QueryOutput{Items: items[start:end]}
	if end < len(items) {
		output.LastEvaluatedKey = map[string]types.AttributeValue{
			"createdAt": items[end-1]["createdAt"],
		}
	}
	return output, nil
}

func (f *fakeDynamoClient) BatchWriteItem(_ context.Context, input *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	for _, requests := range input.RequestItems {
		for _, request := range requests {
			if request.PutRequest != nil {
				f.written = append(f.written, request.PutRequest.Item)
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeDynamoClient) PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoClient) GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamoClient) UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamoClient) DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamoClient) Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return &dynamodb.ScanOutput{}, nil
}

func requestMessageItems(t *testing.T, count int) []map[string]types.AttributeValue {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	items := make([]map[string]types.AttributeValue, count)
	for i := 0; i < count; i++ {
		item, err := attributevalue.MarshalMap(models.Message{
			ChatID:    "alice_bob",
			MessageID: fmt.Sprintf("m-%d", i+1),
			SenderID:  "alice",
			Text:      fmt.Sprintf("msg-%d", i+1),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			Status:    models.ChatStatusRequest,
		})
		require.NoError(t, err)
		items[i] = item
	}
	return items
}

func TestBatchUpdateMessageStatusCoversAllPages(t *testing.T) {
	// 150 request messages behind a 60-item page: three pages must all be
	// read and rewritten, not just the first.
	client := &fakeDynamoClient{items: requestMessageItems(t, 150), pageSize: 60}
	svc := &ChatService{Dynamo: &DynamoService{Client: client}}

	count, err := svc.BatchUpdateMessageStatus(context.Background(), "alice_bob", models.ChatStatusRequest, models.ChatStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, 150, count)

	require.Len(t, client.written, 150)
	seen := make(map[string]bool, 150)
	for _, item := range client.written {
		var msg models.Message
		require.NoError(t, attributevalue.UnmarshalMap(item, &msg))
		assert.Equal(t, models.ChatStatusApproved, msg.Status)
		seen[msg.MessageID] = true
	}
	assert.Len(t, seen, 150)
}

func TestGetMessagesKeepsNewestWhenOverLimit(t *testing.T) {
	client := &fakeDynamoClient{items: requestMessageItems(t, 150)}
	svc := &ChatService{Dynamo: &DynamoService{Client: client}}

	messages, err := svc.GetMessages(context.Background(), "alice_bob", 100)
	require.NoError(t, err)
	require.Len(t, messages, 100)

	// The snapshot drops the oldest messages, never the newest, and comes
	// back ascending.
	assert.Equal(t, "msg-51", messages[0].Text)
	assert.Equal(t, "msg-150", messages[99].Text)
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
}
