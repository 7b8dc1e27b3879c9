package models

import "time"

// NotificationIntent is a trigger record picked up by an external push
// function. Writing it is the only delivery responsibility this server has.
type NotificationIntent struct {
	NotificationID string    `dynamodbav:"notificationId" json:"notificationId"`
	ChatID         string    `dynamodbav:"chatId" json:"chatId"`
	RecipientID    string    `dynamodbav:"recipientId" json:"recipientId"`
	SenderID       string    `dynamodbav:"senderId" json:"senderId"`
	MessageText    string    `dynamodbav:"messageText" json:"messageText"`
	CreatedAt      time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// NotificationsTable is the DynamoDB table name for notification intents
const NotificationsTable = "Notifications"
