package models

// Conversation and persisted-message statuses. A conversation record and its
// messages share the same vocabulary: a message is written as "request" until
// the receiving party approves the conversation.
const (
	ChatStatusUnknown  = "unknown"
	ChatStatusRequest  = "request"
	ChatStatusApproved = "approved"
	ChatStatusDeclined = "declined"
)

// Local-only message statuses. These exist on the sending client between
// staging and server confirmation and are never written to the store.
const (
	MessageStatusSending = "sending"
	MessageStatusFailed  = "failed"
)

// Profile relation set attributes on the Users table.
const (
	AttrLikedUsers      = "likedUsers"
	AttrMessageRequests = "messageRequests"
	AttrBlockedUsers    = "blockedUsers"
)
