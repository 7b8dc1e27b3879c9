package services

import (
	"testing"
	"time"

	"campusmatch_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mergeBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestMerger pins the merger's clock so staging times are predictable:
// each Stage call advances one second.
func newTestMerger(userID string) *MessageMerger {
	m := NewMessageMerger(userID, "alice_bob")
	tick := 0
	m.now = func() time.Time {
		tick++
		return mergeBase.Add(time.Duration(tick) * time.Second)
	}
	return m
}

func persisted(sender, text string, at time.Time) models.Message {
	return models.Message{
		ChatID:    "alice_bob",
		MessageID: "srv-" + text,
		SenderID:  sender,
		Text:      text,
		CreatedAt: at,
		Status:    models.ChatStatusApproved,
	}
}

func TestStageRejectsWhitespaceOnlyText(t *testing.T) {
	m := newTestMerger("alice")

	_, err := m.Stage("   \n\t  ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, m.Pending())
}

func TestStageRequiresIdentity(t *testing.T) {
	m := newTestMerger("")

	_, err := m.Stage("hello")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, m.Pending())
}

func TestStageTrimsText(t *testing.T) {
	m := newTestMerger("alice")

	msg, err := m.Stage("  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, models.MessageStatusSending, msg.Status)
	assert.NotEmpty(t, msg.MessageID)
}

func TestMergeRetiresConfirmedPending(t *testing.T) {
	m := newTestMerger("alice")

	staged, err := m.Stage("hello")
	require.NoError(t, err)

	// The store echoes the message back with a server id and a later
	// timestamp; the local copy must retire rather than duplicate.
	snapshot := []models.Message{persisted("alice", "hello", staged.CreatedAt.Add(time.Second))}

	merged := m.Merge(snapshot)
	require.Len(t, merged, 1)
	assert.Equal(t, "srv-hello", merged[0].MessageID)
	assert.Empty(t, m.Pending())
}

func TestMergeDoesNotRetireOnEarlierTimestamp(t *testing.T) {
	m := newTestMerger("alice")

	staged, err := m.Stage("hello")
	require.NoError(t, err)

	// Same sender and text but persisted before staging: a different,
	// older message, not a confirmation of this one.
	snapshot := []models.Message{persisted("alice", "hello", staged.CreatedAt.Add(-time.Minute))}

	merged := m.Merge(snapshot)
	assert.Len(t, merged, 2)
	assert.Len(t, m.Pending(), 1)
}

func TestMergeOrdersByTimestampAscending(t *testing.T) {
	m := newTestMerger("alice")
	m.now = func() time.Time { return mergeBase.Add(4 * time.Minute) }

	_, err := m.Stage("fourth")
	require.NoError(t, err)

	snapshot := []models.Message{
		persisted("bob", "fifth", mergeBase.Add(5*time.Minute)),
		persisted("bob", "first", mergeBase.Add(1*time.Minute)),
		persisted("alice", "third", mergeBase.Add(3*time.Minute)),
	}

	merged := m.Merge(snapshot)
	require.Len(t, merged, 4)

	var texts []string
	for _, msg := range merged {
		texts = append(texts, msg.Text)
	}
	assert.Equal(t, []string{"first", "third", "fourth", "fifth"}, texts)
}

func TestMergeReplacesSnapshotInsteadOfAppending(t *testing.T) {
	m := newTestMerger("alice")

	first := []models.Message{persisted("bob", "one", mergeBase)}
	second := []models.Message{
		persisted("bob", "one", mergeBase),
		persisted("bob", "two", mergeBase.Add(time.Second)),
	}

	m.Merge(first)
	merged := m.Merge(second)
	assert.Len(t, merged, 2)
}

func TestFailedEntriesSurviveMerge(t *testing.T) {
	m := newTestMerger("alice")

	staged, err := m.Stage("hello")
	require.NoError(t, err)
	m.MarkFailed(staged.MessageID)

	// Even a would-be confirmation leaves a failed entry alone so the UI
	// can offer a retry.
	snapshot := []models.Message{persisted("alice", "hello", staged.CreatedAt.Add(time.Second))}
	merged := m.Merge(snapshot)

	require.Len(t, merged, 2)
	pending := m.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, models.MessageStatusFailed, pending[0].Status)
}

func TestRetryReArmsFailedEntry(t *testing.T) {
	m := newTestMerger("alice")

	staged, err := m.Stage("hello")
	require.NoError(t, err)

	// Not failed yet: nothing to retry.
	_, ok := m.Retry(staged.MessageID)
	assert.False(t, ok)

	m.MarkFailed(staged.MessageID)
	resend, ok := m.Retry(staged.MessageID)
	require.True(t, ok)
	assert.Equal(t, models.MessageStatusSending, resend.Status)
	assert.Equal(t, "hello", resend.Text)

	_, ok = m.Retry("no-such-id")
	assert.False(t, ok)
}

func TestDiscardDropsPendingEntry(t *testing.T) {
	m := newTestMerger("alice")

	staged, err := m.Stage("hello")
	require.NoError(t, err)
	m.Discard(staged.MessageID)

	assert.Empty(t, m.Pending())
	assert.Empty(t, m.Merge(nil))
}
