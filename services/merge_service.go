package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"campusmatch_server/models"

	"github.com/google/uuid"
)

// MessageMerger holds one session's pending outgoing messages and merges them
// with store snapshots into a single ordered, de-duplicated view. Pending
// entries use local monotonic staging time, so a session's own messages keep
// their send order even before the server confirms them.
type MessageMerger struct {
	userID string
	chatID string

	mu      sync.Mutex
	pending []models.Message
	now     func() time.Time
}

func NewMessageMerger(userID, chatID string) *MessageMerger {
	return &MessageMerger{
		userID: userID,
		chatID: chatID,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Stage validates and registers an outgoing message before it is handed to
// the store. Whitespace-only text is rejected up front: no pending entry is
// created for it.
func (m *MessageMerger) Stage(text string) (models.Message, error) {
	if m.userID == "" {
		return models.Message{}, ErrNotAuthenticated
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, ErrEmptyMessage
	}

	msg := models.Message{
		ChatID:    m.chatID,
		MessageID: uuid.NewString(), // temporary id until the store confirms
		SenderID:  m.userID,
		Text:      text,
		CreatedAt: m.now(),
		Status:    models.MessageStatusSending,
	}

	m.mu.Lock()
	m.pending = append(m.pending, msg)
	m.mu.Unlock()

	return msg, nil
}

// MarkFailed flips a pending entry to failed in place. Failed entries stay in
// the view so a retry can be offered; they are never retired by Merge.
func (m *MessageMerger) MarkFailed(messageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.pending {
		if m.pending[i].MessageID == messageID {
			m.pending[i].Status = models.MessageStatusFailed
			return
		}
	}
}

// Retry re-arms a failed entry for another append with the same text. Returns
// the message to re-send, or false when the id is unknown or not failed.
func (m *MessageMerger) Retry(messageID string) (models.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.pending {
		if m.pending[i].MessageID == messageID && m.pending[i].Status == models.MessageStatusFailed {
			m.pending[i].Status = models.MessageStatusSending
			return m.pending[i], true
		}
	}
	return models.Message{}, false
}

// Discard drops a pending entry without sending it.
func (m *MessageMerger) Discard(messageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.pending {
		if m.pending[i].MessageID == messageID {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

// Pending returns a copy of the current pending set.
func (m *MessageMerger) Pending() []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Message, len(m.pending))
	copy(out, m.pending)
	return out
}

// Merge reconciles the pending set against a fresh store snapshot and returns
// the combined display view: snapshot first (replace, not append), surviving
// pending entries overlaid, stable-sorted by timestamp ascending.
//
// Reconciliation is approximate by design: persisted ids differ from the
// temporary ones, so a pending entry is retired when a persisted message from
// the same sender with the same text arrives at or after its staging time.
func (m *MessageMerger) Merge(snapshot []models.Message) []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.pending[:0]
	for _, p := range m.pending {
		if p.Status != models.MessageStatusFailed && confirms(snapshot, p) {
			continue // retired: the store now carries it
		}
		kept = append(kept, p)
	}
	m.pending = kept

	merged := make([]models.Message, len(snapshot), len(snapshot)+len(m.pending))
	copy(merged, snapshot)
	for _, p := range m.pending {
		if !containsID(merged, p.MessageID) {
			merged = append(merged, p)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	return merged
}

func confirms(snapshot []models.Message, pending models.Message) bool {
	for _, s := range snapshot {
		if s.SenderID == pending.SenderID && s.Text == pending.Text && !s.CreatedAt.Before(pending.CreatedAt) {
			return true
		}
	}
	return false
}

func containsID(msgs []models.Message, id string) bool {
	for _, m := range msgs {
		if m.MessageID == id {
			return true
		}
	}
	return false
}
