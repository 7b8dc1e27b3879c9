package services

import (
	"sync"

	"campusmatch_server/models"
)

const streamBuffer = 8

// ChatStream fans out full ordered message snapshots per conversation. Every
// store change publishes a fresh snapshot, not a diff; subscribers replace
// their view wholesale. Publishing never blocks: a slow subscriber loses the
// oldest queued snapshot, never the newest.
type ChatStream struct {
	mu    sync.RWMutex
	subs  map[string]map[int]chan []models.Message
	next  int
	hooks []func(chatID string, snapshot []models.Message)
}

func NewChatStream() *ChatStream {
	return &ChatStream{subs: make(map[string]map[int]chan []models.Message)}
}

// Subscribe registers for snapshots of one conversation. The returned cancel
// func must be called when done; the channel is closed by it.
func (s *ChatStream) Subscribe(chatID string) (<-chan []models.Message, func()) {
	ch := make(chan []models.Message, streamBuffer)

	s.mu.Lock()
	if s.subs[chatID] == nil {
		s.subs[chatID] = make(map[int]chan []models.Message)
	}
	id := s.next
	s.next++
	s.subs[chatID][id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if chans, ok := s.subs[chatID]; ok {
			if _, ok := chans[id]; ok {
				delete(chans, id)
				close(ch)
			}
			if len(chans) == 0 {
				delete(s.subs, chatID)
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Notify registers a hook invoked for every published snapshot regardless of
// conversation. Used by the socket relay.
func (s *ChatStream) Notify(hook func(chatID string, snapshot []models.Message)) {
	s.mu.Lock()
	s.hooks = append(s.hooks, hook)
	s.mu.Unlock()
}

// Publish delivers a snapshot to every subscriber of chatID. Sends happen
// under the read lock so a concurrent cancel cannot close a channel mid-send.
func (s *ChatStream) Publish(chatID string, snapshot []models.Message) {
	s.mu.RLock()
	for _, ch := range s.subs[chatID] {
		select {
		case ch <- snapshot:
		default:
			// Full buffer: drop the oldest snapshot to make room.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
	hooks := make([]func(string, []models.Message), len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.RUnlock()

	// Hooks run on the publisher's goroutine so consecutive snapshots of the
	// same conversation reach them in publish order; a stale snapshot must
	// never overwrite a newer one downstream.
	for _, hook := range hooks {
		hook(chatID, snapshot)
	}
}
