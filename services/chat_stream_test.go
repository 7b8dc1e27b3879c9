package services

import (
	"testing"
	"time"

	"campusmatch_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(texts ...string) []models.Message {
	msgs := make([]models.Message, len(texts))
	for i, text := range texts {
		msgs[i] = models.Message{ChatID: "alice_bob", SenderID: "alice", Text: text}
	}
	return msgs
}

func TestStreamDeliversToSubscribers(t *testing.T) {
	stream := NewChatStream()
	ch, cancel := stream.Subscribe("alice_bob")
	defer cancel()

	stream.Publish("alice_bob", snapshotOf("hey"))

	select {
	case snapshot := <-ch:
		require.Len(t, snapshot, 1)
		assert.Equal(t, "hey", snapshot[0].Text)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestStreamIsolatesConversations(t *testing.T) {
	stream := NewChatStream()
	ch, cancel := stream.Subscribe("alice_bob")
	defer cancel()

	stream.Publish("bob_carol", snapshotOf("not for you"))

	select {
	case <-ch:
		t.Fatal("received a snapshot for another conversation")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStreamCancelClosesChannel(t *testing.T) {
	stream := NewChatStream()
	ch, cancel := stream.Subscribe("alice_bob")

	cancel()
	_, open := <-ch
	assert.False(t, open)

	// Cancelling twice must not panic.
	cancel()

	// Publishing after cancel is a no-op.
	stream.Publish("alice_bob", snapshotOf("into the void"))
}

func TestStreamDropsOldestWhenSubscriberLags(t *testing.T) {
	stream := NewChatStream()
	ch, cancel := stream.Subscribe("alice_bob")
	defer cancel()

	// Overfill the buffer without draining; older snapshots give way.
	for i := 0; i < streamBuffer+4; i++ {
		stream.Publish("alice_bob", snapshotOf("msg", time.Duration(i).String()))
	}

	var last []models.Message
	drained := 0
	for {
		select {
		case snapshot := <-ch:
			last = snapshot
			drained++
			continue
		default:
		}
		break
	}

	assert.LessOrEqual(t, drained, streamBuffer)
	require.NotEmpty(t, last)
	// The newest snapshot is never the one dropped.
	assert.Equal(t, time.Duration(streamBuffer+3).String(), last[1].Text)
}

func TestStreamHooksRunInPublishOrder(t *testing.T) {
	stream := NewChatStream()

	var order []string
	stream.Notify(func(chatID string, snapshot []models.Message) {
		order = append(order, snapshot[0].Text)
	})

	stream.Publish("alice_bob", snapshotOf("first"))
	stream.Publish("alice_bob", snapshotOf("second"))
	stream.Publish("alice_bob", snapshotOf("third"))

	// A relay replacing its view wholesale must never see an older snapshot
	// after a newer one.
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestStreamNotifyHookSeesEveryPublish(t *testing.T) {
	stream := NewChatStream()

	got := make(chan string, 1)
	stream.Notify(func(chatID string, snapshot []models.Message) {
		got <- chatID
	})

	stream.Publish("alice_bob", snapshotOf("hey"))

	select {
	case chatID := <-got:
		assert.Equal(t, "alice_bob", chatID)
	case <-time.After(time.Second):
		t.Fatal("hook was not invoked")
	}
}
