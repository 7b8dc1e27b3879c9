package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"

	"campusmatch_server/models"
	"campusmatch_server/services"
)

// NewSocketServer initializes a Socket.IO server that relays chat snapshot
// updates to clients subscribed to a chat room. Rooms are keyed by chatId.
func NewSocketServer(stream *services.ChatStream) *socketio.Server {
	server := socketio.NewServer(nil)

	// Handle connection events
	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	// Handle join events
	server.OnEvent("/", "join", func(c socketio.Conn, chatID string) {
		if chatID == "" {
			log.Println("❌ Invalid chatId in join request")
			return
		}
		log.Printf("👥 Socket %s joined chat %s\n", c.ID(), chatID)
		c.Join(chatID)
	})

	// Handle leave events
	server.OnEvent("/", "leave", func(c socketio.Conn, chatID string) {
		if chatID == "" {
			return
		}
		log.Printf("👋 Socket %s left chat %s\n", c.ID(), chatID)
		c.Leave(chatID)
	})

	// Handle disconnection
	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Printf("⚠️ Socket error: %v", err)
	})

	// Every persisted change to a chat publishes a fresh snapshot; relay it
	// to the chat's room so connected clients can re-merge immediately.
	stream.Notify(func(chatID string, snapshot []models.Message) {
		server.BroadcastToRoom("/", chatID, "snapshot", snapshot)
	})

	return server
}
