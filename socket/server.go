package socket

import (
	"context"
	"log"

	"campuslink_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// MessagePayload is the client's send_message event body.
type MessagePayload struct {
	RoomID   string `json:"roomId"`
	SenderID string `json:"senderId"`
	Content  string `json:"content"`
}

// TypingPayload is the client's typing event body.
type TypingPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

// NewSocketServer wires the realtime fanout engine. All persistence on the
// send path goes through the messaging gate; broadcasts are best-effort and
// clients reconcile against the persisted history. Each online user also
// joins a personal room so services can push directed notifications.
func NewSocketServer(chat *services.ChatService, presence PresenceStore) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("⚡ Socket connected:", c.ID())
		return nil
	})

	// The client announces itself after connecting (and again after every
	// reconnect; the server keeps no session state across reconnects).
	server.OnEvent("/", "user_online", func(c socketio.Conn, userID string) {
		if userID == "" {
			log.Println("❌ Invalid userId in user_online request")
			return
		}
		presence.Set(userID, c.ID())
		c.Join(userRoom(userID))
		server.BroadcastToNamespace("/", "online_users", presence.OnlineUserIDs())
	})

	// No authorization here: the caller only learns roomIds through
	// authenticated room fetches.
	server.OnEvent("/", "join_room", func(c socketio.Conn, roomID string) {
		if roomID == "" {
			log.Println("❌ Invalid roomId in join_room request")
			return
		}
		c.Join(roomID)
	})

	server.OnEvent("/", "send_message", func(c socketio.Conn, payload MessagePayload) {
		message, err := chat.SendMessage(context.Background(), payload.RoomID, payload.SenderID, payload.Content)
		if err != nil {
			log.Printf("❌ send_message rejected (room %s, sender %s): %v", payload.RoomID, payload.SenderID, err)
			c.Emit("message_error", map[string]interface{}{
				"roomId": payload.RoomID,
				"error":  err.Error(),
			})
			return
		}
		server.BroadcastToRoom("/", payload.RoomID, "receive_message", message)
	})

	// Typing indicators are never persisted and skip the sender's own
	// connection; receivers clear the indicator themselves after a quiet
	// interval.
	server.OnEvent("/", "typing", func(c socketio.Conn, payload TypingPayload) {
		if payload.RoomID == "" {
			return
		}
		senderID := c.ID()
		server.ForEach("/", payload.RoomID, func(conn socketio.Conn) {
			if conn.ID() != senderID {
				conn.Emit("user_typing", map[string]string{"userName": payload.UserName})
			}
		})
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Printf("❌ Socket error: %v", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		if userID, removed := presence.RemoveConn(c.ID()); removed {
			log.Printf("🔌 Socket disconnected: %s (user %s, %s)", c.ID(), userID, reason)
			server.BroadcastToNamespace("/", "online_users", presence.OnlineUserIDs())
			return
		}
		log.Printf("🔌 Socket disconnected: %s (%s)", c.ID(), reason)
	})

	return server
}

func userRoom(userID string) string {
	return "user:" + userID
}
