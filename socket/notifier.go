package socket

import (
	socketio "github.com/googollee/go-socket.io"
)

// Notifier adapts the socket server to the notification interfaces the
// services and controllers consume. Everything here is fire-and-forget: an
// offline target simply has no subscriber in the room.
type Notifier struct {
	Server *socketio.Server
}

// EmitToUser delivers an event to every connection of a single user via the
// user's personal room.
func (n *Notifier) EmitToUser(userID, event string, payload interface{}) {
	n.Server.BroadcastToRoom("/", userRoom(userID), event, payload)
}

// Broadcast delivers an event to every connected client.
func (n *Notifier) Broadcast(event string, payload interface{}) {
	n.Server.BroadcastToNamespace("/", event, payload)
}

// BroadcastRoom delivers an event to every subscriber of a chat room.
func (n *Notifier) BroadcastRoom(roomID, event string, payload interface{}) {
	n.Server.BroadcastToRoom("/", roomID, event, payload)
}
