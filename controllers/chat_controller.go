package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"campuslink_server/middleware"
	"campuslink_server/models"
	"campuslink_server/utils"

	"github.com/gorilla/mux"
)

// ChatAPI is the messaging-gate surface the controller drives.
type ChatAPI interface {
	SendIntroMessage(ctx context.Context, senderID, targetID, content string) (*models.Message, *models.Room, error)
	GetChatStatus(ctx context.Context, roomID, userID string) (*models.ChatStatus, error)
	History(ctx context.Context, roomID, userID string, limit int) ([]models.Message, error)
	ListRoomsForUser(ctx context.Context, userID string) ([]models.RoomView, error)
	ClearRoom(ctx context.Context, roomID, userID string) (*models.UserProfile, error)
	MarkRead(ctx context.Context, roomID, userID string) error
}

// RoomBroadcaster pushes room-scoped realtime events.
type RoomBroadcaster interface {
	BroadcastRoom(roomID, event string, payload interface{})
}

// ChatController struct
type ChatController struct {
	Chat     ChatAPI
	Realtime RoomBroadcaster
}

// NewChatController initializes the chat controller
func NewChatController(chat ChatAPI, realtime RoomBroadcaster) *ChatController {
	return &ChatController{Chat: chat, Realtime: realtime}
}

// HandleSendIntro - send the single cold-intro message to a not-yet-connected user
func (c *ChatController) HandleSendIntro(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["userId"]

	var request struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	message, room, err := c.Chat.SendIntroMessage(r.Context(), middleware.UserID(r), targetID, request.Content)
	if err != nil {
		log.Printf("❌ Intro message rejected: %v", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"room":    room,
	})
}

// HandleGetRooms - list the caller's rooms, most recent first
func (c *ChatController) HandleGetRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := c.Chat.ListRoomsForUser(r.Context(), middleware.UserID(r))
	if err != nil {
		log.Printf("❌ Error listing rooms: %v", err)
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rooms)
}

// HandleGetStatus - derived chat status for one room
func (c *ChatController) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	status, err := c.Chat.GetChatStatus(r.Context(), roomID, middleware.UserID(r))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, status)
}

// HandleGetHistory - fetch a room's messages, oldest first
func (c *ChatController) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 0 // service applies the default
	}

	messages, err := c.Chat.History(r.Context(), roomID, middleware.UserID(r), limit)
	if err != nil {
		log.Printf("❌ Error fetching history for room %s: %v", roomID, err)
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, messages)
}

// HandleClearChat - delete all messages in a room and notify its subscribers
func (c *ChatController) HandleClearChat(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	actor, err := c.Chat.ClearRoom(r.Context(), roomID, middleware.UserID(r))
	if err != nil {
		log.Printf("❌ Error clearing room %s: %v", roomID, err)
		utils.WriteError(w, err)
		return
	}

	c.Realtime.BroadcastRoom(roomID, "chat_cleared", map[string]interface{}{
		"roomId":    roomID,
		"clearedBy": actor.Summary(),
	})

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Chat cleared."})
}

// HandleMarkRead - mark the room's messages as read by the caller
func (c *ChatController) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		RoomID string `json:"roomId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.RoomID == "" {
		http.Error(w, `{"error": "Missing required field: roomId"}`, http.StatusBadRequest)
		return
	}

	if err := c.Chat.MarkRead(r.Context(), request.RoomID, middleware.UserID(r)); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
