package controllers

import (
	"context"
	"log"
	"net/http"

	"campuslink_server/middleware"
	"campuslink_server/models"
	"campuslink_server/utils"

	"github.com/gorilla/mux"
)

// ConnectionAPI covers the connection request lifecycle.
type ConnectionAPI interface {
	RequestConnection(ctx context.Context, requesterID, targetID string) error
	AcceptConnection(ctx context.Context, accepterID, senderID string) (*models.Room, error)
	DeclineConnection(ctx context.Context, declinerID, senderID string) error
}

// RequestLister reads pending-request and profile data.
type RequestLister interface {
	GetPendingRequestProfiles(ctx context.Context, userID string) ([]models.ParticipantSummary, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// ConnectionController struct
type ConnectionController struct {
	Connections ConnectionAPI
	Users       RequestLister
}

// NewConnectionController initializes the connection controller
func NewConnectionController(connections ConnectionAPI, users RequestLister) *ConnectionController {
	return &ConnectionController{Connections: connections, Users: users}
}

// HandleConnect - send a connection request to another user
func (c *ConnectionController) HandleConnect(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["id"]
	requesterID := middleware.UserID(r)

	if err := c.Connections.RequestConnection(r.Context(), requesterID, targetID); err != nil {
		log.Printf("❌ Connection request %s -> %s failed: %v", requesterID, targetID, err)
		utils.WriteError(w, err)
		return
	}

	log.Printf("🤝 Connection request sent: %s -> %s", requesterID, targetID)
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Connection request sent."})
}

// HandleAccept - accept a pending connection request
func (c *ConnectionController) HandleAccept(w http.ResponseWriter, r *http.Request) {
	senderID := mux.Vars(r)["id"]
	accepterID := middleware.UserID(r)

	room, err := c.Connections.AcceptConnection(r.Context(), accepterID, senderID)
	if err != nil {
		log.Printf("❌ Accept %s -> %s failed: %v", accepterID, senderID, err)
		utils.WriteError(w, err)
		return
	}

	log.Printf("✅ Connection accepted: %s <-> %s (room %s)", accepterID, senderID, room.RoomID)
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Connection accepted.",
		"chatroom": room,
	})
}

// HandleDecline - decline a pending connection request
func (c *ConnectionController) HandleDecline(w http.ResponseWriter, r *http.Request) {
	senderID := mux.Vars(r)["id"]
	declinerID := middleware.UserID(r)

	if err := c.Connections.DeclineConnection(r.Context(), declinerID, senderID); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Connection request declined."})
}

// HandleGetRequests - list profiles of users who sent the caller a pending request
func (c *ConnectionController) HandleGetRequests(w http.ResponseWriter, r *http.Request) {
	profiles, err := c.Users.GetPendingRequestProfiles(r.Context(), middleware.UserID(r))
	if err != nil {
		log.Printf("❌ Error fetching pending requests: %v", err)
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profiles)
}
