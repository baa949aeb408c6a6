package services

import (
	"context"
	"fmt"
	"log"

	"campuslink_server/models"
)

// ConnectionStore is the identity-store surface the state machine drives.
// Implemented by UserService; faked in tests.
type ConnectionStore interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	AddConnectionRequest(ctx context.Context, requesterID, targetID string) error
	AcceptConnectionPair(ctx context.Context, accepterID, senderID string, credits int) error
	DeclineConnectionPair(ctx context.Context, declinerID, senderID string) error
}

// RoomResolver is the room-ledger surface used at accept time.
type RoomResolver interface {
	FindAnyRoom(ctx context.Context, userA, userB string) (*models.Room, error)
	CreateRoom(ctx context.Context, participants []string, isIntro bool) (*models.Room, error)
	UpgradeToConnected(ctx context.Context, roomID string) error
}

// Notifier pushes realtime events out of the state machine. Delivery is
// best-effort; a missed event never fails the transition.
type Notifier interface {
	EmitToUser(userID, event string, payload interface{})
	Broadcast(event string, payload interface{})
}

// ConnectionService runs the per-pair state machine
// NONE -> REQUESTED -> CONNECTED (decline returns REQUESTED to NONE).
// Transitions serialize on the pair lock, and the store's conditional writes
// back that up across processes.
type ConnectionService struct {
	Users  ConnectionStore
	Rooms  RoomResolver
	Notify Notifier
	Pairs  *PairLocker
}

// RequestConnection moves (requester, target) from NONE to REQUESTED.
func (s *ConnectionService) RequestConnection(ctx context.Context, requesterID, targetID string) error {
	if requesterID == targetID {
		return fmt.Errorf("cannot connect with yourself: %w", models.ErrInvalidOperation)
	}

	s.Pairs.Lock(requesterID, targetID)
	defer s.Pairs.Unlock(requesterID, targetID)

	requester, err := s.Users.GetProfile(ctx, requesterID)
	if err != nil {
		return err
	}
	if _, err := s.Users.GetProfile(ctx, targetID); err != nil {
		return err
	}

	if requester.HasConnection(targetID) {
		return fmt.Errorf("already connected: %w", models.ErrConflict)
	}
	if requester.HasSentRequestTo(targetID) {
		return fmt.Errorf("connection request already sent: %w", models.ErrConflict)
	}

	if err := s.Users.AddConnectionRequest(ctx, requesterID, targetID); err != nil {
		return err
	}

	s.Notify.EmitToUser(targetID, "connection_request_received", requester.Summary())
	return nil
}

// AcceptConnection moves the pair to CONNECTED: symmetric connection entries,
// credit grant for both, and resolution of the shared room (upgrade a
// pre-existing intro room, otherwise create a fresh connected room).
func (s *ConnectionService) AcceptConnection(ctx context.Context, accepterID, senderID string) (*models.Room, error) {
	if accepterID == senderID {
		return nil, fmt.Errorf("cannot accept yourself: %w", models.ErrInvalidOperation)
	}

	s.Pairs.Lock(accepterID, senderID)
	defer s.Pairs.Unlock(accepterID, senderID)

	if err := s.Users.AcceptConnectionPair(ctx, accepterID, senderID, models.CreditsPerConnection); err != nil {
		return nil, err
	}

	room, err := s.Rooms.FindAnyRoom(ctx, accepterID, senderID)
	if err != nil {
		return nil, err
	}
	if room != nil {
		if err := s.Rooms.UpgradeToConnected(ctx, room.RoomID); err != nil {
			return nil, err
		}
		room.IsIntro = false
	} else {
		room, err = s.Rooms.CreateRoom(ctx, []string{accepterID, senderID}, false)
		if err != nil {
			return nil, err
		}
	}

	s.notifyAccepted(ctx, accepterID, senderID)
	return room, nil
}

// DeclineConnection removes a pending request, returning the pair to NONE.
// No credits, no room.
func (s *ConnectionService) DeclineConnection(ctx context.Context, declinerID, senderID string) error {
	if declinerID == senderID {
		return fmt.Errorf("cannot decline yourself: %w", models.ErrInvalidOperation)
	}

	s.Pairs.Lock(declinerID, senderID)
	defer s.Pairs.Unlock(declinerID, senderID)

	return s.Users.DeclineConnectionPair(ctx, declinerID, senderID)
}

func (s *ConnectionService) notifyAccepted(ctx context.Context, accepterID, senderID string) {
	accepter, err := s.Users.GetProfile(ctx, accepterID)
	if err != nil {
		log.Printf("⚠️ Accept notification skipped, cannot load %s: %v", accepterID, err)
	} else {
		s.Notify.EmitToUser(senderID, "connection_accepted", accepter.Summary())
		s.Notify.Broadcast("leaderboard_update", map[string]interface{}{
			"userId":  accepter.UserID,
			"credits": accepter.CampusCredits,
		})
	}

	sender, err := s.Users.GetProfile(ctx, senderID)
	if err != nil {
		log.Printf("⚠️ Leaderboard broadcast skipped, cannot load %s: %v", senderID, err)
		return
	}
	s.Notify.Broadcast("leaderboard_update", map[string]interface{}{
		"userId":  sender.UserID,
		"credits": sender.CampusCredits,
	})
}
