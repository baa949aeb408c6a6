package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"campuslink_server/models"
)

// RoomLedger is the room surface the gate needs. Implemented by RoomService.
type RoomLedger interface {
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	FindIntroRoom(ctx context.Context, userA, userB string) (*models.Room, error)
	CreateRoom(ctx context.Context, participants []string, isIntro bool) (*models.Room, error)
	ListRoomsForUser(ctx context.Context, userID string) ([]models.Room, error)
}

// MessageLog is the message surface the gate needs. Implemented by MessageService.
type MessageLog interface {
	Append(ctx context.Context, roomID, senderID, content string) (*models.Message, error)
	CountFrom(ctx context.Context, roomID, senderID string) (int, error)
	ListForRoom(ctx context.Context, roomID string, limit int) ([]models.Message, error)
	ClearRoom(ctx context.Context, roomID string) error
	MarkRead(ctx context.Context, roomID, readerID string) error
}

// IdentityReader resolves profiles. Implemented by UserService.
type IdentityReader interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// ChatService is the messaging gate: the single place that decides whether a
// send is permitted. Both the HTTP intro path and the realtime send path go
// through it; there is no ungated append.
//
// The rule: a connected participant sends freely; an unconnected participant
// may put exactly one message into the pair's intro room. isConnected is
// derived from the identity store on every check and is the only input the
// gate trusts (never the room's isIntro flag alone).
type ChatService struct {
	Rooms    RoomLedger
	Messages MessageLog
	Users    IdentityReader
	Pairs    *PairLocker
}

// GetChatStatus computes the derived status for (room, user) at read time.
func (s *ChatService) GetChatStatus(ctx context.Context, roomID, userID string) (*models.ChatStatus, error) {
	room, err := s.participantRoom(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	return s.statusFor(ctx, room, userID)
}

func (s *ChatService) statusFor(ctx context.Context, room *models.Room, userID string) (*models.ChatStatus, error) {
	user, err := s.Users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	isConnected := user.HasConnection(room.OtherParticipant(userID))

	count, err := s.Messages.CountFrom(ctx, room.RoomID, userID)
	if err != nil {
		return nil, err
	}

	return &models.ChatStatus{
		IsIntro:        room.IsIntro,
		IsConnected:    isConnected,
		MyMessageCount: count,
		CanSend:        isConnected || count < 1,
	}, nil
}

// SendIntroMessage sends the single cold-intro message allowed towards a user
// the sender is not connected to, creating the intro room on first contact.
// The pair lock keeps concurrent first contacts from minting duplicate rooms.
func (s *ChatService) SendIntroMessage(ctx context.Context, senderID, targetID, content string) (*models.Message, *models.Room, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, fmt.Errorf("message content is required: %w", models.ErrValidation)
	}
	if senderID == targetID {
		return nil, nil, fmt.Errorf("cannot message yourself: %w", models.ErrInvalidOperation)
	}

	if _, err := s.Users.GetProfile(ctx, targetID); err != nil {
		return nil, nil, err
	}
	sender, err := s.Users.GetProfile(ctx, senderID)
	if err != nil {
		return nil, nil, err
	}
	if sender.HasConnection(targetID) {
		return nil, nil, fmt.Errorf("already connected, use the regular chat: %w", models.ErrConflict)
	}

	s.Pairs.Lock(senderID, targetID)
	defer s.Pairs.Unlock(senderID, targetID)

	room, err := s.Rooms.FindIntroRoom(ctx, senderID, targetID)
	if err != nil {
		return nil, nil, err
	}
	if room != nil {
		count, err := s.Messages.CountFrom(ctx, room.RoomID, senderID)
		if err != nil {
			return nil, nil, err
		}
		if count >= 1 {
			return nil, nil, models.ErrIntroLimit
		}
	} else {
		room, err = s.Rooms.CreateRoom(ctx, []string{senderID, targetID}, true)
		if err != nil {
			return nil, nil, err
		}
	}

	message, err := s.Messages.Append(ctx, room.RoomID, senderID, content)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("📩 Intro message sent: %s -> %s (room %s)", senderID, targetID, room.RoomID)
	return message, room, nil
}

// SendMessage is the regular send path, used by the realtime channel as well.
// It runs the gate before appending, so an unconnected sender who spent the
// intro allowance is rejected here too.
func (s *ChatService) SendMessage(ctx context.Context, roomID, senderID, content string) (*models.Message, error) {
	room, err := s.participantRoom(ctx, roomID, senderID)
	if err != nil {
		return nil, err
	}

	status, err := s.statusFor(ctx, room, senderID)
	if err != nil {
		return nil, err
	}
	if !status.CanSend {
		return nil, models.ErrIntroLimit
	}

	return s.Messages.Append(ctx, roomID, senderID, content)
}

// History returns up to limit messages for a room the caller belongs to,
// oldest first. Persisted order is the source of truth for clients
// reconciling optimistic sends.
func (s *ChatService) History(ctx context.Context, roomID, userID string, limit int) ([]models.Message, error) {
	if _, err := s.participantRoom(ctx, roomID, userID); err != nil {
		return nil, err
	}
	return s.Messages.ListForRoom(ctx, roomID, limit)
}

// ListRoomsForUser returns the user's rooms, most recent first, with
// participants enriched for display.
func (s *ChatService) ListRoomsForUser(ctx context.Context, userID string) ([]models.RoomView, error) {
	rooms, err := s.Rooms.ListRoomsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profiles := make(map[string]models.ParticipantSummary)
	views := make([]models.RoomView, 0, len(rooms))
	for _, room := range rooms {
		view := models.RoomView{
			RoomID:        room.RoomID,
			IsIntro:       room.IsIntro,
			LastMessage:   room.LastMessage,
			LastMessageAt: room.LastMessageAt,
			CreatedAt:     room.CreatedAt,
		}
		for _, participantID := range room.Participants {
			summary, ok := profiles[participantID]
			if !ok {
				profile, err := s.Users.GetProfile(ctx, participantID)
				if err != nil {
					summary = models.ParticipantSummary{UserID: participantID}
				} else {
					summary = profile.Summary()
				}
				profiles[participantID] = summary
			}
			view.Participants = append(view.Participants, summary)
		}
		views = append(views, view)
	}
	return views, nil
}

// ClearRoom wipes a room's messages on behalf of a participant and returns
// the actor's profile for the clear broadcast.
func (s *ChatService) ClearRoom(ctx context.Context, roomID, userID string) (*models.UserProfile, error) {
	if _, err := s.participantRoom(ctx, roomID, userID); err != nil {
		return nil, err
	}

	actor, err := s.Users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.Messages.ClearRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return actor, nil
}

// MarkRead records the caller as a reader of the room's messages.
func (s *ChatService) MarkRead(ctx context.Context, roomID, userID string) error {
	if _, err := s.participantRoom(ctx, roomID, userID); err != nil {
		return err
	}
	return s.Messages.MarkRead(ctx, roomID, userID)
}

func (s *ChatService) participantRoom(ctx context.Context, roomID, userID string) (*models.Room, error) {
	room, err := s.Rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, fmt.Errorf("user %s is not a participant of room %s: %w", userID, roomID, models.ErrForbidden)
	}
	return room, nil
}
