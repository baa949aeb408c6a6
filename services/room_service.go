package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"campuslink_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// RoomService is the room ledger: one record per two-person conversation,
// looked up by the canonical pair key through the pairKey-index GSI.
type RoomService struct {
	Dynamo *DynamoService
}

func roomKey(roomID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"roomId": &types.AttributeValueMemberS{Value: roomID},
	}
}

// GetRoom fetches a room by id. Absence surfaces as ErrNotFound.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	item, err := s.Dynamo.GetItem(ctx, models.RoomsTable, roomKey(roomID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("room %s: %w", roomID, models.ErrNotFound)
	}

	var room models.Room
	if err := attributevalue.UnmarshalMap(item, &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room %s: %w", roomID, err)
	}
	return &room, nil
}

// FindIntroRoom returns the intro-phase room for the pair, or nil.
func (s *RoomService) FindIntroRoom(ctx context.Context, userA, userB string) (*models.Room, error) {
	rooms, err := s.roomsForPair(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		if rooms[i].IsIntro {
			return &rooms[i], nil
		}
	}
	return nil, nil
}

// FindAnyRoom returns a room for the pair regardless of phase, or nil.
// Used at accept time to decide between upgrading and creating.
func (s *RoomService) FindAnyRoom(ctx context.Context, userA, userB string) (*models.Room, error) {
	rooms, err := s.roomsForPair(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, nil
	}
	return &rooms[0], nil
}

func (s *RoomService) roomsForPair(ctx context.Context, userA, userB string) ([]models.Room, error) {
	keyCondition := "pairKey = :pairKey"
	expressionValues := map[string]types.AttributeValue{
		":pairKey": &types.AttributeValueMemberS{Value: models.PairKey(userA, userB)},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.RoomsTable, models.PairKeyIndex, keyCondition, expressionValues, nil, 10)
	if err != nil {
		return nil, err
	}

	var rooms []models.Room
	if err := attributevalue.UnmarshalListOfMaps(items, &rooms); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rooms: %w", err)
	}
	return rooms, nil
}

// CreateRoom inserts a new room for the pair. The conditional put keeps a
// generated id from ever overwriting an existing record.
func (s *RoomService) CreateRoom(ctx context.Context, participants []string, isIntro bool) (*models.Room, error) {
	if len(participants) != 2 || participants[0] == participants[1] {
		return nil, fmt.Errorf("a room needs exactly two distinct participants: %w", models.ErrValidation)
	}

	room := models.Room{
		RoomID:       uuid.New().String(),
		PairKey:      models.PairKey(participants[0], participants[1]),
		Participants: participants,
		IsIntro:      isIntro,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.Dynamo.PutItemWithCondition(ctx, models.RoomsTable, room, "attribute_not_exists(roomId)"); err != nil {
		return nil, err
	}

	log.Printf("✅ Room created: %s (intro=%v) for pair %s", room.RoomID, isIntro, room.PairKey)
	return &room, nil
}

// UpgradeToConnected flips isIntro off. Idempotent: upgrading a room that is
// already connected is a no-op, and so is upgrading a room that does not
// exist (the accept path tolerates rooms cleared out of band).
func (s *RoomService) UpgradeToConnected(ctx context.Context, roomID string) error {
	_, err := s.Dynamo.UpdateItem(
		ctx,
		models.RoomsTable,
		roomKey(roomID),
		"SET isIntro = :isIntro",
		"attribute_exists(roomId)",
		map[string]types.AttributeValue{
			":isIntro": &types.AttributeValueMemberBOOL{Value: false},
		},
		nil,
	)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			log.Printf("⚠️ Upgrade skipped, room %s does not exist", roomID)
			return nil
		}
		return err
	}

	log.Printf("🔓 Room upgraded to connected: %s", roomID)
	return nil
}

// TouchLastMessage refreshes the cached recency preview. Last writer wins;
// the message log remains the source of truth.
func (s *RoomService) TouchLastMessage(ctx context.Context, roomID, content string, at time.Time) error {
	_, err := s.Dynamo.UpdateItem(
		ctx,
		models.RoomsTable,
		roomKey(roomID),
		"SET lastMessage = :lastMessage, lastMessageAt = :lastMessageAt",
		"attribute_exists(roomId)",
		map[string]types.AttributeValue{
			":lastMessage":   &types.AttributeValueMemberS{Value: content},
			":lastMessageAt": &types.AttributeValueMemberS{Value: at.UTC().Format(time.RFC3339)},
		},
		nil,
	)
	return err
}

// ClearLastMessage resets the cached preview after a chat clear.
func (s *RoomService) ClearLastMessage(ctx context.Context, roomID string) error {
	_, err := s.Dynamo.UpdateItem(
		ctx,
		models.RoomsTable,
		roomKey(roomID),
		"REMOVE lastMessage, lastMessageAt",
		"attribute_exists(roomId)",
		nil,
		nil,
	)
	return err
}

// ListRoomsForUser returns every room the user participates in, most recent
// message first; rooms that never saw a message sort last.
func (s *RoomService) ListRoomsForUser(ctx context.Context, userID string) ([]models.Room, error) {
	filterExpression := "contains(participants, :userId)"
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	var rooms []models.Room
	if err := s.Dynamo.ScanItems(ctx, models.RoomsTable, filterExpression, expressionValues, nil, &rooms); err != nil {
		return nil, err
	}

	sort.SliceStable(rooms, func(i, j int) bool {
		a, b := rooms[i].LastMessageAt, rooms[j].LastMessageAt
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a > b
	})
	return rooms, nil
}
