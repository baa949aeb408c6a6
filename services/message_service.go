package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"campuslink_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DefaultHistoryLimit caps a room history read when the caller does not ask
// for a specific page size.
const DefaultHistoryLimit = 100

// RoomCache is the slice of the room ledger the message log writes through:
// the denormalized recency preview on the owning room.
type RoomCache interface {
	TouchLastMessage(ctx context.Context, roomID, content string, at time.Time) error
	ClearLastMessage(ctx context.Context, roomID string) error
}

// MessageService is the append-only message log, one ordered sequence per
// room. Every successful append refreshes the owning room's cached preview
// as a best-effort follow-up.
type MessageService struct {
	Dynamo *DynamoService
	Rooms  RoomCache
}

// Append validates and stores a message, then touches the room cache.
// A failed cache touch is logged and never surfaced to the sender.
func (s *MessageService) Append(ctx context.Context, roomID, senderID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message content is required: %w", models.ErrValidation)
	}

	now := time.Now().UTC()
	message := models.Message{
		RoomID:    roomID,
		CreatedAt: now.Format(time.RFC3339Nano),
		MessageID: uuid.New().String(),
		SenderID:  senderID,
		Content:   content,
	}

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		log.Printf("❌ Failed to append message to room %s: %v", roomID, err)
		return nil, err
	}

	if err := s.Rooms.TouchLastMessage(ctx, roomID, content, now); err != nil {
		log.Printf("⚠️ Failed to update last-message cache for room %s: %v", roomID, err)
	}

	return &message, nil
}

// CountFrom counts the messages a sender has put into a room. The gate only
// cares about zero versus at-least-one.
func (s *MessageService) CountFrom(ctx context.Context, roomID, senderID string) (int, error) {
	keyCondition := "roomId = :roomId"
	expressionValues := map[string]types.AttributeValue{
		":roomId":   &types.AttributeValueMemberS{Value: roomID},
		":senderId": &types.AttributeValueMemberS{Value: senderID},
	}

	return s.Dynamo.CountItems(ctx, models.MessagesTable, keyCondition, expressionValues, "senderId = :senderId")
}

// ListForRoom returns up to limit messages ordered oldest first.
func (s *MessageService) ListForRoom(ctx context.Context, roomID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	keyCondition := "roomId = :roomId"
	expressionValues := map[string]types.AttributeValue{
		":roomId": &types.AttributeValueMemberS{Value: roomID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, "", int32(limit), true)
	if err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return messages, nil
}

// ClearRoom deletes every message in the room and resets the room's cached
// preview. Irreversible; the room record itself survives.
func (s *MessageService) ClearRoom(ctx context.Context, roomID string) error {
	keyCondition := "roomId = :roomId"
	expressionValues := map[string]types.AttributeValue{
		":roomId": &types.AttributeValueMemberS{Value: roomID},
	}

	var writeRequests []types.WriteRequest
	for {
		items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, expressionValues, nil, 500)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			break
		}

		writeRequests = writeRequests[:0]
		for _, item := range items {
			writeRequests = append(writeRequests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"roomId":    item["roomId"],
						"createdAt": item["createdAt"],
					},
				},
			})
		}
		if err := s.Dynamo.BatchWriteItems(ctx, models.MessagesTable, writeRequests); err != nil {
			return err
		}
		if len(items) < 500 {
			break
		}
	}

	if err := s.Rooms.ClearLastMessage(ctx, roomID); err != nil {
		log.Printf("⚠️ Failed to reset last-message cache for room %s: %v", roomID, err)
	}

	log.Printf("🧹 Cleared messages for room %s", roomID)
	return nil
}

// MarkRead adds the reader to every message in the room they did not send,
// paging through the whole log on the sort key so long rooms are fully
// covered. The readBy set is carried for clients; the send gate never reads it.
func (s *MessageService) MarkRead(ctx context.Context, roomID, readerID string) error {
	after := ""
	for {
		keyCondition := "roomId = :roomId"
		expressionValues := map[string]types.AttributeValue{
			":roomId": &types.AttributeValueMemberS{Value: roomID},
		}
		if after != "" {
			keyCondition = "roomId = :roomId AND createdAt > :after"
			expressionValues[":after"] = &types.AttributeValueMemberS{Value: after}
		}

		items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, "", DefaultHistoryLimit, true)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		var messages []models.Message
		if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
			return fmt.Errorf("failed to unmarshal messages: %w", err)
		}

		for _, message := range messages {
			if message.SenderID == readerID || models.ContainsID(message.ReadBy, readerID) {
				continue
			}

			_, err := s.Dynamo.UpdateItem(
				ctx,
				models.MessagesTable,
				map[string]types.AttributeValue{
					"roomId":    &types.AttributeValueMemberS{Value: message.RoomID},
					"createdAt": &types.AttributeValueMemberS{Value: message.CreatedAt},
				},
				"ADD readBy :reader",
				"attribute_exists(roomId)",
				map[string]types.AttributeValue{
					":reader": &types.AttributeValueMemberSS{Value: []string{readerID}},
				},
				nil,
			)
			if err != nil && !IsConditionalCheckFailed(err) {
				return err
			}
		}

		if len(messages) < DefaultHistoryLimit {
			return nil
		}
		after = messages[len(messages)-1].CreatedAt
	}
}
