package services

import (
	"context"
	"testing"

	"campuslink_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deleteRequest(roomID, createdAt string) types.WriteRequest {
	return types.WriteRequest{
		DeleteRequest: &types.DeleteRequest{
			Key: map[string]types.AttributeValue{
				"roomId":    &types.AttributeValueMemberS{Value: roomID},
				"createdAt": &types.AttributeValueMemberS{Value: createdAt},
			},
		},
	}
}

func TestBatchWriteItemsRetriesUnprocessed(t *testing.T) {
	straggler := deleteRequest("room-1", "2026-08-30T10:00:01Z")
	fake := &fakeDynamo{batchUnprocessed: []types.WriteRequest{straggler}}
	service := &DynamoService{Client: fake}

	err := service.BatchWriteItems(context.Background(), models.MessagesTable, []types.WriteRequest{
		deleteRequest("room-1", "2026-08-30T10:00:00Z"),
		straggler,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, fake.batchCalls)

	// the retry resubmits only what the first call left behind
	retried := fake.lastBatch.RequestItems[models.MessagesTable]
	require.Len(t, retried, 1)
	assert.Equal(t, straggler, retried[0])
}

func TestBatchWriteItemsGivesUpAfterRetries(t *testing.T) {
	fake := &fakeDynamo{batchStuck: true}
	service := &DynamoService{Client: fake}

	err := service.BatchWriteItems(context.Background(), models.MessagesTable, []types.WriteRequest{
		deleteRequest("room-1", "2026-08-30T10:00:00Z"),
	})
	assert.Error(t, err)
	assert.Equal(t, 4, fake.batchCalls, "initial attempt plus bounded retries")
}
