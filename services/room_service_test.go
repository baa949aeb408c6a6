package services

import (
	"context"
	"testing"

	"campuslink_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo returns canned outputs for the calls a test cares about and
// empty outputs for the rest.
type fakeDynamo struct {
	getOutput   *dynamodb.GetItemOutput
	queryOutput *dynamodb.QueryOutput
	scanOutput  *dynamodb.ScanOutput
	putErr      error
	updateErr   error

	lastPut *dynamodb.PutItemInput
	updates []*dynamodb.UpdateItemInput

	batchCalls       int
	batchUnprocessed []types.WriteRequest // returned unprocessed once, then done
	batchStuck       bool                 // returned unprocessed on every call
	lastBatch        *dynamodb.BatchWriteItemInput
}

func (f *fakeDynamo) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPut = params
	return &dynamodb.PutItemOutput{}, f.putErr
}

func (f *fakeDynamo) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getOutput != nil {
		return f.getOutput, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, _ *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.queryOutput != nil {
		return f.queryOutput, nil
	}
	return &dynamodb.QueryOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.scanOutput != nil {
		return f.scanOutput, nil
	}
	return &dynamodb.ScanOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, params)
	return &dynamodb.UpdateItemOutput{}, f.updateErr
}

func (f *fakeDynamo) DeleteItem(_ context.Context, _ *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) BatchWriteItem(_ context.Context, params *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.batchCalls++
	f.lastBatch = params

	output := &dynamodb.BatchWriteItemOutput{}
	if f.batchStuck {
		output.UnprocessedItems = params.RequestItems
		return output, nil
	}
	if f.batchUnprocessed != nil {
		for tableName := range params.RequestItems {
			output.UnprocessedItems = map[string][]types.WriteRequest{tableName: f.batchUnprocessed}
		}
		f.batchUnprocessed = nil
	}
	return output, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, _ *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func marshalRooms(t *testing.T, rooms ...models.Room) []map[string]types.AttributeValue {
	t.Helper()
	items := make([]map[string]types.AttributeValue, 0, len(rooms))
	for _, room := range rooms {
		item, err := attributevalue.MarshalMap(room)
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}

func TestGetRoomNotFound(t *testing.T) {
	service := &RoomService{Dynamo: &DynamoService{Client: &fakeDynamo{}}}

	_, err := service.GetRoom(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFindIntroRoomSkipsConnectedRooms(t *testing.T) {
	items := marshalRooms(t,
		models.Room{RoomID: "room-old", PairKey: models.PairKey("alice", "bob"), Participants: []string{"alice", "bob"}, IsIntro: false},
		models.Room{RoomID: "room-intro", PairKey: models.PairKey("alice", "bob"), Participants: []string{"alice", "bob"}, IsIntro: true},
	)
	fake := &fakeDynamo{queryOutput: &dynamodb.QueryOutput{Items: items}}
	service := &RoomService{Dynamo: &DynamoService{Client: fake}}

	room, err := service.FindIntroRoom(context.Background(), "bob", "alice")
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, "room-intro", room.RoomID)

	any, err := service.FindAnyRoom(context.Background(), "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, "room-old", any.RoomID)
}

func TestCreateRoomValidation(t *testing.T) {
	service := &RoomService{Dynamo: &DynamoService{Client: &fakeDynamo{}}}

	_, err := service.CreateRoom(context.Background(), []string{"alice"}, true)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = service.CreateRoom(context.Background(), []string{"alice", "alice"}, true)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateRoomConditionalPut(t *testing.T) {
	fake := &fakeDynamo{}
	service := &RoomService{Dynamo: &DynamoService{Client: fake}}

	room, err := service.CreateRoom(context.Background(), []string{"bob", "alice"}, true)
	require.NoError(t, err)
	assert.NotEmpty(t, room.RoomID)
	assert.Equal(t, "alice#bob", room.PairKey)
	require.NotNil(t, fake.lastPut)
	assert.Equal(t, "attribute_not_exists(roomId)", aws.ToString(fake.lastPut.ConditionExpression))
}

func TestListRoomsForUserSortsByRecency(t *testing.T) {
	items := marshalRooms(t,
		models.Room{RoomID: "silent", Participants: []string{"alice", "carol"}},
		models.Room{RoomID: "older", Participants: []string{"alice", "bob"}, LastMessageAt: "2026-08-01T10:00:00Z"},
		models.Room{RoomID: "newest", Participants: []string{"alice", "dave"}, LastMessageAt: "2026-08-20T10:00:00Z"},
	)
	fake := &fakeDynamo{scanOutput: &dynamodb.ScanOutput{Items: items}}
	service := &RoomService{Dynamo: &DynamoService{Client: fake}}

	rooms, err := service.ListRoomsForUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, "newest", rooms[0].RoomID)
	assert.Equal(t, "older", rooms[1].RoomID)
	assert.Equal(t, "silent", rooms[2].RoomID, "rooms without messages sort last")
}

func TestUpgradeToConnectedIsIdempotent(t *testing.T) {
	fake := &fakeDynamo{}
	service := &RoomService{Dynamo: &DynamoService{Client: fake}}

	require.NoError(t, service.UpgradeToConnected(context.Background(), "room-1"))
	require.NoError(t, service.UpgradeToConnected(context.Background(), "room-1"))

	require.Len(t, fake.updates, 2)
	for _, update := range fake.updates {
		assert.Equal(t, "SET isIntro = :isIntro", aws.ToString(update.UpdateExpression))
		assert.Equal(t, "attribute_exists(roomId)", aws.ToString(update.ConditionExpression))
		isIntro, ok := update.ExpressionAttributeValues[":isIntro"].(*types.AttributeValueMemberBOOL)
		require.True(t, ok)
		assert.False(t, isIntro.Value)
	}
}

func TestUpgradeToConnectedMissingRoomIsNoOp(t *testing.T) {
	fake := &fakeDynamo{updateErr: &types.ConditionalCheckFailedException{}}
	service := &RoomService{Dynamo: &DynamoService{Client: fake}}

	assert.NoError(t, service.UpgradeToConnected(context.Background(), "cleared-out"))
}

func TestUpgradeToConnectedSurfacesOtherErrors(t *testing.T) {
	fake := &fakeDynamo{updateErr: &types.ProvisionedThroughputExceededException{}}
	service := &RoomService{Dynamo: &DynamoService{Client: fake}}

	assert.Error(t, service.UpgradeToConnected(context.Background(), "room-1"))
}

func TestIsConditionalCheckFailed(t *testing.T) {
	assert.True(t, IsConditionalCheckFailed(&types.ConditionalCheckFailedException{}))
	assert.True(t, IsConditionalCheckFailed(&types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("ConditionalCheckFailed")},
		},
	}))
	assert.False(t, IsConditionalCheckFailed(&types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{{Code: aws.String("TransactionConflict")}},
	}))
	assert.False(t, IsConditionalCheckFailed(nil))
}
