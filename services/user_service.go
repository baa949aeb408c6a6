package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"campuslink_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserService is the identity store: profiles plus the three relation sets
// (connections, pendingRequests, sentRequests) that the connection state
// machine mutates. All pair mutations are DynamoDB transactions guarded by
// condition expressions, so a lost race cancels instead of double-applying.
type UserService struct {
	Dynamo *DynamoService
}

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

// GetProfile retrieves a user profile by ID.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, userKey(userID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", userID, err)
	}
	return &profile, nil
}

// AddConnectionRequest records requester -> target: target joins the
// requester's sentRequests and the requester joins the target's
// pendingRequests, atomically. The condition on the requester side rejects
// duplicates and already-connected pairs even under concurrent calls.
func (s *UserService) AddConnectionRequest(ctx context.Context, requesterID, targetID string) error {
	err := s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           aws.String(models.UserProfilesTable),
				Key:                 userKey(requesterID),
				UpdateExpression:    aws.String("ADD sentRequests :peerSet"),
				ConditionExpression: aws.String("attribute_exists(userId) AND NOT contains(connections, :peer) AND NOT contains(sentRequests, :peer)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":peerSet": &types.AttributeValueMemberSS{Value: []string{targetID}},
					":peer":    &types.AttributeValueMemberS{Value: targetID},
				},
			},
		},
		{
			Update: &types.Update{
				TableName:           aws.String(models.UserProfilesTable),
				Key:                 userKey(targetID),
				UpdateExpression:    aws.String("ADD pendingRequests :meSet"),
				ConditionExpression: aws.String("attribute_exists(userId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":meSet": &types.AttributeValueMemberSS{Value: []string{requesterID}},
				},
			},
		},
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return fmt.Errorf("request %s -> %s: %w", requesterID, targetID, models.ErrConflict)
		}
		return err
	}

	log.Printf("✅ Connection request saved: %s -> %s", requesterID, targetID)
	return nil
}

// AcceptConnectionPair resolves a pending request: both users gain each other
// in connections, the pending/sent entries are removed, and both receive the
// credit grant. The whole transition is one transaction conditioned on the
// request still being pending, so a duplicate accept fails clean with no
// second grant.
func (s *UserService) AcceptConnectionPair(ctx context.Context, accepterID, senderID string, credits int) error {
	creditValue := &types.AttributeValueMemberN{Value: strconv.Itoa(credits)}

	err := s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           aws.String(models.UserProfilesTable),
				Key:                 userKey(accepterID),
				UpdateExpression:    aws.String("ADD connections :peerSet, campusCredits :credits DELETE pendingRequests :peerSet"),
				ConditionExpression: aws.String("contains(pendingRequests, :peer)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":peerSet": &types.AttributeValueMemberSS{Value: []string{senderID}},
					":peer":    &types.AttributeValueMemberS{Value: senderID},
					":credits": creditValue,
				},
			},
		},
		{
			Update: &types.Update{
				TableName:           aws.String(models.UserProfilesTable),
				Key:                 userKey(senderID),
				UpdateExpression:    aws.String("ADD connections :meSet, campusCredits :credits DELETE sentRequests :meSet"),
				ConditionExpression: aws.String("attribute_exists(userId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":meSet":   &types.AttributeValueMemberSS{Value: []string{accepterID}},
					":credits": creditValue,
				},
			},
		},
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return fmt.Errorf("no pending request from %s: %w", senderID, models.ErrNotFound)
		}
		return err
	}

	log.Printf("🤝 Connection accepted: %s <-> %s (+%d credits each)", accepterID, senderID, credits)
	return nil
}

// DeclineConnectionPair removes a pending request without connecting the pair.
func (s *UserService) DeclineConnectionPair(ctx context.Context, declinerID, senderID string) error {
	err := s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           aws.String(models.UserProfilesTable),
				Key:                 userKey(declinerID),
				UpdateExpression:    aws.String("DELETE pendingRequests :peerSet"),
				ConditionExpression: aws.String("contains(pendingRequests, :peer)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":peerSet": &types.AttributeValueMemberSS{Value: []string{senderID}},
					":peer":    &types.AttributeValueMemberS{Value: senderID},
				},
			},
		},
		{
			Update: &types.Update{
				TableName:           aws.String(models.UserProfilesTable),
				Key:                 userKey(senderID),
				UpdateExpression:    aws.String("DELETE sentRequests :meSet"),
				ConditionExpression: aws.String("attribute_exists(userId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":meSet": &types.AttributeValueMemberSS{Value: []string{declinerID}},
				},
			},
		},
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return fmt.Errorf("no pending request from %s: %w", senderID, models.ErrNotFound)
		}
		return err
	}

	log.Printf("🚫 Connection request declined: %s declined %s", declinerID, senderID)
	return nil
}

// GetPendingRequestProfiles returns the profiles behind a user's pending
// requests, enriched one by one; senders whose profile vanished are skipped.
func (s *UserService) GetPendingRequestProfiles(ctx context.Context, userID string) ([]models.ParticipantSummary, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ParticipantSummary, 0, len(profile.PendingRequests))
	for _, senderID := range profile.PendingRequests {
		sender, err := s.GetProfile(ctx, senderID)
		if err != nil {
			log.Printf("⚠️ Skipping pending request from %s: %v", senderID, err)
			continue
		}
		summaries = append(summaries, sender.Summary())
	}
	return summaries, nil
}
