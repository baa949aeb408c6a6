package models

import (
	"sort"
	"strings"
)

// Room is a conversation between exactly two participants. PairKey is the
// sorted participant pair and feeds the pairKey-index GSI so lookups by pair
// never scan. IsIntro flips false exactly once, when the pair connects.
type Room struct {
	RoomID        string   `dynamodbav:"roomId" json:"roomId"`
	PairKey       string   `dynamodbav:"pairKey" json:"-"`
	Participants  []string `dynamodbav:"participants" json:"participants"`
	IsIntro       bool     `dynamodbav:"isIntro" json:"isIntro"`
	LastMessage   string   `dynamodbav:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageAt string   `dynamodbav:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	CreatedAt     string   `dynamodbav:"createdAt" json:"createdAt"`
}

// RoomsTable is the DynamoDB table name for chat rooms
const RoomsTable = "Chatrooms"

// PairKeyIndex is the GSI keyed on the sorted participant pair
const PairKeyIndex = "pairKey-index"

// PairKey builds the canonical key for an unordered user pair.
func PairKey(userA, userB string) string {
	ids := []string{userA, userB}
	sort.Strings(ids)
	return strings.Join(ids, "#")
}

// HasParticipant reports whether userID belongs to the room.
func (r *Room) HasParticipant(userID string) bool {
	return ContainsID(r.Participants, userID)
}

// OtherParticipant returns the participant that is not userID. Empty string if
// userID is not in the room.
func (r *Room) OtherParticipant(userID string) string {
	if !r.HasParticipant(userID) {
		return ""
	}
	for _, p := range r.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// RoomView is a room as returned to clients, with participants enriched from
// the identity store.
type RoomView struct {
	RoomID        string               `json:"roomId"`
	Participants  []ParticipantSummary `json:"participants"`
	IsIntro       bool                 `json:"isIntro"`
	LastMessage   string               `json:"lastMessage,omitempty"`
	LastMessageAt string               `json:"lastMessageAt,omitempty"`
	CreatedAt     string               `json:"createdAt"`
}
