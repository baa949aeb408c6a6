package models

// Message is one chat message. RoomID is the partition key and CreatedAt
// (RFC3339Nano) the sort key, so a room's log reads back in creation order.
type Message struct {
	RoomID    string   `dynamodbav:"roomId" json:"roomId"`
	CreatedAt string   `dynamodbav:"createdAt" json:"createdAt"`
	MessageID string   `dynamodbav:"messageId" json:"messageId"`
	SenderID  string   `dynamodbav:"senderId" json:"senderId"`
	Content   string   `dynamodbav:"content" json:"content"`
	ReadBy    []string `dynamodbav:"readBy,stringset,omitempty" json:"readBy,omitempty"`
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"

// ChatStatus is derived per (room, requesting user) at read time and never
// stored. IsConnected comes from the identity store and is the only input the
// send gate trusts; IsIntro is reported for display.
type ChatStatus struct {
	IsIntro        bool `json:"isIntro"`
	IsConnected    bool `json:"isConnected"`
	MyMessageCount int  `json:"myMessageCount"`
	CanSend        bool `json:"canSend"`
}
