package models

// UserProfile defines the structure for user profiles.
// Connections, PendingRequests and SentRequests are stored as DynamoDB string
// sets so membership checks and removals can run inside condition expressions.
type UserProfile struct {
	UserID          string   `dynamodbav:"userId" json:"userId"`
	Name            string   `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Email           string   `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Avatar          string   `dynamodbav:"avatar,omitempty" json:"avatar,omitempty"`
	Bio             string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	University      string   `dynamodbav:"university,omitempty" json:"university,omitempty"`
	Major           string   `dynamodbav:"major,omitempty" json:"major,omitempty"`
	Year            string   `dynamodbav:"year,omitempty" json:"year,omitempty"`
	Skills          []string `dynamodbav:"skills,omitempty" json:"skills,omitempty"`
	Interests       []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	LookingFor      []string `dynamodbav:"lookingFor,omitempty" json:"lookingFor,omitempty"`
	Connections     []string `dynamodbav:"connections,stringset,omitempty" json:"connections,omitempty"`
	PendingRequests []string `dynamodbav:"pendingRequests,stringset,omitempty" json:"pendingRequests,omitempty"`
	SentRequests    []string `dynamodbav:"sentRequests,stringset,omitempty" json:"sentRequests,omitempty"`
	CampusCredits   int      `dynamodbav:"campusCredits" json:"campusCredits"`
	CreatedAt       string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

// HasConnection reports whether otherID is in the profile's connections set.
func (p *UserProfile) HasConnection(otherID string) bool {
	return ContainsID(p.Connections, otherID)
}

// HasPendingRequestFrom reports whether otherID has an unresolved request to this user.
func (p *UserProfile) HasPendingRequestFrom(otherID string) bool {
	return ContainsID(p.PendingRequests, otherID)
}

// HasSentRequestTo reports whether this user has an unresolved request to otherID.
func (p *UserProfile) HasSentRequestTo(otherID string) bool {
	return ContainsID(p.SentRequests, otherID)
}

// Summary strips a profile down to the fields broadcast over the realtime channel.
func (p *UserProfile) Summary() ParticipantSummary {
	return ParticipantSummary{UserID: p.UserID, Name: p.Name, Avatar: p.Avatar}
}

// ParticipantSummary is the public slice of a profile attached to rooms and
// notification events.
type ParticipantSummary struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// ContainsID reports whether id appears in ids.
func ContainsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
