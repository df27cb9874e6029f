package models

import (
	"fmt"
	"time"
)

// RelationshipStatus is the state of an edge between two users
type RelationshipStatus string

const (
	RelationshipPending  RelationshipStatus = "pending"
	RelationshipAccepted RelationshipStatus = "accepted"
)

// RelationshipEdge is a directed request/friendship record between two users.
// PairKey normalizes the unordered pair so the database enforces at most one
// live edge per pair regardless of who sent the request.
type RelationshipEdge struct {
	ID         uint               `json:"id" gorm:"primaryKey"`
	SenderID   uint               `json:"sender_id" gorm:"index"`
	ReceiverID uint               `json:"receiver_id" gorm:"index"`
	PairKey    string             `json:"-" gorm:"size:50;uniqueIndex"`
	Status     RelationshipStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// PairKeyFor returns the normalized unordered pair key for two user IDs.
func PairKeyFor(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// Other returns the user on the far side of the edge from userID.
func (e *RelationshipEdge) Other(userID uint) uint {
	if e.SenderID == userID {
		return e.ReceiverID
	}
	return e.SenderID
}

// Involves reports whether userID is either endpoint of the edge.
func (e *RelationshipEdge) Involves(userID uint) bool {
	return e.SenderID == userID || e.ReceiverID == userID
}

// SendRelationshipRequest defines the request body for sending a friend request
type SendRelationshipRequest struct {
	ReceiverID uint `json:"receiver_id" validate:"required"`
}

// RespondRelationshipRequest defines the request body for accepting/rejecting a request
type RespondRelationshipRequest struct {
	Accept bool `json:"accept"`
}

// Suggestion is a ranked friend candidate
type Suggestion struct {
	User               UserCompact `json:"user"`
	Score              int         `json:"score"`
	MutualFriendsCount int         `json:"mutual_friends_count"`
}
