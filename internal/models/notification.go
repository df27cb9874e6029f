package models

import "time"

// Notification types
const (
	NotificationFriendRequest   = "friend_request"
	NotificationRequestAccepted = "request_accepted"
	NotificationReaction        = "reaction"
	NotificationComment         = "comment"
)

// Notification represents a user notification (PostgreSQL).
// EventID is the upstream change-event ID; its unique index absorbs
// redelivery of the same event after a reconnect.
type Notification struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	EventID      string    `json:"event_id" gorm:"size:40;uniqueIndex"`
	Type         string    `json:"type" gorm:"size:30;index"`
	SenderID     uint      `json:"sender_id" gorm:"index"`
	ReceiverID   uint      `json:"receiver_id" gorm:"index"`
	RefPostID    string    `json:"ref_post_id,omitempty"`
	RefCommentID uint      `json:"ref_comment_id,omitempty"`
	Message      string    `json:"message"`
	IsRead       bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}
