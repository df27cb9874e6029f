package models

import "time"

// ReactionTarget is the kind of content a reaction is attached to
type ReactionTarget string

const (
	TargetPost    ReactionTarget = "post"
	TargetComment ReactionTarget = "comment"
)

// ReactionRecord represents a single user's reaction to a post or comment.
// The composite unique index guarantees at most one reaction per
// (user, target) pair; changing a reaction updates the row in place.
type ReactionRecord struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"index;uniqueIndex:idx_user_target_reaction"`
	TargetType ReactionTarget `json:"target_type" gorm:"type:varchar(10);uniqueIndex:idx_user_target_reaction"`
	TargetID   string         `json:"target_id" gorm:"index;uniqueIndex:idx_user_target_reaction"`
	Type       string         `json:"type" gorm:"size:20"` // like, love, haha, wow, sad, angry
	CreatedAt  time.Time      `json:"created_at"`
}

// ReactionResult is the state of a user's reaction after a toggle
type ReactionResult struct {
	Removed bool   `json:"removed"`
	Type    string `json:"type,omitempty"`
}

// ReactionSummary is the aggregate derived from live reaction records
type ReactionSummary struct {
	Count  int64            `json:"count"`
	ByType map[string]int64 `json:"by_type"`
}

// ReactRequest defines the request body for reacting to a post or comment
type ReactRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=post comment"`
	TargetID   string `json:"target_id" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=like love haha wow sad angry"`
}
