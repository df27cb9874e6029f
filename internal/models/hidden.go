package models

import "time"

// HiddenPost is a viewer-scoped suppression of a single post, reversible
type HiddenPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_hidden"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_hidden"`
	CreatedAt time.Time `json:"created_at"`
}

// HiddenUser is a viewer-scoped suppression of all of another user's posts
type HiddenUser struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_hidden_user"`
	HiddenUserID uint      `json:"hidden_user_id" gorm:"index;uniqueIndex:idx_user_hidden_user"`
	CreatedAt    time.Time `json:"created_at"`
}
