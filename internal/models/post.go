package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostVisibility is the access-control level of a post
type PostVisibility string

const (
	VisibilityPublic    PostVisibility = "public"
	VisibilityFriends   PostVisibility = "friends"
	VisibilityPrivate   PostVisibility = "private"
	VisibilityIncognito PostVisibility = "incognito" // public but author identity is never revealed
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      uint               `json:"author_id" bson:"author_id"`
	Content       string             `json:"content" bson:"content"`
	Visibility    PostVisibility     `json:"visibility" bson:"visibility"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content    string `json:"content" validate:"required,min=1,max=1000"`
	Visibility string `json:"visibility" validate:"required,oneof=public friends private incognito"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content string `json:"content,omitempty" validate:"omitempty,min=1,max=1000"`
}
