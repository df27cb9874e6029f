package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Email       string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Career      string `json:"career,omitempty"`         // Degree program, used for suggestion matching
	Semester    string `json:"semester,omitempty"`       // Current semester, used for suggestion matching
	AvatarURL   string `json:"avatar_url,omitempty"`
	Password    string `json:"-"`                                         // Store hashed password, ignore for JSON serialization
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
	FCMToken    string `json:"-"`                                         // Device token for push delivery
}

// UserCompact is the reduced author/actor shape embedded in feeds and notifications
type UserCompact struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Career    string `json:"career,omitempty"`
	Semester  string `json:"semester,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ToCompact converts a User to its compact representation
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Name:      u.Name,
		Career:    u.Career,
		Semester:  u.Semester,
		AvatarURL: u.AvatarURL,
	}
}

type CreateUserRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Career      string `json:"career,omitempty" validate:"omitempty,max=100"`
	Semester    string `json:"semester,omitempty" validate:"omitempty,max=20"`
	FirebaseUID string `json:"firebase_uid" validate:"required"` // Firebase UID will be provided by the client after Firebase Auth
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Career   string `json:"career,omitempty" validate:"omitempty,max=100"`
	Semester string `json:"semester,omitempty" validate:"omitempty,max=20"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Career    string `json:"career,omitempty" validate:"omitempty,max=100"`
	Semester  string `json:"semester,omitempty" validate:"omitempty,max=20"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	FCMToken  string `json:"fcm_token,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
