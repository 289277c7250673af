package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// Profile is the social identity of an authenticated user, stored in
// PostgreSQL. Posts reference profiles by ID; the auth system (JWT or
// Firebase) owns the user accounts themselves.
type Profile struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"user_id" gorm:"index"` // local JWT user id; zero for Firebase-only accounts
	Username    string `json:"username" gorm:"uniqueIndex"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"index"` // set when the account came through Firebase Auth
}

// CreateProfileRequest defines the request body for creating a profile.
type CreateProfileRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=30"`
	Bio       string `json:"bio,omitempty" validate:"omitempty,max=150"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
