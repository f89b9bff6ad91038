package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// RegisterRequest represents the request body for account registration
// @Description Request body for registering a user
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// LoginRequest represents the request body for logging in
// @Description Request body for email/password login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login
// @Description User profile with an access token
type AuthResponse struct {
	Success         bool   `json:"success"`
	ID              string `json:"_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl"`
	Token           string `json:"token"`
}

// ProfileResponse describes the authenticated user. The password hash is never included.
type ProfileResponse struct {
	Success         bool      `json:"success"`
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
