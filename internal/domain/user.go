package domain

import (
	"context"
	"strings"
	"time"
)

const MinPasswordLength = 6

// User represents a registered account
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser creates a new User instance
func NewUser(name, email, profileImageURL string) *User {
	now := time.Now()
	return &User{
		Name:            strings.TrimSpace(name),
		Email:           NormalizeEmail(email),
		ProfileImageURL: profileImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate validates the user
func (u *User) Validate() error {
	var errs ValidationErrors
	if u.Name == "" {
		errs = append(errs, NewMissingFieldError("name"))
	}
	if u.Email == "" {
		errs = append(errs, NewMissingFieldError("email"))
	} else if !strings.Contains(u.Email, "@") {
		errs = append(errs, NewInvalidFormatError("email", u.Email))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UserRepository defines the interface for user data persistence.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}
