package models

import (
	"database/sql"
	"time"
)

// User represents a row in the users table.
type User struct {
	ID              string         `db:"ID"` // ULID
	Name            string         `db:"NAME"`
	Email           string         `db:"EMAIL"` // stored normalized, unique
	PasswordHash    string         `db:"PASSWORD_HASH"`
	ProfileImageURL sql.NullString `db:"PROFILE_IMAGE_URL"`
	CreatedAt       time.Time      `db:"CREATED_AT"`
	UpdatedAt       time.Time      `db:"UPDATED_AT"`
}
