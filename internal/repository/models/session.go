package models

import (
	"database/sql"
	"time"
)

// Session represents a row in the sessions table.
type Session struct {
	ID            string         `db:"ID"`
	UserID        string         `db:"USER_ID"`
	Role          string         `db:"ROLE"`
	Experience    sql.NullString `db:"EXPERIENCE"`
	TopicsToFocus sql.NullString `db:"TOPICS_TO_FOCUS"`
	Description   sql.NullString `db:"DESCRIPTION"`
	CreatedAt     time.Time      `db:"CREATED_AT"`
	UpdatedAt     time.Time      `db:"UPDATED_AT"`
}

// Question represents a row in the questions table.
// IsPinned is a NUMBER(1) flag.
type Question struct {
	ID        string         `db:"ID"`
	SessionID string         `db:"SESSION_ID"`
	Question  string         `db:"QUESTION"`
	Answer    sql.NullString `db:"ANSWER"`
	Note      sql.NullString `db:"NOTE"`
	IsPinned  int            `db:"IS_PINNED"`
	CreatedAt time.Time      `db:"CREATED_AT"`
	UpdatedAt time.Time      `db:"UPDATED_AT"`
}
