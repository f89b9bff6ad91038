package domain

import (
	"context"
	"sort"
	"time"
)

// DefaultQuestionText replaces a blank question when a session is created.
const DefaultQuestionText = "No question provided"

// Session is one interview-prep set owned by a user.
type Session struct {
	ID            string
	UserID        string
	Role          string
	Experience    string
	TopicsToFocus string
	Description   string
	Questions     []*Question
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewSession creates a new Session instance
func NewSession(userID, role, experience, topicsToFocus, description string) *Session {
	now := time.Now()
	return &Session{
		UserID:        userID,
		Role:          role,
		Experience:    experience,
		TopicsToFocus: topicsToFocus,
		Description:   description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate validates the session
func (s *Session) Validate() error {
	var errs ValidationErrors
	if s.UserID == "" {
		errs = append(errs, NewMissingFieldError("user_id"))
	}
	if s.Role == "" {
		errs = append(errs, NewMissingFieldError("role"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsOwnedBy reports whether userID owns the session.
func (s *Session) IsOwnedBy(userID string) bool {
	return s.UserID == userID
}

// Question is a single interview question stored in a session.
type Question struct {
	ID        string
	SessionID string
	Question  string
	Answer    string
	Note      string
	IsPinned  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewQuestion creates a question for a session, substituting DefaultQuestionText for blank text.
func NewQuestion(sessionID, text, answer string, pinned bool) *Question {
	if text == "" {
		text = DefaultQuestionText
	}
	now := time.Now()
	return &Question{
		SessionID: sessionID,
		Question:  text,
		Answer:    answer,
		IsPinned:  pinned,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SortQuestions orders pinned questions first, then oldest first.
func SortQuestions(questions []*Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].IsPinned != questions[j].IsPinned {
			return questions[i].IsPinned
		}
		return questions[i].CreatedAt.Before(questions[j].CreatedAt)
	})
}

// SessionRepository defines the interface for session persistence.
// Lookups return (nil, nil) when no row matches.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByID(ctx context.Context, sessionID string) (*Session, error)
	ListSessionsByUserID(ctx context.Context, userID string) ([]*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// QuestionRepository defines the interface for question persistence.
type QuestionRepository interface {
	CreateQuestions(ctx context.Context, questions []*Question) error
	GetQuestionByID(ctx context.Context, questionID string) (*Question, error)
	ListQuestionsBySessionID(ctx context.Context, sessionID string) ([]*Question, error)
	UpdateQuestion(ctx context.Context, question *Question) error
	DeleteQuestionsBySessionID(ctx context.Context, sessionID string) error
}

// TransactionManager runs fn inside a transaction carried by the context passed to it.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
