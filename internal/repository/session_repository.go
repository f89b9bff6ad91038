package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prepmate/internal/domain"
	"prepmate/internal/repository/models"
	"prepmate/internal/util"
)

const sessionColumns = `id, user_id, role, experience, topics_to_focus, description, created_at, updated_at`

// SessionDatabaseAdapter implements domain.SessionRepository. Questions are
// loaded separately through QuestionDatabaseAdapter.
type SessionDatabaseAdapter struct {
	db DBTX
}

func NewSessionDatabaseAdapter(db DBTX) domain.SessionRepository {
	return &SessionDatabaseAdapter{db: db}
}

func (r *SessionDatabaseAdapter) CreateSession(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = util.NewULID()
	}
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	m := fromDomainSession(session)
	query := `INSERT INTO sessions (` + sessionColumns + `) VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.UserID, m.Role, m.Experience, m.TopicsToFocus, m.Description, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionDatabaseAdapter) GetSessionByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	var m models.Session
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return toDomainSession(&m), nil
}

// ListSessionsByUserID returns the user's sessions newest first.
func (r *SessionDatabaseAdapter) ListSessionsByUserID(ctx context.Context, userID string) ([]*domain.Session, error) {
	var rows []models.Session
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE user_id = :1 ORDER BY created_at DESC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*domain.Session{}, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*domain.Session, len(rows))
	for i := range rows {
		sessions[i] = toDomainSession(&rows[i])
	}
	return sessions, nil
}

func (r *SessionDatabaseAdapter) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM sessions WHERE id = :1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func toDomainSession(m *models.Session) *domain.Session {
	if m == nil {
		return nil
	}
	return &domain.Session{
		ID:            m.ID,
		UserID:        m.UserID,
		Role:          m.Role,
		Experience:    m.Experience.String,
		TopicsToFocus: m.TopicsToFocus.String,
		Description:   m.Description.String,
		Questions:     []*domain.Question{},
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromDomainSession(s *domain.Session) *models.Session {
	if s == nil {
		return nil
	}
	return &models.Session{
		ID:            s.ID,
		UserID:        s.UserID,
		Role:          s.Role,
		Experience:    util.StringToNullString(s.Experience),
		TopicsToFocus: util.StringToNullString(s.TopicsToFocus),
		Description:   util.StringToNullString(s.Description),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
