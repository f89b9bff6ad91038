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

const questionColumns = `id, session_id, question, answer, note, is_pinned, created_at, updated_at`

type QuestionDatabaseAdapter struct {
	db DBTX
}

func NewQuestionDatabaseAdapter(db DBTX) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// CreateQuestions inserts each question with its own statement; callers wrap it in
// a transaction when the batch must be atomic.
func (r *QuestionDatabaseAdapter) CreateQuestions(ctx context.Context, questions []*domain.Question) error {
	exec := GetExecutor(ctx, r.db)
	query := `INSERT INTO questions (` + questionColumns + `) VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`

	for _, q := range questions {
		if q.ID == "" {
			q.ID = util.NewULID()
		}
		if q.CreatedAt.IsZero() {
			q.CreatedAt = time.Now()
		}
		q.UpdatedAt = q.CreatedAt

		m := fromDomainQuestion(q)
		if _, err := exec.ExecContext(ctx, query,
			m.ID, m.SessionID, m.Question, m.Answer, m.Note, m.IsPinned, m.CreatedAt, m.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
	}
	return nil
}

func (r *QuestionDatabaseAdapter) GetQuestionByID(ctx context.Context, questionID string) (*domain.Question, error) {
	var m models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return toDomainQuestion(&m), nil
}

// ListQuestionsBySessionID returns pinned questions first, then oldest first.
func (r *QuestionDatabaseAdapter) ListQuestionsBySessionID(ctx context.Context, sessionID string) ([]*domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE session_id = :1 ORDER BY is_pinned DESC, created_at ASC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*domain.Question{}, nil
		}
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	questions := make([]*domain.Question, len(rows))
	for i := range rows {
		questions[i] = toDomainQuestion(&rows[i])
	}
	return questions, nil
}

func (r *QuestionDatabaseAdapter) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	question.UpdatedAt = time.Now()
	m := fromDomainQuestion(question)

	query := `UPDATE questions SET question = :1, answer = :2, note = :3, is_pinned = :4, updated_at = :5 WHERE id = :6`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.Question, m.Answer, m.Note, m.IsPinned, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewQuestionNotFoundError(question.ID)
	}
	return nil
}

func (r *QuestionDatabaseAdapter) DeleteQuestionsBySessionID(ctx context.Context, sessionID string) error {
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM questions WHERE session_id = :1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	return nil
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:        m.ID,
		SessionID: m.SessionID,
		Question:  m.Question,
		Answer:    m.Answer.String,
		Note:      m.Note.String,
		IsPinned:  m.IsPinned != 0,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	if q == nil {
		return nil
	}
	return &models.Question{
		ID:        q.ID,
		SessionID: q.SessionID,
		Question:  q.Question,
		Answer:    util.StringToNullString(q.Answer),
		Note:      util.StringToNullString(q.Note),
		IsPinned:  util.BoolToNumber(q.IsPinned),
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}
