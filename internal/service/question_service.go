package service

import (
	"context"

	"prepmate/internal/domain"
)

// QuestionService edits questions inside sessions owned by the caller.
type QuestionService interface {
	AddToSession(ctx context.Context, userID, sessionID string, questions []*domain.Question) ([]*domain.Question, error)
	TogglePin(ctx context.Context, userID, questionID string) (*domain.Question, error)
	UpdateNote(ctx context.Context, userID, questionID, note string) (*domain.Question, error)
}

type questionServiceImpl struct {
	sessions  domain.SessionRepository
	questions domain.QuestionRepository
	tx        domain.TransactionManager
}

func NewQuestionService(sessions domain.SessionRepository, questions domain.QuestionRepository, tx domain.TransactionManager) QuestionService {
	return &questionServiceImpl{sessions: sessions, questions: questions, tx: tx}
}

func (s *questionServiceImpl) AddToSession(ctx context.Context, userID, sessionID string, questions []*domain.Question) ([]*domain.Question, error) {
	if len(questions) == 0 {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("questions")}
	}
	if _, err := loadOwnedSession(ctx, s.sessions, userID, sessionID); err != nil {
		return nil, err
	}

	for _, q := range questions {
		q.SessionID = sessionID
		if q.Question == "" {
			q.Question = domain.DefaultQuestionText
		}
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.questions.CreateQuestions(ctx, questions)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to add questions", err)
	}
	return questions, nil
}

func (s *questionServiceImpl) TogglePin(ctx context.Context, userID, questionID string) (*domain.Question, error) {
	return s.update(ctx, userID, questionID, func(q *domain.Question) {
		q.IsPinned = !q.IsPinned
	})
}

func (s *questionServiceImpl) UpdateNote(ctx context.Context, userID, questionID, note string) (*domain.Question, error) {
	return s.update(ctx, userID, questionID, func(q *domain.Question) {
		q.Note = note
	})
}

func (s *questionServiceImpl) update(ctx context.Context, userID, questionID string, mutate func(*domain.Question)) (*domain.Question, error) {
	q, err := s.questions.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get question", err)
	}
	if q == nil {
		return nil, domain.NewQuestionNotFoundError(questionID)
	}
	if _, err := loadOwnedSession(ctx, s.sessions, userID, q.SessionID); err != nil {
		return nil, err
	}

	mutate(q)
	if err := s.questions.UpdateQuestion(ctx, q); err != nil {
		if domainErr, ok := err.(*domain.DomainError); ok {
			return nil, domainErr
		}
		return nil, domain.NewInternalError("failed to update question", err)
	}
	return q, nil
}
