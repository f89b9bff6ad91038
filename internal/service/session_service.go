package service

import (
	"context"

	"prepmate/internal/domain"
	"prepmate/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// questionLoadConcurrency bounds parallel question queries when listing sessions.
const questionLoadConcurrency = 4

// SessionService manages interview-prep sessions and their questions.
type SessionService interface {
	Create(ctx context.Context, session *domain.Session, questions []*domain.Question) (*domain.Session, error)
	ListMine(ctx context.Context, userID string) ([]*domain.Session, error)
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Delete(ctx context.Context, userID, sessionID string) error
}

type sessionServiceImpl struct {
	sessions  domain.SessionRepository
	questions domain.QuestionRepository
	tx        domain.TransactionManager
}

func NewSessionService(sessions domain.SessionRepository, questions domain.QuestionRepository, tx domain.TransactionManager) SessionService {
	return &sessionServiceImpl{sessions: sessions, questions: questions, tx: tx}
}

// Create stores the session and its questions in one transaction.
func (s *sessionServiceImpl) Create(ctx context.Context, session *domain.Session, questions []*domain.Question) (*domain.Session, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.sessions.CreateSession(ctx, session); err != nil {
			return err
		}
		for _, q := range questions {
			q.SessionID = session.ID
			if q.Question == "" {
				q.Question = domain.DefaultQuestionText
			}
		}
		if len(questions) == 0 {
			return nil
		}
		return s.questions.CreateQuestions(ctx, questions)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to create session", err)
	}

	session.Questions = questions
	if session.Questions == nil {
		session.Questions = []*domain.Question{}
	}
	domain.SortQuestions(session.Questions)
	logger.Get().Info("Session created",
		zap.String("sessionID", session.ID),
		zap.String("userID", session.UserID),
		zap.Int("questions", len(questions)))
	return session, nil
}

// ListMine returns the user's sessions newest first, each with its questions
// pinned first and then oldest first.
func (s *sessionServiceImpl) ListMine(ctx context.Context, userID string) ([]*domain.Session, error) {
	sessions, err := s.sessions.ListSessionsByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list sessions", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(questionLoadConcurrency)
	for _, session := range sessions {
		g.Go(func() error {
			return s.loadQuestions(gctx, session)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("failed to load session questions", err)
	}
	return sessions, nil
}

func (s *sessionServiceImpl) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get session", err)
	}
	if session == nil {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	if err := s.loadQuestions(ctx, session); err != nil {
		return nil, domain.NewInternalError("failed to load session questions", err)
	}
	return session, nil
}

// Delete removes the session's questions and then the session itself.
func (s *sessionServiceImpl) Delete(ctx context.Context, userID, sessionID string) error {
	if _, err := loadOwnedSession(ctx, s.sessions, userID, sessionID); err != nil {
		return err
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.questions.DeleteQuestionsBySessionID(ctx, sessionID); err != nil {
			return err
		}
		return s.sessions.DeleteSession(ctx, sessionID)
	})
	if err != nil {
		return domain.NewInternalError("failed to delete session", err)
	}
	logger.Get().Info("Session deleted", zap.String("sessionID", sessionID), zap.String("userID", userID))
	return nil
}

func (s *sessionServiceImpl) loadQuestions(ctx context.Context, session *domain.Session) error {
	questions, err := s.questions.ListQuestionsBySessionID(ctx, session.ID)
	if err != nil {
		return err
	}
	if questions == nil {
		questions = []*domain.Question{}
	}
	domain.SortQuestions(questions)
	session.Questions = questions
	return nil
}

// loadOwnedSession returns SESSION_NOT_FOUND or NOT_AUTHORIZED when userID cannot modify the session.
func loadOwnedSession(ctx context.Context, repo domain.SessionRepository, userID, sessionID string) (*domain.Session, error) {
	session, err := repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get session", err)
	}
	if session == nil {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	if !session.IsOwnedBy(userID) {
		return nil, domain.NewNotAuthorizedError()
	}
	return session, nil
}
