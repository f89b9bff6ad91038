package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"prepmate/cmd/seed_demo_data/internal/seedmodels"
	"prepmate/internal/domain"
	"prepmate/internal/service"

	"go.uber.org/zap"
)

type seeder struct {
	auth     service.AuthService
	sessions service.SessionService
	log      *zap.Logger
}

type seedResult struct {
	Users    int
	Sessions int
	Skipped  int
}

// seedUser registers the account (or logs into an existing one) and creates every
// session not already present for it. Sessions match on role and topics.
func (s *seeder) seedUser(ctx context.Context, su seedmodels.SeedUser) (*seedResult, error) {
	result := &seedResult{}

	user, _, err := s.auth.Register(ctx, su.Name, su.Email, su.Password, su.ProfileImageURL)
	if err != nil {
		var domainErr *domain.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != domain.CodeUserExists {
			return nil, fmt.Errorf("register %s: %w", su.Email, err)
		}
		user, _, err = s.auth.Login(ctx, su.Email, su.Password)
		if err != nil {
			return nil, fmt.Errorf("login existing user %s: %w", su.Email, err)
		}
		s.log.Info("Demo user already exists", zap.String("email", su.Email))
	} else {
		result.Users++
		s.log.Info("Created demo user", zap.String("email", su.Email), zap.String("user_id", user.ID))
	}

	existing, err := s.sessions.ListMine(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list sessions for %s: %w", su.Email, err)
	}
	seen := make(map[string]bool, len(existing))
	for _, es := range existing {
		seen[sessionKey(es.Role, es.TopicsToFocus)] = true
	}

	for _, ss := range su.Sessions {
		if seen[sessionKey(ss.Role, ss.TopicsToFocus)] {
			result.Skipped++
			continue
		}

		questions := make([]*domain.Question, 0, len(ss.Questions))
		for _, sq := range ss.Questions {
			questions = append(questions, domain.NewQuestion("", sq.Question, sq.Answer, sq.IsPinned))
		}

		created, err := s.sessions.Create(ctx, domain.NewSession(user.ID, ss.Role, ss.Experience, ss.TopicsToFocus, ss.Description), questions)
		if err != nil {
			return nil, fmt.Errorf("create session %q: %w", ss.Role, err)
		}
		seen[sessionKey(ss.Role, ss.TopicsToFocus)] = true
		result.Sessions++
		s.log.Info("Seeded session",
			zap.String("session_id", created.ID),
			zap.String("role", ss.Role),
			zap.Int("questions", len(created.Questions)))
	}
	return result, nil
}

func sessionKey(role, topics string) string {
	return strings.ToLower(strings.TrimSpace(role)) + "|" + strings.ToLower(strings.TrimSpace(topics))
}
