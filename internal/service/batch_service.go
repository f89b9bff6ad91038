package service

import (
	"context"
	"errors"
	"time"

	"prepmate/internal/domain"
	"prepmate/internal/logger"

	"go.uber.org/zap"
)

// batchService implements domain.BatchService by running explanation requests
// through the AI service, which stores each result in the explanation cache.
type batchService struct {
	ai AIService
}

func NewBatchService(ai AIService) domain.BatchService {
	return &batchService{ai: ai}
}

// WarmExplanations generates explanations one at a time. Per-entry failures are
// counted and skipped; quota exhaustion or an upstream cooldown ends the run early.
func (s *batchService) WarmExplanations(ctx context.Context, requests []domain.ExplanationRequest) (*domain.WarmReport, error) {
	log := logger.Get()
	report := &domain.WarmReport{Requested: len(requests)}
	start := time.Now()
	log.Info("Starting explanation warm-up", zap.Int("requested", len(requests)))

	for i, req := range requests {
		if err := ctx.Err(); err != nil {
			report.Skipped += len(requests) - i
			return report, err
		}

		exp, err := s.ai.GenerateExplanation(ctx, req)
		if err != nil {
			if stopsBatch(err) {
				report.Skipped += len(requests) - i
				log.Warn("Stopping warm-up, AI quota or cooldown reached",
					zap.String("concept", req.Concept), zap.Int("skipped", report.Skipped), zap.Error(err))
				return report, nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				report.Skipped += len(requests) - i
				return report, err
			}
			report.Failed++
			log.Error("Failed to warm explanation", zap.String("concept", req.Concept), zap.Error(err))
			continue
		}

		if exp.Cached {
			report.AlreadyWarm++
			continue
		}
		report.Generated++
		log.Info("Warmed explanation",
			zap.String("concept", exp.Concept),
			zap.String("difficulty", exp.Difficulty),
			zap.Int64("response_ms", exp.ResponseTime))
	}

	log.Info("Explanation warm-up finished",
		zap.Int("generated", report.Generated),
		zap.Int("already_warm", report.AlreadyWarm),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}

func stopsBatch(err error) bool {
	var aiErr *domain.AIError
	if !errors.As(err, &aiErr) {
		return false
	}
	switch aiErr.Kind {
	case domain.AIQuotaExceeded, domain.AIRateLimited, domain.AIMissingAPIKey, domain.AIInvalidAPIKey:
		return true
	case domain.AIRetriesExhausted:
		return aiErr.LastKind == domain.AIRateLimited
	}
	return false
}
