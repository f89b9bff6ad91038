package service

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"prepmate/internal/cache"
	"prepmate/internal/domain"
	"prepmate/internal/fallback"
	"prepmate/internal/logger"
	"prepmate/internal/parser"
	"prepmate/internal/prompt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ContentGenerator is the part of AIPipeline the AI service depends on.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// AIService generates interview questions and concept explanations.
type AIService interface {
	GenerateQuestions(ctx context.Context, req domain.QuestionRequest) (*domain.GeneratedQuestions, error)
	GenerateExplanation(ctx context.Context, req domain.ExplanationRequest) (*domain.Explanation, error)
	Usage(ctx context.Context) domain.UsageSnapshot
}

type aiServiceImpl struct {
	generator ContentGenerator
	tracker   domain.QuotaTracker
	cache     domain.Cache
	cacheTTL  time.Duration
	now       func() time.Time
	inflight  singleflight.Group
}

// NewAIService creates the AI service. cache may be nil, which disables explanation caching.
func NewAIService(generator ContentGenerator, tracker domain.QuotaTracker, cache domain.Cache, cacheTTL time.Duration) AIService {
	return &aiServiceImpl{
		generator: generator,
		tracker:   tracker,
		cache:     cache,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

// GenerateQuestions never surfaces model or parse failures; it answers from the
// template bank instead and marks the result as a fallback.
func (s *aiServiceImpl) GenerateQuestions(ctx context.Context, req domain.QuestionRequest) (*domain.GeneratedQuestions, error) {
	if req.Count < domain.MinQuestionCount || req.Count > domain.MaxQuestionCount {
		return nil, domain.ValidationErrors{
			domain.NewOutOfRangeError("numberOfQuestions", req.Count, domain.MinQuestionCount, domain.MaxQuestionCount),
		}
	}

	log := logger.Get().With(zap.String("role", req.Role), zap.Int("count", req.Count))

	if s.tracker.IsDailyQuotaExceeded(ctx) {
		log.Warn("Daily AI quota exhausted, serving fallback questions")
		return s.fallbackQuestions(req), nil
	}
	if s.tracker.IsRateLimited(ctx) {
		log.Warn("AI rate limit cooldown active, serving fallback questions")
		return s.fallbackQuestions(req), nil
	}

	raw, err := s.generator.GenerateContent(ctx, prompt.BuildQuestionPrompt(req.Role, req.Experience, req.Topics, req.Count))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("AI question generation failed, serving fallback questions", zap.Error(err))
		return s.fallbackQuestions(req), nil
	}

	questions := parser.ParseQuestions(raw, req.Count)
	if len(questions) == 0 {
		log.Warn("No questions could be parsed from AI response", zap.Int("raw_length", len(raw)))
		return s.fallbackQuestions(req), nil
	}

	log.Info("Generated interview questions", zap.Int("parsed", len(questions)))
	return &domain.GeneratedQuestions{Questions: questions}, nil
}

func (s *aiServiceImpl) fallbackQuestions(req domain.QuestionRequest) *domain.GeneratedQuestions {
	return &domain.GeneratedQuestions{
		Questions:  fallback.Questions(req.Role, req.Experience, req.Topics, req.Count),
		IsFallback: true,
	}
}

// GenerateExplanation applies defaults, serves from the cache when possible and
// otherwise calls the model. Unlike question generation, failures are returned.
func (s *aiServiceImpl) GenerateExplanation(ctx context.Context, req domain.ExplanationRequest) (*domain.Explanation, error) {
	req, err := normalizeExplanationRequest(req)
	if err != nil {
		return nil, err
	}
	log := logger.Get().With(zap.String("concept", req.Concept), zap.String("difficulty", req.Difficulty))

	key := cache.ExplanationKey(req.Concept, req.Difficulty, req.Language, req.Context)
	if cached := s.cachedExplanation(ctx, key); cached != nil {
		log.Debug("Explanation served from cache")
		return cached, nil
	}

	if s.tracker.IsDailyQuotaExceeded(ctx) {
		return nil, domain.NewQuotaExceededError("Daily AI quota exceeded, try again tomorrow")
	}
	if s.tracker.IsRateLimited(ctx) {
		return nil, domain.NewRateLimitedError(0, "AI service is rate limited, try again shortly")
	}

	// Concurrent misses for the same key share one model call. The call is detached
	// from any single caller's cancellation; each caller still stops waiting on its own ctx.
	ch := s.inflight.DoChan(key, func() (interface{}, error) {
		return s.generateExplanation(context.WithoutCancel(ctx), key, req)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		log.Error("AI explanation generation failed", zap.Error(res.Err))
		return nil, res.Err
	}
	exp := *res.Val.(*domain.Explanation)
	if res.Shared {
		log.Debug("Explanation shared with a concurrent request")
	}
	return &exp, nil
}

func (s *aiServiceImpl) generateExplanation(ctx context.Context, key string, req domain.ExplanationRequest) (*domain.Explanation, error) {
	start := s.now()
	raw, err := s.generator.GenerateContent(ctx, prompt.BuildExplanationPrompt(req.Concept, req.Difficulty, req.Language, req.Context))
	if err != nil {
		return nil, err
	}
	elapsed := s.now().Sub(start)

	text := unwrapJSONString(raw)
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewError(domain.CodeInvalidExplanationFormat, "Failed to process the generated explanation", nil)
	}

	exp := &domain.Explanation{
		Concept:      req.Concept,
		Difficulty:   req.Difficulty,
		Language:     req.Language,
		Text:         text,
		Model:        s.generator.Model(),
		ResponseTime: elapsed.Milliseconds(),
		GeneratedAt:  s.now().UTC(),
	}
	s.storeExplanation(ctx, key, exp)

	logger.Get().Info("Generated explanation",
		zap.String("concept", req.Concept),
		zap.Int("length", len(text)),
		zap.Duration("response_time", elapsed))
	return exp, nil
}

func normalizeExplanationRequest(req domain.ExplanationRequest) (domain.ExplanationRequest, error) {
	req.Concept = strings.TrimSpace(req.Concept)
	if req.Concept == "" {
		return req, domain.ValidationErrors{domain.NewMissingFieldError("concept")}
	}

	req.Difficulty = strings.ToLower(strings.TrimSpace(req.Difficulty))
	if req.Difficulty == "" {
		req.Difficulty = domain.DefaultDifficulty
	}
	if !slices.Contains(domain.ValidDifficulties, req.Difficulty) {
		return req, domain.ValidationErrors{domain.NewInvalidValueError("difficulty", req.Difficulty, domain.ValidDifficulties)}
	}

	req.Language = strings.TrimSpace(req.Language)
	if req.Language == "" {
		req.Language = domain.DefaultLanguage
	}
	return req, nil
}

// unwrapJSONString returns the decoded value when raw is a JSON string literal.
func unwrapJSONString(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &s); err == nil {
		return s
	}
	return raw
}

func (s *aiServiceImpl) cachedExplanation(ctx context.Context, key string) *domain.Explanation {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Explanation cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	var exp domain.Explanation
	if err := json.Unmarshal([]byte(data), &exp); err != nil || exp.Text == "" {
		logger.Get().Warn("Discarding malformed cached explanation", zap.String("key", key), zap.Error(err))
		return nil
	}
	exp.Cached = true
	return &exp
}

func (s *aiServiceImpl) storeExplanation(ctx context.Context, key string, exp *domain.Explanation) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(exp)
	if err != nil {
		logger.Get().Warn("Failed to encode explanation for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
		logger.Get().Warn("Failed to cache explanation", zap.String("key", key), zap.Error(err))
	}
}

func (s *aiServiceImpl) Usage(ctx context.Context) domain.UsageSnapshot {
	return s.tracker.Snapshot(ctx)
}
