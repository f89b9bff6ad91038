package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"prepmate/internal/config"
	"prepmate/internal/domain"
	"prepmate/internal/logger"
	"prepmate/internal/util"

	"go.uber.org/zap"
)

// RetryPolicy bounds the pipeline's attempts. Delay for the n-th backoff step is
// min(MaxDelay, InitialDelay*2^n) plus up to Jitter of that value.
type RetryPolicy struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	Jitter            float64
	DefaultRetryAfter time.Duration
}

// DefaultRetryPolicy allows three attempts in total.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        2,
		InitialDelay:      3 * time.Second,
		MaxDelay:          30 * time.Second,
		Jitter:            0.5,
		DefaultRetryAfter: 5 * time.Second,
	}
}

// RetryPolicyFromConfig fills unset values from DefaultRetryPolicy.
func RetryPolicyFromConfig(cfg config.RetryConfig) RetryPolicy {
	p := DefaultRetryPolicy()
	p.MaxRetries = cfg.MaxRetries
	if cfg.InitialDelay > 0 {
		p.InitialDelay = cfg.InitialDelay
	}
	if cfg.MaxDelay > 0 {
		p.MaxDelay = cfg.MaxDelay
	}
	if cfg.Jitter >= 0 {
		p.Jitter = cfg.Jitter
	}
	if cfg.DefaultRetryAfter > 0 {
		p.DefaultRetryAfter = cfg.DefaultRetryAfter
	}
	return p
}

// backoff returns the delay before retrying after the step-th non-429 failure.
func (p RetryPolicy) backoff(step int, random float64) time.Duration {
	delay := p.MaxDelay
	if step < 32 {
		if d := p.InitialDelay << step; d > 0 && d < p.MaxDelay {
			delay = d
		}
	}
	return delay + time.Duration(float64(delay)*p.Jitter*random)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// AIPipeline sends a prompt to a model client with retries and reports every
// outcome to the quota tracker. It never consults the tracker before calling.
type AIPipeline struct {
	client  domain.ModelClient
	tracker domain.QuotaTracker
	policy  RetryPolicy
	sleep   Sleeper
	random  func() float64
}

// PipelineOption customises an AIPipeline.
type PipelineOption func(*AIPipeline)

// WithSleeper replaces the timer-based wait, mainly for tests.
func WithSleeper(s Sleeper) PipelineOption {
	return func(p *AIPipeline) { p.sleep = s }
}

// WithRandom replaces the jitter source; it must return values in [0, 1).
func WithRandom(r func() float64) PipelineOption {
	return func(p *AIPipeline) { p.random = r }
}

func NewAIPipeline(client domain.ModelClient, tracker domain.QuotaTracker, policy RetryPolicy, opts ...PipelineOption) *AIPipeline {
	p := &AIPipeline{
		client:  client,
		tracker: tracker,
		policy:  policy,
		sleep:   sleepContext,
		random:  rand.Float64,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Model names the backing model for response metadata.
func (p *AIPipeline) Model() string {
	return p.client.Model()
}

// GenerateContent runs the prompt with the configured retry budget.
func (p *AIPipeline) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return p.GenerateContentWithRetries(ctx, prompt, p.policy.MaxRetries)
}

// GenerateContentWithRetries allows at most maxRetries+1 attempts. A 429 spends an
// attempt and waits the provider's delay but does not advance the backoff exponent.
// Non-retriable failures return immediately; an exhausted budget returns
// AIRetriesExhausted wrapping the last failure.
func (p *AIPipeline) GenerateContentWithRetries(ctx context.Context, prompt string, maxRetries int) (string, error) {
	if err := p.client.ValidateCredentials(); err != nil {
		return "", err
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	log := logger.Get().With(zap.String("ai_request_id", util.NewULID()), zap.String("model", p.client.Model()))
	log.Debug("Sending AI request", zap.Int("prompt_length", len(prompt)), zap.Int("max_retries", maxRetries))

	var lastErr *domain.AIError
	backoffStep := 0
	attempts := 0

	for attempt := 0; attempt <= maxRetries; attempt++ {
		attempts++
		start := time.Now()
		text, err := p.client.Generate(ctx, prompt)
		if err == nil {
			count := p.tracker.RecordRequest(ctx)
			log.Info("AI request succeeded",
				zap.Int("attempt", attempts),
				zap.Duration("duration", time.Since(start)),
				zap.Int("daily_requests", count))
			return text, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("ai request cancelled after %d attempts: %w", attempts, ctxErr)
		}

		var aiErr *domain.AIError
		if !errors.As(err, &aiErr) {
			aiErr = domain.NewAIError(domain.AINetworkError, 0, "model call failed", err)
		}
		lastErr = aiErr

		var delay time.Duration
		switch {
		case aiErr.Kind == domain.AIQuotaExceeded:
			p.tracker.MarkDailyQuotaExceeded(ctx)
			log.Error("AI daily quota exhausted", zap.Int("attempt", attempts), zap.Error(aiErr))
			return "", aiErr
		case aiErr.Kind == domain.AIRateLimited:
			delay = aiErr.RetryAfter
			if delay <= 0 {
				delay = p.policy.DefaultRetryAfter
			}
			p.tracker.ActivateCooldown(ctx, int((delay+time.Second-1)/time.Second))
		case !aiErr.Retriable():
			log.Warn("AI request failed with non-retriable error", zap.Int("attempt", attempts), zap.Error(aiErr))
			return "", aiErr
		default:
			delay = p.policy.backoff(backoffStep, p.random())
			backoffStep++
		}

		if attempt == maxRetries {
			break
		}

		log.Warn("AI request failed, retrying",
			zap.Int("attempt", attempts),
			zap.String("kind", string(aiErr.Kind)),
			zap.Int("status", aiErr.StatusCode),
			zap.Duration("delay", delay))

		if err := p.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("ai request cancelled after %d attempts: %w", attempts, err)
		}
	}

	exhausted := domain.NewRetriesExhaustedError(attempts, lastErr)
	log.Error("AI request retries exhausted", zap.Int("attempts", attempts), zap.String("last_kind", string(exhausted.LastKind)))
	return "", exhausted
}
