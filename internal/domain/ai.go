package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultDifficulty = "intermediate"
	DefaultLanguage   = "English"

	MinQuestionCount = 1
	MaxQuestionCount = 20
)

// ValidDifficulties lists the accepted explanation difficulty levels.
var ValidDifficulties = []string{"beginner", "intermediate", "advanced", "expert"}

// AIErrorKind classifies a failed model call. The kind alone decides retry policy and HTTP mapping.
type AIErrorKind string

const (
	AIMissingAPIKey           AIErrorKind = "MISSING_API_KEY"
	AIInvalidAPIKey           AIErrorKind = "INVALID_API_KEY"
	AIUpstreamInvalidResponse AIErrorKind = "UPSTREAM_INVALID_RESPONSE"
	AIQuotaExceeded           AIErrorKind = "QUOTA_EXCEEDED"
	AIRateLimited             AIErrorKind = "RATE_LIMITED"
	AIUpstreamServerError     AIErrorKind = "UPSTREAM_SERVER_ERROR"
	AINetworkError            AIErrorKind = "NETWORK_ERROR"
	AIUpstreamClientError     AIErrorKind = "UPSTREAM_CLIENT_ERROR"
	AIRetriesExhausted        AIErrorKind = "RETRIES_EXHAUSTED"
)

// AIError is the single error type produced by model clients and the AI pipeline.
// Fields that do not apply to a kind stay at their zero value.
type AIError struct {
	Kind       AIErrorKind
	StatusCode int
	RetryAfter time.Duration
	Attempts   int
	LastKind   AIErrorKind
	Message    string
	Err        error
}

func (e *AIError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AIError) Unwrap() error {
	return e.Err
}

// Retriable reports whether the pipeline may issue another attempt after this error.
func (e *AIError) Retriable() bool {
	switch e.Kind {
	case AIUpstreamInvalidResponse, AIRateLimited, AIUpstreamServerError, AINetworkError:
		return true
	default:
		return false
	}
}

func NewAIError(kind AIErrorKind, statusCode int, message string, err error) *AIError {
	return &AIError{Kind: kind, StatusCode: statusCode, Message: message, Err: err}
}

func NewMissingAPIKeyError() *AIError {
	return &AIError{Kind: AIMissingAPIKey, Message: "AI API key is not configured"}
}

func NewInvalidAPIKeyError() *AIError {
	return &AIError{Kind: AIInvalidAPIKey, Message: "AI API key is malformed"}
}

func NewRateLimitedError(retryAfter time.Duration, message string) *AIError {
	return &AIError{Kind: AIRateLimited, StatusCode: 429, RetryAfter: retryAfter, Message: message}
}

func NewQuotaExceededError(message string) *AIError {
	return &AIError{Kind: AIQuotaExceeded, StatusCode: 429, Message: message}
}

// NewRetriesExhaustedError wraps the last attempt's error after the retry budget is spent.
func NewRetriesExhaustedError(attempts int, last *AIError) *AIError {
	e := &AIError{
		Kind:     AIRetriesExhausted,
		Attempts: attempts,
		Message:  fmt.Sprintf("AI request failed after %d attempts", attempts),
	}
	if last != nil {
		e.LastKind = last.Kind
		e.StatusCode = last.StatusCode
		e.RetryAfter = last.RetryAfter
		e.Err = last
	}
	return e
}

// AIErrorKindOf returns the kind of the first AIError in err's chain.
func AIErrorKindOf(err error) (AIErrorKind, bool) {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.Kind, true
	}
	return "", false
}

// ModelClient performs exactly one generation attempt against a model backend.
// Failures are returned as *AIError so the pipeline can classify them.
type ModelClient interface {
	ValidateCredentials() error
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// QuotaTracker records upstream usage and the process-wide rate-limit cooldown.
type QuotaTracker interface {
	RecordRequest(ctx context.Context) int
	IsRateLimited(ctx context.Context) bool
	ActivateCooldown(ctx context.Context, retryAfterSeconds int)
	IsDailyQuotaExceeded(ctx context.Context) bool
	MarkDailyQuotaExceeded(ctx context.Context)
	Snapshot(ctx context.Context) UsageSnapshot
}

// UsageSnapshot is a point-in-time view of the tracker.
type UsageSnapshot struct {
	Date               string
	DailyRequests      int
	RateLimited        bool
	DailyQuotaExceeded bool
}

// QuestionRequest asks for generated interview questions.
type QuestionRequest struct {
	Role       string
	Experience string
	Topics     string
	Count      int
}

// ExplanationRequest asks for a concept explanation.
type ExplanationRequest struct {
	Concept    string
	Difficulty string
	Language   string
	Context    string
}

// GeneratedQuestions is the outcome of question generation; IsFallback marks template output.
type GeneratedQuestions struct {
	Questions  []string
	IsFallback bool
}

// Explanation is a generated concept explanation with its provenance.
type Explanation struct {
	Concept      string    `json:"concept"`
	Difficulty   string    `json:"difficulty"`
	Language     string    `json:"language"`
	Text         string    `json:"explanation"`
	Model        string    `json:"model"`
	ResponseTime int64     `json:"responseTime"`
	GeneratedAt  time.Time `json:"generatedAt"`
	Cached       bool      `json:"-"`
}
