// Package gemini is a single-attempt client for the Gemini generateContent REST endpoint.
// Retries live in the AI pipeline; this package only classifies each outcome.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"prepmate/internal/config"
	"prepmate/internal/domain"
)

const (
	// MinAPIKeyLength rejects obviously truncated keys before any network call.
	MinAPIKeyLength = 30

	maxResponseBytes = 4 << 20
)

type Client struct {
	apiKey            string
	model             string
	baseURL           string
	httpClient        *http.Client
	defaultRetryAfter time.Duration
}

// NewClient builds a client whose requests time out after cfg.Timeout.
func NewClient(cfg config.GeminiConfig, defaultRetryAfter time.Duration) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:            strings.TrimSpace(cfg.APIKey),
		model:             cfg.Model,
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:        &http.Client{Timeout: timeout},
		defaultRetryAfter: defaultRetryAfter,
	}
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) ValidateCredentials() error {
	if c.apiKey == "" {
		return domain.NewMissingAPIKeyError()
	}
	if len(c.apiKey) < MinAPIKeyLength {
		return domain.NewInvalidAPIKeyError()
	}
	return nil
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}

// Generate performs one generateContent call. Every failure except context
// cancellation is a *domain.AIError.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(newGenerateRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to encode gemini request: %w", err)
	}

	endpoint := c.endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?key="+url.QueryEscape(c.apiKey), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// url.Error carries the full URL, key included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = endpoint
		}
		return "", domain.NewAIError(domain.AINetworkError, 0, "request to model endpoint failed", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", domain.NewAIError(domain.AINetworkError, resp.StatusCode, "failed to read model response", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return extractText(payload)
	}
	return "", c.classify(resp.StatusCode, resp.Header, payload)
}

func (c *Client) classify(status int, header http.Header, payload []byte) *domain.AIError {
	env := decodeError(payload)
	message := http.StatusText(status)
	if env != nil && env.Error.Message != "" {
		message = env.Error.Message
	}

	switch {
	case status == http.StatusTooManyRequests:
		if isDailyQuota(env) {
			return domain.NewQuotaExceededError(message)
		}
		return domain.NewRateLimitedError(retryDelay(header, env, c.defaultRetryAfter), message)
	case status >= 500:
		return domain.NewAIError(domain.AIUpstreamServerError, status, message, nil)
	case status == http.StatusRequestTimeout:
		return domain.NewAIError(domain.AINetworkError, status, message, nil)
	default:
		return domain.NewAIError(domain.AIUpstreamClientError, status, message, nil)
	}
}

func extractText(payload []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", domain.NewAIError(domain.AIUpstreamInvalidResponse, http.StatusOK, "model response is not valid JSON", err)
	}
	if len(resp.Candidates) == 0 {
		return "", domain.NewAIError(domain.AIUpstreamInvalidResponse, http.StatusOK, "model returned no candidates", nil)
	}
	candidate := resp.Candidates[0]
	if !strings.EqualFold(candidate.FinishReason, "stop") {
		return "", domain.NewAIError(domain.AIUpstreamInvalidResponse, http.StatusOK,
			fmt.Sprintf("unexpected finish reason %q", candidate.FinishReason), nil)
	}
	if len(candidate.Content.Parts) == 0 || candidate.Content.Parts[0].Text == nil {
		return "", domain.NewAIError(domain.AIUpstreamInvalidResponse, http.StatusOK, "model response has no text content", nil)
	}
	return *candidate.Content.Parts[0].Text, nil
}

func decodeError(payload []byte) *errorEnvelope {
	var env errorEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil
	}
	return &env
}

// retryDelay prefers the Retry-After header, then a RetryInfo detail, then def.
func retryDelay(header http.Header, env *errorEnvelope, def time.Duration) time.Duration {
	if v := strings.TrimSpace(header.Get("Retry-After")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
		if at, err := http.ParseTime(v); err == nil {
			if d := time.Until(at); d > 0 {
				return d
			}
		}
	}
	if env != nil {
		for _, d := range env.Error.Details {
			if d.RetryDelay == "" {
				continue
			}
			if dur, err := time.ParseDuration(d.RetryDelay); err == nil && dur >= 0 {
				return dur
			}
		}
	}
	return def
}

// isDailyQuota distinguishes a hard per-day quota from a transient per-minute limit.
func isDailyQuota(env *errorEnvelope) bool {
	if env == nil {
		return false
	}
	for _, d := range env.Error.Details {
		if !strings.Contains(d.Type, "QuotaFailure") {
			continue
		}
		for _, v := range d.Violations {
			if strings.Contains(v.QuotaID, "PerDay") || strings.Contains(v.QuotaMetric, "PerDay") {
				return true
			}
		}
	}
	msg := strings.ToLower(env.Error.Message)
	return strings.Contains(msg, "daily") || strings.Contains(msg, "per day")
}

var _ domain.ModelClient = (*Client)(nil)
