// Package ollama lets the AI pipeline run against a local Ollama model through langchaingo.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"prepmate/internal/config"
	"prepmate/internal/domain"
	"prepmate/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// caller is the part of langchaingo's model API this client needs.
type caller interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

type Client struct {
	llm     caller
	model   string
	timeout time.Duration
}

// NewClient connects to the Ollama server configured in cfg.
func NewClient(cfg config.OllamaConfig) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchaingo ollama client: %w", err)
	}
	return newClient(llm, cfg.Model, cfg.Timeout), nil
}

func newClient(llm caller, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{llm: llm, model: model, timeout: timeout}
}

func (c *Client) Model() string {
	return c.model
}

// ValidateCredentials always succeeds; a local Ollama server needs no key.
func (c *Client) ValidateCredentials() error {
	return nil
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.llm.Call(callCtx, prompt,
		llms.WithTemperature(0.7),
		llms.WithTopK(40),
		llms.WithTopP(0.95),
		llms.WithMaxTokens(1024),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Get().Warn("Ollama request timed out", zap.Duration("timeout", c.timeout))
			return "", domain.NewAIError(domain.AINetworkError, 0, "ollama request timed out", err)
		}
		return "", domain.NewAIError(domain.AIUpstreamServerError, 0, "ollama call failed", err)
	}

	if strings.TrimSpace(response) == "" {
		return "", domain.NewAIError(domain.AIUpstreamInvalidResponse, 0, "ollama returned an empty response", nil)
	}
	return response, nil
}

var _ domain.ModelClient = (*Client)(nil)
