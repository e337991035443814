// Package assistant proxies free-form questions to the generative model.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/momwise/momwise/internal/apperr"
	"github.com/momwise/momwise/internal/llm"
	"github.com/momwise/momwise/internal/prompt"
)

// DefaultTimeout bounds a single reply.
const DefaultTimeout = 30 * time.Second

// Generator executes a generation request and returns the raw model text.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

// Service answers chat messages. Replies are not cached.
type Service struct {
	gen     Generator
	logger  *slog.Logger
	timeout time.Duration
}

// New creates an assistant. A nil logger uses slog.Default().
func New(gen Generator, logger *slog.Logger, timeout time.Duration) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{gen: gen, logger: logger, timeout: timeout}
}

// Reply returns the model's answer to message.
func (s *Service) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("message is required: %w", apperr.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	reply, err := s.gen.Generate(ctx, prompt.Chat(message))
	if err != nil {
		if llm.IsFatal(err) {
			s.logger.Error("assistant is not configured", slog.String("error", err.Error()))
			return "", fmt.Errorf("%w: %w", apperr.ErrConfiguration, err)
		}
		s.logger.Error("assistant reply failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %w", apperr.ErrUpstreamUnavailable, err)
	}
	return strings.TrimSpace(reply), nil
}
