package gateway

import (
	"context"
	"fmt"
	neturl "net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/geoexplorer/core/internal/config"
)

// Result is what a monitored model returned for a query.
type Result struct {
	Response   string
	TokensUsed int
	DurationMs int
}

// UpstreamError wraps a provider-side failure so callers can distinguish it
// from local errors.
type UpstreamError struct {
	Model string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("model %q upstream error: %v", e.Model, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Strategy dispatches a query to one family of models.
type Strategy interface {
	Dispatch(ctx context.Context, model, query string) (*Result, error)
}

// Service routes queries to the right provider strategy based on the model
// name and measures wall-clock latency.
type Service struct {
	reasoning Strategy
	anthropic Strategy
	chat      Strategy
	log       *zap.Logger
}

func NewService(cfg config.ProviderConfig, log *zap.Logger) *Service {
	return &Service{
		reasoning: newReasoningStrategy(cfg),
		anthropic: newAnthropicStrategy(cfg),
		chat:      newChatStrategy(cfg),
		log:       log,
	}
}

// Dispatch sends the query to the model and returns its response with timing
// attached. Provider failures come back as *UpstreamError.
func (s *Service) Dispatch(ctx context.Context, model, query string) (*Result, error) {
	strategy := s.strategyFor(model)

	start := time.Now()
	result, err := strategy.Dispatch(ctx, model, query)
	elapsed := time.Since(start)

	if err != nil {
		s.log.Warn("model dispatch failed",
			zap.String("model", model),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, &UpstreamError{Model: model, Err: err}
	}

	result.DurationMs = int(elapsed.Milliseconds())
	return result, nil
}

func (s *Service) strategyFor(model string) Strategy {
	name := strings.ToLower(strings.TrimSpace(model))
	switch {
	case name == "gpt-5":
		return s.reasoning
	case strings.HasPrefix(name, "claude"):
		return s.anthropic
	default:
		return s.chat
	}
}

// normalizeBaseURL ensures the endpoint carries a /v1 suffix for SDK clients.
func normalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		if path == "" {
			path = "/v1"
		} else {
			path += "/v1"
		}
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

// normalizeRawEndpoint strips a trailing /v1 so raw HTTP callers can append
// their own versioned paths.
func normalizeRawEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		cleaned := strings.TrimRight(base, "/")
		return strings.TrimSuffix(cleaned, "/v1")
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
