package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geoexplorer/core/internal/config"
)

func newTestLogger() *zap.Logger { return zap.NewNop() }

func TestStrategySelection(t *testing.T) {
	svc := NewService(config.ProviderConfig{APIKey: "k"}, newTestLogger())

	cases := []struct {
		model string
		want  Strategy
	}{
		{"gpt-5", svc.reasoning},
		{"GPT-5", svc.reasoning},
		// Only the exact gpt-5 model uses the responses API; variants stay
		// on chat completions.
		{"gpt-5-mini", svc.chat},
		{"claude-sonnet-4-20250514", svc.anthropic},
		{"Claude-Opus", svc.anthropic},
		{"gpt-4o", svc.chat},
		{"gemini-2.0-flash", svc.chat},
		{"", svc.chat},
	}
	for _, tc := range cases {
		assert.Same(t, tc.want, svc.strategyFor(tc.model), "model %q", tc.model)
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.openai.com/v1", normalizeBaseURL("https://api.openai.com"))
	assert.Equal(t, "https://api.openai.com/v1", normalizeBaseURL("https://api.openai.com/v1/"))
	assert.Equal(t, "https://gw.example.com/openai/v1", normalizeBaseURL("https://gw.example.com/openai"))
	assert.Equal(t, "", normalizeBaseURL(""))
}

func TestNormalizeRawEndpoint(t *testing.T) {
	assert.Equal(t, "https://api.openai.com", normalizeRawEndpoint(""))
	assert.Equal(t, "https://api.openai.com", normalizeRawEndpoint("https://api.openai.com/v1"))
	assert.Equal(t, "https://gw.example.com", normalizeRawEndpoint("https://gw.example.com/"))
}

func TestChatStrategyDispatch(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"role": "assistant", "content": "Deel and Rivermate are options."}},
			},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 30, "total_tokens": 42},
		})
	}))
	defer srv.Close()

	s := newChatStrategy(config.ProviderConfig{APIKey: "k", Endpoint: srv.URL})
	result, err := s.Dispatch(context.Background(), "gpt-4o", "Search for information about: EOR providers")
	require.NoError(t, err)

	assert.Equal(t, "Deel and Rivermate are options.", result.Response)
	assert.Equal(t, 42, result.TokensUsed)
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "gpt-4o", gotBody["model"])
}

func TestReasoningStrategyDispatch(t *testing.T) {
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/responses", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"output": []map[string]interface{}{
				{"type": "reasoning"},
				{"type": "message", "content": []map[string]string{
					{"type": "output_text", "text": "Rivermate handles global payroll."},
				}},
			},
			"usage": map[string]int{"total_tokens": 77},
		})
	}))
	defer srv.Close()

	s := newReasoningStrategy(config.ProviderConfig{APIKey: "k", Endpoint: srv.URL})
	result, err := s.Dispatch(context.Background(), "gpt-5", "query")
	require.NoError(t, err)

	assert.Equal(t, "Rivermate handles global payroll.", result.Response)
	assert.Equal(t, 77, result.TokensUsed)

	assert.Equal(t, "gpt-5", gotBody["model"])
	assert.Equal(t, "query", gotBody["input"])
	reasoning, ok := gotBody["reasoning"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "low", reasoning["effort"])
}

func TestReasoningStrategyUnrecognizedShapeKeepsRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output": [{"type": "tool_call"}]}`))
	}))
	defer srv.Close()

	s := newReasoningStrategy(config.ProviderConfig{APIKey: "k", Endpoint: srv.URL})
	result, err := s.Dispatch(context.Background(), "gpt-5", "query")
	require.NoError(t, err)

	assert.Contains(t, result.Response, "tool_call")
	assert.Equal(t, 0, result.TokensUsed)
}

func TestReasoningStrategyMissingUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"output": []map[string]interface{}{
				{"type": "message", "content": []map[string]string{{"type": "output_text", "text": "hi"}}},
			},
		})
	}))
	defer srv.Close()

	s := newReasoningStrategy(config.ProviderConfig{APIKey: "k", Endpoint: srv.URL})
	result, err := s.Dispatch(context.Background(), "gpt-5", "q")
	require.NoError(t, err)
	assert.Equal(t, 0, result.TokensUsed)
}

func TestReasoningStrategyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := newReasoningStrategy(config.ProviderConfig{APIKey: "k", Endpoint: srv.URL})
	_, err := s.Dispatch(context.Background(), "gpt-5", "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

type stubStrategy struct {
	result *Result
	err    error
}

func (s *stubStrategy) Dispatch(ctx context.Context, model, query string) (*Result, error) {
	return s.result, s.err
}

func TestServiceDispatchWrapsUpstreamError(t *testing.T) {
	svc := NewService(config.ProviderConfig{APIKey: "k"}, newTestLogger())
	base := errors.New("connection refused")
	svc.chat = &stubStrategy{err: base}

	_, err := svc.Dispatch(context.Background(), "gpt-4o", "q")
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "gpt-4o", upstream.Model)
	assert.ErrorIs(t, err, base)
}

func TestServiceDispatchMeasuresLatency(t *testing.T) {
	svc := NewService(config.ProviderConfig{APIKey: "k"}, newTestLogger())
	svc.chat = &stubStrategy{result: &Result{Response: "ok", TokensUsed: 5}}

	result, err := svc.Dispatch(context.Background(), "gpt-4o", "q")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Response)
	assert.GreaterOrEqual(t, result.DurationMs, 0)
}
