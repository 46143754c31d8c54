package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/geoexplorer/core/internal/config"
)

// reasoningStrategy calls the responses endpoint for models that route
// through reasoning (the gpt-5 family). The SDK chat surface does not cover
// this endpoint, so the request goes over raw HTTP.
type reasoningStrategy struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func newReasoningStrategy(cfg config.ProviderConfig) *reasoningStrategy {
	return &reasoningStrategy{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		endpoint: normalizeRawEndpoint(cfg.Endpoint),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type responsesOutput struct {
	Type    string `json:"type"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type responsesResult struct {
	Output []responsesOutput `json:"output"`
	Usage  *struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *reasoningStrategy) Dispatch(ctx context.Context, model, query string) (*Result, error) {
	if s.apiKey == "" {
		return nil, errors.New("provider api key is empty")
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model":     model,
		"input":     query,
		"reasoning": map[string]string{"effort": "low"},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/v1/responses", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("responses endpoint error: %s", strings.TrimSpace(string(respBody)))
	}

	var result responsesResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, err
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return nil, fmt.Errorf("responses endpoint error: %s", result.Error.Message)
	}

	text := extractMessageText(result.Output)
	if text == "" {
		// Some gateways return shapes the scan does not recognize; keep the
		// raw payload rather than losing the response.
		text = strings.TrimSpace(string(respBody))
	}
	if text == "" {
		return nil, errors.New("empty response from model")
	}

	tokens := 0
	if result.Usage != nil {
		tokens = result.Usage.TotalTokens
	}

	return &Result{Response: text, TokensUsed: tokens}, nil
}

// extractMessageText scans the output array for the first message item and
// returns its first text content.
func extractMessageText(output []responsesOutput) string {
	for _, item := range output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			if strings.TrimSpace(content.Text) != "" {
				return content.Text
			}
		}
	}
	return ""
}
