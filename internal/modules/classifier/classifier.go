package classifier

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

const (
	classifyTemperature = 0.1
	classifyMaxTokens   = 500

	refererHeader = "https://geoexplorer.com"
	titleHeader   = "GEOExplorer Analysis"
)

// Service calls the classification model over an OpenAI-compatible chat
// endpoint. The classifier runs at low temperature so repeated runs over the
// same response stay consistent.
type Service struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

func NewService(cfg config.ClassifierConfig) *Service {
	return &Service{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		endpoint: normalizeEndpoint(cfg.Endpoint),
		model:    cfg.Model,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Model returns the configured classification model name.
func (s *Service) Model() string { return s.model }

// Classify sends the analysis prompt to the classification model and returns
// its raw text output.
func (s *Service) Classify(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", errors.New("classifier api key is empty")
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": classifyTemperature,
		"max_tokens":  classifyMaxTokens,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", refererHeader)
	req.Header.Set("X-Title", titleHeader)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("classifier error: %d - %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("classifier error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("empty response from classifier")
	}
	return result.Choices[0].Message.Content, nil
}

func normalizeEndpoint(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	return strings.TrimSuffix(base, "/v1")
}
