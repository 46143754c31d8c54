package gateway

import (
	"context"
	"errors"

	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"

	"github.com/geoexplorer/core/internal/config"
)

const (
	chatMaxTokens   = 1000
	chatTemperature = 0.7
)

// chatStrategy talks to OpenAI-compatible chat completion models via the SDK.
type chatStrategy struct {
	client openaiclient.Client
}

func newChatStrategy(cfg config.ProviderConfig) *chatStrategy {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(cfg.APIKey),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeBaseURL(cfg.Endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}

	return &chatStrategy{client: openaiclient.NewClient(opts...)}
}

func (s *chatStrategy) Dispatch(ctx context.Context, model, query string) (*Result, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openaiclient.ChatCompletionNewParams{
		Messages: []openaiclient.ChatCompletionMessageParamUnion{
			openaiclient.UserMessage(query),
		},
		Model:       openaiclient.ChatModel(model),
		Temperature: openaiclient.Float(chatTemperature),
		MaxTokens:   openaiclient.Int(chatMaxTokens),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from model")
	}

	return &Result{
		Response:   resp.Choices[0].Message.Content,
		TokensUsed: int(resp.Usage.TotalTokens),
	}, nil
}
