package gateway

import (
	"context"
	"errors"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/geoexplorer/core/internal/config"
)

// anthropicStrategy handles claude-family models through the Anthropic SDK.
type anthropicStrategy struct {
	client anthropicclient.Client
}

func newAnthropicStrategy(cfg config.ProviderConfig) *anthropicStrategy {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(cfg.APIKey),
		anthropicoption.WithMaxRetries(0),
	}
	return &anthropicStrategy{client: anthropicclient.NewClient(opts...)}
}

func (s *anthropicStrategy) Dispatch(ctx context.Context, model, query string) (*Result, error) {
	messages := []anthropicclient.MessageParam{{
		Content: []anthropicclient.ContentBlockParamUnion{{
			OfText: &anthropicclient.TextBlockParam{Text: query},
		}},
		Role: anthropicclient.MessageParamRoleUser,
	}}

	resp, err := s.client.Messages.New(ctx, anthropicclient.MessageNewParams{
		Model:       anthropicclient.Model(model),
		MaxTokens:   chatMaxTokens,
		Messages:    messages,
		Temperature: anthropicclient.Float(chatTemperature),
	})
	if err != nil {
		return nil, err
	}

	var parts []string
	for _, block := range resp.Content {
		switch variant := block.AsAny().(type) {
		case anthropicclient.TextBlock:
			parts = append(parts, variant.Text)
		}
	}
	text := strings.Join(parts, "")
	if text == "" {
		return nil, errors.New("empty response from model")
	}

	return &Result{
		Response:   text,
		TokensUsed: int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
	}, nil
}
