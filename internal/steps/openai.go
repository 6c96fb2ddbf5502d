package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/pkarpov/stepshot/internal/model"
)

// OpenAIProvider generates steps through the OpenAI Chat Completions API,
// or any compatible endpoint via base_url.
type OpenAIProvider struct {
	client *openai.Client
	cfg    model.StepsConfig
}

// NewOpenAIProvider creates the provider. An API key is required unless a
// custom base URL points at an unauthenticated endpoint.
func NewOpenAIProvider(cfg model.StepsConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("openai steps provider requires an API key")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Generate asks the model for a numbered step list and parses it.
func (p *OpenAIProvider) Generate(ctx context.Context, transcript string, maxSteps int) ([]string, error) {
	m := p.cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}
	maxTokens := p.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1500
	}

	if p.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(transcript, maxSteps),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("openai step generation: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai step generation: empty completion")
	}

	parsed := ParseNumbered(resp.Choices[0].Message.Content)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("openai step generation: no steps in response")
	}
	if len(parsed) > maxSteps {
		parsed = parsed[:maxSteps]
	}
	return parsed, nil
}
