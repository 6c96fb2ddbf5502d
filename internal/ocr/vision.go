package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/pkarpov/stepshot/internal/model"
)

const visionPrompt = "Transcribe all readable on-screen text from this application screenshot. " +
	"Return only the text itself, no commentary. If nothing is readable, return an empty response."

// Vision reads on-screen text with an OpenAI-compatible vision model. Unlike
// the tesseract backend this calls out over the network, so requests are
// rate limited and retried a bounded number of times; a still-failing frame
// is reported upward and recovered as empty text.
type Vision struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	retries int
	timeout time.Duration
	logger  *slog.Logger
}

// NewVision creates a vision-model extractor from the OCR configuration.
func NewVision(cfg model.OCRConfig, logger *slog.Logger) (*Vision, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("vision backend requires an API key or a base URL")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	timeout := 30 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Vision{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		retries: cfg.MaxRetries,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (v *Vision) Name() string { return "vision" }

// Extract sends the frame image inline and returns the model's transcription.
func (v *Vision) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("frame image: %w", err)
	}

	req := openai.ChatCompletionRequest{
		Model: v.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: visionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL(path, data),
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		MaxTokens: 500,
	}

	var lastErr error
	for attempt := 0; attempt <= v.retries; attempt++ {
		if err := v.limiter.Wait(ctx); err != nil {
			return "", err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, v.timeout)
		resp, err := v.client.CreateChatCompletion(attemptCtx, req)
		cancel()
		if err != nil {
			lastErr = err
			v.logger.Warn("vision extraction attempt failed",
				"path", path, "attempt", attempt+1, "error", err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty completion")
			continue
		}

		return Normalize(resp.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("vision extract %s after %d attempts: %w", path, v.retries+1, lastErr)
}

func dataURL(path string, data []byte) string {
	mime := "image/jpeg"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mime = "image/png"
	case ".gif":
		mime = "image/gif"
	case ".webp":
		mime = "image/webp"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
