package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkarpov/stepshot/internal/model"
)

// OllamaProvider generates steps with a local Ollama model.
type OllamaProvider struct {
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates the provider. No API key is needed; Ollama
// models can be slow, so the timeout defaults generously.
func NewOllamaProvider(cfg model.StepsConfig) (*OllamaProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := 120 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &OllamaProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (p *OllamaProvider) Name() string { return "ollama" }

// Generate calls Ollama's generate endpoint and parses the numbered list.
func (p *OllamaProvider) Generate(ctx context.Context, transcript string, maxSteps int) ([]string, error) {
	if p.model == "" {
		return nil, fmt.Errorf("ollama step generation: model name is required")
	}

	payload, err := json.Marshal(ollamaRequest{
		Model:  p.model,
		Prompt: BuildPrompt(transcript, maxSteps),
		Stream: false,
		Options: ollamaOptions{
			Temperature: 0.2,
			NumPredict:  p.maxTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ollama step generation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ollama step generation: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama step generation: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ollama step generation: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("ollama step generation: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("ollama step generation: status %d", resp.StatusCode)
	}

	var result ollamaResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("ollama step generation: decode response: %w", err)
	}

	parsed := ParseNumbered(result.Response)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("ollama step generation: no steps in response")
	}
	if len(parsed) > maxSteps {
		parsed = parsed[:maxSteps]
	}
	return parsed, nil
}
