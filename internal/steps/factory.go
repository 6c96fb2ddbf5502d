package steps

import (
	"fmt"
	"strings"

	"github.com/pkarpov/stepshot/internal/model"
)

// NewProvider creates the configured step-generation backend. An empty
// provider name returns (nil, nil): step generation is disabled and callers
// fall back to keyword extraction.
func NewProvider(cfg model.StepsConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)

	case "ollama":
		return NewOllamaProvider(cfg)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown steps provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}
