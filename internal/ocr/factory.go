package ocr

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkarpov/stepshot/internal/model"
)

// NewExtractor creates the configured text-extraction backend.
func NewExtractor(cfg model.OCRConfig, logger *slog.Logger) (TextExtractor, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "tesseract":
		return NewTesseract(cfg.Binary, logger), nil

	case "vision", "openai":
		return NewVision(cfg, logger)

	case "none":
		return Noop{}, nil

	default:
		return nil, fmt.Errorf("unknown ocr backend: %s (supported: tesseract, vision, none)", cfg.Backend)
	}
}
