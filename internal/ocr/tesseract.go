package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// Tesseract shells out to the tesseract CLI. OCR here is a local CPU-bound
// computation, so concurrency is handled by the batch pool rather than by
// this type.
type Tesseract struct {
	binary string
	logger *slog.Logger
}

// NewTesseract creates a tesseract-backed extractor. An empty binary falls
// back to "tesseract" on PATH.
func NewTesseract(binary string, logger *slog.Logger) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	return &Tesseract{binary: binary, logger: logger}
}

func (t *Tesseract) Name() string { return "tesseract" }

// Extract runs tesseract on a single frame image. Page segmentation mode 6
// (uniform text block) works best for application screenshots.
func (t *Tesseract) Extract(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("frame image: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.binary, path, "stdout", "--psm", "6", "--oem", "3")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract %s: %w", path, err)
	}

	text := Normalize(string(output))
	t.logger.Debug("ocr complete", "path", path, "chars", len(text))
	return text, nil
}
