// Package ocr turns frame images into comparable text for the matching
// engine. The extraction primitive is a capability interface so the
// tesseract CLI can be swapped for a vision-model call without touching the
// scorer or solver.
package ocr

import (
	"context"
	"regexp"
	"strings"
)

// TextExtractor converts one image into raw text. An empty string is a
// valid zero-signal result; implementations return an error only for
// diagnostics and callers recover it as empty text.
type TextExtractor interface {
	// Name identifies the backend for logs and reports.
	Name() string

	// Extract reads the image at path and returns normalized text.
	Extract(ctx context.Context, path string) (string, error)
}

// Noop is the transcript-only backend: every frame yields empty text and
// matching falls back to transcript and timestamp signals.
type Noop struct{}

func (Noop) Name() string { return "none" }

func (Noop) Extract(ctx context.Context, path string) (string, error) {
	return "", nil
}

var (
	pipeRuns       = regexp.MustCompile(`[|]{2,}`)
	underscoreRuns = regexp.MustCompile(`[_]{3,}`)
	tildeRuns      = regexp.MustCompile("[~`]{2,}")
	whitespaceRuns = regexp.MustCompile(`[ \t]+`)
)

// Normalize cleans raw extractor output: strips common OCR noise runs,
// drops fragment lines, collapses whitespace and lowercases.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = pipeRuns.ReplaceAllString(text, " ")
	text = underscoreRuns.ReplaceAllString(text, " ")
	text = tildeRuns.ReplaceAllString(text, " ")

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(whitespaceRuns.ReplaceAllString(line, " "))
		if len(line) > 2 {
			kept = append(kept, line)
		}
	}

	return strings.ToLower(strings.Join(kept, " "))
}
