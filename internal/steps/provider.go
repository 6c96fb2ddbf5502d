// Package steps turns a process walkthrough transcript into the ordered
// detailed-step list the matcher illustrates. Generation is delegated to an
// LLM provider behind a small interface; a keyword fallback keeps the
// pipeline usable with no provider configured.
package steps

import (
	"context"
	"fmt"

	"github.com/pkarpov/stepshot/internal/model"
)

// Provider generates detailed process steps from a transcript.
type Provider interface {
	// Name returns the provider name for logs and reports.
	Name() string

	// Generate returns at most maxSteps ordered step descriptions.
	Generate(ctx context.Context, transcript string, maxSteps int) ([]string, error)
}

const promptTemplate = `You are documenting a recorded business process walkthrough.
From the transcript below, extract the concrete actions the operator performs, in order.

Rules:
1. One step per line, numbered "1.", "2.", ...
2. Each step is a single imperative sentence naming the action and the UI element or system involved.
3. Skip small talk, repetitions and corrections; keep only actions that advance the process.
4. At most %d steps.

Transcript:
%s`

// BuildPrompt renders the step-extraction prompt.
func BuildPrompt(transcript string, maxSteps int) string {
	return fmt.Sprintf(promptTemplate, maxSteps, transcript)
}

// ToSteps converts raw step descriptions into ordered model steps.
func ToSteps(descriptions []string) []model.Step {
	out := make([]model.Step, len(descriptions))
	for i, text := range descriptions {
		out[i] = model.Step{ID: i, Text: text}
	}
	return out
}
