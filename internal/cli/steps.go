package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkarpov/stepshot/internal/steps"
	"github.com/pkarpov/stepshot/internal/transcript"
	"github.com/spf13/cobra"
)

var (
	stepsProvider string
	stepsModel    string
	stepsMax      int
	stepsTimeout  time.Duration
)

// stepsCmd represents the steps command
var stepsCmd = &cobra.Command{
	Use:   "steps <transcript-file>",
	Short: "Generate a step list from a transcript",
	Long: `Steps extracts the ordered actions of a recorded walkthrough from its
transcript and prints them as a numbered list, ready to edit and feed back
into 'stepshot match' or 'stepshot video --steps'.

Example:
  stepshot steps walkthrough.txt
  stepshot steps walkthrough.txt --provider openai --model gpt-4o-mini
  stepshot steps walkthrough.txt --provider "" > steps.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runSteps,
}

func init() {
	rootCmd.AddCommand(stepsCmd)

	stepsCmd.Flags().StringVar(&stepsProvider, "provider", "", "step generation provider (openai, ollama; keyword fallback when empty)")
	stepsCmd.Flags().StringVar(&stepsModel, "model", "", "provider model name")
	stepsCmd.Flags().IntVar(&stepsMax, "max-steps", 0, "maximum number of steps (overrides config)")
	stepsCmd.Flags().DurationVar(&stepsTimeout, "timeout", 2*time.Minute, "generation timeout")
}

func runSteps(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), stepsTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("provider") {
		cfg.Steps.Provider = stepsProvider
	}
	if stepsModel != "" {
		cfg.Steps.Model = stepsModel
	}
	if stepsMax > 0 {
		cfg.Steps.MaxSteps = stepsMax
	}

	logger := newLogger()

	segments, err := transcript.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parse transcript: %w", err)
	}
	text := transcript.Join(segments)
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("transcript is empty: %s", args[0])
	}

	var descriptions []string
	provider, err := steps.NewProvider(cfg.Steps)
	if err != nil {
		return err
	}
	if provider != nil {
		descriptions, err = provider.Generate(ctx, text, cfg.Steps.MaxSteps)
		if err != nil {
			return fmt.Errorf("generate steps: %w", err)
		}
		logger.Debug("generated steps", "provider", provider.Name(), "count", len(descriptions))
	} else {
		descriptions = steps.Fallback(text, cfg.Matching.ImportanceKeywords, cfg.Steps.MaxSteps)
	}

	if len(descriptions) == 0 {
		return fmt.Errorf("no steps could be extracted from transcript")
	}
	for i, text := range descriptions {
		fmt.Printf("%d. %s\n", i+1, text)
	}
	return nil
}
