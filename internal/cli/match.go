package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkarpov/stepshot/internal/cache"
	"github.com/pkarpov/stepshot/internal/match"
	"github.com/pkarpov/stepshot/internal/model"
	"github.com/pkarpov/stepshot/internal/ocr"
	"github.com/pkarpov/stepshot/internal/report"
	"github.com/pkarpov/stepshot/internal/steps"
	"github.com/pkarpov/stepshot/internal/transcript"
	"github.com/spf13/cobra"
)

var (
	matchTranscript string
	matchInterval   int
	matchDuration   float64
	matchOutJSON    string
	matchOutMD      string
	matchTimeout    time.Duration
	matchBackend    string
	matchThreshold  float64
	matchScores     bool
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match <frames-dir> <steps-file>",
	Short: "Match extracted frames against a step list",
	Long: `Match pairs the frames in a directory with the steps in a text file.

Frame text is read with the configured OCR backend, each frame/step pair is
scored by text similarity and timestamp proximity, and steps are assigned
their best frame greedily. Steps that attract no frame above the confidence
threshold fall back to unused frames in chronological order.

Example:
  stepshot match ./frames steps.txt
  stepshot match ./frames steps.txt --transcript walkthrough.txt --interval 5
  stepshot match ./frames steps.txt --json report.json --md report.md`,
	Args: cobra.ExactArgs(2),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVar(&matchTranscript, "transcript", "", "timestamped transcript file (optional)")
	matchCmd.Flags().IntVar(&matchInterval, "interval", 0, "seconds between frames; assigns timestamps to frames in filename order")
	matchCmd.Flags().Float64Var(&matchDuration, "duration", 0, "recording duration in seconds (derived from transcript when omitted)")

	matchCmd.Flags().StringVar(&matchOutJSON, "json", "", "output JSON path")
	matchCmd.Flags().StringVar(&matchOutMD, "md", "", "output Markdown path")
	matchCmd.Flags().BoolVar(&matchScores, "scores", false, "include confidence scores in the summary table")

	matchCmd.Flags().DurationVar(&matchTimeout, "timeout", 10*time.Minute, "overall timeout (OCR of large frame sets can be slow)")
	matchCmd.Flags().StringVar(&matchBackend, "ocr", "", "OCR backend override (tesseract, vision, none)")
	matchCmd.Flags().Float64Var(&matchThreshold, "threshold", -1, "confidence threshold override (0..1)")
}

func runMatch(cmd *cobra.Command, args []string) error {
	framesDir, stepsFile := args[0], args[1]

	ctx, cancel := context.WithTimeout(context.Background(), matchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if matchBackend != "" {
		cfg.OCR.Backend = matchBackend
	}
	if matchThreshold >= 0 {
		cfg.Matching.MinConfidence = matchThreshold
	}

	logger := newLogger()

	frames, err := loadFrames(framesDir, matchInterval)
	if err != nil {
		return err
	}
	stepList, err := loadSteps(stepsFile)
	if err != nil {
		return err
	}

	duration := matchDuration
	if matchTranscript != "" {
		segments, err := transcript.ParseFile(matchTranscript)
		if err != nil {
			return fmt.Errorf("parse transcript: %w", err)
		}
		annotateFrames(frames, segments)
		if duration <= 0 {
			duration = transcript.Duration(segments)
		}
	}

	logger.Info("matching", "frames", len(frames), "steps", len(stepList), "duration", duration)

	assignment, err := runEngine(ctx, cfg, frames, stepList, duration, logger)
	if err != nil {
		return err
	}

	rep := report.New(stepList, frames, assignment, framesDir)
	return writeReport(rep, matchOutJSON, matchOutMD, matchScores || cfg.Output.IncludeScores)
}

// runEngine wires the OCR backend, per-run cache and engine, then matches.
func runEngine(ctx context.Context, cfg *model.Config, frames []*model.Frame, stepList []model.Step, duration float64, logger *slog.Logger) (*model.Assignment, error) {
	extractor, err := ocr.NewExtractor(cfg.OCR, logger)
	if err != nil {
		return nil, err
	}

	engine, err := match.NewEngine(cfg, extractor, cache.NewRun(), logger)
	if err != nil {
		return nil, err
	}

	return engine.Match(ctx, frames, stepList, duration)
}

// loadFrames lists image files in filename order and assigns ordinal IDs.
// A positive interval gives frame i the timestamp i*interval.
func loadFrames(dir string, interval int) ([]*model.Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg", ".webp", ".bmp":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no image files found in %s", dir)
	}
	sort.Strings(paths)

	frames := make([]*model.Frame, len(paths))
	for i, path := range paths {
		frame := &model.Frame{ID: i, Path: path}
		if interval > 0 {
			frame.Timestamp = float64(i * interval)
			frame.HasTimestamp = true
		}
		frames[i] = frame
	}
	return frames, nil
}

// loadSteps reads one step per line; numbered-list markers are stripped.
func loadSteps(path string) ([]model.Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open steps file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read steps file: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("steps file is empty: %s", path)
	}

	if parsed := steps.ParseNumbered(strings.Join(lines, "\n")); len(parsed) > 0 {
		lines = parsed
	}
	return steps.ToSteps(lines), nil
}

// annotateFrames attaches the transcript snippet nearest each frame's
// timestamp so spoken context contributes to the text signal.
func annotateFrames(frames []*model.Frame, segments []transcript.Segment) {
	for _, frame := range frames {
		if frame.HasTimestamp {
			frame.Transcript = transcript.SnippetAt(segments, frame.Timestamp)
		}
	}
}

func writeReport(rep *report.Report, outJSON, outMD string, includeScores bool) error {
	rep.RenderSummary(os.Stdout, includeScores)

	if outJSON != "" {
		if err := rep.WriteJSON(outJSON); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", outJSON)
	}
	if outMD != "" {
		if err := rep.WriteMarkdown(outMD); err != nil {
			return fmt.Errorf("write Markdown report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", outMD)
	}
	return nil
}
