package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pkarpov/stepshot/internal/model"
	"github.com/pkarpov/stepshot/internal/report"
	"github.com/pkarpov/stepshot/internal/steps"
	"github.com/pkarpov/stepshot/internal/transcript"
	"github.com/pkarpov/stepshot/internal/video"
	"github.com/spf13/cobra"
)

var (
	videoTranscript string
	videoSteps      string
	videoFramesDir  string
	videoInterval   int
	videoOutJSON    string
	videoOutMD      string
	videoTimeout    time.Duration
	videoScores     bool
)

// videoCmd represents the video command
var videoCmd = &cobra.Command{
	Use:   "video <video-file>",
	Short: "Run the full pipeline on a screen recording",
	Long: `Video runs the complete pipeline on a screen recording:
frames are extracted with ffmpeg, steps are taken from a file or generated
from the transcript, and each step is matched to its best frame.

With a timestamped transcript, frames are grabbed at the moments the
narration mentions an action. Without one, frames are sampled at a fixed
interval.

Example:
  stepshot video demo.mp4 --steps steps.txt
  stepshot video demo.mp4 --transcript walkthrough.txt --json report.json
  stepshot video demo.mp4 --transcript walkthrough.txt --frames ./frames --interval 5`,
	Args: cobra.ExactArgs(1),
	RunE: runVideo,
}

func init() {
	rootCmd.AddCommand(videoCmd)

	videoCmd.Flags().StringVar(&videoTranscript, "transcript", "", "timestamped transcript file (optional)")
	videoCmd.Flags().StringVar(&videoSteps, "steps", "", "step list file (generated from transcript when omitted)")
	videoCmd.Flags().StringVar(&videoFramesDir, "frames", "", "directory for extracted frames (default: temp dir)")
	videoCmd.Flags().IntVar(&videoInterval, "interval", 0, "frame sampling interval in seconds (overrides config)")

	videoCmd.Flags().StringVar(&videoOutJSON, "json", "report.json", "output JSON path")
	videoCmd.Flags().StringVar(&videoOutMD, "md", "", "output Markdown path")
	videoCmd.Flags().BoolVar(&videoScores, "scores", false, "include confidence scores in the summary table")

	videoCmd.Flags().DurationVar(&videoTimeout, "timeout", 30*time.Minute, "overall pipeline timeout")
}

func runVideo(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), videoTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if videoInterval > 0 {
		cfg.Video.IntervalSeconds = videoInterval
	}
	if videoSteps == "" && videoTranscript == "" {
		return fmt.Errorf("either --steps or --transcript is required")
	}

	logger := newLogger()

	var segments []transcript.Segment
	if videoTranscript != "" {
		segments, err = transcript.ParseFile(videoTranscript)
		if err != nil {
			return fmt.Errorf("parse transcript: %w", err)
		}
	}

	extractor := video.NewExtractor(cfg.Video, logger)

	duration, err := extractor.Duration(ctx, videoPath)
	if err != nil {
		return fmt.Errorf("probe video: %w", err)
	}

	framesDir := videoFramesDir
	if framesDir == "" {
		framesDir, err = os.MkdirTemp("", "stepshot-frames-")
		if err != nil {
			return fmt.Errorf("create frames dir: %w", err)
		}
	}

	frames, err := extractFrames(ctx, extractor, videoPath, framesDir, segments, cfg)
	if err != nil {
		return err
	}
	annotateFrames(frames, segments)

	stepList, err := resolveSteps(ctx, cfg, segments, logger)
	if err != nil {
		return err
	}

	logger.Info("pipeline ready",
		"video", videoPath,
		"duration", fmt.Sprintf("%.1fs", duration),
		"frames", len(frames),
		"steps", len(stepList))

	assignment, err := runEngine(ctx, cfg, frames, stepList, duration, logger)
	if err != nil {
		return err
	}

	rep := report.New(stepList, frames, assignment, videoPath)
	return writeReport(rep, videoOutJSON, videoOutMD, videoScores || cfg.Output.IncludeScores)
}

// extractFrames grabs frames at narrated action moments when the transcript
// offers them, otherwise samples the recording at a fixed interval.
func extractFrames(ctx context.Context, extractor *video.Extractor, videoPath, framesDir string, segments []transcript.Segment, cfg *model.Config) ([]*model.Frame, error) {
	if len(segments) > 0 {
		timestamps := transcript.ActionTimestamps(segments, cfg.Matching.ImportanceKeywords)
		if len(timestamps) > 0 {
			frames, err := extractor.ExtractAt(ctx, videoPath, framesDir, timestamps)
			if err != nil {
				return nil, fmt.Errorf("extract frames: %w", err)
			}
			return frames, nil
		}
	}

	frames, err := extractor.ExtractInterval(ctx, videoPath, framesDir, cfg.Video.IntervalSeconds)
	if err != nil {
		return nil, fmt.Errorf("extract frames: %w", err)
	}
	return frames, nil
}

// resolveSteps reads the step file when given, otherwise generates steps
// from the transcript, falling back to keyword extraction if no provider
// is configured or generation fails.
func resolveSteps(ctx context.Context, cfg *model.Config, segments []transcript.Segment, logger *slog.Logger) ([]model.Step, error) {
	if videoSteps != "" {
		return loadSteps(videoSteps)
	}

	text := transcript.Join(segments)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("transcript is empty, cannot generate steps")
	}

	provider, err := steps.NewProvider(cfg.Steps)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		descriptions, err := provider.Generate(ctx, text, cfg.Steps.MaxSteps)
		if err == nil && len(descriptions) > 0 {
			logger.Info("generated steps", "provider", provider.Name(), "count", len(descriptions))
			return steps.ToSteps(descriptions), nil
		}
		logger.Warn("step generation failed, falling back to keyword extraction", "error", err)
	}

	descriptions := steps.Fallback(text, cfg.Matching.ImportanceKeywords, cfg.Steps.MaxSteps)
	if len(descriptions) == 0 {
		return nil, fmt.Errorf("no steps could be extracted from transcript")
	}
	return steps.ToSteps(descriptions), nil
}
