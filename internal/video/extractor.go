// Package video produces the candidate frame pool the matching engine
// consumes. It shells out to ffmpeg/ffprobe; the engine itself never
// touches video decoding.
package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkarpov/stepshot/internal/model"
)

// Extractor extracts frames from a video file with ffmpeg.
type Extractor struct {
	ffmpeg  string
	ffprobe string
	format  string
	logger  *slog.Logger
}

// NewExtractor creates an extractor from the video configuration.
func NewExtractor(cfg model.VideoConfig, logger *slog.Logger) *Extractor {
	ffmpeg := cfg.FFmpeg
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	ffprobe := cfg.FFprobe
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	format := cfg.Format
	if format == "" {
		format = "jpg"
	}
	return &Extractor{ffmpeg: ffmpeg, ffprobe: ffprobe, format: format, logger: logger}
}

// Duration probes the video length in seconds.
func (e *Extractor) Duration(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, e.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", videoPath, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}
	return duration, nil
}

// ExtractInterval grabs one frame every interval seconds across the whole
// video and returns the pool in extraction order with timestamps.
func (e *Extractor) ExtractInterval(ctx context.Context, videoPath, outputDir string, interval int) ([]*model.Frame, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("video file: %w", err)
	}
	if interval <= 0 {
		interval = 10
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	pattern := filepath.Join(outputDir, fmt.Sprintf("frame_%%04d.%s", e.format))
	cmd := exec.CommandContext(ctx, e.ffmpeg,
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=1/%d", interval),
		"-y",
		pattern,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w, output: %s", err, string(output))
	}

	paths, err := filepath.Glob(filepath.Join(outputDir, "frame_*."+e.format))
	if err != nil {
		return nil, fmt.Errorf("glob frames: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no frames extracted from %s", videoPath)
	}
	sort.Strings(paths)

	frames := make([]*model.Frame, len(paths))
	for i, p := range paths {
		frames[i] = &model.Frame{
			ID:           i,
			Path:         p,
			Timestamp:    float64(i * interval),
			HasTimestamp: true,
		}
	}

	e.logger.Info("frames extracted", "video", videoPath, "count", len(frames), "interval_s", interval)
	return frames, nil
}

// ExtractAt grabs a single frame at each timestamp, typically the action
// moments found in the transcript. Failed grabs are skipped so one bad seek
// does not sink the pool.
func (e *Extractor) ExtractAt(ctx context.Context, videoPath, outputDir string, timestamps []float64) ([]*model.Frame, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("video file: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var frames []*model.Frame
	for _, ts := range timestamps {
		path := filepath.Join(outputDir, fmt.Sprintf("frame_%08.2f.%s", ts, e.format))
		cmd := exec.CommandContext(ctx, e.ffmpeg,
			"-ss", strconv.FormatFloat(ts, 'f', 2, 64),
			"-i", videoPath,
			"-frames:v", "1",
			"-y",
			path,
		)
		if output, err := cmd.CombinedOutput(); err != nil {
			e.logger.Warn("frame grab failed", "timestamp", ts, "error", err, "output", string(output))
			continue
		}

		frames = append(frames, &model.Frame{
			ID:           len(frames),
			Path:         path,
			Timestamp:    ts,
			HasTimestamp: true,
		})
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from %s", videoPath)
	}

	e.logger.Info("frames extracted", "video", videoPath, "count", len(frames), "requested", len(timestamps))
	return frames, nil
}
