package match

import (
	"context"
	"log/slog"
	"math"

	"github.com/pkarpov/stepshot/internal/model"
	"github.com/pkarpov/stepshot/internal/ocr"
)

// MatrixBuilder produces one ScoreEntry per (frame, step) pair. It runs the
// batch text extraction exactly once for the full frame pool before any
// entry is computed, then combines the text similarity with a temporal
// proximity term.
type MatrixBuilder struct {
	scorer *Scorer
	batch  *ocr.Batch
	cfg    model.MatchingConfig
	logger *slog.Logger
}

// NewMatrixBuilder wires the scorer and the batch extractor.
func NewMatrixBuilder(scorer *Scorer, batch *ocr.Batch, cfg model.MatchingConfig, logger *slog.Logger) *MatrixBuilder {
	return &MatrixBuilder{scorer: scorer, batch: batch, cfg: cfg, logger: logger}
}

// Build extracts text from every frame, then scores all pairs. duration is
// the video length in seconds; pass 0 when unknown, which disables the
// temporal term. Scoring itself is single-threaded and deterministic.
func (b *MatrixBuilder) Build(ctx context.Context, frames []*model.Frame, steps []model.Step, duration float64) ([]model.ScoreEntry, error) {
	b.batch.ExtractAll(ctx, frames)

	// The caller may abandon the run between extraction and scoring.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]model.ScoreEntry, 0, len(frames)*len(steps))
	for _, step := range steps {
		for _, frame := range frames {
			entries = append(entries, model.ScoreEntry{
				FrameID: frame.ID,
				StepID:  step.ID,
				Score:   b.scorePair(frame, step, len(steps), duration),
			})
		}
	}

	b.logger.Debug("score matrix built",
		"frames", len(frames), "steps", len(steps), "entries", len(entries))

	return entries, nil
}

// scorePair combines the text signal and the temporal signal. OCR dominates
// when the frame yielded text; a frame with no text at all falls back to
// pure temporal proximity.
func (b *MatrixBuilder) scorePair(frame *model.Frame, step model.Step, numSteps int, duration float64) float64 {
	text, hasText := b.textScore(frame, step)
	temporal, hasTemporal := temporalScore(frame, step.ID, numSteps, duration)

	switch {
	case hasText && hasTemporal:
		textWeight := b.cfg.OCRWeight
		if textWeight+b.cfg.TemporalWeight == 0 {
			return clamp01(math.Max(text, temporal))
		}
		return clamp01((text*textWeight + temporal*b.cfg.TemporalWeight) / (textWeight + b.cfg.TemporalWeight))
	case hasText:
		return clamp01(text)
	case hasTemporal:
		return clamp01(temporal)
	default:
		return 0.0
	}
}

// textScore blends OCR similarity with the transcript-snippet similarity.
// Mixing a weighted average with the best single signal keeps one strong
// match from being dragged down when the other channel is silent on it.
func (b *MatrixBuilder) textScore(frame *model.Frame, step model.Step) (float64, bool) {
	hasOCR := frame.ExtractedText != ""
	hasTranscript := frame.Transcript != ""

	switch {
	case !hasOCR && !hasTranscript:
		return 0.0, false
	case !hasOCR:
		return b.scorer.Score(frame.Transcript, step.Text), true
	case !hasTranscript:
		return b.scorer.Score(frame.ExtractedText, step.Text), true
	}

	ocrSim := b.scorer.Score(frame.ExtractedText, step.Text)
	transcriptSim := b.scorer.Score(frame.Transcript, step.Text)

	weightSum := b.cfg.OCRWeight + b.cfg.TranscriptWeight
	best := math.Max(ocrSim, transcriptSim)
	if weightSum == 0 {
		return best, true
	}

	weighted := (ocrSim*b.cfg.OCRWeight + transcriptSim*b.cfg.TranscriptWeight) / weightSum
	return 0.7*weighted + 0.3*best, true
}

// temporalScore measures how close the frame sits to the step's expected
// moment in the video. Steps carry no explicit timestamps, so the ordinal
// position is scaled across the video duration. The decay is exponential,
// bounded in (0,1], never a hard cutoff.
func temporalScore(frame *model.Frame, stepID, numSteps int, duration float64) (float64, bool) {
	if !frame.HasTimestamp || duration <= 0 || numSteps <= 0 {
		return 0.0, false
	}

	expected := (float64(stepID) + 0.5) / float64(numSteps) * duration
	tau := duration / float64(numSteps)

	return math.Exp(-math.Abs(frame.Timestamp-expected) / tau), true
}
