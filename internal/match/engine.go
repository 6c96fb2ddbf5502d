package match

import (
	"context"
	"log/slog"

	"github.com/pkarpov/stepshot/internal/cache"
	"github.com/pkarpov/stepshot/internal/model"
	"github.com/pkarpov/stepshot/internal/ocr"
)

// Engine runs one complete matching pass: batch extraction, pairwise
// scoring, greedy assignment and chronological fill. An Engine instance
// owns no shared mutable state beyond the caller-provided per-run cache, so
// separate runs (and separate engines) never interfere.
type Engine struct {
	builder *MatrixBuilder
	solver  *Solver
	filler  Filler
	logger  *slog.Logger
}

// NewEngine validates the configuration and assembles the engine. A
// configuration invariant violation is fatal here, before any matrix work
// begins.
func NewEngine(cfg *model.Config, extractor ocr.TextExtractor, runCache cache.Cache, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scorer := NewScorer(cfg.Matching)
	batch := ocr.NewBatch(extractor, runCache, cfg.OCR.Concurrency, logger)

	return &Engine{
		builder: NewMatrixBuilder(scorer, batch, cfg.Matching, logger),
		solver:  NewSolver(cfg.Matching.MinConfidence),
		logger:  logger,
	}, nil
}

// Match assigns frames to steps. duration is the video length in seconds
// (0 when unknown). The result always carries a decision for every step;
// steps that end up without a frame are an exhaustion notice for the
// caller, never an error. Zero frames or zero steps are expected boundary
// cases, not failures.
func (e *Engine) Match(ctx context.Context, frames []*model.Frame, steps []model.Step, duration float64) (*model.Assignment, error) {
	if len(steps) == 0 {
		e.logger.Info("no steps supplied, nothing to match")
		return &model.Assignment{}, nil
	}
	if len(frames) == 0 {
		e.logger.Info("no candidate frames supplied, marking all steps unavailable", "steps", len(steps))
		return e.filler.Fill(map[int]model.Decision{}, steps, steps, nil), nil
	}

	e.logger.Info("matching frames to steps", "frames", len(frames), "steps", len(steps))

	entries, err := e.builder.Build(ctx, frames, steps, duration)
	if err != nil {
		return nil, err
	}

	assigned, unmatched := e.solver.Solve(entries, steps)
	e.logger.Debug("greedy assignment done",
		"matched", len(assigned), "unmatched", len(unmatched))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assignment := e.filler.Fill(assigned, unmatched, steps, frames)

	if n := assignment.Unavailable(); n > 0 {
		e.logger.Warn("frames exhausted before all steps were illustrated",
			"unavailable", n, "steps", len(steps))
	}

	return assignment, nil
}
