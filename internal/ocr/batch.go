package ocr

import (
	"context"
	"log/slog"

	"github.com/pkarpov/stepshot/internal/cache"
	"github.com/pkarpov/stepshot/internal/model"
	"github.com/pkarpov/stepshot/internal/worker"
)

// Batch runs extraction over a full frame pool before scoring starts. Each
// frame is independent, so extractions fan out across a bounded pool; the
// join in ExtractAll is the barrier the rest of the engine relies on.
type Batch struct {
	extractor   TextExtractor
	cache       cache.Cache
	concurrency int
	logger      *slog.Logger
}

// NewBatch wires an extractor to a caller-owned per-run cache. cache may be
// nil when the caller does not want result reuse.
func NewBatch(extractor TextExtractor, c cache.Cache, concurrency int, logger *slog.Logger) *Batch {
	return &Batch{
		extractor:   extractor,
		cache:       c,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ExtractAll populates ExtractedText on every frame and returns the results
// keyed by frame id. All extractions finish before it returns, so callers
// can score single-threaded afterwards. Per-frame failures are logged and
// recovered as empty text; they never abort the batch.
func (b *Batch) ExtractAll(ctx context.Context, frames []*model.Frame) map[int]string {
	pool := worker.NewPool(ctx, b.concurrency)
	pool.Start()

	for _, frame := range frames {
		if frame.Extracted {
			continue
		}
		f := frame
		pool.Submit(func(taskCtx context.Context) {
			b.extractOne(taskCtx, f)
		})
	}

	pool.Wait()

	results := make(map[int]string, len(frames))
	readable := 0
	for _, frame := range frames {
		results[frame.ID] = frame.ExtractedText
		if frame.ExtractedText != "" {
			readable++
		}
	}

	b.logger.Info("batch extraction complete",
		"backend", b.extractor.Name(),
		"frames", len(frames),
		"readable", readable)

	return results
}

func (b *Batch) extractOne(ctx context.Context, frame *model.Frame) {
	key := cache.Key(frame.Path)

	if b.cache != nil {
		if cached, ok := b.cache.Get(key); ok {
			frame.ExtractedText = string(cached)
			frame.Extracted = true
			return
		}
	}

	text, err := b.extractor.Extract(ctx, frame.Path)
	if err != nil {
		// Zero-signal result, not a hard failure: the frame still
		// participates in matching on its other signals.
		b.logger.Warn("text extraction failed",
			"frame", frame.ID, "path", frame.Path, "error", err)
		text = ""
	}

	frame.ExtractedText = text
	frame.Extracted = true

	// TTL 0 defers to the run cache's lifetime.
	if b.cache != nil {
		_ = b.cache.Set(key, []byte(text), 0)
	}
}
