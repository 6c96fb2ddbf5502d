package ocr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/pkarpov/stepshot/internal/cache"
	"github.com/pkarpov/stepshot/internal/model"
)

// fakeExtractor records how often each path is extracted.
type fakeExtractor struct {
	mu    sync.Mutex
	calls map[string]int
	texts map[string]string
	fail  map[string]bool
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{
		calls: make(map[string]int),
		texts: make(map[string]string),
		fail:  make(map[string]bool),
	}
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) Extract(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[path]++
	if f.fail[path] {
		return "", errors.New("boom")
	}
	return f.texts[path], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func frames(n int) []*model.Frame {
	out := make([]*model.Frame, n)
	for i := range out {
		out[i] = &model.Frame{ID: i, Path: string(rune('a'+i)) + ".jpg"}
	}
	return out
}

func TestBatch_ExtractsEveryFrameOnce(t *testing.T) {
	ext := newFakeExtractor()
	ext.texts["a.jpg"] = "settings"
	ext.texts["b.jpg"] = "submit"

	pool := frames(2)
	batch := NewBatch(ext, nil, 4, discardLogger())

	results := batch.ExtractAll(context.Background(), pool)

	if results[0] != "settings" || results[1] != "submit" {
		t.Errorf("unexpected results: %v", results)
	}
	for _, f := range pool {
		if !f.Extracted {
			t.Errorf("frame %d not marked extracted", f.ID)
		}
		if ext.calls[f.Path] != 1 {
			t.Errorf("frame %s extracted %d times, want 1", f.Path, ext.calls[f.Path])
		}
	}

	// A second pass must not re-run extraction: results are cached on the
	// frame for its lifetime.
	batch.ExtractAll(context.Background(), pool)
	for _, f := range pool {
		if ext.calls[f.Path] != 1 {
			t.Errorf("frame %s re-extracted on second pass", f.Path)
		}
	}
}

func TestBatch_FailureBecomesEmptyText(t *testing.T) {
	ext := newFakeExtractor()
	ext.texts["a.jpg"] = "dashboard"
	ext.fail["b.jpg"] = true

	pool := frames(2)
	batch := NewBatch(ext, nil, 2, discardLogger())

	results := batch.ExtractAll(context.Background(), pool)

	if results[0] != "dashboard" {
		t.Errorf("healthy frame lost its text: %q", results[0])
	}
	if results[1] != "" {
		t.Errorf("failed frame should yield empty text, got %q", results[1])
	}
	if !pool[1].Extracted {
		t.Error("failed frame must still be marked extracted")
	}
}

func TestBatch_UsesRunCache(t *testing.T) {
	ext := newFakeExtractor()
	runCache := cache.NewMemory(time.Hour, time.Hour)
	if err := runCache.Set(cache.Key("a.jpg"), []byte("cached text"), time.Hour); err != nil {
		t.Fatal(err)
	}

	pool := frames(1)
	batch := NewBatch(ext, runCache, 1, discardLogger())

	results := batch.ExtractAll(context.Background(), pool)

	if results[0] != "cached text" {
		t.Errorf("expected cache hit, got %q", results[0])
	}
	if ext.calls["a.jpg"] != 0 {
		t.Error("extractor ran despite cache hit")
	}
}
