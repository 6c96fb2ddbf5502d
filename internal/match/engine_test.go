package match

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pkarpov/stepshot/internal/model"
)

func newTestEngine(t *testing.T, cfg *model.Config, texts map[string]string) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg, &countingExtractor{texts: texts}, nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	return engine
}

func TestEngine_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Config)
	}{
		{"threshold above range", func(c *model.Config) { c.Matching.MinConfidence = 1.5 }},
		{"threshold below range", func(c *model.Config) { c.Matching.MinConfidence = -0.1 }},
		{"negative ocr weight", func(c *model.Config) { c.Matching.OCRWeight = -1 }},
		{"negative temporal weight", func(c *model.Config) { c.Matching.TemporalWeight = -0.5 }},
		{"zero concurrency", func(c *model.Config) { c.OCR.Concurrency = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := model.DefaultConfig()
			tt.mutate(cfg)

			_, err := NewEngine(cfg, &countingExtractor{}, nil, testLogger())
			if err == nil {
				t.Fatal("expected configuration error")
			}
			var cfgErr *model.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected *model.ConfigError, got %T", err)
			}
		})
	}
}

func TestEngine_OCRDominantExample(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Matching.OCRWeight = 1.0
	cfg.Matching.TemporalWeight = 0.0

	engine := newTestEngine(t, cfg, map[string]string{
		"f0.jpg": "settings > preferences",
		"f1.jpg": "submit",
		"f2.jpg": "",
	})

	frames := []*model.Frame{
		{ID: 0, Path: "f0.jpg", Timestamp: 5.0, HasTimestamp: true},
		{ID: 1, Path: "f1.jpg", Timestamp: 12.0, HasTimestamp: true},
		{ID: 2, Path: "f2.jpg", Timestamp: 20.0, HasTimestamp: true},
	}
	steps := []model.Step{
		{ID: 0, Text: "click submit button"},
		{ID: 1, Text: "open settings menu"},
	}

	// Duration unknown: matching rides on the OCR text alone.
	assignment, err := engine.Match(context.Background(), frames, steps, 0)
	if err != nil {
		t.Fatal(err)
	}

	d0, _ := assignment.Decision(0)
	if d0.FrameID != 1 || d0.Source != model.SourceSimilarity {
		t.Errorf("step 0 should match frame 1 on SUBMIT text, got %+v", d0)
	}
	d1, _ := assignment.Decision(1)
	if d1.FrameID != 0 || d1.Source != model.SourceSimilarity {
		t.Errorf("step 1 should match frame 0 on settings text, got %+v", d1)
	}
	// Frame 2 stays unused.
	for _, d := range assignment.Decisions {
		if d.FrameID == 2 {
			t.Error("empty frame 2 should remain unused")
		}
	}
}

func TestEngine_FallbackOnlyIsChronological(t *testing.T) {
	cfg := model.DefaultConfig()
	// Nothing can clear this bar, so the filler does all the work.
	cfg.Matching.MinConfidence = 1.0

	engine := newTestEngine(t, cfg, nil)

	frames := []*model.Frame{
		{ID: 0, Path: "f0.jpg", Timestamp: 40.0, HasTimestamp: true},
		{ID: 1, Path: "f1.jpg", Timestamp: 10.0, HasTimestamp: true},
		{ID: 2, Path: "f2.jpg", Timestamp: 25.0, HasTimestamp: true},
		{ID: 3, Path: "f3.jpg", Timestamp: 55.0, HasTimestamp: true},
	}
	steps := stepList(3)

	assignment, err := engine.Match(context.Background(), frames, steps, 0)
	if err != nil {
		t.Fatal(err)
	}

	var lastTS float64 = -1
	for _, d := range assignment.Decisions {
		if d.Source != model.SourceChronological {
			t.Fatalf("step %d: expected chronological fill, got %s", d.StepID, d.Source)
		}
		ts := frames[d.FrameID].Timestamp
		if ts <= lastTS {
			t.Errorf("fallback assignment not strictly increasing at step %d", d.StepID)
		}
		lastTS = ts
	}
}

func TestEngine_FewerFramesThanSteps(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := newTestEngine(t, cfg, nil)

	frames := []*model.Frame{
		{ID: 0, Path: "f0.jpg", Timestamp: 10.0, HasTimestamp: true},
		{ID: 1, Path: "f1.jpg", Timestamp: 20.0, HasTimestamp: true},
	}
	steps := stepList(5)

	assignment, err := engine.Match(context.Background(), frames, steps, 0)
	if err != nil {
		t.Fatal(err)
	}

	if len(assignment.Decisions) != 5 {
		t.Fatalf("every step needs a decision, got %d", len(assignment.Decisions))
	}
	if got := assignment.Unavailable(); got != 3 {
		t.Errorf("expected exactly 5-2=3 unavailable, got %d", got)
	}

	seen := make(map[int]bool)
	for _, d := range assignment.Decisions {
		if !d.Matched() {
			continue
		}
		if seen[d.FrameID] {
			t.Errorf("frame %d appears twice", d.FrameID)
		}
		seen[d.FrameID] = true
	}
}

func TestEngine_EmptyInputs(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := newTestEngine(t, cfg, nil)

	// Zero frames: every step is explicitly unavailable, no error.
	assignment, err := engine.Match(context.Background(), nil, stepList(2), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(assignment.Decisions) != 2 || assignment.Unavailable() != 2 {
		t.Errorf("expected 2 unavailable decisions, got %+v", assignment.Decisions)
	}

	// Zero steps: trivial empty assignment.
	assignment, err = engine.Match(context.Background(), timestampedFrames(1, 2), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(assignment.Decisions) != 0 {
		t.Errorf("expected empty assignment, got %+v", assignment.Decisions)
	}
}

func TestEngine_Deterministic(t *testing.T) {
	texts := map[string]string{
		"f0.jpg": "user management portal",
		"f1.jpg": "export report csv",
		"f2.jpg": "login screen username password",
		"f3.jpg": "",
	}
	steps := []model.Step{
		{ID: 0, Text: "login to the portal with your credentials"},
		{ID: 1, Text: "navigate to user management"},
		{ID: 2, Text: "export the report"},
	}

	run := func() []byte {
		cfg := model.DefaultConfig()
		engine := newTestEngine(t, cfg, texts)

		frames := []*model.Frame{
			{ID: 0, Path: "f0.jpg", Timestamp: 12.0, HasTimestamp: true},
			{ID: 1, Path: "f1.jpg", Timestamp: 48.0, HasTimestamp: true},
			{ID: 2, Path: "f2.jpg", Timestamp: 3.0, HasTimestamp: true},
			{ID: 3, Path: "f3.jpg", Timestamp: 30.0, HasTimestamp: true},
		}

		assignment, err := engine.Match(context.Background(), frames, steps, 60.0)
		if err != nil {
			t.Fatal(err)
		}
		raw, err := json.Marshal(assignment)
		if err != nil {
			t.Fatal(err)
		}
		return raw
	}

	first := run()
	for i := 0; i < 5; i++ {
		if next := run(); string(next) != string(first) {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i+2, first, next)
		}
	}
}
