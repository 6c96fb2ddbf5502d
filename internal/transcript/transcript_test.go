package transcript

import (
	"strings"
	"testing"
)

const sample = `[0.0 - 4.5] first we log in to the admin portal
[4.5 - 9.0] then click the licenses tab
not a timed line, ignored
[9.0 - 15.5] now we export the usage report

[15.5 - 20.0] and finally verify the results
`

func TestParse(t *testing.T) {
	segments, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}

	if len(segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segments))
	}
	if segments[0].Start != 0.0 || segments[0].End != 4.5 {
		t.Errorf("segment 0 timing wrong: %+v", segments[0])
	}
	if segments[2].Text != "now we export the usage report" {
		t.Errorf("segment 2 text wrong: %q", segments[2].Text)
	}
}

func TestParse_NoTimedLines(t *testing.T) {
	segments, err := Parse(strings.NewReader("just plain prose\nwith no markers"))
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 0 {
		t.Errorf("expected no segments, got %d", len(segments))
	}
}

func TestActionTimestamps(t *testing.T) {
	segments, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}

	timestamps := ActionTimestamps(segments, []string{"click", "export"})

	if len(timestamps) != 2 {
		t.Fatalf("expected 2 action timestamps, got %v", timestamps)
	}
	if timestamps[0] != 4.5 || timestamps[1] != 9.0 {
		t.Errorf("unexpected timestamps: %v", timestamps)
	}
}

func TestSnippetAt(t *testing.T) {
	segments, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}

	if got := SnippetAt(segments, 10.0); got != "now we export the usage report" {
		t.Errorf("covering segment not found: %q", got)
	}
	// Past the end: nearest segment wins.
	if got := SnippetAt(segments, 99.0); got != "and finally verify the results" {
		t.Errorf("nearest segment not found: %q", got)
	}
	if got := SnippetAt(nil, 1.0); got != "" {
		t.Errorf("expected empty snippet for empty transcript, got %q", got)
	}
}

func TestDurationAndJoin(t *testing.T) {
	segments, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}

	if got := Duration(segments); got != 20.0 {
		t.Errorf("expected duration 20.0, got %v", got)
	}
	joined := Join(segments)
	if !strings.Contains(joined, "admin portal") || !strings.Contains(joined, "verify the results") {
		t.Errorf("join lost text: %q", joined)
	}
}
