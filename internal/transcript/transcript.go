// Package transcript parses timed transcripts and derives the signals the
// matcher needs from them: action timestamps for candidate frames and the
// spoken snippet nearest a frame.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Segment is one timed line of a transcript.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Transcript lines look like "[12.3 - 15.6] now we open the settings menu".
var linePattern = regexp.MustCompile(`^\[(\d+\.?\d*)\s*-\s*(\d+\.?\d*)\]\s+(.*)$`)

// Parse reads timed segments from r. Lines that do not carry timing markers
// are skipped; a transcript with no timed lines at all is still valid and
// yields no segments.
func Parse(r io.Reader) ([]Segment, error) {
	var segments []Segment

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := linePattern.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}

		start, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}

		text := strings.TrimSpace(m[3])
		if text == "" {
			continue
		}

		segments = append(segments, Segment{Start: start, End: end, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	return segments, nil
}

// ParseFile parses the transcript at path.
func ParseFile(path string) ([]Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// ActionTimestamps returns the start times of segments mentioning any of
// the given keywords, in transcript order. These are the moments worth
// grabbing candidate frames at.
func ActionTimestamps(segments []Segment, keywords []string) []float64 {
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	var timestamps []float64
	for _, seg := range segments {
		text := strings.ToLower(seg.Text)
		for _, kw := range lowered {
			if strings.Contains(text, kw) {
				timestamps = append(timestamps, seg.Start)
				break
			}
		}
	}
	return timestamps
}

// SnippetAt returns the text of the segment covering ts, or failing that
// the segment whose start is nearest. Empty when there are no segments.
func SnippetAt(segments []Segment, ts float64) string {
	if len(segments) == 0 {
		return ""
	}

	best := segments[0]
	bestDist := distance(best, ts)
	for _, seg := range segments[1:] {
		if seg.Start <= ts && ts <= seg.End {
			return seg.Text
		}
		if d := distance(seg, ts); d < bestDist {
			best, bestDist = seg, d
		}
	}

	return best.Text
}

func distance(seg Segment, ts float64) float64 {
	switch {
	case ts < seg.Start:
		return seg.Start - ts
	case ts > seg.End:
		return ts - seg.End
	default:
		return 0
	}
}

// Duration reports the last spoken timestamp, a usable stand-in for the
// video length when ffprobe is unavailable.
func Duration(segments []Segment) float64 {
	var max float64
	for _, seg := range segments {
		if seg.End > max {
			max = seg.End
		}
	}
	return max
}

// Join flattens all segment text into one string for step generation.
func Join(segments []Segment) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = seg.Text
	}
	return strings.Join(parts, " ")
}
