// Package report renders the final assignment for downstream consumers:
// JSON for the document assembler, Markdown for humans, and a terminal
// summary table.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pkarpov/stepshot/internal/model"
)

// StepResult is one step's final outcome with everything the document
// assembler needs to embed the screenshot.
type StepResult struct {
	StepID    int     `json:"step_id"`
	Text      string  `json:"text"`
	FramePath string  `json:"frame_path,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty"`
	Score     float64 `json:"score,omitempty"`
	Source    string  `json:"source"`
}

// Report is the complete result of one matching run.
type Report struct {
	RunID       string       `json:"run_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Video       string       `json:"video,omitempty"`
	Frames      int          `json:"frames"`
	Matched     int          `json:"matched"`
	Unavailable int          `json:"unavailable"`
	Steps       []StepResult `json:"steps"`
	Warnings    []string     `json:"warnings,omitempty"`
}

// New assembles a report from the assignment and its inputs.
func New(steps []model.Step, frames []*model.Frame, assignment *model.Assignment, video string) *Report {
	byID := make(map[int]*model.Frame, len(frames))
	for _, f := range frames {
		byID[f.ID] = f
	}
	stepText := make(map[int]string, len(steps))
	for _, s := range steps {
		stepText[s.ID] = s.Text
	}

	r := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Video:       video,
		Frames:      len(frames),
		Matched:     assignment.Matched(),
		Unavailable: assignment.Unavailable(),
	}

	for _, d := range assignment.Decisions {
		result := StepResult{
			StepID: d.StepID,
			Text:   stepText[d.StepID],
			Score:  d.Score,
			Source: string(d.Source),
		}
		if frame, ok := byID[d.FrameID]; ok && d.Matched() {
			result.FramePath = frame.Path
			result.Timestamp = frame.Timestamp
		}
		r.Steps = append(r.Steps, result)
	}

	if r.Unavailable > 0 {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("%d of %d steps have no screenshot: the candidate pool was exhausted", r.Unavailable, len(steps)))
	}

	return r
}

// WriteJSON writes the machine-readable report.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteMarkdown writes a human-readable step list with screenshot links.
func (r *Report) WriteMarkdown(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create markdown report: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# Process steps\n\n")
	fmt.Fprintf(f, "Run `%s`, generated %s\n\n", r.RunID, r.GeneratedAt.Format(time.RFC3339))

	for _, s := range r.Steps {
		fmt.Fprintf(f, "## Step %d\n\n%s\n\n", s.StepID+1, s.Text)
		if s.FramePath != "" {
			fmt.Fprintf(f, "![step %d](%s)\n\n", s.StepID+1, s.FramePath)
		} else {
			fmt.Fprintf(f, "_No screenshot available for this step._\n\n")
		}
	}

	for _, w := range r.Warnings {
		fmt.Fprintf(f, "> %s\n", w)
	}

	return nil
}

// RenderSummary prints the per-step outcome table.
func (r *Report) RenderSummary(w io.Writer, includeScores bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	// The default style upper-cases footer text.
	t.Style().Format.Footer = text.FormatDefault

	header := table.Row{"#", "Step", "Frame", "Source"}
	if includeScores {
		header = append(header, "Score")
	}
	t.AppendHeader(header)

	for _, s := range r.Steps {
		frame := s.FramePath
		if frame == "" {
			frame = "—"
		}
		row := table.Row{s.StepID + 1, truncate(s.Text, 48), frame, s.Source}
		if includeScores {
			row = append(row, fmt.Sprintf("%.3f", s.Score))
		}
		t.AppendRow(row)
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("matched %d/%d", r.Matched, len(r.Steps)), "", ""})
	t.Render()
}

// truncate shortens step text to n runes. Byte slicing would split
// multibyte characters and leak invalid UTF-8 into the table.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
