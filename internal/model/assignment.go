package model

// DecisionSource records which phase of the engine produced a decision.
type DecisionSource string

const (
	// SourceSimilarity means the greedy solver accepted the pair on score.
	SourceSimilarity DecisionSource = "similarity"
	// SourceChronological means the fallback filler paired the step with an
	// unused frame by timestamp order.
	SourceChronological DecisionSource = "chronological"
	// SourceUnavailable means no frame was left for the step. This is a
	// normal result state, not an error.
	SourceUnavailable DecisionSource = "unavailable"
)

// Decision is the engine's final verdict for one step: either a frame id or
// an explicit absence marker, plus the score that justified it.
type Decision struct {
	StepID  int            `json:"step_id"`
	FrameID int            `json:"frame_id"` // -1 when no frame is available
	Score   float64        `json:"score"`
	Source  DecisionSource `json:"source"`
}

// Matched reports whether the step received a frame.
func (d Decision) Matched() bool {
	return d.Source != SourceUnavailable
}

// Assignment is the complete mapping from steps to frames produced by one
// matching run. Every step appears exactly once, in step-id order, and no
// frame id appears twice. Assignments are consumed immediately by the
// document assembler and never retained across runs.
type Assignment struct {
	Decisions []Decision `json:"decisions"`
}

// Decision returns the decision for the given step id.
func (a *Assignment) Decision(stepID int) (Decision, bool) {
	for _, d := range a.Decisions {
		if d.StepID == stepID {
			return d, true
		}
	}
	return Decision{}, false
}

// Matched counts steps that received a frame.
func (a *Assignment) Matched() int {
	n := 0
	for _, d := range a.Decisions {
		if d.Matched() {
			n++
		}
	}
	return n
}

// Unavailable counts steps left without a frame after the fallback filler.
// A non-zero count is an exhaustion notice for the caller, not a failure.
func (a *Assignment) Unavailable() int {
	return len(a.Decisions) - a.Matched()
}
