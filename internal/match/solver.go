package match

import (
	"sort"

	"github.com/pkarpov/stepshot/internal/model"
)

// Solver performs greedy assignment over the score matrix: highest-score
// pairs first, no backtracking. Greedy is an approximation of maximum-weight
// matching chosen for tractability; for this pool size it is well within
// tolerance.
type Solver struct {
	minConfidence float64
}

// NewSolver creates a solver with the configured acceptance threshold.
func NewSolver(minConfidence float64) *Solver {
	return &Solver{minConfidence: minConfidence}
}

// Solve walks the entries in descending score order, accepting a pair when
// both its step and frame are still free and the score meets the threshold.
// Ties break by lower step id, then lower frame id, so identical matrices
// always produce identical assignments. Steps left without an accepted
// entry are returned for the chronological filler.
func (s *Solver) Solve(entries []model.ScoreEntry, steps []model.Step) (map[int]model.Decision, []model.Step) {
	sorted := make([]model.ScoreEntry, len(entries))
	copy(sorted, entries)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.StepID != b.StepID {
			return a.StepID < b.StepID
		}
		return a.FrameID < b.FrameID
	})

	assigned := make(map[int]model.Decision)
	usedFrames := make(map[int]bool)

	for _, entry := range sorted {
		if entry.Score < s.minConfidence {
			// Everything after this is below threshold too.
			break
		}
		if _, taken := assigned[entry.StepID]; taken {
			continue
		}
		if usedFrames[entry.FrameID] {
			continue
		}

		assigned[entry.StepID] = model.Decision{
			StepID:  entry.StepID,
			FrameID: entry.FrameID,
			Score:   entry.Score,
			Source:  model.SourceSimilarity,
		}
		usedFrames[entry.FrameID] = true
	}

	var unmatched []model.Step
	for _, step := range steps {
		if _, ok := assigned[step.ID]; !ok {
			unmatched = append(unmatched, step)
		}
	}

	return assigned, unmatched
}
