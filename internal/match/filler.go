package match

import (
	"sort"

	"github.com/pkarpov/stepshot/internal/model"
)

// Filler assigns frames to the steps the greedy solver left unmatched,
// preserving relative chronological order: the lowest-ordinal unmatched
// step gets the earliest remaining frame. It guarantees every step ends
// with a decision, either a frame id or an explicit absence marker.
type Filler struct{}

// Fill completes the assignment. Frames without timestamps sort after
// timestamped ones, ordered among themselves by extraction sequence. When
// unused frames run out, remaining steps are marked unavailable rather than
// dropped or given a duplicate frame.
func (Filler) Fill(assigned map[int]model.Decision, unmatched []model.Step, steps []model.Step, frames []*model.Frame) *model.Assignment {
	used := make(map[int]bool, len(assigned))
	for _, d := range assigned {
		used[d.FrameID] = true
	}

	var unused []*model.Frame
	for _, f := range frames {
		if !used[f.ID] {
			unused = append(unused, f)
		}
	}
	sort.Slice(unused, func(i, j int) bool {
		a, b := unused[i], unused[j]
		if a.HasTimestamp != b.HasTimestamp {
			return a.HasTimestamp
		}
		if a.HasTimestamp && a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return a.ID < b.ID
	})

	ordered := make([]model.Step, len(unmatched))
	copy(ordered, unmatched)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	next := 0
	for _, step := range ordered {
		if next < len(unused) {
			assigned[step.ID] = model.Decision{
				StepID:  step.ID,
				FrameID: unused[next].ID,
				Source:  model.SourceChronological,
			}
			next++
		} else {
			assigned[step.ID] = model.Decision{
				StepID:  step.ID,
				FrameID: -1,
				Source:  model.SourceUnavailable,
			}
		}
	}

	result := &model.Assignment{Decisions: make([]model.Decision, 0, len(steps))}
	for _, step := range steps {
		result.Decisions = append(result.Decisions, assigned[step.ID])
	}
	sort.Slice(result.Decisions, func(i, j int) bool {
		return result.Decisions[i].StepID < result.Decisions[j].StepID
	})

	return result
}
