package composer

import (
	"fmt"
	"sync/atomic"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// Sink receives trace entries as the search emits them. Used to stream
// progress over websockets without waiting for the run to finish.
type Sink func(types.TraceEntry)

// tracer accumulates the step-by-step search trace. Explore and expand
// entries are capped so large searches stay readable; init, goal, complete
// and failure entries are always recorded.
type tracer struct {
	entries  []types.TraceEntry
	step     int
	explores int
	expands  int
	limits   Limits
	sink     Sink
	count    atomic.Int64
}

func newTracer(limits Limits, sink Sink) *tracer {
	return &tracer{limits: limits, sink: sink}
}

func (t *tracer) record(action types.Action, path []string, params []string, detail string) {
	t.step++
	entry := types.TraceEntry{
		Step:   t.step,
		Action: action,
		Path:   append([]string(nil), path...),
		Params: append([]string(nil), params...),
		Detail: detail,
	}
	t.entries = append(t.entries, entry)
	t.count.Store(int64(len(t.entries)))
	if t.sink != nil {
		t.sink(entry)
	}
}

func (t *tracer) Init(provided int) {
	t.record(types.ActionInit, nil, provided, fmt.Sprintf("Initialize with %d provided parameters", provided))
}

func (t *tracer) Explore(path []string, params, candidates int) {
	if t.explores >= t.limits.TraceExplores {
		return
	}
	t.explores++
	t.record(types.ActionExplore, path, params,
		fmt.Sprintf("Exploring from state with %d params, %d candidates", params, candidates))
}

func (t *tracer) Expand(path []string, params int, serviceID string, utility float64) {
	if t.expands >= t.limits.TraceExpands {
		return
	}
	t.expands++
	t.record(types.ActionExpand, path, params,
		fmt.Sprintf("Service %s can produce target! Utility: %.2f", serviceID, utility))
}

func (t *tracer) Choose(path []string, params int, serviceID string, score float64) {
	if t.expands >= t.limits.TraceExpands {
		return
	}
	t.expands++
	t.record(types.ActionExpand, path, params,
		fmt.Sprintf("Greedy choice: %s scored %.2f", serviceID, score))
}

func (t *tracer) GoalFound(path []string, params int) {
	t.record(types.ActionGoalFound, path, params, "Goal reached! Path: "+joinPath(path))
}

func (t *tracer) Complete(path []string, params int, detail string) {
	t.record(types.ActionComplete, path, params, detail)
}

func (t *tracer) DeadEnd(path []string, params int) {
	t.record(types.ActionDeadEnd, path, params, "No candidate service extends the current chain")
}

func (t *tracer) Failed(iterations int) {
	t.record(types.ActionFailed, nil, 0, fmt.Sprintf("No composition found after %d iterations", iterations))
}

func (t *tracer) Unreachable() {
	t.record(types.ActionFailed, nil, 0, "No reachable composition path exists")
}

func (t *tracer) Entries() []types.TraceEntry {
	return t.entries
}

// Count is safe to read from other goroutines while a search runs.
func (t *tracer) Count() int64 {
	return t.count.Load()
}

func joinPath(path []string) string {
	if len(path) == 0 {
		return "(empty)"
	}
	out := path[0]
	for _, id := range path[1:] {
		out += " -> " + id
	}
	return out
}
