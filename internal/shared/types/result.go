package types

import "time"

// Action classifies one recorded search decision.
type Action string

const (
	ActionInit      Action = "init"
	ActionExplore   Action = "explore"
	ActionExpand    Action = "expand"
	ActionGoalFound Action = "goal_found"
	ActionComplete  Action = "complete"
	ActionDeadEnd   Action = "dead_end"
	ActionFailed    Action = "failed"
)

// TraceEntry is one step of a strategy's replayable decision log.
// Params is sorted so identical runs serialize identically.
type TraceEntry struct {
	Step   int      `json:"step"`
	Action Action   `json:"action"`
	Path   []string `json:"path"`
	Params []string `json:"params"`
	Detail string   `json:"detail,omitempty"`
}

// Reason codes classify unsuccessful compositions. Strategies return these
// inside a Result; they are never surfaced as Go errors.
type Reason string

const (
	// ReasonNone marks a successful composition.
	ReasonNone Reason = ""
	// ReasonNoComposition means the search space was exhausted without
	// reaching the target.
	ReasonNoComposition Reason = "no_composition_found"
	// ReasonDeadEnd means greedy search had no applicable next service.
	ReasonDeadEnd Reason = "dead_end"
	// ReasonCancelled means the caller aborted the search.
	ReasonCancelled Reason = "cancelled"
	// ReasonTimeout means the search deadline elapsed.
	ReasonTimeout Reason = "timeout"
	// ReasonExpansionLimit means the queue-based search hit its expansion bound.
	ReasonExpansionLimit Reason = "expansion_limit"
	// ReasonStepLimit means greedy search hit its cycle-guard step bound.
	ReasonStepLimit Reason = "step_limit"
)

// Result is the uniform outcome of one composition invocation.
// Immutable after assembly.
type Result struct {
	ID          string        `json:"id"`
	RequestID   string        `json:"request_id"`
	Algorithm   string        `json:"algorithm"`
	Chain       []string      `json:"chain"`
	Utility     float64       `json:"utility"`
	AchievedQoS *QoS          `json:"achieved_qos,omitempty"`
	Success     bool          `json:"success"`
	Reason      Reason        `json:"reason,omitempty"`
	Trace       []TraceEntry  `json:"trace"`
	Explored    int           `json:"states_explored"`
	Duration    time.Duration `json:"duration_ns"`
	Seconds     float64       `json:"computation_time"`
	Graph       *Graph        `json:"graph,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ResultMetadata is the lightweight listing form of a stored result.
type ResultMetadata struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	Algorithm string    `json:"algorithm"`
	Utility   float64   `json:"utility"`
	ChainLen  int       `json:"chain_length"`
	Success   bool      `json:"success"`
	Reason    Reason    `json:"reason,omitempty"`
	Seconds   float64   `json:"computation_time"`
	CreatedAt time.Time `json:"created_at"`
}

// ToMetadata projects a result to its listing form.
func (r *Result) ToMetadata() ResultMetadata {
	return ResultMetadata{
		ID:        r.ID,
		RequestID: r.RequestID,
		Algorithm: r.Algorithm,
		Utility:   r.Utility,
		ChainLen:  len(r.Chain),
		Success:   r.Success,
		Reason:    r.Reason,
		Seconds:   r.Seconds,
		CreatedAt: r.CreatedAt,
	}
}
