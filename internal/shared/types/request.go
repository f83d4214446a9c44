package types

import "fmt"

// Comparator is the direction of a QoS constraint.
type Comparator string

const (
	// AtMost applies to metrics where smaller is better (response time, latency).
	AtMost Comparator = "<="
	// AtLeast applies to metrics where larger is better (everything else).
	AtLeast Comparator = ">="
)

// DefaultComparator returns the conventional constraint direction for a
// metric, matching request-document semantics: upper bounds on the two time
// metrics, lower bounds on the rest.
func DefaultComparator(m Metric) Comparator {
	if m == MetricResponseTime || m == MetricLatency {
		return AtMost
	}
	return AtLeast
}

// Constraint bounds one QoS metric of every service in a chain.
type Constraint struct {
	Metric     Metric     `json:"metric"`
	Comparator Comparator `json:"comparator"`
	Threshold  float64    `json:"threshold"`
}

// Satisfied reports whether a profile value meets the constraint.
func (c Constraint) Satisfied(value float64) bool {
	if c.Comparator == AtMost {
		return value <= c.Threshold
	}
	return value >= c.Threshold
}

// Request is one immutable composition request.
type Request struct {
	ID          string       `json:"id"`
	Provided    []string     `json:"provided"`
	Resultant   string       `json:"resultant"`
	Constraints []Constraint `json:"qos_constraints,omitempty"`
}

// Validate rejects malformed requests before any search starts.
func (r Request) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("request: empty id")
	}
	if len(r.Provided) == 0 {
		return fmt.Errorf("request %s: empty provided parameter set", r.ID)
	}
	if r.Resultant == "" {
		return fmt.Errorf("request %s: missing resultant parameter", r.ID)
	}
	seen := make(map[Metric]bool, len(r.Constraints))
	for _, c := range r.Constraints {
		if !validMetric(c.Metric) {
			return fmt.Errorf("request %s: unknown constraint metric %q", r.ID, c.Metric)
		}
		if c.Comparator != AtMost && c.Comparator != AtLeast {
			return fmt.Errorf("request %s: unknown comparator %q", r.ID, c.Comparator)
		}
		if c.Threshold < 0 {
			return fmt.Errorf("request %s: negative threshold for %s", r.ID, c.Metric)
		}
		if seen[c.Metric] {
			return fmt.Errorf("request %s: duplicate constraint on %s", r.ID, c.Metric)
		}
		seen[c.Metric] = true
	}
	return nil
}

// Clone returns a deep copy safe to hand to callers.
func (r Request) Clone() Request {
	out := r
	out.Provided = append([]string(nil), r.Provided...)
	out.Constraints = append([]Constraint(nil), r.Constraints...)
	return out
}

func validMetric(m Metric) bool {
	for _, known := range Metrics {
		if m == known {
			return true
		}
	}
	return false
}

// ComposeRequest selects a stored request and a strategy by name.
type ComposeRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	Algorithm string `json:"algorithm"`
}

// AnnotateRequest selects services for the deterministic annotator.
// An empty ServiceIDs slice annotates the whole catalog.
type AnnotateRequest struct {
	ServiceIDs []string `json:"service_ids,omitempty"`
}

// WSMessage represents a WebSocket message envelope.
type WSMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Algorithm string `json:"algorithm,omitempty"`
}
