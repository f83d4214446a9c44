package types

import (
	"fmt"
	"math"
)

// Metric identifies one of the nine QoS metrics.
type Metric string

const (
	MetricResponseTime   Metric = "response_time"
	MetricAvailability   Metric = "availability"
	MetricThroughput     Metric = "throughput"
	MetricSuccessability Metric = "successability"
	MetricReliability    Metric = "reliability"
	MetricCompliance     Metric = "compliance"
	MetricBestPractices  Metric = "best_practices"
	MetricLatency        Metric = "latency"
	MetricDocumentation  Metric = "documentation"
)

// Metrics lists all nine metrics in canonical descriptor order.
var Metrics = []Metric{
	MetricResponseTime,
	MetricAvailability,
	MetricThroughput,
	MetricSuccessability,
	MetricReliability,
	MetricCompliance,
	MetricBestPractices,
	MetricLatency,
	MetricDocumentation,
}

// QoS holds the nine-metric quality profile of a service.
//
// Response time and latency are in milliseconds (smaller is better);
// throughput is in invocations per second; the remaining metrics are
// percentages in [0, 100] (larger is better).
type QoS struct {
	ResponseTime   float64 `json:"response_time"`
	Availability   float64 `json:"availability"`
	Throughput     float64 `json:"throughput"`
	Successability float64 `json:"successability"`
	Reliability    float64 `json:"reliability"`
	Compliance     float64 `json:"compliance"`
	BestPractices  float64 `json:"best_practices"`
	Latency        float64 `json:"latency"`
	Documentation  float64 `json:"documentation"`
}

// Value returns the profile value for a metric.
func (q QoS) Value(m Metric) float64 {
	switch m {
	case MetricResponseTime:
		return q.ResponseTime
	case MetricAvailability:
		return q.Availability
	case MetricThroughput:
		return q.Throughput
	case MetricSuccessability:
		return q.Successability
	case MetricReliability:
		return q.Reliability
	case MetricCompliance:
		return q.Compliance
	case MetricBestPractices:
		return q.BestPractices
	case MetricLatency:
		return q.Latency
	case MetricDocumentation:
		return q.Documentation
	}
	return 0
}

// Set assigns the profile value for a metric. Unknown metrics are ignored.
func (q *QoS) Set(m Metric, v float64) {
	switch m {
	case MetricResponseTime:
		q.ResponseTime = v
	case MetricAvailability:
		q.Availability = v
	case MetricThroughput:
		q.Throughput = v
	case MetricSuccessability:
		q.Successability = v
	case MetricReliability:
		q.Reliability = v
	case MetricCompliance:
		q.Compliance = v
	case MetricBestPractices:
		q.BestPractices = v
	case MetricLatency:
		q.Latency = v
	case MetricDocumentation:
		q.Documentation = v
	}
}

// percentMetrics are bounded to [0, 100] by definition.
var percentMetrics = []Metric{
	MetricAvailability,
	MetricSuccessability,
	MetricReliability,
	MetricCompliance,
	MetricBestPractices,
	MetricDocumentation,
}

// Validate rejects malformed profiles: negative values anywhere, percentage
// metrics above 100, or non-finite values. Time and throughput metrics are
// unbounded above. Values are never coerced.
func (q QoS) Validate() error {
	for _, m := range Metrics {
		v := q.Value(m)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("qos metric %s: non-finite value", m)
		}
		if v < 0 {
			return fmt.Errorf("qos metric %s: negative value %v", m, v)
		}
	}
	for _, m := range percentMetrics {
		if v := q.Value(m); v > 100 {
			return fmt.Errorf("qos metric %s: value %v above 100", m, v)
		}
	}
	return nil
}

// Interaction describes deterministic I/O-compatibility links between a
// service and the rest of the catalog.
type Interaction struct {
	Role        string   `json:"role"`
	CanCall     []string `json:"can_call,omitempty"`
	DependsOn   []string `json:"depends_on,omitempty"`
	Substitutes []string `json:"substitutes,omitempty"`
}

// Annotations is the optional social annotation block attached to a service
// by the annotation subsystem. All scores are in [0, 1]; a nil block is
// equivalent to all-zero scores.
type Annotations struct {
	TrustDegree     float64            `json:"trust_degree"`
	Reputation      float64            `json:"reputation"`
	Cooperativeness float64            `json:"cooperativeness"`
	Robustness      float64            `json:"robustness"`
	Collaborators   map[string]float64 `json:"collaborators,omitempty"`
	Interaction     *Interaction       `json:"interaction,omitempty"`
}

// Validate rejects annotation scores outside [0, 1].
func (a Annotations) Validate() error {
	for name, v := range map[string]float64{
		"trust_degree":    a.TrustDegree,
		"reputation":      a.Reputation,
		"cooperativeness": a.Cooperativeness,
		"robustness":      a.Robustness,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("annotation %s out of [0,1]: %v", name, v)
		}
	}
	return nil
}

// Clone returns a deep copy of the annotation block.
func (a Annotations) Clone() *Annotations {
	out := a
	if a.Collaborators != nil {
		out.Collaborators = make(map[string]float64, len(a.Collaborators))
		for k, v := range a.Collaborators {
			out.Collaborators[k] = v
		}
	}
	if a.Interaction != nil {
		inter := *a.Interaction
		inter.CanCall = append([]string(nil), a.Interaction.CanCall...)
		inter.DependsOn = append([]string(nil), a.Interaction.DependsOn...)
		inter.Substitutes = append([]string(nil), a.Interaction.Substitutes...)
		out.Interaction = &inter
	}
	return &out
}

// Service is one immutable catalog entry.
type Service struct {
	ID          string       `json:"id"`
	Name        string       `json:"name,omitempty"`
	Inputs      []string     `json:"inputs"`
	Outputs     []string     `json:"outputs"`
	QoS         QoS          `json:"qos"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// Validate rejects malformed service records before they reach the catalog.
func (s Service) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("service: empty id")
	}
	if err := s.QoS.Validate(); err != nil {
		return fmt.Errorf("service %s: %w", s.ID, err)
	}
	if s.Annotations != nil {
		if err := s.Annotations.Validate(); err != nil {
			return fmt.Errorf("service %s: %w", s.ID, err)
		}
	}
	return nil
}

// Clone returns a deep copy safe to hand to callers.
func (s Service) Clone() Service {
	out := s
	out.Inputs = append([]string(nil), s.Inputs...)
	out.Outputs = append([]string(nil), s.Outputs...)
	if s.Annotations != nil {
		out.Annotations = s.Annotations.Clone()
	}
	return out
}
