package qos

import (
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// Normalization domains. Percentage metrics already live on [0, 100];
// throughput and the two time metrics are mapped from [0, 1000], the time
// metrics inverted (smaller is better). Values beyond a domain saturate so
// the quality score stays inside [0, 100] for any valid profile.
const (
	percentDomain    = 100.0
	throughputDomain = 1000.0
	timeDomain       = 1000.0
)

// qualityWeights sum to 100 across the nine metrics.
var qualityWeights = map[types.Metric]float64{
	types.MetricAvailability:   15,
	types.MetricReliability:    15,
	types.MetricSuccessability: 15,
	types.MetricThroughput:     10,
	types.MetricCompliance:     10,
	types.MetricBestPractices:  10,
	types.MetricDocumentation:  5,
	types.MetricResponseTime:   10,
	types.MetricLatency:        10,
}

// conformityWeights sum to 100 across the nine constrainable metrics.
var conformityWeights = map[types.Metric]float64{
	types.MetricResponseTime:   12,
	types.MetricAvailability:   12,
	types.MetricReliability:    12,
	types.MetricThroughput:     11,
	types.MetricSuccessability: 11,
	types.MetricCompliance:     11,
	types.MetricLatency:        11,
	types.MetricBestPractices:  10,
	types.MetricDocumentation:  10,
}

// Satisfaction ratio tiers.
const (
	fullBonus   = 50.0
	highBonus   = 25.0
	partBonus   = 10.0
	hardPenalty = 0.5
	midPenalty  = 0.7
	softPenalty = 0.9
)

// Report is the full outcome of scoring one profile against one constraint
// set. Satisfied contains an entry per constrained metric only.
type Report struct {
	Utility    float64               `json:"utility"`
	Quality    float64               `json:"quality"`
	Conformity float64               `json:"conformity"`
	Ratio      float64               `json:"satisfaction_ratio"`
	Satisfied  map[types.Metric]bool `json:"satisfied"`
}

// Score computes the utility of one QoS profile under a request's
// constraints. Pure and total: any profile that passes validation yields a
// finite utility, constraints or not.
func Score(profile types.QoS, constraints []types.Constraint) Report {
	r := Report{
		Quality:   quality(profile),
		Satisfied: make(map[types.Metric]bool, len(constraints)),
	}

	met := 0
	for _, c := range constraints {
		ok := c.Satisfied(profile.Value(c.Metric))
		r.Satisfied[c.Metric] = ok
		if ok {
			r.Conformity += conformityWeights[c.Metric]
			met++
		}
	}

	if len(constraints) == 0 {
		r.Ratio = 1.0
	} else {
		r.Ratio = float64(met) / float64(len(constraints))
	}

	base := r.Quality*0.4 + r.Conformity*0.6
	r.Utility = base*penalty(r.Ratio) + bonus(r.Ratio)
	return r
}

// Utility is the scalar shortcut for callers that only need the score.
func Utility(profile types.QoS, constraints []types.Constraint) float64 {
	return Score(profile, constraints).Utility
}

// Perfect returns the profile that saturates every quality domain.
func Perfect() types.QoS {
	return types.QoS{
		ResponseTime:   0,
		Availability:   100,
		Throughput:     1000,
		Successability: 100,
		Reliability:    100,
		Compliance:     100,
		BestPractices:  100,
		Latency:        0,
		Documentation:  100,
	}
}

// UnconstrainedMax is the highest utility reachable when a request carries
// no constraints. Trivially satisfied requests report it as the utility of
// their empty chain.
func UnconstrainedMax() float64 {
	return Utility(Perfect(), nil)
}

// quality computes the weighted normalized quality score in [0, 100].
// Iteration follows the canonical metric order so float summation is
// bit-identical across runs.
func quality(p types.QoS) float64 {
	var score float64
	for _, m := range types.Metrics {
		score += qualityWeights[m] * normalize(m, p.Value(m))
	}
	return score
}

// normalize maps a metric value to [0, 1], inverting the time metrics.
func normalize(m types.Metric, v float64) float64 {
	var n float64
	switch m {
	case types.MetricResponseTime, types.MetricLatency:
		n = 1 - v/timeDomain
	case types.MetricThroughput:
		n = v / throughputDomain
	default:
		n = v / percentDomain
	}
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func bonus(ratio float64) float64 {
	switch {
	case ratio == 1.0:
		return fullBonus
	case ratio >= 0.8:
		return highBonus
	case ratio >= 0.6:
		return partBonus
	default:
		return 0
	}
}

func penalty(ratio float64) float64 {
	switch {
	case ratio == 1.0:
		return 1.0
	case ratio < 0.5:
		return hardPenalty
	case ratio < 0.7:
		return midPenalty
	default:
		return softPenalty
	}
}
