package qos

import (
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// Aggregate computes the achieved end-to-end profile of a sequential chain.
//
// Policy: response time and latency add up; availability, reliability and
// successability compose multiplicatively as probabilities (reported back on
// the 0-100 scale); the remaining metrics take the chain minimum (the most
// restrictive service bounds the whole chain). A single-service chain is its
// own profile; an empty chain has no profile.
func Aggregate(profiles []types.QoS) *types.QoS {
	if len(profiles) == 0 {
		return nil
	}
	if len(profiles) == 1 {
		p := profiles[0]
		return &p
	}

	agg := types.QoS{
		Availability:   1,
		Reliability:    1,
		Successability: 1,
		Throughput:     profiles[0].Throughput,
		Compliance:     profiles[0].Compliance,
		BestPractices:  profiles[0].BestPractices,
		Documentation:  profiles[0].Documentation,
	}

	for _, p := range profiles {
		agg.ResponseTime += p.ResponseTime
		agg.Latency += p.Latency

		agg.Availability *= p.Availability / 100
		agg.Reliability *= p.Reliability / 100
		agg.Successability *= p.Successability / 100

		agg.Throughput = min(agg.Throughput, p.Throughput)
		agg.Compliance = min(agg.Compliance, p.Compliance)
		agg.BestPractices = min(agg.BestPractices, p.BestPractices)
		agg.Documentation = min(agg.Documentation, p.Documentation)
	}

	agg.Availability *= 100
	agg.Reliability *= 100
	agg.Successability *= 100

	return &agg
}

// Winner identifies which side of a comparison is better for a metric.
type Winner string

const (
	WinnerLeft  Winner = "left"
	WinnerRight Winner = "right"
	WinnerTie   Winner = "tie"
)

// MetricComparison is one row of a profile comparison.
type MetricComparison struct {
	Left       float64 `json:"left"`
	Right      float64 `json:"right"`
	Winner     Winner  `json:"winner"`
	Difference float64 `json:"difference"`
}

// Compare produces a metric-by-metric comparison of two profiles. For the
// time metrics a smaller value wins; for all others a larger value wins.
// Difference is always oriented so positive favors the left profile.
func Compare(left, right types.QoS) map[types.Metric]MetricComparison {
	out := make(map[types.Metric]MetricComparison, len(types.Metrics))
	for _, m := range types.Metrics {
		l, r := left.Value(m), right.Value(m)
		higherBetter := m != types.MetricResponseTime && m != types.MetricLatency

		row := MetricComparison{Left: l, Right: r}
		switch {
		case l == r:
			row.Winner = WinnerTie
		case higherBetter == (l > r):
			row.Winner = WinnerLeft
		default:
			row.Winner = WinnerRight
		}
		if higherBetter {
			row.Difference = l - r
		} else {
			row.Difference = r - l
		}
		out[m] = row
	}
	return out
}
