package benchmark

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/composer"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/history"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// AlgorithmStats aggregates the latest results of one algorithm across all
// compared requests. Failed runs count as zero-utility samples so a strategy
// cannot improve its average by failing often.
type AlgorithmStats struct {
	Runs           int     `json:"runs"`
	SuccessRate    float64 `json:"success_rate"`
	AvgUtility     float64 `json:"avg_utility"`
	UtilityStdDev  float64 `json:"utility_stddev"`
	AvgSeconds     float64 `json:"avg_time"`
	MedianSeconds  float64 `json:"median_time"`
	BetterThanBest int     `json:"better_than_best"`
}

// Row pairs one request with its best-known solution and the latest result
// of each algorithm that has run against it.
type Row struct {
	RequestID string                   `json:"request_id"`
	BestKnown *Solution                `json:"best_known,omitempty"`
	Results   map[string]*types.Result `json:"results"`
}

// Comparison is the full benchmark report.
type Comparison struct {
	Rows       []Row                     `json:"comparisons"`
	Statistics map[string]AlgorithmStats `json:"statistics"`
}

type accum struct {
	utilities []float64
	seconds   []float64
	successes int
	better    int
}

// Compare builds a benchmark report over the given requests using the most
// recent recorded result per request and algorithm. Requests that no
// algorithm has run against yet still produce a row, with empty results.
func Compare(requests []*types.Request, hist *history.Store, solutions *Store) Comparison {
	algorithms := composer.Algorithms()
	rows := make([]Row, 0, len(requests))
	totals := make(map[string]*accum, len(algorithms))
	for _, algo := range algorithms {
		totals[algo] = &accum{}
	}

	for _, req := range requests {
		if req == nil {
			continue
		}
		row := Row{
			RequestID: req.ID,
			Results:   make(map[string]*types.Result, len(algorithms)),
		}
		if sol, ok := solutions.Get(req.ID); ok {
			row.BestKnown = &sol
		}
		for _, algo := range algorithms {
			res, ok := hist.Latest(req.ID, algo)
			if !ok {
				continue
			}
			row.Results[algo] = res
			acc := totals[algo]
			utility := 0.0
			if res.Success {
				utility = res.Utility
				acc.successes++
			}
			acc.utilities = append(acc.utilities, utility)
			acc.seconds = append(acc.seconds, res.Seconds)
			if res.Success && row.BestKnown != nil && res.Utility > row.BestKnown.Utility {
				acc.better++
			}
		}
		rows = append(rows, row)
	}

	statistics := make(map[string]AlgorithmStats, len(algorithms))
	for _, algo := range algorithms {
		acc := totals[algo]
		entry := AlgorithmStats{Runs: len(acc.utilities), BetterThanBest: acc.better}
		if entry.Runs > 0 {
			entry.SuccessRate = float64(acc.successes) / float64(entry.Runs) * 100
			entry.AvgUtility = stat.Mean(acc.utilities, nil)
			entry.AvgSeconds = stat.Mean(acc.seconds, nil)
			sort.Float64s(acc.seconds)
			entry.MedianSeconds = stat.Quantile(0.5, stat.Empirical, acc.seconds, nil)
		}
		if entry.Runs > 1 {
			entry.UtilityStdDev = stat.StdDev(acc.utilities, nil)
		}
		statistics[algo] = entry
	}
	return Comparison{Rows: rows, Statistics: statistics}
}
