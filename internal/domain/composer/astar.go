package composer

import (
	"context"
	"math"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// Heuristic component weights. Goal producers dominate, then dependable
// services, then fast ones and ones that open new parameters.
const (
	hGoalWeight         = 0.5
	hReliabilityWeight  = 0.2
	hAvailabilityWeight = 0.2
	hSpeedWeight        = 0.05
	hNoveltyWeight      = 0.05
)

// astar orders states by bottleneck utility plus a bounded per-candidate
// heuristic. With an admissible heuristic it matches dijkstra's result
// while visiting fewer states.
func astar(ctx context.Context, pool []*types.Service, req *types.Request, sc *scorer, tr *tracer, limits Limits) outcome {
	maxRT := 0.0
	for _, svc := range pool {
		if svc.QoS.ResponseTime > maxRT {
			maxRT = svc.QoS.ResponseTime
		}
	}

	start := &State{
		Utility: math.Inf(1),
		Params:  NewParamSet(req.Provided),
	}
	tr.Init(len(req.Provided))

	best := map[string]float64{start.Params.Key(): start.Utility}
	q := newQueue()
	q.push(start.Utility, start)

	explored := 0
	for q.len() > 0 {
		if err := ctx.Err(); err != nil {
			tr.Failed(explored)
			return outcome{explored: explored, reason: ctxReason(err)}
		}
		if explored >= limits.MaxExpansions {
			tr.Failed(explored)
			return outcome{explored: explored, reason: types.ReasonExpansionLimit}
		}
		explored++

		cur := q.pop()
		if best[cur.Params.Key()] > cur.Utility {
			continue
		}
		if len(cur.Chain) > 0 && cur.Params.Has(req.Resultant) {
			tr.GoalFound(cur.Chain, cur.Params.Len())
			return outcome{chain: cur.Chain, utility: cur.Utility, params: cur.Params.Len(), explored: explored}
		}

		candidates := applicable(pool, cur)
		tr.Explore(cur.Chain, cur.Params.Len(), len(candidates))

		for _, svc := range candidates {
			u := sc.score(svc)
			next := cur.extend(svc.ID, u, svc.Outputs)
			if producesTarget(svc, req.Resultant) {
				tr.Expand(next.Chain, next.Params.Len(), svc.ID, u)
			}

			// Dedup keys on the real bottleneck utility, not the
			// boosted priority, so optimality is preserved.
			key := next.Params.Key()
			if prev, seen := best[key]; seen && next.Utility <= prev {
				continue
			}
			best[key] = next.Utility
			q.push(next.Utility+heuristic(svc, cur.Params, req.Resultant, maxRT), next)
		}
	}

	tr.Failed(explored)
	return outcome{explored: explored, reason: types.ReasonNoComposition}
}

// heuristic estimates how promising a candidate service is from the current
// parameter set. Novelty counts outputs the current state does not already
// have, so a service that only re-produces known parameters scores zero
// there.
func heuristic(svc *types.Service, params *ParamSet, target string, maxRT float64) float64 {
	goal := 0.0
	if producesTarget(svc, target) {
		goal = 1.0
	}

	speed := 0.0
	if maxRT > 0 {
		speed = 1 - svc.QoS.ResponseTime/maxRT
	}

	novel := 0
	for _, out := range svc.Outputs {
		if !params.Has(out) {
			novel++
		}
	}
	denom := len(svc.Outputs)
	if denom < 1 {
		denom = 1
	}
	novelty := float64(novel) / float64(denom)

	return hGoalWeight*goal +
		hReliabilityWeight*svc.QoS.Reliability/100 +
		hAvailabilityWeight*svc.QoS.Availability/100 +
		hSpeedWeight*speed +
		hNoveltyWeight*novelty
}
