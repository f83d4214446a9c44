package composer

import (
	"context"
	"math"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// dijkstra explores states in descending bottleneck-utility order. Chain
// utility never increases along an extension, so the first popped state
// whose parameters include the target is the global optimum.
func dijkstra(ctx context.Context, pool []*types.Service, req *types.Request, sc *scorer, tr *tracer, limits Limits) outcome {
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
			// Superseded by a later push for the same parameter set.
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

			key := next.Params.Key()
			if prev, seen := best[key]; seen && next.Utility <= prev {
				continue
			}
			best[key] = next.Utility
			q.push(next.Utility, next)
		}
	}

	tr.Failed(explored)
	return outcome{explored: explored, reason: types.ReasonNoComposition}
}
