package composer

import (
	"context"
	"math"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// goalBoost dominates any single-service utility so a goal producer always
// wins the greedy pick when one is applicable.
const goalBoost = 100.0

// greedy commits to the best-scoring applicable service at every step with
// no backtracking. Fast, but it can wedge itself behind a locally
// attractive choice, so dead ends and the step bound are normal outcomes.
func greedy(ctx context.Context, pool []*types.Service, req *types.Request, sc *scorer, tr *tracer, limits Limits) outcome {
	params := NewParamSet(req.Provided)
	tr.Init(len(req.Provided))

	chain := make([]string, 0, 8)
	used := make(map[string]bool, 8)
	utility := math.Inf(1)

	for step := 0; step < limits.MaxGreedySteps; step++ {
		if err := ctx.Err(); err != nil {
			tr.Failed(step)
			return outcome{explored: step, reason: ctxReason(err)}
		}

		var pick *types.Service
		pickScore := math.Inf(-1)
		candidates := 0
		for _, svc := range pool {
			if used[svc.ID] || !params.ContainsAll(svc.Inputs) {
				continue
			}
			candidates++
			score := sc.score(svc)
			if producesTarget(svc, req.Resultant) {
				score += goalBoost
			}
			// Strictly greater keeps the first-discovered winner on ties.
			if score > pickScore {
				pickScore = score
				pick = svc
			}
		}
		tr.Explore(chain, params.Len(), candidates)

		if pick == nil {
			tr.DeadEnd(chain, params.Len())
			return outcome{explored: step, reason: types.ReasonDeadEnd}
		}

		u := sc.score(pick)
		chain = append(chain, pick.ID)
		used[pick.ID] = true
		params = params.Extend(pick.Outputs)
		utility = min(utility, u)
		tr.Choose(chain, params.Len(), pick.ID, pickScore)

		if params.Has(req.Resultant) {
			tr.GoalFound(chain, params.Len())
			return outcome{chain: chain, utility: utility, params: params.Len(), explored: step + 1}
		}
	}

	tr.Failed(limits.MaxGreedySteps)
	return outcome{explored: limits.MaxGreedySteps, reason: types.ReasonStepLimit}
}
