package composer

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// outcome is the raw product of one strategy run before assembly. A nil
// reason (ReasonNone) means the chain was found.
type outcome struct {
	chain    []string
	utility  float64
	params   int
	explored int
	reason   types.Reason
}

// applicable returns the pool services whose inputs the current parameters
// satisfy and which the chain has not used yet, in pool order.
func applicable(pool []*types.Service, st *State) []*types.Service {
	out := make([]*types.Service, 0, len(pool))
	for _, svc := range pool {
		if st.onChain(svc.ID) {
			continue
		}
		if !st.Params.ContainsAll(svc.Inputs) {
			continue
		}
		out = append(out, svc)
	}
	return out
}

func producesTarget(svc *types.Service, target string) bool {
	for _, out := range svc.Outputs {
		if out == target {
			return true
		}
	}
	return false
}

// ctxReason maps a context error to the matching failure reason so callers
// can tell an expired deadline from an explicit abort.
func ctxReason(err error) types.Reason {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.ReasonTimeout
	}
	return types.ReasonCancelled
}
