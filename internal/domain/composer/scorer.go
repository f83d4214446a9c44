package composer

import (
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/qos"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// scorer memoizes per-service utility for one request. Utility depends only
// on the service profile and the request constraints, so one run never
// scores the same service twice.
type scorer struct {
	constraints []types.Constraint
	cache       map[string]float64
}

func newScorer(constraints []types.Constraint) *scorer {
	return &scorer{
		constraints: constraints,
		cache:       make(map[string]float64),
	}
}

func (sc *scorer) score(svc *types.Service) float64 {
	if u, ok := sc.cache[svc.ID]; ok {
		return u
	}
	u := qos.Utility(svc.QoS, sc.constraints)
	sc.cache[svc.ID] = u
	return u
}
