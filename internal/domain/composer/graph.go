package composer

import (
	"sort"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// minPoolSize is the filter threshold below which the forward/backward
// intersection is considered too aggressive and the union is used instead.
const minPoolSize = 3

// BuildFilter narrows a catalog snapshot to the services that can matter
// for one request: the intersection of everything reachable forward from
// the provided parameters and everything that can contribute backward to
// the resultant. An empty pool means no chain can ever reach the target.
func BuildFilter(snap *catalog.Snapshot, req *types.Request) []*types.Service {
	services := snap.Services()
	provided := make(map[string]bool, len(req.Provided))
	for _, p := range req.Provided {
		provided[p] = true
	}

	forward := forwardClosure(services, provided)
	if !reachable(services, forward, provided, req.Resultant) {
		return nil
	}

	backward := backwardClosure(services, provided, req.Resultant)

	pool := make([]*types.Service, 0, len(services))
	for _, svc := range services {
		if forward[svc.ID] && backward[svc.ID] {
			pool = append(pool, svc)
		}
	}
	if len(pool) >= minPoolSize {
		return pool
	}

	// Intersection pruned too hard; fall back to the union so sparse
	// catalogs still get a search space.
	pool = pool[:0]
	for _, svc := range services {
		if forward[svc.ID] || backward[svc.ID] {
			pool = append(pool, svc)
		}
	}
	return pool
}

// forwardClosure marks every service whose inputs become satisfiable
// starting from the provided parameters.
func forwardClosure(services []*types.Service, provided map[string]bool) map[string]bool {
	params := make(map[string]bool, len(provided))
	for p := range provided {
		params[p] = true
	}

	included := make(map[string]bool, len(services))
	for changed := true; changed; {
		changed = false
		for _, svc := range services {
			if included[svc.ID] {
				continue
			}
			if !satisfied(svc.Inputs, params) {
				continue
			}
			included[svc.ID] = true
			for _, out := range svc.Outputs {
				if !params[out] {
					params[out] = true
				}
			}
			changed = true
		}
	}
	return included
}

// reachable reports whether the target parameter is produced by the forward
// set or already provided.
func reachable(services []*types.Service, forward map[string]bool, provided map[string]bool, target string) bool {
	if provided[target] {
		return true
	}
	for _, svc := range services {
		if !forward[svc.ID] {
			continue
		}
		for _, out := range svc.Outputs {
			if out == target {
				return true
			}
		}
	}
	return false
}

// backwardClosure marks every service that can feed, directly or through
// intermediaries, a producer of the target parameter.
func backwardClosure(services []*types.Service, provided map[string]bool, target string) map[string]bool {
	needed := map[string]bool{target: true}
	included := make(map[string]bool, len(services))

	for changed := true; changed; {
		changed = false
		for _, svc := range services {
			if included[svc.ID] {
				continue
			}
			if !producesAny(svc.Outputs, needed) {
				continue
			}
			included[svc.ID] = true
			for _, in := range svc.Inputs {
				if !needed[in] && !provided[in] {
					needed[in] = true
				}
			}
			changed = true
		}
	}
	return included
}

func satisfied(inputs []string, params map[string]bool) bool {
	for _, in := range inputs {
		if !params[in] {
			return false
		}
	}
	return true
}

func producesAny(outputs []string, needed map[string]bool) bool {
	for _, out := range outputs {
		if needed[out] {
			return true
		}
	}
	return false
}

// vizLimit caps how many services the dependency graph renders. The most
// reliable services are kept so the picture stays meaningful.
const vizLimit = 40

// BuildGraph renders the service dependency structure around one request:
// a START node for the provided parameters, the top services by
// reliability, an END node for the resultant, and the input, chaining and
// output edges between them.
func BuildGraph(pool []*types.Service, req *types.Request, sc *scorer) *types.Graph {
	top := make([]*types.Service, len(pool))
	copy(top, pool)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].QoS.Reliability > top[j].QoS.Reliability
	})
	if len(top) > vizLimit {
		top = top[:vizLimit]
	}

	provided := make(map[string]bool, len(req.Provided))
	for _, p := range req.Provided {
		provided[p] = true
	}

	g := &types.Graph{
		Nodes: make([]types.Node, 0, len(top)+2),
		Edges: make([]types.Edge, 0, len(top)*2),
	}
	g.Nodes = append(g.Nodes, types.Node{ID: types.NodeStartID, Kind: types.NodeStart})
	for _, svc := range top {
		g.Nodes = append(g.Nodes, types.Node{
			ID:          svc.ID,
			Kind:        types.NodeService,
			Reliability: svc.QoS.Reliability,
			Utility:     sc.score(svc),
		})
	}
	g.Nodes = append(g.Nodes, types.Node{ID: types.NodeEndID, Kind: types.NodeEnd})

	for _, svc := range top {
		if satisfied(svc.Inputs, provided) {
			g.Edges = append(g.Edges, types.Edge{From: types.NodeStartID, To: svc.ID, Kind: types.EdgeInput})
		}
		for _, out := range svc.Outputs {
			if out == req.Resultant {
				g.Edges = append(g.Edges, types.Edge{From: svc.ID, To: types.NodeEndID, Kind: types.EdgeOutput})
				break
			}
		}
	}
	for _, from := range top {
		outs := make(map[string]bool, len(from.Outputs))
		for _, out := range from.Outputs {
			outs[out] = true
		}
		for _, to := range top {
			if from.ID == to.ID {
				continue
			}
			if producesAny(to.Inputs, outs) {
				g.Edges = append(g.Edges, types.Edge{From: from.ID, To: to.ID, Kind: types.EdgeChain})
			}
		}
	}
	return g
}
