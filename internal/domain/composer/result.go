package composer

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/qos"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
	"go.uber.org/zap"
)

// assemble turns a strategy outcome into the uniform composition result:
// achieved QoS over the chain, the marked visualization graph, the closing
// trace entry, plus metrics and logging.
func (e *Engine) assemble(snap *catalog.Snapshot, req *types.Request, algorithm string, pool []*types.Service, out outcome, sc *scorer, tr *tracer, started time.Time) *types.Result {
	success := out.reason == types.ReasonNone

	var (
		achieved *types.QoS
		graph    *types.Graph
		utility  float64
	)
	if success {
		utility = out.utility
		profiles := make([]types.QoS, 0, len(out.chain))
		for _, svcID := range out.chain {
			if svc, ok := snap.Get(svcID); ok {
				profiles = append(profiles, svc.QoS)
			}
		}
		achieved = qos.Aggregate(profiles)
		graph = BuildGraph(pool, req, sc)
		graph.MarkPath(out.chain)
		tr.Complete(out.chain, out.params, fmt.Sprintf("%s complete: %d service(s), utility %.2f",
			algorithmLabel(algorithm), len(out.chain), utility))
	}

	chain := out.chain
	if chain == nil {
		chain = []string{}
	}

	elapsed := time.Since(started)
	res := &types.Result{
		ID:          string(id.NewCompositionID()),
		RequestID:   req.ID,
		Algorithm:   algorithm,
		Chain:       chain,
		Utility:     utility,
		AchievedQoS: achieved,
		Success:     success,
		Reason:      out.reason,
		Trace:       tr.Entries(),
		Explored:    out.explored,
		Duration:    elapsed,
		Seconds:     elapsed.Seconds(),
		Graph:       graph,
		CreatedAt:   time.Now().UTC(),
	}

	if e.metrics != nil {
		status := "failure"
		if success {
			status = "success"
		}
		e.metrics.RecordComposition(algorithm, status, elapsed, out.explored, utility)
	}

	log := e.logger.WithRequest(req.ID, algorithm)
	if success {
		log.Info("composition complete",
			zap.Int("chain_length", len(chain)),
			zap.Float64("utility", utility),
			zap.Int("explored", out.explored),
			zap.Duration("duration", elapsed),
		)
	} else {
		log.Warn("composition failed",
			zap.String("reason", string(out.reason)),
			zap.Int("explored", out.explored),
			zap.Duration("duration", elapsed),
		)
	}
	return res
}

func algorithmLabel(algorithm string) string {
	switch algorithm {
	case AlgorithmAStar:
		return "A*"
	case AlgorithmGreedy:
		return "Greedy"
	default:
		return "Dijkstra"
	}
}
