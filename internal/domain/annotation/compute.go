package annotation

import (
	"sort"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

const (
	// collaborationFloor drops weak links from the collaborator map.
	collaborationFloor = 0.3
	// collaborationCap keeps only the strongest links.
	collaborationCap = 10
	// substituteOverlap is the output-overlap share that makes one service
	// a substitute for another.
	substituteOverlap = 0.7
	// roleFanout is the link count above which a service stops being a
	// plain worker.
	roleFanout = 3
)

// Trust blends the dependability metrics into a [0, 1] confidence score.
func Trust(q types.QoS) float64 {
	return clamp01((q.Reliability*0.3 + q.Successability*0.3 + q.Availability*0.2 + q.Compliance*0.2) / 100)
}

// Reputation blends the craftsmanship metrics into a [0, 1] standing score.
func Reputation(q types.QoS) float64 {
	return clamp01((q.BestPractices*0.4 + q.Documentation*0.3 + q.Compliance*0.3) / 100)
}

// Robustness blends the stability metrics into a [0, 1] resilience score.
func Robustness(q types.QoS) float64 {
	return clamp01((q.Reliability*0.4 + q.Availability*0.3 + q.Successability*0.3) / 100)
}

// CollaborationWeight scores how well a feeds b: output-to-input coverage
// dominates, tempered by how close the two reliability profiles are.
func CollaborationWeight(a, b *types.Service) float64 {
	matched := 0
	outs := make(map[string]bool, len(a.Outputs))
	for _, out := range a.Outputs {
		outs[out] = true
	}
	for _, in := range b.Inputs {
		if outs[in] {
			matched++
		}
	}
	denom := len(b.Inputs)
	if denom < 1 {
		denom = 1
	}
	ioMatch := float64(matched) / float64(denom)

	diff := a.QoS.Reliability - b.QoS.Reliability
	if diff < 0 {
		diff = -diff
	}
	similarity := 1 - diff/100

	return ioMatch*0.7 + similarity*0.3
}

// Annotate computes the full annotation block for one service against a
// catalog snapshot. Deterministic: the same snapshot always yields the
// same block.
func Annotate(svc *types.Service, snap *catalog.Snapshot) *types.Annotations {
	collaborators := findCollaborators(svc, snap)

	return &types.Annotations{
		TrustDegree:     Trust(svc.QoS),
		Reputation:      Reputation(svc.QoS),
		Robustness:      Robustness(svc.QoS),
		Cooperativeness: cooperativeness(collaborators),
		Collaborators:   collaborators,
		Interaction:     interactionLinks(svc, snap),
	}
}

// findCollaborators keeps the strongest links above the floor, capped to
// collaborationCap entries. Ties rank by service id so output is stable.
func findCollaborators(svc *types.Service, snap *catalog.Snapshot) map[string]float64 {
	type link struct {
		id     string
		weight float64
	}
	links := make([]link, 0, snap.Len())
	for _, other := range snap.Services() {
		if other.ID == svc.ID {
			continue
		}
		if w := CollaborationWeight(svc, other); w > collaborationFloor {
			links = append(links, link{id: other.ID, weight: w})
		}
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].weight != links[j].weight {
			return links[i].weight > links[j].weight
		}
		return links[i].id < links[j].id
	})
	if len(links) > collaborationCap {
		links = links[:collaborationCap]
	}
	if len(links) == 0 {
		return nil
	}

	out := make(map[string]float64, len(links))
	for _, l := range links {
		out[l.id] = l.weight
	}
	return out
}

// cooperativeness is the mean collaboration weight, zero for a loner.
func cooperativeness(collaborators map[string]float64) float64 {
	if len(collaborators) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range collaborators {
		sum += w
	}
	return clamp01(sum / float64(len(collaborators)))
}

// interactionLinks classifies I/O relationships with the rest of the
// catalog: services this one can feed, services it needs fed by, and
// services producing mostly the same outputs.
func interactionLinks(svc *types.Service, snap *catalog.Snapshot) *types.Interaction {
	inter := &types.Interaction{}

	outs := make(map[string]bool, len(svc.Outputs))
	for _, out := range svc.Outputs {
		outs[out] = true
	}
	ins := make(map[string]bool, len(svc.Inputs))
	for _, in := range svc.Inputs {
		ins[in] = true
	}

	for _, other := range snap.Services() {
		if other.ID == svc.ID {
			continue
		}

		for _, in := range other.Inputs {
			if outs[in] {
				inter.CanCall = append(inter.CanCall, other.ID)
				break
			}
		}
		for _, out := range other.Outputs {
			if ins[out] {
				inter.DependsOn = append(inter.DependsOn, other.ID)
				break
			}
		}

		if len(svc.Outputs) > 0 {
			common := 0
			for _, out := range other.Outputs {
				if outs[out] {
					common++
				}
			}
			if float64(common) >= substituteOverlap*float64(len(svc.Outputs)) {
				inter.Substitutes = append(inter.Substitutes, other.ID)
			}
		}
	}

	switch {
	case len(inter.CanCall) > roleFanout:
		inter.Role = "orchestrator"
	case len(inter.DependsOn) > roleFanout:
		inter.Role = "aggregator"
	default:
		inter.Role = "worker"
	}
	return inter
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
