package catalog

import (
	"sort"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// Snapshot is an immutable, lexicographically ordered view of the catalog
// taken at a point in time. Searches operate on snapshots so concurrent
// uploads never perturb a running composition. Callers must not mutate the
// returned services.
type Snapshot struct {
	services    []*types.Service
	byID        map[string]*types.Service
	fingerprint string
}

// Snapshot captures the current catalog state
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()

	snap := &Snapshot{
		services: make([]*types.Service, 0, len(s.services)),
		byID:     make(map[string]*types.Service, len(s.services)),
	}
	ids := make([]string, 0, len(s.services))
	for id, svc := range s.services {
		clone := svc.Clone()
		snap.services = append(snap.services, &clone)
		snap.byID[id] = &clone
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Slice(snap.services, func(i, j int) bool {
		return snap.services[i].ID < snap.services[j].ID
	})
	snap.fingerprint = s.fp.Generate(ids)
	return snap
}

// Services returns the ordered service list
func (sn *Snapshot) Services() []*types.Service {
	return sn.services
}

// Get retrieves a service by ID
func (sn *Snapshot) Get(id string) (*types.Service, bool) {
	svc, ok := sn.byID[id]
	return svc, ok
}

// Len returns the number of services in the snapshot
func (sn *Snapshot) Len() int {
	return len(sn.services)
}

// Fingerprint returns the catalog digest at snapshot time
func (sn *Snapshot) Fingerprint() string {
	return sn.fingerprint
}

// Restrict returns a sub-snapshot containing only the named services,
// preserving order. Unknown IDs are skipped.
func (sn *Snapshot) Restrict(ids map[string]bool) *Snapshot {
	out := &Snapshot{
		services:    make([]*types.Service, 0, len(ids)),
		byID:        make(map[string]*types.Service, len(ids)),
		fingerprint: sn.fingerprint,
	}
	for _, svc := range sn.services {
		if ids[svc.ID] {
			out.services = append(out.services, svc)
			out.byID[svc.ID] = svc
		}
	}
	return out
}
