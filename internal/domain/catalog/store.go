package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/utils"
)

// Store manages the service catalog
type Store struct {
	mu       sync.RWMutex
	services map[string]*types.Service // Protected by mu
	metrics  *monitoring.Metrics
	fp       *utils.CatalogFingerprint
}

// NewStore creates a new service catalog
func NewStore() *Store {
	return &Store{
		services: make(map[string]*types.Service),
		fp:       utils.NewCatalogFingerprint(utils.DefaultHasher()),
	}
}

// WithMetrics adds metrics tracking to the store
func (s *Store) WithMetrics(metrics *monitoring.Metrics) *Store {
	s.metrics = metrics
	return s
}

// Add validates and stores a service, replacing any previous version
func (s *Store) Add(svc types.Service) error {
	if err := svc.Validate(); err != nil {
		return fmt.Errorf("invalid service %q: %w", svc.ID, err)
	}

	clone := svc.Clone()

	s.mu.Lock()
	s.services[clone.ID] = &clone
	count := len(s.services)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetCatalogServices(count)
	}
	return nil
}

// Get retrieves a service by ID
func (s *Store) Get(id string) (*types.Service, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, false
	}
	// Return a copy to prevent external modifications
	clone := svc.Clone()
	return &clone, true
}

// List returns all services ordered by ID
func (s *Store) List() []*types.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Service, 0, len(s.services))
	for _, svc := range s.services {
		clone := svc.Clone()
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Remove deletes a service from the catalog
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	_, ok := s.services[id]
	if ok {
		delete(s.services, id)
	}
	count := len(s.services)
	s.mu.Unlock()

	if ok && s.metrics != nil {
		s.metrics.SetCatalogServices(count)
	}
	return ok
}

// Len returns the number of services in the catalog
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.services)
}

// SetAnnotations attaches annotation results to a stored service
func (s *Store) SetAnnotations(id string, ann *types.Annotations) error {
	if ann != nil {
		if err := ann.Validate(); err != nil {
			return fmt.Errorf("invalid annotations for %q: %w", id, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.services[id]
	if !ok {
		return fmt.Errorf("service not found: %s", id)
	}
	if ann == nil {
		svc.Annotations = nil
		return nil
	}
	svc.Annotations = ann.Clone()
	return nil
}

// Fingerprint returns a stable digest of the current catalog contents
func (s *Store) Fingerprint() string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.services))
	for id := range s.services {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	return s.fp.Generate(ids)
}

// Stats describes the catalog contents
type Stats struct {
	TotalServices int    `json:"total_services"`
	Annotated     int    `json:"annotated"`
	Parameters    int    `json:"parameters"`
	Fingerprint   string `json:"fingerprint"`
}

// Stats returns catalog statistics
func (s *Store) Stats() Stats {
	s.mu.RLock()

	params := make(map[string]struct{})
	var annotated int
	ids := make([]string, 0, len(s.services))
	for id, svc := range s.services {
		ids = append(ids, id)
		if svc.Annotations != nil {
			annotated++
		}
		for _, p := range svc.Inputs {
			params[p] = struct{}{}
		}
		for _, p := range svc.Outputs {
			params[p] = struct{}{}
		}
	}
	total := len(s.services)
	s.mu.RUnlock()

	return Stats{
		TotalServices: total,
		Annotated:     annotated,
		Parameters:    len(params),
		Fingerprint:   s.fp.Generate(ids),
	}
}
