package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// RequestStore manages uploaded composition requests
type RequestStore struct {
	mu       sync.RWMutex
	requests map[string]*types.Request // Protected by mu
	metrics  *monitoring.Metrics
}

// NewRequestStore creates a new request registry
func NewRequestStore() *RequestStore {
	return &RequestStore{
		requests: make(map[string]*types.Request),
	}
}

// WithMetrics adds metrics tracking to the store
func (r *RequestStore) WithMetrics(metrics *monitoring.Metrics) *RequestStore {
	r.metrics = metrics
	return r
}

// Add validates and stores a request, replacing any previous version
func (r *RequestStore) Add(req types.Request) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request %q: %w", req.ID, err)
	}

	clone := req.Clone()

	r.mu.Lock()
	r.requests[clone.ID] = &clone
	count := len(r.requests)
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.SetCatalogRequests(count)
	}
	return nil
}

// Get retrieves a request by ID
func (r *RequestStore) Get(id string) (*types.Request, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, false
	}
	clone := req.Clone()
	return &clone, true
}

// List returns all requests ordered by ID
func (r *RequestStore) List() []*types.Request {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.Request, 0, len(r.requests))
	for _, req := range r.requests {
		clone := req.Clone()
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of stored requests
func (r *RequestStore) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.requests)
}
