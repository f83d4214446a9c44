package benchmark

import (
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/monitoring"
)

// Solution is a best-known service chain for a request, typically taken
// from a published challenge result set.
type Solution struct {
	RequestID  string   `json:"request_id"`
	ServiceIDs []string `json:"service_ids"`
	Utility    float64  `json:"utility"`
}

// Store holds best-known solutions keyed by request id.
type Store struct {
	mu        sync.RWMutex
	solutions map[string]Solution
	metrics   *monitoring.Metrics
}

// NewStore creates an empty solution store.
func NewStore() *Store {
	return &Store{solutions: make(map[string]Solution)}
}

// WithMetrics attaches a metrics recorder that tracks the case count.
func (s *Store) WithMetrics(metrics *monitoring.Metrics) *Store {
	s.metrics = metrics
	return s
}

// Put stores or overwrites a single solution.
func (s *Store) Put(sol Solution) error {
	if sol.RequestID == "" {
		return fmt.Errorf("solution missing request id")
	}
	s.mu.Lock()
	s.solutions[sol.RequestID] = sol
	count := len(s.solutions)
	s.mu.Unlock()
	s.gauge(count)
	return nil
}

// Replace swaps the entire solution set. An uploaded result file describes
// the whole benchmark, so stale cases from a previous upload must not linger.
func (s *Store) Replace(sols []Solution) error {
	next := make(map[string]Solution, len(sols))
	for _, sol := range sols {
		if sol.RequestID == "" {
			return fmt.Errorf("solution missing request id")
		}
		next[sol.RequestID] = sol
	}
	s.mu.Lock()
	s.solutions = next
	count := len(next)
	s.mu.Unlock()
	s.gauge(count)
	return nil
}

// Get returns the best-known solution for a request.
func (s *Store) Get(requestID string) (Solution, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sol, ok := s.solutions[requestID]
	return sol, ok
}

// List returns all solutions ordered by request id.
func (s *Store) List() []Solution {
	s.mu.RLock()
	out := make([]Solution, 0, len(s.solutions))
	for _, sol := range s.solutions {
		out = append(out, sol)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].RequestID < out[j].RequestID })
	return out
}

// Len reports the number of stored cases.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.solutions)
}

func (s *Store) gauge(count int) {
	if s.metrics != nil {
		s.metrics.SetSolutionCases(count)
	}
}
