package history

import (
	"sort"
	"sync"
	"time"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// Store is the composition result archive. Writes are append-only; the
// sync.Map carries the results and a separate lock guards the timestamp.
type Store struct {
	results sync.Map
	mu      sync.RWMutex
	lastAt  *time.Time
}

// NewStore creates an empty history.
func NewStore() *Store {
	return &Store{}
}

// Add records one result. Nil results are ignored.
func (s *Store) Add(res *types.Result) {
	if res == nil {
		return
	}
	s.results.Store(res.ID, res)

	at := res.CreatedAt
	s.mu.Lock()
	if s.lastAt == nil || at.After(*s.lastAt) {
		s.lastAt = &at
	}
	s.mu.Unlock()
}

// Get returns one result by composition id.
func (s *Store) Get(id string) (*types.Result, bool) {
	v, ok := s.results.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*types.Result), true
}

// List returns lightweight metadata for every stored result, newest first.
func (s *Store) List() []types.ResultMetadata {
	var out []types.ResultMetadata
	s.results.Range(func(_, v any) bool {
		out = append(out, v.(*types.Result).ToMetadata())
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// ByRequest returns every result for one request, newest first.
func (s *Store) ByRequest(requestID string) []*types.Result {
	var out []*types.Result
	s.results.Range(func(_, v any) bool {
		res := v.(*types.Result)
		if res.RequestID == requestID {
			out = append(out, res)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Latest returns the most recent result for a request and algorithm.
// Composition ids are time-ordered, so they break created-at ties.
func (s *Store) Latest(requestID, algorithm string) (*types.Result, bool) {
	var best *types.Result
	s.results.Range(func(_, v any) bool {
		res := v.(*types.Result)
		if res.RequestID != requestID || res.Algorithm != algorithm {
			return true
		}
		switch {
		case best == nil:
			best = res
		case res.CreatedAt.After(best.CreatedAt):
			best = res
		case res.CreatedAt.Equal(best.CreatedAt) && res.ID > best.ID:
			best = res
		}
		return true
	})
	return best, best != nil
}

// Len returns the number of stored results.
func (s *Store) Len() int {
	n := 0
	s.results.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Stats summarizes the archive.
type Stats struct {
	Total       int            `json:"total"`
	Succeeded   int            `json:"succeeded"`
	Failed      int            `json:"failed"`
	ByAlgorithm map[string]int `json:"by_algorithm"`
	LastAt      *time.Time     `json:"last_at,omitempty"`
}

// Stats counts stored results overall and per algorithm.
func (s *Store) Stats() Stats {
	st := Stats{ByAlgorithm: make(map[string]int)}
	s.results.Range(func(_, v any) bool {
		res := v.(*types.Result)
		st.Total++
		if res.Success {
			st.Succeeded++
		} else {
			st.Failed++
		}
		st.ByAlgorithm[res.Algorithm]++
		return true
	})

	s.mu.RLock()
	st.LastAt = s.lastAt
	s.mu.RUnlock()
	return st
}
