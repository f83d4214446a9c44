package composer

import (
	"container/heap"
	"sort"
	"strings"
)

// ParamSet is an immutable set of available parameter names with a cached
// canonical key for dedup lookups. Extend never mutates the receiver.
type ParamSet struct {
	members map[string]bool
	key     string
}

// NewParamSet builds a set from parameter names.
func NewParamSet(names []string) *ParamSet {
	p := &ParamSet{members: make(map[string]bool, len(names))}
	for _, n := range names {
		p.members[n] = true
	}
	p.key = freeze(p.members)
	return p
}

// Has reports membership of a single parameter.
func (p *ParamSet) Has(name string) bool {
	return p.members[name]
}

// ContainsAll reports whether every name is a member.
func (p *ParamSet) ContainsAll(names []string) bool {
	for _, n := range names {
		if !p.members[n] {
			return false
		}
	}
	return true
}

// Len returns the set cardinality.
func (p *ParamSet) Len() int {
	return len(p.members)
}

// Key returns the frozen canonical form of the membership.
func (p *ParamSet) Key() string {
	return p.key
}

// Names returns the members in sorted order.
func (p *ParamSet) Names() []string {
	out := make([]string, 0, len(p.members))
	for n := range p.members {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Extend returns the set grown by the given names. When nothing new is
// added the receiver itself is returned, so identical memberships share
// one key.
func (p *ParamSet) Extend(names []string) *ParamSet {
	grew := false
	for _, n := range names {
		if !p.members[n] {
			grew = true
			break
		}
	}
	if !grew {
		return p
	}

	next := &ParamSet{members: make(map[string]bool, len(p.members)+len(names))}
	for n := range p.members {
		next.members[n] = true
	}
	for _, n := range names {
		next.members[n] = true
	}
	next.key = freeze(next.members)
	return next
}

func freeze(members map[string]bool) string {
	names := make([]string, 0, len(members))
	for n := range members {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// State is one node of the composition search space: the bottleneck utility
// of the chain so far, the ordered chain itself, and the parameters it makes
// available. States are immutable once pushed.
type State struct {
	Utility float64
	Chain   []string
	Params  *ParamSet
}

// extend derives the successor state for one service transition.
func (s *State) extend(serviceID string, utility float64, outputs []string) *State {
	chain := make([]string, len(s.Chain)+1)
	copy(chain, s.Chain)
	chain[len(s.Chain)] = serviceID

	return &State{
		Utility: min(s.Utility, utility),
		Chain:   chain,
		Params:  s.Params.Extend(outputs),
	}
}

// onChain reports whether a service already participates in the chain.
func (s *State) onChain(serviceID string) bool {
	for _, id := range s.Chain {
		if id == serviceID {
			return true
		}
	}
	return false
}

// queueItem pairs a state with its ordering priority. The sequence number
// makes ties pop in insertion order, keeping runs bit-identical.
type queueItem struct {
	priority float64
	seq      uint64
	state    *State
}

type stateHeap []queueItem

func (h stateHeap) Len() int { return len(h) }

func (h stateHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h stateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *stateHeap) Push(x any) { *h = append(*h, x.(queueItem)) }

func (h *stateHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// queue is a max-priority queue over search states.
type queue struct {
	heap stateHeap
	seq  uint64
}

func newQueue() *queue {
	q := &queue{heap: make(stateHeap, 0, 64)}
	heap.Init(&q.heap)
	return q
}

func (q *queue) push(priority float64, st *State) {
	q.seq++
	heap.Push(&q.heap, queueItem{priority: priority, seq: q.seq, state: st})
}

func (q *queue) pop() *State {
	return heap.Pop(&q.heap).(queueItem).state
}

func (q *queue) len() int {
	return q.heap.Len()
}
