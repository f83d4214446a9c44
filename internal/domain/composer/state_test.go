package composer

import (
	"math"
	"testing"
)

func TestParamSetKey(t *testing.T) {
	a := NewParamSet([]string{"zip", "city", "street"})
	b := NewParamSet([]string{"street", "zip", "city"})

	if a.Key() != b.Key() {
		t.Errorf("key depends on insertion order: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() != "city|street|zip" {
		t.Errorf("key = %q, want sorted membership", a.Key())
	}
}

func TestParamSetMembership(t *testing.T) {
	p := NewParamSet([]string{"a", "b"})

	if !p.Has("a") || !p.Has("b") {
		t.Error("missing declared members")
	}
	if p.Has("c") {
		t.Error("phantom member c")
	}
	if !p.ContainsAll([]string{"a", "b"}) {
		t.Error("ContainsAll rejects full membership")
	}
	if p.ContainsAll([]string{"a", "c"}) {
		t.Error("ContainsAll accepts missing member")
	}
	if !p.ContainsAll(nil) {
		t.Error("empty requirement must always hold")
	}
}

func TestParamSetExtendImmutable(t *testing.T) {
	base := NewParamSet([]string{"a"})
	grown := base.Extend([]string{"b", "c"})

	if base.Len() != 1 {
		t.Errorf("base mutated: len = %d", base.Len())
	}
	if grown.Len() != 3 {
		t.Errorf("grown len = %d, want 3", grown.Len())
	}
	if base.Has("b") {
		t.Error("extension leaked into base")
	}
}

func TestParamSetExtendNoGrowth(t *testing.T) {
	base := NewParamSet([]string{"a", "b"})
	same := base.Extend([]string{"a"})

	if same != base {
		t.Error("extending with known members must return the receiver")
	}
}

func TestParamSetNamesSorted(t *testing.T) {
	p := NewParamSet([]string{"delta", "alpha", "charlie"})
	names := p.Names()

	want := []string{"alpha", "charlie", "delta"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("names[%d] = %q, want %q", i, names[i], n)
		}
	}
}

func TestStateExtend(t *testing.T) {
	start := &State{
		Utility: math.Inf(1),
		Params:  NewParamSet([]string{"p1"}),
	}

	next := start.extend("svc1", 72.5, []string{"p2"})
	if next.Utility != 72.5 {
		t.Errorf("utility = %v, want 72.5 (min of inf and 72.5)", next.Utility)
	}
	if len(next.Chain) != 1 || next.Chain[0] != "svc1" {
		t.Errorf("chain = %v", next.Chain)
	}
	if !next.Params.Has("p2") || !next.Params.Has("p1") {
		t.Error("params must accumulate outputs")
	}

	further := next.extend("svc2", 80, []string{"p3"})
	if further.Utility != 72.5 {
		t.Errorf("bottleneck utility rose: %v", further.Utility)
	}
	if len(next.Chain) != 1 {
		t.Error("extend mutated parent chain")
	}
	if !further.onChain("svc1") || !further.onChain("svc2") {
		t.Error("onChain misses chain members")
	}
	if further.onChain("svc3") {
		t.Error("onChain reports unused service")
	}
}

func TestQueueOrdering(t *testing.T) {
	q := newQueue()
	q.push(10, &State{Chain: []string{"low"}})
	q.push(30, &State{Chain: []string{"high"}})
	q.push(20, &State{Chain: []string{"mid"}})

	got := []string{q.pop().Chain[0], q.pop().Chain[0], q.pop().Chain[0]}
	want := []string{"high", "mid", "low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order = %v, want %v", got, want)
		}
	}
}

func TestQueueTiesFIFO(t *testing.T) {
	q := newQueue()
	q.push(50, &State{Chain: []string{"first"}})
	q.push(50, &State{Chain: []string{"second"}})
	q.push(50, &State{Chain: []string{"third"}})

	got := []string{q.pop().Chain[0], q.pop().Chain[0], q.pop().Chain[0]}
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie order = %v, want insertion order %v", got, want)
		}
	}
}
