package composer

import (
	"fmt"
	"testing"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

func poolIDs(pool []*types.Service) []string {
	out := make([]string, len(pool))
	for i, svc := range pool {
		out[i] = svc.ID
	}
	return out
}

func snapshotOf(t *testing.T, svcs ...types.Service) *catalog.Snapshot {
	t.Helper()
	store := catalog.NewStore()
	for _, svc := range svcs {
		if err := store.Add(svc); err != nil {
			t.Fatalf("add %s: %v", svc.ID, err)
		}
	}
	return store.Snapshot()
}

func TestBuildFilterIntersection(t *testing.T) {
	snap := snapshotOf(t,
		testSvc("s1", []string{"p1"}, []string{"p2"}, 90, 90),
		testSvc("s2", []string{"p2"}, []string{"p3"}, 90, 90),
		testSvc("s3", []string{"p3"}, []string{"p4"}, 90, 90),
		testSvc("noise", []string{"p1"}, []string{"z"}, 90, 90),
	)
	req := &types.Request{ID: "r", Provided: []string{"p1"}, Resultant: "p4"}

	pool := BuildFilter(snap, req)
	got := poolIDs(pool)
	want := []string{"s1", "s2", "s3"}
	if !equalChains(got, want) {
		t.Errorf("pool = %v, want %v (noise is not backward-relevant)", got, want)
	}
}

func TestBuildFilterUnionFallback(t *testing.T) {
	snap := snapshotOf(t,
		testSvc("fwd-only", []string{"p1"}, []string{"z"}, 90, 90),
		testSvc("s1", []string{"p1"}, []string{"p2"}, 90, 90),
		testSvc("s2", []string{"p2"}, []string{"p3"}, 90, 90),
	)
	req := &types.Request{ID: "r", Provided: []string{"p1"}, Resultant: "p3"}

	// Intersection is only {s1, s2}; the union keeps the forward-only
	// service in play.
	pool := BuildFilter(snap, req)
	got := poolIDs(pool)
	want := []string{"fwd-only", "s1", "s2"}
	if !equalChains(got, want) {
		t.Errorf("pool = %v, want union fallback %v", got, want)
	}
}

func TestBuildFilterUnreachable(t *testing.T) {
	snap := snapshotOf(t,
		testSvc("s1", []string{"p1"}, []string{"p2"}, 90, 90),
		testSvc("orphan", []string{"missing"}, []string{"p3"}, 90, 90),
	)
	req := &types.Request{ID: "r", Provided: []string{"p1"}, Resultant: "p3"}

	if pool := BuildFilter(snap, req); pool != nil {
		t.Errorf("pool = %v, want nil for an unreachable target", poolIDs(pool))
	}
}

func TestBuildFilterTargetProvided(t *testing.T) {
	snap := snapshotOf(t,
		testSvc("s1", []string{"p1"}, []string{"p2"}, 90, 90),
	)
	req := &types.Request{ID: "r", Provided: []string{"p1", "p3"}, Resultant: "p3"}

	// A provided target is reachable by definition; the filter must not
	// short-circuit to nil.
	pool := BuildFilter(snap, req)
	if pool == nil {
		t.Error("filter reported a provided target as unreachable")
	}
}

func TestBuildGraphShape(t *testing.T) {
	svcs := []types.Service{
		testSvc("s1", []string{"p1"}, []string{"p2"}, 95, 90),
		testSvc("s2", []string{"p2"}, []string{"p3"}, 90, 90),
		testSvc("s3", []string{"p1"}, []string{"p3"}, 99, 90),
	}
	pool := make([]*types.Service, len(svcs))
	for i := range svcs {
		pool[i] = &svcs[i]
	}
	req := &types.Request{ID: "r", Provided: []string{"p1"}, Resultant: "p3"}

	g := BuildGraph(pool, req, newScorer(nil))
	if len(g.Nodes) != 5 {
		t.Fatalf("nodes = %d, want START + 3 + END", len(g.Nodes))
	}
	if g.Nodes[0].ID != types.NodeStartID || g.Nodes[0].Kind != types.NodeStart {
		t.Errorf("first node = %+v, want START", g.Nodes[0])
	}
	if g.Nodes[len(g.Nodes)-1].ID != types.NodeEndID || g.Nodes[len(g.Nodes)-1].Kind != types.NodeEnd {
		t.Errorf("last node = %+v, want END", g.Nodes[len(g.Nodes)-1])
	}
	// Service nodes ordered by descending reliability.
	order := []string{"s3", "s1", "s2"}
	for i, id := range order {
		if g.Nodes[i+1].ID != id {
			t.Errorf("node[%d] = %s, want %s", i+1, g.Nodes[i+1].ID, id)
		}
	}
	for _, n := range g.Nodes[1:4] {
		if n.Utility <= 0 {
			t.Errorf("node %s missing utility", n.ID)
		}
	}

	kinds := map[string]types.EdgeKind{}
	for _, edge := range g.Edges {
		kinds[edge.From+">"+edge.To] = edge.Kind
	}
	if kinds[types.NodeStartID+">s1"] != types.EdgeInput {
		t.Error("missing START->s1 input edge")
	}
	if kinds[types.NodeStartID+">s3"] != types.EdgeInput {
		t.Error("missing START->s3 input edge")
	}
	if _, ok := kinds[types.NodeStartID+">s2"]; ok {
		t.Error("START->s2 edge for unsatisfied inputs")
	}
	if kinds["s1>s2"] != types.EdgeChain {
		t.Error("missing s1->s2 chain edge")
	}
	if kinds["s2>"+types.NodeEndID] != types.EdgeOutput {
		t.Error("missing s2->END output edge")
	}
	if kinds["s3>"+types.NodeEndID] != types.EdgeOutput {
		t.Error("missing s3->END output edge")
	}
}

func TestBuildGraphCap(t *testing.T) {
	pool := make([]*types.Service, 0, 45)
	for i := 0; i < 45; i++ {
		svc := testSvc(fmt.Sprintf("svc-%02d", i), []string{"p1"}, []string{"p3"}, float64(i), 90)
		pool = append(pool, &svc)
	}
	req := &types.Request{ID: "r", Provided: []string{"p1"}, Resultant: "p3"}

	g := BuildGraph(pool, req, newScorer(nil))
	if len(g.Nodes) != vizLimit+2 {
		t.Fatalf("nodes = %d, want %d", len(g.Nodes), vizLimit+2)
	}
	if g.Nodes[1].ID != "svc-44" {
		t.Errorf("top node = %s, want the most reliable service", g.Nodes[1].ID)
	}
	for _, n := range g.Nodes {
		if n.ID == "svc-00" || n.ID == "svc-04" {
			t.Errorf("low-reliability service %s survived the cap", n.ID)
		}
	}
}

func TestMarkPath(t *testing.T) {
	svcs := []types.Service{
		testSvc("s1", []string{"p1"}, []string{"p2"}, 95, 90),
		testSvc("s2", []string{"p2"}, []string{"p3"}, 90, 90),
		testSvc("s3", []string{"p1"}, []string{"p3"}, 99, 90),
	}
	pool := make([]*types.Service, len(svcs))
	for i := range svcs {
		pool[i] = &svcs[i]
	}
	req := &types.Request{ID: "r", Provided: []string{"p1"}, Resultant: "p3"}

	g := BuildGraph(pool, req, newScorer(nil))
	g.MarkPath([]string{"s1", "s2"})

	inPath := map[string]bool{}
	for _, n := range g.Nodes {
		inPath[n.ID] = n.InPath
	}
	if !inPath[types.NodeStartID] || !inPath[types.NodeEndID] {
		t.Error("endpoints must always be in path")
	}
	if !inPath["s1"] || !inPath["s2"] {
		t.Error("chain members not marked")
	}
	if inPath["s3"] {
		t.Error("bystander service marked in path")
	}

	for _, edge := range g.Edges {
		want := inPath[edge.From] && inPath[edge.To]
		if edge.InPath != want {
			t.Errorf("edge %s->%s in_path = %v, want %v", edge.From, edge.To, edge.InPath, want)
		}
	}
}
