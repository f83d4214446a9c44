package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

func result(id, requestID, algorithm string, utility float64, success bool, at time.Time) *types.Result {
	return &types.Result{
		ID:        id,
		RequestID: requestID,
		Algorithm: algorithm,
		Chain:     []string{"s1"},
		Utility:   utility,
		Success:   success,
		CreatedAt: at,
	}
}

func TestAddAndGet(t *testing.T) {
	s := NewStore()
	now := time.Now().UTC()
	s.Add(result("c1", "r1", "dijkstra", 80, true, now))

	got, ok := s.Get("c1")
	if !ok {
		t.Fatal("result missing")
	}
	if got.Utility != 80 {
		t.Errorf("utility = %v", got.Utility)
	}
	if _, ok := s.Get("c2"); ok {
		t.Error("phantom result")
	}
	if s.Len() != 1 {
		t.Errorf("len = %d", s.Len())
	}
}

func TestAddNilIgnored(t *testing.T) {
	s := NewStore()
	s.Add(nil)
	if s.Len() != 0 {
		t.Error("nil result stored")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := NewStore()
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		s.Add(result(fmt.Sprintf("c%d", i), "r1", "dijkstra", 80, true, base.Add(time.Duration(i)*time.Second)))
	}

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("list = %d entries", len(list))
	}
	if list[0].ID != "c2" || list[2].ID != "c0" {
		t.Errorf("order = [%s %s %s], want newest first", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestByRequest(t *testing.T) {
	s := NewStore()
	now := time.Now().UTC()
	s.Add(result("c1", "r1", "dijkstra", 80, true, now))
	s.Add(result("c2", "r2", "dijkstra", 70, true, now))
	s.Add(result("c3", "r1", "greedy", 60, false, now.Add(time.Second)))

	got := s.ByRequest("r1")
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	if got[0].ID != "c3" {
		t.Errorf("first = %s, want newest", got[0].ID)
	}
}

func TestLatest(t *testing.T) {
	s := NewStore()
	base := time.Now().UTC()
	s.Add(result("c1", "r1", "dijkstra", 70, true, base))
	s.Add(result("c2", "r1", "dijkstra", 85, true, base.Add(time.Minute)))
	s.Add(result("c3", "r1", "greedy", 60, true, base.Add(2*time.Minute)))

	got, ok := s.Latest("r1", "dijkstra")
	if !ok {
		t.Fatal("no latest result")
	}
	if got.ID != "c2" {
		t.Errorf("latest = %s, want c2", got.ID)
	}
	if _, ok := s.Latest("r1", "astar"); ok {
		t.Error("latest for never-run algorithm")
	}
}

func TestLatestTieBreaksOnID(t *testing.T) {
	s := NewStore()
	at := time.Now().UTC()
	s.Add(result("c1", "r1", "dijkstra", 70, true, at))
	s.Add(result("c2", "r1", "dijkstra", 75, true, at))

	got, _ := s.Latest("r1", "dijkstra")
	if got.ID != "c2" {
		t.Errorf("latest = %s, want the larger id on equal timestamps", got.ID)
	}
}

func TestStats(t *testing.T) {
	s := NewStore()
	base := time.Now().UTC()
	s.Add(result("c1", "r1", "dijkstra", 80, true, base))
	s.Add(result("c2", "r1", "astar", 80, true, base.Add(time.Second)))
	s.Add(result("c3", "r2", "greedy", 0, false, base.Add(2*time.Second)))

	st := s.Stats()
	if st.Total != 3 || st.Succeeded != 2 || st.Failed != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.ByAlgorithm["dijkstra"] != 1 || st.ByAlgorithm["greedy"] != 1 {
		t.Errorf("by algorithm = %v", st.ByAlgorithm)
	}
	if st.LastAt == nil || !st.LastAt.Equal(base.Add(2*time.Second)) {
		t.Errorf("last at = %v", st.LastAt)
	}
}
