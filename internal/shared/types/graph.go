package types

// NodeKind distinguishes the synthetic START/END anchors from service nodes.
type NodeKind string

const (
	NodeStart   NodeKind = "start"
	NodeService NodeKind = "service"
	NodeEnd     NodeKind = "end"
)

// Node IDs for the synthetic endpoints of the visualization subgraph.
const (
	NodeStartID = "START"
	NodeEndID   = "END"
)

// Node is one vertex of the visualization subgraph.
type Node struct {
	ID          string   `json:"id"`
	Kind        NodeKind `json:"kind"`
	Reliability float64  `json:"reliability,omitempty"`
	Utility     float64  `json:"utility,omitempty"`
	InPath      bool     `json:"in_path,omitempty"`
}

// EdgeKind classifies a visualization edge.
type EdgeKind string

const (
	// EdgeInput connects START to a service whose inputs the provided set satisfies.
	EdgeInput EdgeKind = "input"
	// EdgeChain connects two services with overlapping outputs and inputs.
	EdgeChain EdgeKind = "chain"
	// EdgeOutput connects a service producing the target to END.
	EdgeOutput EdgeKind = "output"
)

// Edge is one directed connection of the visualization subgraph.
type Edge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Kind   EdgeKind `json:"kind"`
	InPath bool     `json:"in_path,omitempty"`
}

// Graph is the cosmetic visualization subgraph built alongside a search.
// It never influences search outcomes.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// MarkPath flags the nodes and edges that belong to a winning chain.
func (g *Graph) MarkPath(chain []string) {
	inPath := make(map[string]bool, len(chain)+2)
	inPath[NodeStartID] = true
	inPath[NodeEndID] = true
	for _, id := range chain {
		inPath[id] = true
	}
	for i := range g.Nodes {
		if g.Nodes[i].Kind == NodeService {
			g.Nodes[i].InPath = inPath[g.Nodes[i].ID]
		}
	}
	for i := range g.Edges {
		g.Edges[i].InPath = inPath[g.Edges[i].From] && inPath[g.Edges[i].To]
	}
}
