package decomp

import (
	"testing"

	"github.com/matzehuels/planarkit/pkg/graph"
)

// buildGraph creates a graph with n nodes and the given edges (pairs of
// indices into the returned node slice).
func buildGraph(n int, edges [][2]int) (*graph.Graph, []graph.NodeID, []graph.EdgeID) {
	g := graph.New()
	nodes := make([]graph.NodeID, n)
	for i := range nodes {
		nodes[i] = g.NewNode()
	}
	es := make([]graph.EdgeID, 0, len(edges))
	for _, p := range edges {
		es = append(es, g.NewEdge(nodes[p[0]], nodes[p[1]]))
	}
	return g, nodes, es
}

func TestBiconnectedComponents_Path(t *testing.T) {
	g, nodes, _ := buildGraph(4, [][2]int{{0, 1}, {1, 2}, {2, 3}})

	b := BiconnectedComponents(g)

	if b.NumBlocks() != 3 {
		t.Fatalf("expected 3 blocks for a path, got %d", b.NumBlocks())
	}
	if !b.Cut[nodes[1].Index()] || !b.Cut[nodes[2].Index()] {
		t.Error("interior path vertices should be cut vertices")
	}
	if b.Cut[nodes[0].Index()] || b.Cut[nodes[3].Index()] {
		t.Error("path endpoints should not be cut vertices")
	}
}

func TestBiconnectedComponents_Cycle(t *testing.T) {
	g, _, es := buildGraph(4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}})

	b := BiconnectedComponents(g)

	if b.NumBlocks() != 1 {
		t.Fatalf("expected 1 block for a cycle, got %d", b.NumBlocks())
	}
	if len(b.Cut) != 0 {
		t.Errorf("cycle has no cut vertices, got %d", len(b.Cut))
	}
	if !b.SameBlock(es[0], es[2]) {
		t.Error("all cycle edges should share a block")
	}
}

func TestBiconnectedComponents_TwoTrianglesSharedVertex(t *testing.T) {
	// Two triangles meeting in node 2.
	g, nodes, es := buildGraph(5, [][2]int{
		{0, 1}, {1, 2}, {2, 0},
		{2, 3}, {3, 4}, {4, 2},
	})

	b := BiconnectedComponents(g)

	if b.NumBlocks() != 2 {
		t.Fatalf("expected 2 blocks, got %d", b.NumBlocks())
	}
	if !b.Cut[nodes[2].Index()] {
		t.Error("shared vertex should be a cut vertex")
	}
	if len(b.Cut) != 1 {
		t.Errorf("expected exactly 1 cut vertex, got %d", len(b.Cut))
	}
	if b.SameBlock(es[0], es[3]) {
		t.Error("edges of different triangles must not share a block")
	}
	if got := len(b.NodeBlocks[nodes[2].Index()]); got != 2 {
		t.Errorf("cut vertex should appear in 2 blocks, got %d", got)
	}
}

func TestBiconnectedComponents_BridgeBetweenCycles(t *testing.T) {
	g, nodes, es := buildGraph(6, [][2]int{
		{0, 1}, {1, 2}, {2, 0}, // triangle
		{2, 3},                 // bridge
		{3, 4}, {4, 5}, {5, 3}, // triangle
	})

	b := BiconnectedComponents(g)

	if b.NumBlocks() != 3 {
		t.Fatalf("expected 3 blocks, got %d", b.NumBlocks())
	}
	bridgeBlock := b.EdgeBlock[es[3].Index()]
	if len(b.BlockEdges[bridgeBlock]) != 1 {
		t.Error("bridge should form a singleton block")
	}
	if !b.Cut[nodes[2].Index()] || !b.Cut[nodes[3].Index()] {
		t.Error("bridge endpoints should be cut vertices")
	}
}

func TestBiconnectedComponents_Disconnected(t *testing.T) {
	g, _, _ := buildGraph(5, [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}})

	b := BiconnectedComponents(g)

	if b.NumBlocks() != 2 {
		t.Fatalf("expected 2 blocks across components, got %d", b.NumBlocks())
	}
}

func TestBiconnectedComponents_ParallelEdges(t *testing.T) {
	g, _, es := buildGraph(3, [][2]int{{0, 1}, {0, 1}, {1, 2}})

	b := BiconnectedComponents(g)

	if b.NumBlocks() != 2 {
		t.Fatalf("expected 2 blocks, got %d", b.NumBlocks())
	}
	if !b.SameBlock(es[0], es[1]) {
		t.Error("parallel edges should share a block")
	}
}
