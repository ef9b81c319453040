package decomp

import (
	"testing"

	"github.com/matzehuels/planarkit/pkg/graph"
)

func typeCounts(t *SPQRTree) map[SPQRType]int {
	counts := make(map[SPQRType]int)
	for _, sn := range t.Nodes {
		counts[sn.Type]++
	}
	return counts
}

func wholeBlock(g *graph.Graph) []graph.EdgeID { return g.Edges() }

func TestNewSPQRTree_Cycle(t *testing.T) {
	g, _, _ := buildGraph(4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}})

	tree, ok := NewSPQRTree(g, wholeBlock(g))
	if !ok {
		t.Fatal("cycle decomposition should succeed")
	}
	if len(tree.Nodes) != 1 || tree.Nodes[0].Type != SNode {
		t.Fatalf("cycle should yield a single S node, got %v", typeCounts(tree))
	}
}

func TestNewSPQRTree_Bond(t *testing.T) {
	g, _, _ := buildGraph(2, [][2]int{{0, 1}, {0, 1}, {0, 1}})

	tree, ok := NewSPQRTree(g, wholeBlock(g))
	if !ok {
		t.Fatal("bond decomposition should succeed")
	}
	if len(tree.Nodes) != 1 || tree.Nodes[0].Type != PNode {
		t.Fatalf("bond should yield a single P node, got %v", typeCounts(tree))
	}
}

func TestNewSPQRTree_K4(t *testing.T) {
	g, nodes, _ := buildGraph(4, completeGraphEdges(4))

	tree, ok := NewSPQRTree(g, wholeBlock(g))
	if !ok {
		t.Fatal("K4 decomposition should succeed")
	}
	if len(tree.Nodes) != 1 || tree.Nodes[0].Type != RNode {
		t.Fatalf("K4 should yield a single R node, got %v", typeCounts(tree))
	}
	sn := tree.Nodes[0]
	for _, n := range nodes {
		if got := len(sn.EdgesAt(n)); got != 3 {
			t.Errorf("R rotation at %v has %d edges, want 3", n, got)
		}
	}
}

func TestNewSPQRTree_TwoTrianglesSharedEdge(t *testing.T) {
	// Triangles 0-1-2 and 0-1-3 share edge {0,1}: the tree is a bond over
	// {0,1} with the two triangle paths and the shared edge as classes.
	g, nodes, _ := buildGraph(4, [][2]int{
		{0, 1},
		{0, 2}, {2, 1},
		{0, 3}, {3, 1},
	})

	tree, ok := NewSPQRTree(g, wholeBlock(g))
	if !ok {
		t.Fatal("decomposition should succeed")
	}
	counts := typeCounts(tree)
	if counts[PNode] != 1 || counts[SNode] != 2 || counts[RNode] != 0 {
		t.Fatalf("expected 1 P + 2 S nodes, got %v", counts)
	}

	// The shared vertices appear in all three skeletons, the others in one.
	if got := len(tree.NodesAt(nodes[0])); got != 3 {
		t.Errorf("pole should appear in 3 tree nodes, got %d", got)
	}
	if got := len(tree.NodesAt(nodes[2])); got != 1 {
		t.Errorf("triangle tip should appear in 1 tree node, got %d", got)
	}
}

func TestNewSPQRTree_VirtualTwins(t *testing.T) {
	g, _, _ := buildGraph(4, [][2]int{
		{0, 1},
		{0, 2}, {2, 1},
		{0, 3}, {3, 1},
	})

	tree, ok := NewSPQRTree(g, wholeBlock(g))
	if !ok {
		t.Fatal("decomposition should succeed")
	}
	virtuals := 0
	for _, sn := range tree.Nodes {
		for _, se := range sn.Edges {
			if !se.Virtual() {
				continue
			}
			virtuals++
			if se.Twin == nil || se.Twin.Twin != se {
				t.Fatal("virtual edges must be mutually twinned")
			}
			if se.Twin.Owner == sn {
				t.Error("twin must live in a different tree node")
			}
			if se.U != se.Twin.U && se.U != se.Twin.V {
				t.Error("twinned virtual edges must span the same pole pair")
			}
		}
	}
	// One tree edge between the bond and each S child, two halves each.
	if virtuals != 4 {
		t.Errorf("expected 4 virtual edge halves, got %d", virtuals)
	}
}

func TestNewSPQRTree_NonPlanarSkeleton(t *testing.T) {
	g, _, _ := buildGraph(5, completeGraphEdges(5))

	if _, ok := NewSPQRTree(g, wholeBlock(g)); ok {
		t.Fatal("K5 has a non-planar R skeleton and must be rejected")
	}
}

func TestNewSPQRTree_PrismWithChordlessPath(t *testing.T) {
	// Prism (triangular) is triconnected; subdividing one edge inserts a
	// degree-2 vertex, so the tree gains an S node for the subdivided path.
	g, _, _ := buildGraph(7, [][2]int{
		{0, 1}, {1, 2}, {2, 0},
		{3, 4}, {4, 5}, {5, 3},
		{0, 3}, {1, 4},
		{2, 6}, {6, 5}, // subdivided third rung
	})

	tree, ok := NewSPQRTree(g, wholeBlock(g))
	if !ok {
		t.Fatal("decomposition should succeed")
	}
	counts := typeCounts(tree)
	if counts[RNode] != 1 {
		t.Errorf("expected exactly one R node, got %v", counts)
	}
	if counts[SNode] == 0 {
		t.Errorf("expected an S node for the subdivided rung, got %v", counts)
	}
}
