package decomp

import (
	"testing"
)

func completeGraphEdges(n int) [][2]int {
	var edges [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, [2]int{i, j})
		}
	}
	return edges
}

func TestIsPlanar_SmallGraphs(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		edges  [][2]int
		planar bool
	}{
		{"triangle", 3, [][2]int{{0, 1}, {1, 2}, {2, 0}}, true},
		{"tree", 5, [][2]int{{0, 1}, {0, 2}, {1, 3}, {1, 4}}, true},
		{"k4", 4, completeGraphEdges(4), true},
		{"k5", 5, completeGraphEdges(5), false},
		{"k33", 6, [][2]int{
			{0, 3}, {0, 4}, {0, 5},
			{1, 3}, {1, 4}, {1, 5},
			{2, 3}, {2, 4}, {2, 5},
		}, false},
		{"cube", 8, [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
			{4, 5}, {5, 6}, {6, 7}, {7, 4},
			{0, 4}, {1, 5}, {2, 6}, {3, 7},
		}, true},
		{"k5 minus edge", 5, completeGraphEdges(5)[1:], true},
		{"two k4 blocks", 7, append(append([][2]int{}, completeGraphEdges(4)...),
			[2]int{3, 4}, [2]int{3, 5}, [2]int{3, 6}, [2]int{4, 5}, [2]int{4, 6}, [2]int{5, 6}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, _ := buildGraph(tt.n, tt.edges)
			if got := IsPlanar(g); got != tt.planar {
				t.Errorf("IsPlanar() = %v, want %v", got, tt.planar)
			}
		})
	}
}

func TestPlanarEmbed_ProducesValidEmbedding(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
	}{
		{"k4", 4, completeGraphEdges(4)},
		{"cube", 8, [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
			{4, 5}, {5, 6}, {6, 7}, {7, 4},
			{0, 4}, {1, 5}, {2, 6}, {3, 7},
		}},
		{"wheel", 5, [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
			{4, 0}, {4, 1}, {4, 2}, {4, 3},
		}},
		{"blocks at cut vertex", 5, [][2]int{
			{0, 1}, {1, 2}, {2, 0},
			{2, 3}, {3, 4}, {4, 2},
		}},
		{"octahedron", 6, [][2]int{
			{0, 1}, {1, 2}, {2, 0},
			{3, 4}, {4, 5}, {5, 3},
			{0, 3}, {0, 4}, {1, 4}, {1, 5}, {2, 5}, {2, 3},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, _ := buildGraph(tt.n, tt.edges)
			if !PlanarEmbed(g) {
				t.Fatal("PlanarEmbed() should succeed on a planar graph")
			}
			if err := g.Validate(); err != nil {
				t.Fatalf("graph invalid after embedding: %v", err)
			}
			if !g.EulerOK() {
				t.Errorf("embedding violates Euler's formula: n=%d m=%d f=%d",
					g.NumNodes(), g.NumEdges(), g.NumFaces())
			}
			t.Logf("%s: %d faces", tt.name, g.NumFaces())
		})
	}
}

func TestPlanarEmbed_NonPlanarLeavesGraphUntouched(t *testing.T) {
	g, nodes, _ := buildGraph(5, completeGraphEdges(5))
	before := make(map[int]int)
	for _, n := range nodes {
		before[n.Index()] = g.Degree(n)
	}

	if PlanarEmbed(g) {
		t.Fatal("PlanarEmbed() should fail on K5")
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("graph invalid after failed embedding: %v", err)
	}
	for _, n := range nodes {
		if g.Degree(n) != before[n.Index()] {
			t.Error("degrees changed by a failed embedding")
		}
	}
}

func TestPlanarEmbed_ParallelEdges(t *testing.T) {
	g, _, _ := buildGraph(3, [][2]int{{0, 1}, {0, 1}, {1, 2}, {2, 0}})

	if !PlanarEmbed(g) {
		t.Fatal("multigraphs with parallel edges are planar here")
	}
	if !g.EulerOK() {
		t.Error("embedding violates Euler's formula")
	}
}

func TestPlanarEmbed_ParallelEdgeBundle(t *testing.T) {
	// Three parallel edges form one block whose spanning tree is a single
	// edge; every cycle must be closed through a non-tree parallel edge.
	g, _, _ := buildGraph(2, [][2]int{{0, 1}, {0, 1}, {0, 1}})

	if !IsPlanar(g) {
		t.Fatal("parallel edge bundle is planar")
	}
	if !PlanarEmbed(g) {
		t.Fatal("PlanarEmbed() should succeed on a parallel edge bundle")
	}
	if !g.EulerOK() {
		t.Error("embedding violates Euler's formula")
	}
	if f := g.NumFaces(); f != 3 {
		t.Errorf("triple bond embedded with %d faces, want 3", f)
	}
}

func TestPlanarEmbed_ParallelEdgesOnCycle(t *testing.T) {
	// Doubling every edge of a square gives a block where the DFS meets
	// already finished vertices through non-tree edges.
	g, _, _ := buildGraph(4, [][2]int{
		{0, 1}, {0, 1}, {1, 2}, {1, 2}, {2, 3}, {2, 3}, {3, 0}, {3, 0},
	})

	if !PlanarEmbed(g) {
		t.Fatal("doubled cycle is planar")
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("graph invalid after embedding: %v", err)
	}
	if !g.EulerOK() {
		t.Errorf("embedding violates Euler's formula: n=%d m=%d f=%d",
			g.NumNodes(), g.NumEdges(), g.NumFaces())
	}
}

func TestIsPlanar_EmptyAndTrivial(t *testing.T) {
	g, _, _ := buildGraph(0, nil)
	if !IsPlanar(g) {
		t.Error("empty graph is planar")
	}
	g2, _, _ := buildGraph(3, nil)
	if !IsPlanar(g2) {
		t.Error("edgeless graph is planar")
	}
}
