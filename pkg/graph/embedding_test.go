package graph

import "testing"

func TestFacesSingleEdge(t *testing.T) {
	g := New()
	g.NewEdge(g.NewNode(), g.NewNode())

	faces := g.Faces()
	if len(faces) != 1 {
		t.Fatalf("len(Faces) = %d, want 1", len(faces))
	}
	if len(faces[0]) != 2 {
		t.Errorf("face length = %d, want 2", len(faces[0]))
	}
	if !g.EulerOK() {
		t.Error("EulerOK() = false for a single edge")
	}
}

func TestFacesTriangle(t *testing.T) {
	g := New()
	a := g.NewNode()
	b := g.NewNode()
	c := g.NewNode()
	g.NewEdge(a, b)
	g.NewEdge(b, c)
	g.NewEdge(c, a)

	if f := g.NumFaces(); f != 2 {
		t.Errorf("NumFaces = %d, want 2", f)
	}
	if !g.EulerOK() {
		t.Error("EulerOK() = false for a triangle")
	}
}

func TestEulerTwoComponents(t *testing.T) {
	g := New()
	g.NewEdge(g.NewNode(), g.NewNode())
	g.NewEdge(g.NewNode(), g.NewNode())

	if c := g.NumComponents(); c != 2 {
		t.Fatalf("NumComponents = %d, want 2", c)
	}
	// Each component carries its own outer orbit.
	if f := g.NumFaces(); f != 2 {
		t.Errorf("NumFaces = %d, want 2", f)
	}
	if !g.EulerOK() {
		t.Error("EulerOK() = false for two disjoint edges")
	}
}

// A theta graph (two nodes, three parallel edges) is planar exactly when the
// two rotations are mirror images. Identical rotations embed on the torus
// with a single face orbit.
func TestEulerRejectsTorusRotation(t *testing.T) {
	g := New()
	u := g.NewNode()
	v := g.NewNode()
	for i := 0; i < 3; i++ {
		g.NewEdge(u, v)
	}

	if g.EulerOK() {
		t.Fatal("EulerOK() = true with identical rotations")
	}
	if f := g.NumFaces(); f != 1 {
		t.Errorf("NumFaces = %d, want 1", f)
	}

	g.ReverseAdj(v)
	if !g.EulerOK() {
		t.Fatal("EulerOK() = false with mirrored rotations")
	}
	if f := g.NumFaces(); f != 3 {
		t.Errorf("NumFaces = %d, want 3", f)
	}
}

// Edgeless components produce no face orbit, yet each still bounds one face
// of the embedding.
func TestEulerIsolatedNodes(t *testing.T) {
	g := New()
	g.NewNode()
	if !g.EulerOK() {
		t.Error("EulerOK() = false for a single isolated node")
	}

	a := g.NewNode()
	b := g.NewNode()
	c := g.NewNode()
	g.NewEdge(a, b)
	g.NewEdge(b, c)
	g.NewEdge(c, a)
	if f := g.NumFaces(); f != 2 {
		t.Fatalf("NumFaces = %d, want 2", f)
	}
	if !g.EulerOK() {
		t.Error("EulerOK() = false for a triangle plus an isolated node")
	}

	g.NewNode()
	if !g.EulerOK() {
		t.Error("EulerOK() = false with two isolated nodes")
	}
}

func TestCombEmbeddingContiguous(t *testing.T) {
	g := New()
	a := g.NewNode()
	b := g.NewNode()
	c := g.NewNode()
	d := g.NewNode()
	g.NewEdge(a, b)
	g.NewEdge(b, c)
	g.NewEdge(c, d)
	g.NewEdge(d, a)

	cg := NewClusterGraph(g)
	inner := cg.NewCluster(cg.Root())
	cg.ReassignNode(a, inner)
	cg.ReassignNode(b, inner)

	per := cg.PerimeterAdj(inner)
	if len(per) != 2 {
		t.Fatalf("len(PerimeterAdj) = %d, want 2", len(per))
	}
	cg.SetBoundary(inner, per)

	next := cg.NextBoundaryAdj(inner, per[0])
	if next.IsNil() {
		t.Fatal("NextBoundaryAdj did not close")
	}
	if next != per[1] && next != per[0] {
		t.Errorf("NextBoundaryAdj = %s, not a boundary entry", next)
	}
	if !cg.RepresentsCombEmbedding() {
		t.Error("RepresentsCombEmbedding() = false for adjacent cluster nodes")
	}
}

// With opposite cycle nodes grouped, the cluster's perimeter edges alternate
// around both faces, so no cyclic boundary order is contiguous.
func TestCombEmbeddingNonContiguous(t *testing.T) {
	g := New()
	a := g.NewNode()
	b := g.NewNode()
	c := g.NewNode()
	d := g.NewNode()
	g.NewEdge(a, b)
	g.NewEdge(b, c)
	g.NewEdge(c, d)
	g.NewEdge(d, a)

	cg := NewClusterGraph(g)
	inner := cg.NewCluster(cg.Root())
	cg.ReassignNode(a, inner)
	cg.ReassignNode(c, inner)

	per := cg.PerimeterAdj(inner)
	if len(per) != 4 {
		t.Fatalf("len(PerimeterAdj) = %d, want 4", len(per))
	}
	cg.SetBoundary(inner, per)
	if cg.RepresentsCombEmbedding() {
		t.Error("RepresentsCombEmbedding() = true for an interleaved boundary")
	}
}

// A cluster holding only the center of a star crosses one bridge per leaf.
// The crossings are corner-consecutive in the center's rotation even though
// every perimeter edge lies in its own biconnected component.
func TestCombEmbeddingStarCenter(t *testing.T) {
	g := New()
	hub := g.NewNode()
	var per []AdjID
	for i := 0; i < 3; i++ {
		e := g.NewEdge(hub, g.NewNode())
		per = append(per, g.AdjAt(e, hub))
	}

	cg := NewClusterGraph(g)
	inner := cg.NewCluster(cg.Root())
	cg.ReassignNode(hub, inner)
	cg.SetBoundary(inner, per)

	for i, a := range per {
		if next := cg.NextBoundaryAdj(inner, a); next != per[(i+1)%3] {
			t.Errorf("NextBoundaryAdj(%s) = %s, want %s", a, next, per[(i+1)%3])
		}
	}
	if !cg.RepresentsCombEmbedding() {
		t.Error("RepresentsCombEmbedding() = false for a clustered star center")
	}
}

func TestCombEmbeddingEmptyBoundary(t *testing.T) {
	g := New()
	a := g.NewNode()
	cg := NewClusterGraph(g)
	inner := cg.NewCluster(cg.Root())
	cg.ReassignNode(a, inner)

	// No perimeter edges at all: trivially contiguous.
	if !cg.RepresentsCombEmbedding() {
		t.Error("RepresentsCombEmbedding() = false for an isolated cluster")
	}
}
