package decomp

import (
	"github.com/matzehuels/planarkit/pkg/graph"
)

// ============================================================================
// SPQR-trees
// ============================================================================

// SPQRType classifies the skeleton of an SPQR-tree node.
type SPQRType int

const (
	// SNode skeletons are cycles; their embedding is unique.
	SNode SPQRType = iota
	// PNode skeletons are bonds; their parallel edges permute freely.
	PNode
	// RNode skeletons are triconnected; their embedding is unique up to
	// reflection.
	RNode
)

func (t SPQRType) String() string {
	switch t {
	case SNode:
		return "S"
	case PNode:
		return "P"
	case RNode:
		return "R"
	}
	return "?"
}

// SkelEdge is one edge of a skeleton: either a real edge of the underlying
// graph or a virtual edge twinned with a skeleton edge of the adjacent
// tree node.
type SkelEdge struct {
	U, V  graph.NodeID
	Real  graph.EdgeID // nil for virtual edges
	Twin  *SkelEdge    // nil for real edges
	Owner *SPQRNode
}

// Virtual reports whether the skeleton edge is a placeholder for an
// adjacent tree node.
func (se *SkelEdge) Virtual() bool { return se.Twin != nil }

// Opposite returns the skeleton edge's endpoint other than v.
func (se *SkelEdge) Opposite(v graph.NodeID) graph.NodeID {
	if se.U == v {
		return se.V
	}
	return se.U
}

// SPQRNode is one node of an SPQR-tree, holding a skeleton multigraph over
// a subset of the original vertices.
type SPQRNode struct {
	ID    int
	Type  SPQRType
	Edges []*SkelEdge

	// rot holds, for R skeletons, the planar rotation of skeleton edges
	// around each skeleton vertex (keyed by node slot index).
	rot map[int][]*SkelEdge
}

// EdgesAt returns the skeleton edges incident to v. For R skeletons the
// order is the skeleton's planar rotation; for S and P skeletons the order
// carries no constraint.
func (sn *SPQRNode) EdgesAt(v graph.NodeID) []*SkelEdge {
	if sn.Type == RNode {
		return sn.rot[v.Index()]
	}
	var out []*SkelEdge
	for _, se := range sn.Edges {
		if se.U == v || se.V == v {
			out = append(out, se)
		}
	}
	return out
}

// SPQRTree is a static SPQR decomposition of one biconnected component.
// Tree nodes are linked through twinned virtual edges.
type SPQRTree struct {
	G     *graph.Graph
	Nodes []*SPQRNode

	// nodesAt maps a node slot index to the tree nodes whose skeleton
	// contains that vertex. They always form a connected subtree.
	nodesAt map[int][]*SPQRNode
}

// NodesAt returns the tree nodes whose skeleton contains v.
func (t *SPQRTree) NodesAt(v graph.NodeID) []*SPQRNode { return t.nodesAt[v.Index()] }

// protoEdge is a skeleton edge under construction: a real edge, or the
// child half of a virtual pair whose parent half is already allocated.
type protoEdge struct {
	u, v       graph.NodeID
	real       graph.EdgeID
	parentHalf *SkelEdge
}

// NewSPQRTree decomposes one biconnected component, given by its edge list,
// into an SPQR-tree. It returns ok=false when some triconnected skeleton is
// not planar, which certifies that the component is not planar.
//
// The construction searches separation pairs exhaustively and splits
// recursively, so it is quadratic in the component size rather than linear
// as in Gutwenger–Mutzel; skeleton semantics are the same.
func NewSPQRTree(g *graph.Graph, comp []graph.EdgeID) (*SPQRTree, bool) {
	t := &SPQRTree{G: g, nodesAt: make(map[int][]*SPQRNode)}
	protos := make([]protoEdge, 0, len(comp))
	for _, e := range comp {
		protos = append(protos, protoEdge{u: g.Source(e), v: g.Target(e), real: e})
	}
	if !t.decompose(protos) {
		return nil, false
	}
	for _, sn := range t.Nodes {
		seen := make(map[int]bool)
		for _, se := range sn.Edges {
			for _, n := range []graph.NodeID{se.U, se.V} {
				if !seen[n.Index()] {
					seen[n.Index()] = true
					t.nodesAt[n.Index()] = append(t.nodesAt[n.Index()], sn)
				}
			}
		}
	}
	return t, true
}

func (t *SPQRTree) newNode(typ SPQRType) *SPQRNode {
	sn := &SPQRNode{ID: len(t.Nodes), Type: typ}
	t.Nodes = append(t.Nodes, sn)
	return sn
}

// attach materializes the proto edges as skeleton edges of sn, wiring twin
// links for virtual halves.
func attach(sn *SPQRNode, protos []protoEdge) {
	for _, p := range protos {
		se := &SkelEdge{U: p.u, V: p.v, Real: p.real, Owner: sn}
		if p.parentHalf != nil {
			se.Twin = p.parentHalf
			p.parentHalf.Twin = se
		}
		sn.Edges = append(sn.Edges, se)
	}
}

func (t *SPQRTree) decompose(protos []protoEdge) bool {
	verts := protoVerts(protos)

	if len(verts) == 2 {
		attach(t.newNode(PNode), protos)
		return true
	}
	if isCycle(protos, verts) {
		attach(t.newNode(SNode), protos)
		return true
	}

	if a, b, classes, ok := findSplitPair(protos, verts); ok {
		return t.split(a, b, classes)
	}

	// Triconnected: fix the skeleton's rotation by planar embedding.
	sn := t.newNode(RNode)
	attach(sn, protos)
	return t.embedSkeleton(sn)
}

// split builds a bond over {a,b}: single-edge classes stay in the bond's
// skeleton, larger classes become children behind virtual edges.
func (t *SPQRTree) split(a, b graph.NodeID, classes [][]protoEdge) bool {
	bond := t.newNode(PNode)
	var children [][]protoEdge
	for _, class := range classes {
		if len(class) == 1 {
			attach(bond, class)
			continue
		}
		half := &SkelEdge{U: a, V: b, Owner: bond}
		bond.Edges = append(bond.Edges, half)
		children = append(children, append(class, protoEdge{u: a, v: b, parentHalf: half}))
	}
	for _, child := range children {
		if !t.decompose(child) {
			return false
		}
	}
	return true
}

// embedSkeleton runs the planar embedder on a scratch copy of sn's skeleton
// and records the resulting rotation.
func (t *SPQRTree) embedSkeleton(sn *SPQRNode) bool {
	scratch := graph.New()
	fwd := make(map[int]graph.NodeID)  // original slot -> scratch node
	back := make(map[int]graph.NodeID) // scratch slot -> original node
	mirror := make(map[int]*SkelEdge)  // scratch edge slot -> skeleton edge
	node := func(n graph.NodeID) graph.NodeID {
		s, ok := fwd[n.Index()]
		if !ok {
			s = scratch.NewNode()
			fwd[n.Index()] = s
			back[s.Index()] = n
		}
		return s
	}
	for _, se := range sn.Edges {
		e := scratch.NewEdge(node(se.U), node(se.V))
		mirror[e.Index()] = se
	}
	if !PlanarEmbed(scratch) {
		return false
	}
	sn.rot = make(map[int][]*SkelEdge)
	for _, s := range scratch.Nodes() {
		orig := back[s.Index()]
		for _, adj := range scratch.AdjList(s) {
			sn.rot[orig.Index()] = append(sn.rot[orig.Index()], mirror[scratch.AdjEdge(adj).Index()])
		}
	}
	return true
}

func protoVerts(protos []protoEdge) map[int]graph.NodeID {
	verts := make(map[int]graph.NodeID)
	for _, p := range protos {
		verts[p.u.Index()] = p.u
		verts[p.v.Index()] = p.v
	}
	return verts
}

func isCycle(protos []protoEdge, verts map[int]graph.NodeID) bool {
	if len(protos) != len(verts) {
		return false
	}
	deg := make(map[int]int)
	for _, p := range protos {
		deg[p.u.Index()]++
		deg[p.v.Index()]++
	}
	for _, d := range deg {
		if d != 2 {
			return false
		}
	}
	// Equal counts and all degrees two make a disjoint union of cycles;
	// the component is connected, so it is a single cycle.
	return true
}

// findSplitPair searches for a separation pair {a,b} of the skeleton: a
// vertex pair inducing at least two separation classes, excluding the
// trivial case of exactly two classes one of which is a single edge.
func findSplitPair(protos []protoEdge, verts map[int]graph.NodeID) (graph.NodeID, graph.NodeID, [][]protoEdge, bool) {
	ids := make([]graph.NodeID, 0, len(verts))
	for _, n := range verts {
		ids = append(ids, n)
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			classes := separationClasses(protos, a, b)
			if len(classes) < 2 {
				continue
			}
			if len(classes) == 2 && (len(classes[0]) == 1 || len(classes[1]) == 1) {
				continue
			}
			return a, b, classes, true
		}
	}
	return graph.NilNode, graph.NilNode, nil, false
}

// separationClasses partitions the edges by the components of the skeleton
// with a and b removed; each direct a-b edge forms a class of its own.
func separationClasses(protos []protoEdge, a, b graph.NodeID) [][]protoEdge {
	parent := make(map[int]int)
	var find func(x int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(x, y int) { parent[find(x)] = find(y) }
	for _, p := range protos {
		for _, n := range []graph.NodeID{p.u, p.v} {
			if n != a && n != b {
				if _, ok := parent[n.Index()]; !ok {
					parent[n.Index()] = n.Index()
				}
			}
		}
		if p.u != a && p.u != b && p.v != a && p.v != b {
			union(p.u.Index(), p.v.Index())
		}
	}

	classes := make(map[int][]protoEdge)
	var order []int
	var direct [][]protoEdge
	for _, p := range protos {
		uIn := p.u == a || p.u == b
		vIn := p.v == a || p.v == b
		if uIn && vIn {
			direct = append(direct, []protoEdge{p})
			continue
		}
		key := p.u.Index()
		if uIn {
			key = p.v.Index()
		}
		key = find(key)
		if _, ok := classes[key]; !ok {
			order = append(order, key)
		}
		classes[key] = append(classes[key], p)
	}

	out := make([][]protoEdge, 0, len(order)+len(direct))
	for _, key := range order {
		out = append(out, classes[key])
	}
	out = append(out, direct...)
	return out
}
