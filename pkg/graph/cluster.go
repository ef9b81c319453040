package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrNodeOutsideRoot is returned by ClusterGraph.Validate when a node is
	// not assigned to any cluster.
	ErrNodeOutsideRoot = errors.New("node without cluster assignment")

	// ErrClusterCycle is returned by ClusterGraph.Validate when the parent
	// links do not form a tree rooted at the root cluster.
	ErrClusterCycle = errors.New("cluster parents do not form a rooted tree")
)

// ClusterID is a stable handle to a cluster.
type ClusterID struct {
	idx int32
	gen uint32
}

// NilCluster is the zero cluster handle.
var NilCluster ClusterID

// IsNil reports whether the handle is the zero handle.
func (c ClusterID) IsNil() bool { return c.gen == 0 }

// Index returns the arena slot index.
func (c ClusterID) Index() int { return int(c.idx) }

func (c ClusterID) String() string { return fmt.Sprintf("c%d", c.idx) }

type clusterSlot struct {
	gen      uint32
	live     bool
	parent   ClusterID
	children []ClusterID
	nodes    []NodeID
	boundary []AdjID
}

// ClusterGraph overlays a rooted tree of clusters on a graph's nodes.
// Every live node of the underlying graph belongs to exactly one cluster.
type ClusterGraph struct {
	g        *Graph
	clusters []clusterSlot
	free     []int32
	root     ClusterID
	ofNode   map[NodeID]ClusterID
	num      int
}

// NewClusterGraph creates a cluster graph over g whose root cluster contains
// every current node of g. Nodes created later must be placed with
// ReassignNode before any traversal that touches them.
func NewClusterGraph(g *Graph) *ClusterGraph {
	cg := &ClusterGraph{g: g, ofNode: make(map[NodeID]ClusterID)}
	cg.root = cg.alloc(NilCluster)
	for _, n := range g.Nodes() {
		cg.attachNode(n, cg.root)
	}
	return cg
}

// Graph returns the underlying graph.
func (cg *ClusterGraph) Graph() *Graph { return cg.g }

// Root returns the root cluster.
func (cg *ClusterGraph) Root() ClusterID { return cg.root }

// NumClusters returns the number of live clusters, including the root.
func (cg *ClusterGraph) NumClusters() int { return cg.num }

// ValidCluster reports whether c refers to a live cluster.
func (cg *ClusterGraph) ValidCluster(c ClusterID) bool {
	return !c.IsNil() && int(c.idx) < len(cg.clusters) &&
		cg.clusters[c.idx].live && cg.clusters[c.idx].gen == c.gen
}

func (cg *ClusterGraph) slot(c ClusterID) *clusterSlot {
	assert(cg.ValidCluster(c), "stale cluster handle "+c.String())
	return &cg.clusters[c.idx]
}

func (cg *ClusterGraph) alloc(parent ClusterID) ClusterID {
	var idx int32
	if k := len(cg.free); k > 0 {
		idx = cg.free[k-1]
		cg.free = cg.free[:k-1]
	} else {
		idx = int32(len(cg.clusters))
		cg.clusters = append(cg.clusters, clusterSlot{})
	}
	s := &cg.clusters[idx]
	s.gen++
	s.live = true
	s.parent = parent
	s.children = nil
	s.nodes = nil
	s.boundary = nil
	cg.num++
	return ClusterID{idx: idx, gen: s.gen}
}

// NewCluster creates an empty cluster beneath parent.
func (cg *ClusterGraph) NewCluster(parent ClusterID) ClusterID {
	c := cg.alloc(parent)
	ps := cg.slot(parent)
	ps.children = append(ps.children, c)
	return c
}

// DelCluster removes c, moving its directly assigned nodes and children to
// c's parent. The root cannot be deleted.
func (cg *ClusterGraph) DelCluster(c ClusterID) {
	assert(c != cg.root, "cannot delete the root cluster")
	s := cg.slot(c)
	parent := s.parent
	for _, n := range append([]NodeID(nil), s.nodes...) {
		cg.ReassignNode(n, parent)
	}
	ps := cg.slot(parent)
	for _, child := range s.children {
		cg.slot(child).parent = parent
		ps.children = append(ps.children, child)
	}
	ps.children = removeCluster(ps.children, c)
	s.live = false
	s.gen++
	cg.free = append(cg.free, c.idx)
	cg.num--
}

func removeCluster(list []ClusterID, c ClusterID) []ClusterID {
	out := list[:0]
	for _, x := range list {
		if x != c {
			out = append(out, x)
		}
	}
	return out
}

func removeNode(list []NodeID, n NodeID) []NodeID {
	out := list[:0]
	for _, x := range list {
		if x != n {
			out = append(out, x)
		}
	}
	return out
}

func (cg *ClusterGraph) attachNode(n NodeID, c ClusterID) {
	cg.slot(c).nodes = append(cg.slot(c).nodes, n)
	cg.ofNode[n] = c
}

// ReassignNode moves n into cluster c, removing it from its current cluster
// if it has one.
func (cg *ClusterGraph) ReassignNode(n NodeID, c ClusterID) {
	assert(cg.g.ValidNode(n), "stale node handle "+n.String())
	if old, ok := cg.ofNode[n]; ok {
		os := cg.slot(old)
		os.nodes = removeNode(os.nodes, n)
	}
	cg.attachNode(n, c)
}

// ForgetNode drops n's cluster assignment. Called when n is deleted from the
// underlying graph.
func (cg *ClusterGraph) ForgetNode(n NodeID) {
	if old, ok := cg.ofNode[n]; ok {
		os := cg.slot(old)
		os.nodes = removeNode(os.nodes, n)
		delete(cg.ofNode, n)
	}
}

// ClusterOf returns the cluster n is assigned to, or the nil handle.
func (cg *ClusterGraph) ClusterOf(n NodeID) ClusterID {
	return cg.ofNode[n]
}

// Parent returns c's parent, or the nil handle for the root.
func (cg *ClusterGraph) Parent(c ClusterID) ClusterID { return cg.slot(c).parent }

// Children returns a snapshot of c's child clusters.
func (cg *ClusterGraph) Children(c ClusterID) []ClusterID {
	return append([]ClusterID(nil), cg.slot(c).children...)
}

// Nodes returns a snapshot of the nodes directly assigned to c.
func (cg *ClusterGraph) Nodes(c ClusterID) []NodeID {
	return append([]NodeID(nil), cg.slot(c).nodes...)
}

// Clusters returns all live clusters in arena order.
func (cg *ClusterGraph) Clusters() []ClusterID {
	out := make([]ClusterID, 0, cg.num)
	for i := range cg.clusters {
		if cg.clusters[i].live {
			out = append(out, ClusterID{idx: int32(i), gen: cg.clusters[i].gen})
		}
	}
	return out
}

// PostOrder returns all clusters with every descendant strictly before its
// ancestor and the root last. The traversal is iterative so deep hierarchies
// cannot exhaust the call stack.
func (cg *ClusterGraph) PostOrder() []ClusterID {
	type frame struct {
		c     ClusterID
		child int
	}
	out := make([]ClusterID, 0, cg.num)
	stack := []frame{{c: cg.root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := cg.slot(top.c).children
		if top.child < len(children) {
			next := children[top.child]
			top.child++
			stack = append(stack, frame{c: next})
			continue
		}
		out = append(out, top.c)
		stack = stack[:len(stack)-1]
	}
	return out
}

// SetBoundary records the cyclic list of perimeter-crossing adjacency
// entries of c. Entries sit at nodes inside c with their twins outside.
func (cg *ClusterGraph) SetBoundary(c ClusterID, adj []AdjID) {
	cg.slot(c).boundary = append([]AdjID(nil), adj...)
}

// Boundary returns c's recorded boundary list.
func (cg *ClusterGraph) Boundary(c ClusterID) []AdjID {
	return append([]AdjID(nil), cg.slot(c).boundary...)
}

// Inside reports whether n lies in c or any descendant of c.
func (cg *ClusterGraph) Inside(n NodeID, c ClusterID) bool {
	x := cg.ClusterOf(n)
	for !x.IsNil() {
		if x == c {
			return true
		}
		x = cg.slot(x).parent
	}
	return false
}

// PerimeterAdj returns the adjacency entries whose node lies inside c and
// whose twin node lies outside, in the rotation order of the inside nodes.
func (cg *ClusterGraph) PerimeterAdj(c ClusterID) []AdjID {
	var out []AdjID
	for _, sub := range cg.descendantsInclusive(c) {
		for _, n := range cg.slot(sub).nodes {
			for _, a := range cg.g.AdjList(n) {
				if !cg.Inside(cg.g.TwinNode(a), c) {
					out = append(out, a)
				}
			}
		}
	}
	return out
}

func (cg *ClusterGraph) descendantsInclusive(c ClusterID) []ClusterID {
	out := []ClusterID{c}
	for i := 0; i < len(out); i++ {
		out = append(out, cg.slot(out[i]).children...)
	}
	return out
}

// Validate checks that every node is assigned, parent links form a tree
// rooted at Root, and child lists mirror the parent links.
func (cg *ClusterGraph) Validate() error {
	for _, n := range cg.g.Nodes() {
		c, ok := cg.ofNode[n]
		if !ok || !cg.ValidCluster(c) {
			return fmt.Errorf("%w: %s", ErrNodeOutsideRoot, n)
		}
	}
	for _, c := range cg.Clusters() {
		if c == cg.root {
			if !cg.slot(c).parent.IsNil() {
				return fmt.Errorf("%w: root has a parent", ErrClusterCycle)
			}
			continue
		}
		seen := map[ClusterID]bool{}
		x := c
		for x != cg.root {
			if x.IsNil() || seen[x] || !cg.ValidCluster(x) {
				return fmt.Errorf("%w: from %s", ErrClusterCycle, c)
			}
			seen[x] = true
			p := cg.slot(x).parent
			found := false
			for _, ch := range cg.slot(p).children {
				if ch == x {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%w: %s missing from children of %s", ErrClusterCycle, x, p)
			}
			x = p
		}
	}
	return nil
}
