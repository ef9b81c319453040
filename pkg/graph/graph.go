package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleHandle is returned by Validate when the graph contains a
	// reference to a deleted or reused arena slot.
	ErrStaleHandle = errors.New("stale handle")

	// ErrBrokenTwin is returned by Validate when an adjacency entry's twin
	// does not point back to it.
	ErrBrokenTwin = errors.New("adjacency twins are not mutual")

	// ErrBrokenRotation is returned by Validate when a node's circular
	// adjacency list is not correctly doubly linked.
	ErrBrokenRotation = errors.New("adjacency list links are inconsistent")

	// ErrSelfLoop is returned by NewEdge for edges with identical endpoints.
	// The planarity algorithms require loop-free input.
	ErrSelfLoop = errors.New("self-loops are not supported")
)

// NodeID is a stable handle to a graph node.
// The zero value is the nil handle and never refers to a live node.
type NodeID struct {
	idx int32
	gen uint32
}

// EdgeID is a stable handle to a graph edge.
type EdgeID struct {
	idx int32
	gen uint32
}

// AdjID is a stable handle to one of the two adjacency entries of an edge.
type AdjID struct {
	idx int32
	gen uint32
}

// NilNode, NilEdge and NilAdj are the zero handles.
var (
	NilNode NodeID
	NilEdge EdgeID
	NilAdj  AdjID
)

// IsNil reports whether the handle is the zero handle.
func (n NodeID) IsNil() bool { return n.gen == 0 }

// IsNil reports whether the handle is the zero handle.
func (e EdgeID) IsNil() bool { return e.gen == 0 }

// IsNil reports whether the handle is the zero handle.
func (a AdjID) IsNil() bool { return a.gen == 0 }

// Index returns the arena slot index, usable as a dense array key while the
// handle stays valid.
func (n NodeID) Index() int { return int(n.idx) }

// Index returns the arena slot index.
func (e EdgeID) Index() int { return int(e.idx) }

// Index returns the arena slot index.
func (a AdjID) Index() int { return int(a.idx) }

func (n NodeID) String() string { return fmt.Sprintf("n%d", n.idx) }
func (e EdgeID) String() string { return fmt.Sprintf("e%d", e.idx) }
func (a AdjID) String() string  { return fmt.Sprintf("a%d", a.idx) }

type nodeSlot struct {
	gen    uint32
	live   bool
	first  AdjID // entry point into the circular adjacency list, nil if isolated
	degree int
}

type edgeSlot struct {
	gen  uint32
	live bool
	src  AdjID // adjacency entry at the source endpoint
	tgt  AdjID // adjacency entry at the target endpoint
}

type adjSlot struct {
	gen  uint32
	live bool
	node NodeID
	edge EdgeID
	twin AdjID
	prev AdjID
	next AdjID
}

// Graph is an arena-allocated mutable multigraph.
// The zero value is not usable; use New.
type Graph struct {
	nodes []nodeSlot
	edges []edgeSlot
	adjs  []adjSlot

	freeNodes []int32
	freeEdges []int32
	freeAdjs  []int32

	numNodes int
	numEdges int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// assert panics with msg when cond is false. Used for internal contract
// checks; violations indicate a programming error, not a recoverable state.
func assert(cond bool, msg string) {
	if !cond {
		panic("graph: " + msg)
	}
}

// NumNodes returns the number of live nodes.
func (g *Graph) NumNodes() int { return g.numNodes }

// NumEdges returns the number of live edges.
func (g *Graph) NumEdges() int { return g.numEdges }

// NodeSlots returns the size of the node arena. Slot indices of live nodes
// are always below this bound, so it can size dense per-node arrays.
func (g *Graph) NodeSlots() int { return len(g.nodes) }

// EdgeSlots returns the size of the edge arena.
func (g *Graph) EdgeSlots() int { return len(g.edges) }

// AdjSlots returns the size of the adjacency arena.
func (g *Graph) AdjSlots() int { return len(g.adjs) }

// ValidNode reports whether n refers to a live node.
func (g *Graph) ValidNode(n NodeID) bool {
	return !n.IsNil() && int(n.idx) < len(g.nodes) && g.nodes[n.idx].live && g.nodes[n.idx].gen == n.gen
}

// ValidEdge reports whether e refers to a live edge.
func (g *Graph) ValidEdge(e EdgeID) bool {
	return !e.IsNil() && int(e.idx) < len(g.edges) && g.edges[e.idx].live && g.edges[e.idx].gen == e.gen
}

// ValidAdj reports whether a refers to a live adjacency entry.
func (g *Graph) ValidAdj(a AdjID) bool {
	return !a.IsNil() && int(a.idx) < len(g.adjs) && g.adjs[a.idx].live && g.adjs[a.idx].gen == a.gen
}

func (g *Graph) node(n NodeID) *nodeSlot {
	assert(g.ValidNode(n), "stale node handle "+n.String())
	return &g.nodes[n.idx]
}

func (g *Graph) edge(e EdgeID) *edgeSlot {
	assert(g.ValidEdge(e), "stale edge handle "+e.String())
	return &g.edges[e.idx]
}

func (g *Graph) adj(a AdjID) *adjSlot {
	assert(g.ValidAdj(a), "stale adjacency handle "+a.String())
	return &g.adjs[a.idx]
}

// NewNode allocates an isolated node.
func (g *Graph) NewNode() NodeID {
	var idx int32
	if n := len(g.freeNodes); n > 0 {
		idx = g.freeNodes[n-1]
		g.freeNodes = g.freeNodes[:n-1]
	} else {
		idx = int32(len(g.nodes))
		g.nodes = append(g.nodes, nodeSlot{})
	}
	slot := &g.nodes[idx]
	slot.gen++
	slot.live = true
	slot.first = NilAdj
	slot.degree = 0
	g.numNodes++
	return NodeID{idx: idx, gen: slot.gen}
}

func (g *Graph) newAdj(n NodeID, e EdgeID) AdjID {
	var idx int32
	if k := len(g.freeAdjs); k > 0 {
		idx = g.freeAdjs[k-1]
		g.freeAdjs = g.freeAdjs[:k-1]
	} else {
		idx = int32(len(g.adjs))
		g.adjs = append(g.adjs, adjSlot{})
	}
	slot := &g.adjs[idx]
	slot.gen++
	slot.live = true
	slot.node = n
	slot.edge = e
	slot.twin = NilAdj
	return AdjID{idx: idx, gen: slot.gen}
}

// appendAdj links a into n's circular adjacency list as the last entry
// (the cyclic predecessor of the list head).
func (g *Graph) appendAdj(n NodeID, a AdjID) {
	ns := g.node(n)
	as := g.adj(a)
	if ns.first.IsNil() {
		ns.first = a
		as.prev = a
		as.next = a
	} else {
		head := g.adj(ns.first)
		tail := head.prev
		g.adj(tail).next = a
		as.prev = tail
		as.next = ns.first
		head.prev = a
	}
	ns.degree++
}

// unlinkAdj removes a from its node's circular list without freeing it.
func (g *Graph) unlinkAdj(a AdjID) {
	as := g.adj(a)
	ns := g.node(as.node)
	if ns.degree == 1 {
		ns.first = NilAdj
	} else {
		g.adj(as.prev).next = as.next
		g.adj(as.next).prev = as.prev
		if ns.first == a {
			ns.first = as.next
		}
	}
	ns.degree--
	as.prev, as.next = NilAdj, NilAdj
}

func (g *Graph) freeAdjSlot(a AdjID) {
	slot := g.adj(a)
	slot.live = false
	slot.gen++
	g.freeAdjs = append(g.freeAdjs, a.idx)
}

// NewEdge creates an edge from u to v and appends its adjacency entries at
// the end of both rotations. Panics on self-loops.
func (g *Graph) NewEdge(u, v NodeID) EdgeID {
	assert(u != v, "self-loop "+u.String())
	var idx int32
	if k := len(g.freeEdges); k > 0 {
		idx = g.freeEdges[k-1]
		g.freeEdges = g.freeEdges[:k-1]
	} else {
		idx = int32(len(g.edges))
		g.edges = append(g.edges, edgeSlot{})
	}
	slot := &g.edges[idx]
	slot.gen++
	slot.live = true
	e := EdgeID{idx: idx, gen: slot.gen}

	sa := g.newAdj(u, e)
	ta := g.newAdj(v, e)
	g.adjs[sa.idx].twin = ta
	g.adjs[ta.idx].twin = sa
	slot.src = sa
	slot.tgt = ta
	g.appendAdj(u, sa)
	g.appendAdj(v, ta)
	g.numEdges++
	return e
}

// DelEdge removes e and both of its adjacency entries.
func (g *Graph) DelEdge(e EdgeID) {
	es := g.edge(e)
	src, tgt := es.src, es.tgt
	g.unlinkAdj(src)
	g.unlinkAdj(tgt)
	g.freeAdjSlot(src)
	g.freeAdjSlot(tgt)
	es.live = false
	es.gen++
	g.freeEdges = append(g.freeEdges, e.idx)
	g.numEdges--
}

// DelNode removes n together with all incident edges.
func (g *Graph) DelNode(n NodeID) {
	for {
		ns := g.node(n)
		if ns.first.IsNil() {
			break
		}
		g.DelEdge(g.adjs[ns.first.idx].edge)
	}
	ns := g.node(n)
	ns.live = false
	ns.gen++
	g.freeNodes = append(g.freeNodes, n.idx)
	g.numNodes--
}

// Nodes returns the live nodes in arena order.
func (g *Graph) Nodes() []NodeID {
	out := make([]NodeID, 0, g.numNodes)
	for i := range g.nodes {
		if g.nodes[i].live {
			out = append(out, NodeID{idx: int32(i), gen: g.nodes[i].gen})
		}
	}
	return out
}

// Edges returns the live edges in arena order.
func (g *Graph) Edges() []EdgeID {
	out := make([]EdgeID, 0, g.numEdges)
	for i := range g.edges {
		if g.edges[i].live {
			out = append(out, EdgeID{idx: int32(i), gen: g.edges[i].gen})
		}
	}
	return out
}

// Degree returns the number of adjacency entries at n.
func (g *Graph) Degree(n NodeID) int { return g.node(n).degree }

// FirstAdj returns the first entry of n's rotation, or the nil handle for an
// isolated node.
func (g *Graph) FirstAdj(n NodeID) AdjID { return g.node(n).first }

// NextAdj returns the cyclic successor of a within its node's rotation.
func (g *Graph) NextAdj(a AdjID) AdjID { return g.adj(a).next }

// PrevAdj returns the cyclic predecessor of a within its node's rotation.
func (g *Graph) PrevAdj(a AdjID) AdjID { return g.adj(a).prev }

// Twin returns the adjacency entry at the other endpoint of a's edge.
func (g *Graph) Twin(a AdjID) AdjID { return g.adj(a).twin }

// AdjNode returns the node owning a.
func (g *Graph) AdjNode(a AdjID) NodeID { return g.adj(a).node }

// AdjEdge returns the edge owning a.
func (g *Graph) AdjEdge(a AdjID) EdgeID { return g.adj(a).edge }

// TwinNode returns the node at the other endpoint of a's edge.
func (g *Graph) TwinNode(a AdjID) NodeID { return g.adj(g.adj(a).twin).node }

// Source returns the source endpoint of e.
func (g *Graph) Source(e EdgeID) NodeID { return g.adj(g.edge(e).src).node }

// Target returns the target endpoint of e.
func (g *Graph) Target(e EdgeID) NodeID { return g.adj(g.edge(e).tgt).node }

// AdjAt returns e's adjacency entry located at n. Panics when n is not an
// endpoint of e.
func (g *Graph) AdjAt(e EdgeID, n NodeID) AdjID {
	es := g.edge(e)
	if g.adjs[es.src.idx].node == n {
		return es.src
	}
	assert(g.adjs[es.tgt.idx].node == n, n.String()+" is not an endpoint of "+e.String())
	return es.tgt
}

// Opposite returns the endpoint of e other than n.
func (g *Graph) Opposite(e EdgeID, n NodeID) NodeID {
	return g.TwinNode(g.AdjAt(e, n))
}

// AdjList returns a snapshot of n's rotation in cyclic order.
func (g *Graph) AdjList(n NodeID) []AdjID {
	ns := g.node(n)
	out := make([]AdjID, 0, ns.degree)
	if ns.first.IsNil() {
		return out
	}
	a := ns.first
	for {
		out = append(out, a)
		a = g.adjs[a.idx].next
		if a == ns.first {
			break
		}
	}
	return out
}

// SortAdj rewrites n's rotation to the given cyclic order. The order must
// contain exactly the current adjacency entries of n.
func (g *Graph) SortAdj(n NodeID, order []AdjID) {
	ns := g.node(n)
	assert(len(order) == ns.degree, "rotation size mismatch at "+n.String())
	if len(order) == 0 {
		return
	}
	for i, a := range order {
		as := g.adj(a)
		assert(as.node == n, a.String()+" does not belong to "+n.String())
		as.prev = order[(i+len(order)-1)%len(order)]
		as.next = order[(i+1)%len(order)]
	}
	ns.first = order[0]
}

// ReverseAdj reverses n's rotation in place.
func (g *Graph) ReverseAdj(n NodeID) {
	list := g.AdjList(n)
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	if len(list) > 0 {
		g.SortAdj(n, list)
	}
}

// MoveAdjAfter relocates a directly after ref within their shared node's
// rotation.
func (g *Graph) MoveAdjAfter(a, ref AdjID) {
	if a == ref || g.adj(ref).next == a {
		return
	}
	assert(g.adj(a).node == g.adj(ref).node, "entries belong to different nodes")
	n := g.adj(a).node
	g.unlinkAdj(a)
	// re-link after ref
	ns := g.node(n)
	rs := g.adj(ref)
	as := g.adj(a)
	nxt := rs.next
	rs.next = a
	as.prev = ref
	as.next = nxt
	g.adj(nxt).prev = a
	if ns.first.IsNil() {
		ns.first = a
	}
	ns.degree++
}

// MoveEnd detaches the endpoint of e opposite to keep and reattaches it to
// newEnd, appending at the end of newEnd's rotation.
func (g *Graph) MoveEnd(e EdgeID, keep, newEnd NodeID) {
	a := g.AdjAt(e, keep)
	moved := g.adj(a).twin
	g.unlinkAdj(moved)
	g.adj(moved).node = newEnd
	g.appendAdj(newEnd, moved)
}

// SplitEdge splits the edge under a into a chain across two fresh endpoints.
// Let a sit at node n with twin at node t. Afterwards a's edge connects
// n and u (a keeps its position in n's rotation), a new edge connects v and
// t (its entry at t takes the old twin's position), and the entries at u and
// v are appended at the end of their rotations. Returns the adjacency entry
// of the new edge at v.
//
// Rerouting cluster-perimeter edges onto pipe endpoints and rollback of edge
// joins are the callers.
func (g *Graph) SplitEdge(a AdjID, u, v NodeID) AdjID {
	return g.splitEdge(a, u, v, g.newEdgeUnlinked())
}

// SplitEdgeAs is SplitEdge with the new edge re-materialized under a
// previously deleted handle instead of a fresh one. Undo operations use it to
// resurrect the exact edge a join retired, so handles recorded before the
// join stay valid after rollback.
func (g *Graph) SplitEdgeAs(a AdjID, u, v NodeID, retired EdgeID) AdjID {
	return g.splitEdge(a, u, v, g.restoreEdgeUnlinked(retired))
}

func (g *Graph) splitEdge(a AdjID, u, v NodeID, newEdge EdgeID) AdjID {
	oldTwin := g.adj(a).twin
	e := g.adj(a).edge

	// Reuse the twin slot at t for the new edge so t's rotation is untouched.
	ne := g.edge(newEdge)
	es := g.edge(e)

	va := g.newAdj(v, newEdge)
	g.adj(oldTwin).edge = newEdge
	g.adj(oldTwin).twin = va
	g.adj(va).twin = oldTwin
	ne.src = va
	ne.tgt = oldTwin
	g.appendAdj(v, va)

	ua := g.newAdj(u, e)
	g.adj(a).twin = ua
	g.adj(ua).twin = a
	if es.src == oldTwin {
		es.src = ua
	} else {
		es.tgt = ua
	}
	g.appendAdj(u, ua)

	return oldTwin
}

// RestoreNode re-materializes a deleted node under its previous handle. The
// slot must still be free and must not have been reused since the deletion.
// Undo operations use this so node handles recorded before a deletion stay
// valid after rollback.
func (g *Graph) RestoreNode(n NodeID) {
	assert(!n.IsNil() && int(n.idx) < len(g.nodes), "unknown node slot "+n.String())
	slot := &g.nodes[n.idx]
	assert(!slot.live && slot.gen == n.gen+1, "node slot not restorable "+n.String())
	g.freeNodes = dropIndex(g.freeNodes, n.idx)
	slot.gen = n.gen
	slot.live = true
	slot.first = NilAdj
	slot.degree = 0
	g.numNodes++
}

func (g *Graph) restoreEdgeUnlinked(e EdgeID) EdgeID {
	assert(!e.IsNil() && int(e.idx) < len(g.edges), "unknown edge slot "+e.String())
	slot := &g.edges[e.idx]
	assert(!slot.live && slot.gen == e.gen+1, "edge slot not restorable "+e.String())
	g.freeEdges = dropIndex(g.freeEdges, e.idx)
	slot.gen = e.gen
	slot.live = true
	g.numEdges++
	return e
}

func dropIndex(free []int32, idx int32) []int32 {
	for i, x := range free {
		if x == idx {
			return append(free[:i], free[i+1:]...)
		}
	}
	panic("graph: slot missing from free list")
}

// newEdgeUnlinked allocates an edge slot with no adjacency entries yet.
func (g *Graph) newEdgeUnlinked() EdgeID {
	var idx int32
	if k := len(g.freeEdges); k > 0 {
		idx = g.freeEdges[k-1]
		g.freeEdges = g.freeEdges[:k-1]
	} else {
		idx = int32(len(g.edges))
		g.edges = append(g.edges, edgeSlot{})
	}
	slot := &g.edges[idx]
	slot.gen++
	slot.live = true
	g.numEdges++
	return EdgeID{idx: idx, gen: slot.gen}
}

// JoinEdge merges the two half-edges under ua and va into one direct edge.
// ua sits at u, va at v; after the call the far endpoints of both edges are
// connected directly (the surviving entry takes the position of va's twin in
// its rotation), va's edge is deleted and u and v each lose one entry.
// Returns the surviving edge.
//
// Joining a resolved pipe pair applies this once per matched entry pair.
func (g *Graph) JoinEdge(ua, va AdjID) EdgeID {
	u := g.adj(ua).node
	assert(g.adj(va).node != u, "join endpoints must differ")
	e := g.adj(ua).edge
	ve := g.adj(va).edge
	vTwin := g.adj(va).twin
	y := g.adj(vTwin).node

	// Move ua from u's rotation into y's, taking vTwin's position.
	g.unlinkAdj(ua)
	// splice ua in place of vTwin
	ys := g.node(y)
	vts := g.adj(vTwin)
	uas := g.adj(ua)
	uas.node = y
	if ys.degree == 1 {
		// vTwin is the only entry at y; ua replaces it outright.
		uas.prev = ua
		uas.next = ua
	} else {
		uas.prev = vts.prev
		uas.next = vts.next
		g.adj(vts.prev).next = ua
		g.adj(vts.next).prev = ua
	}
	if ys.first == vTwin {
		ys.first = ua
	}
	// vTwin is already spliced out of y's rotation; degree is unchanged.

	g.unlinkAdj(va)
	g.freeAdjSlot(vTwin)
	g.freeAdjSlot(va)
	ves := g.edge(ve)
	ves.live = false
	ves.gen++
	g.freeEdges = append(g.freeEdges, ve.idx)
	g.numEdges--
	return e
}

// Validate checks arena invariants: mutual twins, consistent circular
// adjacency links and degree counters. Returns the first violation found.
func (g *Graph) Validate() error {
	for i := range g.adjs {
		if !g.adjs[i].live {
			continue
		}
		a := AdjID{idx: int32(i), gen: g.adjs[i].gen}
		twin := g.adjs[i].twin
		if !g.ValidAdj(twin) {
			return fmt.Errorf("%w: twin of %s", ErrStaleHandle, a)
		}
		if g.adjs[twin.idx].twin != a {
			return fmt.Errorf("%w: %s", ErrBrokenTwin, a)
		}
		if !g.ValidEdge(g.adjs[i].edge) || !g.ValidNode(g.adjs[i].node) {
			return fmt.Errorf("%w: owner of %s", ErrStaleHandle, a)
		}
	}
	for i := range g.nodes {
		if !g.nodes[i].live {
			continue
		}
		n := NodeID{idx: int32(i), gen: g.nodes[i].gen}
		count := 0
		if !g.nodes[i].first.IsNil() {
			a := g.nodes[i].first
			for {
				as := g.adj(a)
				if as.node != n {
					return fmt.Errorf("%w: %s listed under %s", ErrBrokenRotation, a, n)
				}
				if g.adj(as.next).prev != a {
					return fmt.Errorf("%w: at %s", ErrBrokenRotation, a)
				}
				count++
				if count > g.nodes[i].degree {
					return fmt.Errorf("%w: rotation of %s does not close", ErrBrokenRotation, n)
				}
				a = as.next
				if a == g.nodes[i].first {
					break
				}
			}
		}
		if count != g.nodes[i].degree {
			return fmt.Errorf("%w: degree of %s is %d, rotation has %d entries",
				ErrBrokenRotation, n, g.nodes[i].degree, count)
		}
	}
	return nil
}
