package decomp

import (
	"github.com/matzehuels/planarkit/pkg/graph"
)

// ============================================================================
// Planarity testing and embedding
// ============================================================================

// IsPlanar reports whether g admits a planar embedding. It embeds a scratch
// rotation and discards it; g's adjacency orders are left untouched.
func IsPlanar(g *graph.Graph) bool {
	_, ok := planarRotation(g)
	return ok
}

// PlanarEmbed computes a planar rotation system for g and installs it via
// SortAdj. It returns false and leaves g unchanged when g is not planar.
func PlanarEmbed(g *graph.Graph) bool {
	rot, ok := planarRotation(g)
	if !ok {
		return false
	}
	for _, n := range g.Nodes() {
		if order, found := rot[n.Index()]; found && len(order) > 1 {
			g.SortAdj(n, order)
		}
	}
	return true
}

// planarRotation computes a planar rotation per node slot index without
// mutating g. Blocks are embedded independently; at a cut vertex the
// rotations of its blocks are concatenated, which is always planar since
// blocks meet only in that vertex.
func planarRotation(g *graph.Graph) (map[int][]graph.AdjID, bool) {
	if n := g.NumNodes(); n >= 3 && g.NumEdges() > 3*n-6 && simpleEdgeCount(g) > 3*n-6 {
		return nil, false
	}
	blocks := BiconnectedComponents(g)
	rot := make(map[int][]graph.AdjID)
	for _, comp := range blocks.BlockEdges {
		brot, ok := embedBlock(g, comp)
		if !ok {
			return nil, false
		}
		for slot, order := range brot {
			rot[slot] = append(rot[slot], order...)
		}
	}
	return rot, true
}

func simpleEdgeCount(g *graph.Graph) int {
	type pair struct{ a, b int }
	seen := make(map[pair]bool)
	for _, e := range g.Edges() {
		u, v := g.Source(e).Index(), g.Target(e).Index()
		if u > v {
			u, v = v, u
		}
		seen[pair{u, v}] = true
	}
	return len(seen)
}

// embedder carries the state of one Demoucron run: the set of embedded edges
// and the partial rotation, from which faces are rederived on demand.
type embedder struct {
	g        *graph.Graph
	edges    []graph.EdgeID
	inBlock  map[int]bool // edge slot -> part of this block
	embedded map[int]bool // edge slot -> already drawn
	placed   map[int]bool // node slot -> on the partial embedding
	rot      map[int][]graph.AdjID
	left     int
}

// embedBlock embeds one biconnected component (or bridge) and returns the
// rotation it fixes at each touched node, restricted to the block's edges.
func embedBlock(g *graph.Graph, comp []graph.EdgeID) (map[int][]graph.AdjID, bool) {
	em := &embedder{
		g:        g,
		edges:    comp,
		inBlock:  make(map[int]bool),
		embedded: make(map[int]bool),
		placed:   make(map[int]bool),
		rot:      make(map[int][]graph.AdjID),
		left:     len(comp),
	}
	for _, e := range comp {
		em.inBlock[e.Index()] = true
	}

	// A bridge, a path stub or a two-edge bundle has a unique embedding.
	if len(comp) <= 2 {
		for _, e := range comp {
			em.drawEdge(e)
		}
		return em.rot, true
	}

	cycle := em.findCycle()
	if cycle == nil {
		// A block with three or more edges is 2-connected and contains a
		// cycle; reaching this point means the component list is corrupt.
		panic("decomp: acyclic block")
	}
	for _, e := range cycle {
		em.drawEdge(e)
	}

	for em.left > 0 {
		frag, ok := em.pickFragment()
		if !ok {
			return nil, false
		}
		path := em.alphaPath(frag)
		em.drawPath(path, frag.face)
	}
	return em.rot, true
}

// drawEdge appends both adjacency entries of e to the rotation with no
// positional constraint. Used only while the embedding is still a forest of
// at most two edges, where every rotation is planar.
func (em *embedder) drawEdge(e graph.EdgeID) {
	u, v := em.g.Source(e), em.g.Target(e)
	em.rot[u.Index()] = append(em.rot[u.Index()], em.g.AdjAt(e, u))
	em.rot[v.Index()] = append(em.rot[v.Index()], em.g.AdjAt(e, v))
	em.placed[u.Index()] = true
	em.placed[v.Index()] = true
	em.embedded[e.Index()] = true
	em.left--
}

// findCycle returns the edges of some cycle within the block. The DFS keeps
// the current tree path on an explicit frame stack: an edge closes a cycle
// only when it reaches a node that is on that path, so edges into already
// finished vertices and parallel edges are handled correctly.
func (em *embedder) findCycle() []graph.EdgeID {
	type frame struct {
		node graph.NodeID
		via  graph.EdgeID // tree edge into node, meaningless at the root
		adj  []graph.AdjID
		next int
	}
	start := em.g.Source(em.edges[0])
	visited := map[int]bool{start.Index(): true}
	onPath := map[int]bool{start.Index(): true}
	stack := []*frame{{node: start, adj: em.g.AdjList(start)}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.adj) {
			onPath[top.node.Index()] = false
			stack = stack[:len(stack)-1]
			continue
		}
		a := top.adj[top.next]
		top.next++
		e := em.g.AdjEdge(a)
		if !em.inBlock[e.Index()] || (len(stack) > 1 && e == top.via) {
			continue
		}
		w := em.g.TwinNode(a)
		if !visited[w.Index()] {
			visited[w.Index()] = true
			onPath[w.Index()] = true
			stack = append(stack, &frame{node: w, via: e, adj: em.g.AdjList(w)})
			continue
		}
		if !onPath[w.Index()] {
			continue
		}
		// Back edge into the current path; unwind the tree edges w..top.
		cycle := []graph.EdgeID{e}
		for i := len(stack) - 1; stack[i].node != w; i-- {
			cycle = append(cycle, stack[i].via)
		}
		return cycle
	}
	return nil
}

// face is one face of the partial embedding, as the set of node slots on its
// boundary plus one boundary dart per node for splicing.
type face struct {
	nodes map[int]bool
	darts []graph.AdjID // boundary traversal, head-to-tail
}

// faces recomputes the faces of the partial embedding from the rotation.
// A dart is an adjacency entry read as directed away from its node; the
// successor of a dart along its face is the rotation successor of its twin.
func (em *embedder) faces() []*face {
	next := make(map[graph.AdjID]graph.AdjID)
	for _, order := range em.rot {
		for i, a := range order {
			next[em.g.Twin(order[(i+len(order)-1)%len(order)])] = a
		}
	}
	seen := make(map[graph.AdjID]bool)
	var out []*face
	for _, order := range em.rot {
		for _, a := range order {
			if seen[a] {
				continue
			}
			f := &face{nodes: make(map[int]bool)}
			for d := a; !seen[d]; d = next[d] {
				seen[d] = true
				f.darts = append(f.darts, d)
				f.nodes[em.g.AdjNode(d).Index()] = true
			}
			out = append(out, f)
		}
	}
	return out
}

// fragment is a bridge of the partial embedding: either a single unembedded
// edge between two placed vertices, or a component of unplaced vertices
// together with all unembedded edges touching it.
type fragment struct {
	edges       map[int]bool // edge slots
	attachments map[int]bool // node slots, all placed
	face        *face        // an admissible face, set by pickFragment
}

func (em *embedder) fragments() []*fragment {
	parent := make(map[int]int) // union-find over unplaced node slots
	var find func(x int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	for _, e := range em.edges {
		if em.embedded[e.Index()] {
			continue
		}
		for _, n := range []graph.NodeID{em.g.Source(e), em.g.Target(e)} {
			if !em.placed[n.Index()] {
				if _, ok := parent[n.Index()]; !ok {
					parent[n.Index()] = n.Index()
				}
			}
		}
		u, v := em.g.Source(e).Index(), em.g.Target(e).Index()
		if !em.placed[u] && !em.placed[v] {
			parent[find(u)] = find(v)
		}
	}

	frags := make(map[int]*fragment) // representative -> fragment
	var order []int
	add := func(key int) *fragment {
		f, ok := frags[key]
		if !ok {
			f = &fragment{edges: make(map[int]bool), attachments: make(map[int]bool)}
			frags[key] = f
			order = append(order, key)
		}
		return f
	}
	for _, e := range em.edges {
		if em.embedded[e.Index()] {
			continue
		}
		u, v := em.g.Source(e).Index(), em.g.Target(e).Index()
		var f *fragment
		switch {
		case em.placed[u] && em.placed[v]:
			f = add(-1 - e.Index()) // chord: its own fragment
		case em.placed[u]:
			f = add(find(v))
		case em.placed[v]:
			f = add(find(u))
		default:
			f = add(find(u))
		}
		f.edges[e.Index()] = true
		if em.placed[u] {
			f.attachments[u] = true
		}
		if em.placed[v] {
			f.attachments[v] = true
		}
	}

	out := make([]*fragment, 0, len(order))
	for _, key := range order {
		out = append(out, frags[key])
	}
	return out
}

// pickFragment chooses the next fragment to embed, preferring one with a
// unique admissible face (Demoucron's rule). It returns false when some
// fragment fits in no face, which certifies non-planarity.
func (em *embedder) pickFragment() (*fragment, bool) {
	faces := em.faces()
	var best *fragment
	bestCount := 0
	for _, fr := range em.fragments() {
		count := 0
		var first *face
		for _, f := range faces {
			ok := true
			for att := range fr.attachments {
				if !f.nodes[att] {
					ok = false
					break
				}
			}
			if ok {
				count++
				if first == nil {
					first = f
				}
			}
		}
		if count == 0 {
			return nil, false
		}
		fr.face = first
		if best == nil || count < bestCount {
			best, bestCount = fr, count
			if count == 1 {
				break
			}
		}
	}
	return best, true
}

// alphaPath finds a path through the fragment between two distinct
// attachments, with all interior vertices unplaced.
func (em *embedder) alphaPath(fr *fragment) []graph.AdjID {
	var start graph.NodeID
	for _, e := range em.edges {
		if em.embedded[e.Index()] || !fr.edges[e.Index()] {
			continue
		}
		if u := em.g.Source(e); fr.attachments[u.Index()] {
			start = u
			break
		}
		if v := em.g.Target(e); fr.attachments[v.Index()] {
			start = v
			break
		}
	}
	type visit struct {
		via  graph.AdjID // dart taken to reach the node, directed forward
		prev graph.NodeID
	}
	pred := map[int]visit{start.Index(): {}}
	queue := []graph.NodeID{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if em.placed[v.Index()] && v != start {
			var path []graph.AdjID
			for x := v; x != start; x = pred[x.Index()].prev {
				path = append([]graph.AdjID{pred[x.Index()].via}, path...)
			}
			return path
		}
		for _, a := range em.g.AdjList(v) {
			if !fr.edges[em.g.AdjEdge(a).Index()] {
				continue
			}
			w := em.g.TwinNode(a)
			if _, seen := pred[w.Index()]; seen {
				continue
			}
			pred[w.Index()] = visit{via: a, prev: v}
			queue = append(queue, w)
		}
	}
	panic("decomp: fragment with fewer than two attachments")
}

// drawPath embeds the path into face f, splicing its end darts into the
// rotations of the two attachment vertices between the face's boundary darts
// and giving interior vertices their forced two-element rotation.
func (em *embedder) drawPath(path []graph.AdjID, f *face) {
	first := path[0]
	last := path[len(path)-1]
	v0 := em.g.AdjNode(first).Index()
	vk := em.g.TwinNode(last).Index()

	em.spliceIntoFace(first, v0, f)
	em.spliceIntoFace(em.g.Twin(last), vk, f)

	for i := 0; i < len(path)-1; i++ {
		mid := em.g.TwinNode(path[i]).Index()
		em.rot[mid] = []graph.AdjID{em.g.Twin(path[i]), path[i+1]}
		em.placed[mid] = true
	}
	for _, a := range path {
		em.embedded[em.g.AdjEdge(a).Index()] = true
		em.left--
	}
}

// spliceIntoFace inserts dart a into the rotation of node slot v immediately
// before the face's outgoing boundary dart at v, so that the new edge lies
// inside f.
func (em *embedder) spliceIntoFace(a graph.AdjID, v int, f *face) {
	var ref graph.AdjID
	for _, d := range f.darts {
		if em.g.AdjNode(d).Index() == v {
			ref = d
			break
		}
	}
	order := em.rot[v]
	for i, d := range order {
		if d == ref {
			order = append(order[:i:i], append([]graph.AdjID{a}, order[i:]...)...)
			em.rot[v] = order
			return
		}
	}
	panic("decomp: face boundary dart missing from rotation")
}
