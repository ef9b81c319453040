package graph

// Face traversal convention: the successor of a directed adjacency entry a
// along its face is NextAdj(Twin(a)). Every adjacency entry lies on exactly
// one face orbit. Each connected component carries its own outer orbit, so a
// planar rotation system satisfies n - m + f = 2c.

// Faces returns the face orbits of the current rotation system, each as a
// cyclic list of adjacency entries.
func (g *Graph) Faces() [][]AdjID {
	visited := make(map[AdjID]bool, 2*g.numEdges)
	var faces [][]AdjID
	for i := range g.adjs {
		if !g.adjs[i].live {
			continue
		}
		start := AdjID{idx: int32(i), gen: g.adjs[i].gen}
		if visited[start] {
			continue
		}
		var face []AdjID
		a := start
		for {
			visited[a] = true
			face = append(face, a)
			a = g.NextAdj(g.Twin(a))
			if a == start {
				break
			}
		}
		faces = append(faces, face)
	}
	return faces
}

// NumFaces returns the number of face orbits.
func (g *Graph) NumFaces() int { return len(g.Faces()) }

// NumComponents returns the number of connected components among live nodes.
func (g *Graph) NumComponents() int {
	seen := make(map[NodeID]bool, g.numNodes)
	count := 0
	for _, start := range g.Nodes() {
		if seen[start] {
			continue
		}
		count++
		stack := []NodeID{start}
		seen[start] = true
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, a := range g.AdjList(n) {
				t := g.TwinNode(a)
				if !seen[t] {
					seen[t] = true
					stack = append(stack, t)
				}
			}
		}
	}
	return count
}

// EulerOK reports whether the rotation system describes a planar embedding,
// using Euler's formula n - m + f = 2c with per-component outer faces.
// Face orbits are traced through adjacency entries, so an isolated node's
// single face is not produced by Faces and is counted separately.
func (g *Graph) EulerOK() bool {
	if g.numNodes == 0 {
		return true
	}
	isolated := 0
	for _, n := range g.Nodes() {
		if g.Degree(n) == 0 {
			isolated++
		}
	}
	return g.numNodes-g.numEdges+g.NumFaces()+isolated == 2*g.NumComponents()
}

// NextBoundaryAdj returns the boundary entry of c that a closed curve around
// c's inside subgraph crosses after boundary entry a (an entry at a node
// inside c whose twin lies outside). The curve passes through the face
// corners at inside nodes: starting from a's rotation successor, the walk
// follows face successors while the current entry leads back inside c and
// stops at the first entry leading out. Returns the nil handle if the walk
// does not close, which indicates a broken rotation system.
func (cg *ClusterGraph) NextBoundaryAdj(c ClusterID, a AdjID) AdjID {
	g := cg.g
	limit := 2 * len(g.adjs)
	d := g.NextAdj(a)
	for i := 0; i < limit; i++ {
		if !cg.Inside(g.TwinNode(d), c) {
			return d
		}
		d = g.NextAdj(g.Twin(d))
	}
	return NilAdj
}

// RepresentsCombEmbedding reports whether the rotation system is planar and
// every cluster's recorded boundary is a single contiguous cycle: walking
// the face outside cluster c from one boundary entry reaches exactly the
// next recorded boundary entry. Clusters without perimeter edges are
// trivially contiguous.
func (cg *ClusterGraph) RepresentsCombEmbedding() bool {
	if !cg.g.EulerOK() {
		return false
	}
	for _, c := range cg.Clusters() {
		if c == cg.root {
			continue
		}
		boundary := cg.slot(c).boundary
		if len(boundary) <= 1 {
			continue
		}
		if cg.boundaryContiguous(c, boundary) {
			continue
		}
		reversed := make([]AdjID, len(boundary))
		for i, a := range boundary {
			reversed[len(boundary)-1-i] = a
		}
		if !cg.boundaryContiguous(c, reversed) {
			return false
		}
	}
	return true
}

func (cg *ClusterGraph) boundaryContiguous(c ClusterID, boundary []AdjID) bool {
	for i, a := range boundary {
		if !cg.g.ValidAdj(a) {
			return false
		}
		next := cg.NextBoundaryAdj(c, a)
		if next != boundary[(i+1)%len(boundary)] {
			return false
		}
	}
	return true
}
