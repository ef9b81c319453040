package syncplan

import (
	"container/heap"

	"github.com/matzehuels/planarkit/pkg/graph"
)

// Pipe is a matched pair of gray nodes whose rotations must mirror each
// other in any valid embedding. A and B carry the same number of incident
// edges at all times.
type Pipe struct {
	A, B graph.NodeID

	degree int
	serial int // insertion order, tie-break for deterministic processing
	pos    int // index in the heap, -1 when removed
}

// Degree returns the number of edge pairs synchronized by the pipe.
func (p *Pipe) Degree() int { return p.degree }

// AdjPair is one entry of a pipe's incident-edge bijection.
type AdjPair struct {
	A, B graph.AdjID
}

// PMatching tracks the pipes of an instance and hands them out smallest
// degree first.
type PMatching struct {
	g      *graph.Graph
	byNode map[int]*Pipe
	heap   pipeHeap
	serial int
}

// NewPMatching creates an empty matching over g.
func NewPMatching(g *graph.Graph) *PMatching {
	return &PMatching{g: g, byNode: make(map[int]*Pipe)}
}

// MatchNodes pairs a and b into a pipe. Both nodes must be unmatched and of
// equal degree.
func (m *PMatching) MatchNodes(a, b graph.NodeID) *Pipe {
	assertf(!m.IsMatched(a) && !m.IsMatched(b), "node already matched")
	assertf(m.g.Degree(a) == m.g.Degree(b), "pipe degrees differ")
	p := &Pipe{A: a, B: b, degree: m.g.Degree(a), serial: m.serial, pos: -1}
	m.serial++
	m.byNode[a.Index()] = p
	m.byNode[b.Index()] = p
	heap.Push(&m.heap, p)
	return p
}

// RemoveMatching deregisters p. Its gray nodes become ordinary nodes.
func (m *PMatching) RemoveMatching(p *Pipe) {
	delete(m.byNode, p.A.Index())
	delete(m.byNode, p.B.Index())
	if p.pos >= 0 {
		heap.Remove(&m.heap, p.pos)
	}
}

// IsMatched reports whether n is an endpoint of a live pipe.
func (m *PMatching) IsMatched(n graph.NodeID) bool {
	_, ok := m.byNode[n.Index()]
	return ok
}

// Twin returns the pipe partner of n.
func (m *PMatching) Twin(n graph.NodeID) (graph.NodeID, bool) {
	p, ok := m.byNode[n.Index()]
	if !ok {
		return graph.NilNode, false
	}
	if p.A == n {
		return p.B, true
	}
	return p.A, true
}

// PipeOf returns the pipe n belongs to, or nil.
func (m *PMatching) PipeOf(n graph.NodeID) *Pipe { return m.byNode[n.Index()] }

// Len returns the number of live pipes.
func (m *PMatching) Len() int { return m.heap.Len() }

// NextPipe returns the live pipe with the smallest degree without removing
// it, or nil when no pipes remain.
func (m *PMatching) NextPipe() *Pipe {
	if m.heap.Len() == 0 {
		return nil
	}
	return m.heap[0]
}

// Pipes returns the live pipes in heap order (not sorted).
func (m *PMatching) Pipes() []*Pipe {
	return append([]*Pipe(nil), m.heap...)
}

// RebuildHeap refreshes every pipe's recorded degree and restores the heap
// order. Call it after graph mutations that change degrees of matched nodes.
func (m *PMatching) RebuildHeap() {
	for _, p := range m.heap {
		assertf(m.g.Degree(p.A) == m.g.Degree(p.B), "pipe degrees diverged")
		p.degree = m.g.Degree(p.A)
	}
	heap.Init(&m.heap)
}

// IncidentEdgeBijection pairs the incident adjacency entries of the pipe's
// endpoints: position i of A's rotation with position degree-1-i of B's.
// Construction keeps the two rotations mirrored, so paired entries are the
// two halves of one conceptual edge.
func (m *PMatching) IncidentEdgeBijection(p *Pipe) []AdjPair {
	as := m.g.AdjList(p.A)
	bs := m.g.AdjList(p.B)
	assertf(len(as) == len(bs), "pipe degrees diverged")
	pairs := make([]AdjPair, len(as))
	for i, a := range as {
		pairs[i] = AdjPair{A: a, B: bs[len(bs)-1-i]}
	}
	return pairs
}

// pipeHeap orders pipes by ascending degree, insertion order on ties.
type pipeHeap []*Pipe

func (h pipeHeap) Len() int { return len(h) }

func (h pipeHeap) Less(i, j int) bool {
	if h[i].degree != h[j].degree {
		return h[i].degree < h[j].degree
	}
	return h[i].serial < h[j].serial
}

func (h pipeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].pos = i
	h[j].pos = j
}

func (h *pipeHeap) Push(x any) {
	p := x.(*Pipe)
	p.pos = len(*h)
	*h = append(*h, p)
}

func (h *pipeHeap) Pop() any {
	old := *h
	p := old[len(old)-1]
	p.pos = -1
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return p
}
