package syncplan

import (
	"github.com/matzehuels/planarkit/pkg/graph"
)

// Partition is an undoable union-find over node slots. The engine uses it to
// track which sides of the instance are already connected: a pipe whose two
// endpoints share a set needs extra care when it is contracted, since the
// contraction can no longer be absorbed by re-embedding a free component.
//
// Find performs no path compression; keeping parent links immutable outside
// Union is what makes the journal rollback exact.
type Partition struct {
	parent  map[int]int
	rank    map[int]int
	journal []unionRecord
}

type unionRecord struct {
	child  int // root that was attached below the winner
	winner int
	ranked bool // whether the winner's rank was bumped
}

// NewPartition creates an empty partition.
func NewPartition() *Partition {
	return &Partition{parent: make(map[int]int), rank: make(map[int]int)}
}

// MakeSet registers n as a singleton if it is not yet known.
func (p *Partition) MakeSet(n graph.NodeID) {
	if _, ok := p.parent[n.Index()]; !ok {
		p.parent[n.Index()] = n.Index()
	}
}

// Find returns the representative of n's set.
func (p *Partition) Find(n graph.NodeID) int {
	p.MakeSet(n)
	x := n.Index()
	for p.parent[x] != x {
		x = p.parent[x]
	}
	return x
}

// Same reports whether a and b are in one set.
func (p *Partition) Same(a, b graph.NodeID) bool { return p.Find(a) == p.Find(b) }

// Union merges the sets of a and b by rank and journals the change.
// Merging a set with itself is a no-op and is not journaled.
func (p *Partition) Union(a, b graph.NodeID) {
	ra, rb := p.Find(a), p.Find(b)
	if ra == rb {
		return
	}
	if p.rank[ra] < p.rank[rb] {
		ra, rb = rb, ra
	}
	rec := unionRecord{child: rb, winner: ra}
	p.parent[rb] = ra
	if p.rank[ra] == p.rank[rb] {
		p.rank[ra]++
		rec.ranked = true
	}
	p.journal = append(p.journal, rec)
}

// Mark returns a token for the current journal position.
func (p *Partition) Mark() int { return len(p.journal) }

// Rollback undoes every union recorded after mark, most recent first.
func (p *Partition) Rollback(mark int) {
	for i := len(p.journal) - 1; i >= mark; i-- {
		rec := p.journal[i]
		p.parent[rec.child] = rec.child
		if rec.ranked {
			p.rank[rec.winner]--
		}
	}
	p.journal = p.journal[:mark]
}
