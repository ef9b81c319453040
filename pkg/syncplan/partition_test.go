package syncplan

import (
	"testing"

	"github.com/matzehuels/planarkit/pkg/graph"
)

func someNodes(n int) []graph.NodeID {
	g := graph.New()
	out := make([]graph.NodeID, n)
	for i := range out {
		out[i] = g.NewNode()
	}
	return out
}

func TestPartition_UnionAndSame(t *testing.T) {
	ns := someNodes(5)
	p := NewPartition()

	if p.Same(ns[0], ns[1]) {
		t.Fatal("fresh nodes share a set")
	}
	p.Union(ns[0], ns[1])
	p.Union(ns[2], ns[3])
	if !p.Same(ns[0], ns[1]) || !p.Same(ns[2], ns[3]) {
		t.Error("union did not merge")
	}
	if p.Same(ns[1], ns[2]) {
		t.Error("disjoint sets reported equal")
	}
	p.Union(ns[1], ns[3])
	if !p.Same(ns[0], ns[2]) {
		t.Error("transitive merge lost")
	}
	if p.Same(ns[0], ns[4]) {
		t.Error("untouched node absorbed")
	}
}

func TestPartition_SelfUnionNotJournaled(t *testing.T) {
	ns := someNodes(2)
	p := NewPartition()
	p.Union(ns[0], ns[1])
	mark := p.Mark()
	p.Union(ns[0], ns[1])
	if p.Mark() != mark {
		t.Errorf("redundant union journaled: mark %d != %d", p.Mark(), mark)
	}
}

func TestPartition_Rollback(t *testing.T) {
	ns := someNodes(6)
	p := NewPartition()
	p.Union(ns[0], ns[1])
	mark := p.Mark()

	p.Union(ns[2], ns[3])
	p.Union(ns[0], ns[2])
	p.Union(ns[4], ns[5])
	if !p.Same(ns[1], ns[3]) || !p.Same(ns[4], ns[5]) {
		t.Fatal("setup unions missing")
	}

	p.Rollback(mark)
	if !p.Same(ns[0], ns[1]) {
		t.Error("rollback destroyed a union made before the mark")
	}
	for _, pair := range [][2]int{{2, 3}, {0, 2}, {4, 5}} {
		if p.Same(ns[pair[0]], ns[pair[1]]) {
			t.Errorf("rollback kept union of n%d,n%d", pair[0], pair[1])
		}
	}
	if p.Mark() != mark {
		t.Errorf("journal not truncated: %d != %d", p.Mark(), mark)
	}

	// The partition must stay usable after rolling back.
	p.Union(ns[2], ns[4])
	if !p.Same(ns[2], ns[4]) {
		t.Error("union after rollback lost")
	}
}
