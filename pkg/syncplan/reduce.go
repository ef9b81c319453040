package syncplan

import (
	"fmt"

	"github.com/matzehuels/planarkit/pkg/decomp"
	"github.com/matzehuels/planarkit/pkg/graph"
)

// MakeReduced resolves all pipes, largest degree last. For every pipe the
// admissible rotations of both endpoints are computed as embedding trees and
// intersected through the pipe's bijection; an empty intersection proves the
// instance infeasible. Compatible pipes are contracted by joining their
// matched edge pairs.
//
// Returns false when the instance is not cluster-planar. The graph is left
// partially reduced in that case; Rollback restores the original structure.
func (sp *SyncPlan) MakeReduced() bool {
	assertf(!sp.reduced, "MakeReduced called twice")
	for sp.Matchings.Len() > 0 {
		p := sp.Matchings.NextPipe()
		sp.stats.PipesProcessed++
		if p.Degree() > sp.stats.MaxPipeDegree {
			sp.stats.MaxPipeDegree = p.Degree()
		}
		sp.log.Debug("processing pipe",
			"a", p.A.String(), "b", p.B.String(),
			"degree", p.Degree(), "remaining", sp.Matchings.Len())

		// Nodes of degree at most three impose no rotation constraint.
		if p.Degree() >= 4 && !sp.checkPipe(p) {
			sp.log.Debug("pipe rotation constraints contradict", "a", p.A.String())
			return false
		}
		sameSide := sp.Components.Same(p.A, p.B)
		sp.joinPipe(p)
		if sameSide && p.Degree() >= 4 {
			// Contracting within one component can close a non-planar cycle
			// the per-endpoint trees cannot see.
			if !decomp.IsPlanar(sp.G) {
				sp.log.Debug("contraction lost planarity", "a", p.A.String())
				return false
			}
		}
	}
	sp.reduced = true
	return true
}

// checkPipe intersects the embedding trees of both pipe endpoints. B's tree
// is re-targeted onto A through the pipe bijection so both trees range over
// one set of adjacency entries; B's restrictions then apply to A's tree
// directly.
func (sp *SyncPlan) checkPipe(p *Pipe) bool {
	blocks := decomp.BiconnectedComponents(sp.G)
	ta, ok := NewEmbeddingTree(sp.G, p.A, blocks)
	if !ok {
		return false
	}
	tb, ok := NewEmbeddingTree(sp.G, p.B, blocks)
	if !ok {
		return false
	}
	sp.stats.TreesBuilt += 2

	tb.MapPartnerEdges(p.A, sp.Matchings.IncidentEdgeBijection(p))
	leafAt := make(map[graph.AdjID]int, ta.Degree())
	for i := 0; i < ta.Degree(); i++ {
		leafAt[ta.LeafAdj(i)] = i
	}
	for _, r := range tb.Tree.Restrictions() {
		mapped := make([]int, len(r))
		for i, j := range r {
			mapped[i] = leafAt[tb.LeafAdj(j)]
		}
		if !ta.Tree.Apply(mapped) {
			return false
		}
	}
	return true
}

// joinedPair records one edge merge so it can be undone exactly: edge is the
// surviving edge, far its endpoint on the first pipe node's side, victim the
// retired edge handle on the other side.
type joinedPair struct {
	edge   graph.EdgeID
	far    graph.NodeID
	victim graph.EdgeID
}

// undoJoin reverses the contraction of one pipe: it re-materializes both
// endpoints, re-splits every merged edge, restores the matching, and rolls
// the component partition back to its state before the join.
type undoJoin struct {
	a, b  graph.NodeID
	pairs []joinedPair
	mark  int // partition journal position before the join's union
}

// joinPipe contracts p by joining its matched edge pairs, removes the pipe
// and both nodes, and pushes the inverse operation.
func (sp *SyncPlan) joinPipe(p *Pipe) {
	bij := sp.Matchings.IncidentEdgeBijection(p)
	sp.Matchings.RemoveMatching(p)
	op := &undoJoin{a: p.A, b: p.B, pairs: make([]joinedPair, 0, len(bij))}
	for _, pair := range bij {
		far := sp.G.TwinNode(pair.A)
		victim := sp.G.AdjEdge(pair.B)
		e := sp.G.JoinEdge(pair.A, pair.B)
		op.pairs = append(op.pairs, joinedPair{edge: e, far: far, victim: victim})
	}
	op.mark = sp.Components.Mark()
	sp.Components.Union(p.A, p.B)
	sp.CG.ForgetNode(p.A)
	sp.CG.ForgetNode(p.B)
	sp.G.DelNode(p.A)
	sp.G.DelNode(p.B)
	sp.pushUndo(op)
}

func (u *undoJoin) String() string {
	return fmt.Sprintf("undo join of pipe (%s,%s) degree %d", u.a, u.b, len(u.pairs))
}

// Undo re-splits the merged edges back onto the restored pipe nodes. The
// split order follows the cyclic order the merged edges occupy around the
// first node's side in the current embedding, so the restored rotations
// extend it planarly; the recorded order serves as fallback when the graph
// carries no embedding.
func (u *undoJoin) Undo(sp *SyncPlan) {
	g := sp.G
	g.RestoreNode(u.a)
	g.RestoreNode(u.b)
	sp.CG.ReassignNode(u.a, sp.CG.Root())
	sp.CG.ReassignNode(u.b, sp.CG.Root())

	order := strandOrder(g, u.pairs)
	for _, k := range order {
		pr := u.pairs[k]
		g.SplitEdgeAs(g.AdjAt(pr.edge, pr.far), u.a, u.b, pr.victim)
	}
	if len(u.pairs) > 0 {
		g.ReverseAdj(u.b)
	}
	// The face walk fixes the cyclic order only up to reflection. Reversing
	// both rotations keeps them mirrored, so try the other orientation when
	// the first breaks the embedding. When neither orientation restores
	// planarity the rotation stays broken and the final verification in
	// SolveReduced rejects the run.
	if !g.EulerOK() {
		g.ReverseAdj(u.a)
		g.ReverseAdj(u.b)
		if !g.EulerOK() {
			g.ReverseAdj(u.a)
			g.ReverseAdj(u.b)
			sp.log.Debug("pipe re-split broke the embedding",
				"a", u.a.String(), "b", u.b.String())
		}
	}
	sp.Components.Rollback(u.mark)
	sp.Matchings.MatchNodes(u.a, u.b)
}

// strandOrder derives the order in which the merged edges of an undone pipe
// sit around the first node's side of the cut, by walking face successors
// from strand to strand the way a cluster boundary is traced. Falls back to
// recorded order when the walk degenerates (detached strands or no
// embedding).
func strandOrder(g *graph.Graph, pairs []joinedPair) []int {
	order := make([]int, len(pairs))
	for i := range order {
		order[i] = i
	}
	if len(pairs) <= 2 {
		return order
	}
	at := make(map[graph.AdjID]int, len(pairs))
	for k, pr := range pairs {
		at[g.AdjAt(pr.edge, pr.far)] = k
	}
	seen := make([]bool, len(pairs))
	walked := make([]int, 1, len(pairs))
	d := g.AdjAt(pairs[0].edge, pairs[0].far)
	seen[0] = true
	limit := 2*g.AdjSlots() + 4
	for steps := 0; len(walked) < len(pairs); {
		d = g.NextAdj(g.Twin(d))
		if steps++; steps > limit {
			return order
		}
		if k, ok := at[g.Twin(d)]; ok {
			if seen[k] {
				// Wrapped around without collecting every strand; the sides
				// are not bundled in this embedding.
				return order
			}
			seen[k] = true
			walked = append(walked, k)
			d = g.Twin(d)
		}
	}
	return walked
}
