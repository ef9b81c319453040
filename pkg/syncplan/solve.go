package syncplan

import (
	"fmt"

	"github.com/matzehuels/planarkit/pkg/decomp"
	"github.com/matzehuels/planarkit/pkg/graph"
)

// SolveReduced embeds the fully reduced graph and carries the rotation system
// back through the undo log onto the original clustered graph. After
// MakeReduced no pipes remain, so the merged graph is planar-embedded
// directly; the LIFO replay then re-materializes the pipe nodes and the
// cluster tree while recording every cluster's boundary cycle.
//
// The replayed embedding is verified before reporting success: pipe
// contraction is blind to how a cluster's sides interleave around a cycle, so
// a reduced graph can be planar while no embedding keeps every cluster
// contiguous. Returns false when the reduced graph is non-planar or the
// carried embedding fails that verification; either way the graph and cluster
// tree can be restored with Rollback.
func (sp *SyncPlan) SolveReduced() bool {
	assertf(sp.reduced, "SolveReduced before MakeReduced")
	assertf(sp.Matchings.Len() == 0, "pipes remain after reduction")
	if !decomp.PlanarEmbed(sp.G) {
		return false
	}
	sp.unwind()
	if !sp.CG.RepresentsCombEmbedding() {
		sp.log.Debug("replayed embedding violates cluster contiguity")
		return false
	}
	sp.solved = true
	return true
}

// Embed finalizes a successful run. The undo log was already drained by
// SolveReduced, so the graph carries its original nodes, edges, and cluster
// tree, each cluster's boundary is recorded, and the rotation system is the
// verified cluster-planar embedding.
func (sp *SyncPlan) Embed() {
	assertf(sp.solved, "Embed before successful SolveReduced")
	assertf(len(sp.undo) == 0, "undo log not drained")
	sp.solved = false
}

// Rollback drains the undo log, restoring the original nodes, edges, and
// cluster membership after a failed MakeReduced or SolveReduced. The rotation
// system carries no embedding guarantees afterwards. A no-op once the log is
// empty.
func (sp *SyncPlan) Rollback() {
	sp.unwind()
}

func (sp *SyncPlan) unwind() {
	for len(sp.undo) > 0 {
		op := sp.undo[len(sp.undo)-1]
		sp.undo = sp.undo[:len(sp.undo)-1]
		sp.log.Debug("rolling back", "op", op.String())
		op.Undo(sp)
	}
}

// frozenCluster captures a cluster's original membership before flattening.
type frozenCluster struct {
	cluster graph.ClusterID
	parent  graph.ClusterID
	nodes   []graph.NodeID

	// clusterNode is the inner gray node of the cluster's pipe; nil for the
	// root, which gets no pipe.
	clusterNode graph.NodeID
}

// undoInitCluster restores the cluster tree: parents before children, each
// cluster's pipe is contracted back into direct perimeter edges, the
// boundary is recorded from the contraction order, and the frozen membership
// is reassigned.
type undoInitCluster struct {
	clusters []frozenCluster
}

func (u *undoInitCluster) String() string {
	return fmt.Sprintf("restore %d clusters", len(u.clusters))
}

func (u *undoInitCluster) Undo(sp *SyncPlan) {
	var blocks *decomp.Blocks
	if sp.recordAug {
		blocks = decomp.BiconnectedComponents(sp.G)
	}
	// Every contraction retires both entries of each pipe-side edge, and the
	// boundary recorded for another cluster may reference them: a parent's
	// boundary can cross a child's pipe node, a sibling's can end at the far
	// side of a shared perimeter edge. Joins record what replaced each
	// retired entry so those references are patched afterwards.
	remap := make(map[graph.AdjID]graph.AdjID)
	for i := range u.clusters {
		fc := &u.clusters[i]
		if fc.cluster != sp.CG.Root() {
			u.processCluster(sp, fc, blocks, remap)
		}
		for _, n := range fc.nodes {
			sp.CG.ReassignNode(n, fc.cluster)
		}
	}
	if len(remap) == 0 {
		return
	}
	chase := func(a graph.AdjID) (graph.AdjID, bool) {
		moved := false
		for {
			next, ok := remap[a]
			if !ok {
				return a, moved
			}
			a = next
			moved = true
		}
	}
	for i := range u.clusters {
		c := u.clusters[i].cluster
		if c == sp.CG.Root() {
			continue
		}
		boundary := sp.CG.Boundary(c)
		changed := false
		for j, a := range boundary {
			if next, moved := chase(a); moved {
				boundary[j] = next
				changed = true
			}
		}
		if changed {
			sp.CG.SetBoundary(c, boundary)
		}
	}
	for i := range sp.augmentation {
		sp.augmentation[i].A, _ = chase(sp.augmentation[i].A)
		sp.augmentation[i].B, _ = chase(sp.augmentation[i].B)
	}
}

// processCluster dissolves the cluster's pipe. Joining the matched pairs in
// bijection order yields the original perimeter edges; the inside entry of
// each joined edge, in that order, is the cluster's boundary cycle.
func (u *undoInitCluster) processCluster(sp *SyncPlan, fc *frozenCluster, blocks *decomp.Blocks, remap map[graph.AdjID]graph.AdjID) {
	g := sp.G
	cn := fc.clusterNode
	p := sp.Matchings.PipeOf(cn)
	assertf(p != nil, "cluster pipe missing at restore")

	var bij []AdjPair
	if p.A == cn {
		bij = sp.Matchings.IncidentEdgeBijection(p)
	} else {
		// Orient the bijection so the first component sits at the inner node.
		for _, pair := range sp.Matchings.IncidentEdgeBijection(p) {
			bij = append(bij, AdjPair{A: pair.B, B: pair.A})
		}
	}
	sp.Matchings.RemoveMatching(p)

	boundary := make([]graph.AdjID, 0, len(bij))
	bcur := -1
	var pred graph.AdjID
	for i, pair := range bij {
		outer := g.AdjEdge(pair.B)
		vt := g.Twin(pair.B)
		g.JoinEdge(pair.A, pair.B)
		// pair.A now sits at the outside endpoint; its twin is the entry at
		// the inside node the boundary convention wants.
		curr := g.Twin(pair.A)
		boundary = append(boundary, curr)
		// The join retires both entries of the pipe-side edge. Other clusters'
		// boundaries may hold them; record what replaced each.
		remap[pair.B] = curr
		remap[vt] = pair.A
		if blocks != nil {
			bid := blocks.EdgeBlock[outer.Index()]
			if i == 0 {
				bcur = bid
			} else if bid != bcur {
				sp.augmentation = append(sp.augmentation, AdjPair{A: pred, B: curr})
				bcur = bid
			}
		}
		pred = curr
	}
	sp.CG.ForgetNode(p.A)
	sp.CG.ForgetNode(p.B)
	g.DelNode(p.A)
	g.DelNode(p.B)
	sp.CG.SetBoundary(fc.cluster, boundary)
}
