package syncplan

import (
	"github.com/matzehuels/planarkit/pkg/decomp"
	"github.com/matzehuels/planarkit/pkg/graph"
	"github.com/matzehuels/planarkit/pkg/pctree"
)

// EmbeddingTree is a PC-tree over the adjacency entries of a single node,
// constrained so that its rotations are exactly the cyclic orders the node
// can assume in some planar embedding of its graph. Leaf i corresponds to
// position i of the node's rotation at construction time.
//
// Three families of restrictions are applied: entries belonging to the same
// biconnected component must be consecutive; within a component, the entries
// routed through each split component of an SPQR skeleton must be
// consecutive; and around a rigid (R) skeleton the split components must
// additionally follow the skeleton's unique embedding, which pins the cyclic
// order of their groups up to reflection.
type EmbeddingTree struct {
	Node graph.NodeID
	Tree *pctree.Tree

	adjs []graph.AdjID
}

// NewEmbeddingTree builds the embedding tree of v. blocks must describe the
// biconnected components of v's graph. Returns false when v's component
// admits no planar embedding at all.
func NewEmbeddingTree(g *graph.Graph, v graph.NodeID, blocks *decomp.Blocks) (*EmbeddingTree, bool) {
	adjs := g.AdjList(v)
	et := &EmbeddingTree{
		Node: v,
		Tree: pctree.New(len(adjs)),
		adjs: adjs,
	}
	deg := len(adjs)
	if deg <= 2 {
		return et, true
	}

	leafOf := make(map[int]int, deg)
	byBlock := make(map[int][]int)
	for i, a := range adjs {
		e := g.AdjEdge(a)
		leafOf[e.Index()] = i
		bid := blocks.EdgeBlock[e.Index()]
		byBlock[bid] = append(byBlock[bid], i)
	}

	for bid, leaves := range byBlock {
		if len(leaves) >= 2 && len(leaves) < deg {
			if !et.Tree.Apply(leaves) {
				return nil, false
			}
		}
		if len(leaves) < 3 {
			// With at most two entries in the block every cyclic arrangement
			// is reachable; the skeleton adds nothing.
			continue
		}
		spqr, ok := decomp.NewSPQRTree(g, blocks.BlockEdges[bid])
		if !ok {
			return nil, false
		}
		if !et.applySkeletons(spqr, deg, leafOf) {
			return nil, false
		}
	}
	return et, true
}

// applySkeletons walks the SPQR nodes whose skeleton contains the tree's
// node and restricts the PC-tree by the split-component structure.
func (et *EmbeddingTree) applySkeletons(spqr *decomp.SPQRTree, deg int, leafOf map[int]int) bool {
	memo := make(map[*decomp.SkelEdge][]int)
	for _, sn := range spqr.NodesAt(et.Node) {
		ses := sn.EdgesAt(et.Node)
		sets := make([][]int, len(ses))
		for i, se := range ses {
			sets[i] = expandSkelEdge(se, et.Node, leafOf, memo)
			if n := len(sets[i]); n >= 2 && n < deg {
				if !et.Tree.Apply(sets[i]) {
					return false
				}
			}
		}
		if sn.Type != decomp.RNode || len(sets) < 3 {
			continue
		}
		// EdgesAt reports an R-skeleton's edges in embedding order, so
		// consecutive groups must stay neighbors around the node.
		for i := range sets {
			union := append(append([]int(nil), sets[i]...), sets[(i+1)%len(sets)]...)
			if n := len(union); n >= 2 && n < deg {
				if !et.Tree.Apply(union) {
					return false
				}
			}
		}
	}
	return true
}

// expandSkelEdge resolves a skeleton edge to the leaf indices of the real
// edges at v routed through it, following virtual edges into the neighboring
// skeletons.
func expandSkelEdge(se *decomp.SkelEdge, v graph.NodeID, leafOf map[int]int, memo map[*decomp.SkelEdge][]int) []int {
	if out, ok := memo[se]; ok {
		return out
	}
	var out []int
	if !se.Virtual() {
		if i, ok := leafOf[se.Real.Index()]; ok {
			out = []int{i}
		}
	} else {
		peer := se.Twin
		for _, next := range peer.Owner.EdgesAt(v) {
			if next == peer {
				continue
			}
			out = append(out, expandSkelEdge(next, v, leafOf, memo)...)
		}
	}
	memo[se] = out
	return out
}

// LeafAdj returns the adjacency entry behind leaf i.
func (et *EmbeddingTree) LeafAdj(i int) graph.AdjID { return et.adjs[i] }

// Degree returns the number of leaves.
func (et *EmbeddingTree) Degree() int { return len(et.adjs) }

// MapGraph re-targets the tree onto node of an isomorphic graph, rewriting
// every leaf's adjacency handle through mapAdj. The PC-tree itself is
// untouched: leaf i keeps the constraints accumulated so far and merely
// stands for a different entry afterwards.
func (et *EmbeddingTree) MapGraph(node graph.NodeID, mapAdj func(graph.AdjID) graph.AdjID) {
	et.Node = node
	for i, a := range et.adjs {
		et.adjs[i] = mapAdj(a)
	}
}

// MapPartnerEdges re-targets the tree across a pipe: each leaf's entry is
// replaced by the entry it is matched with at the pipe's partner node. The
// partner's rotation mirrors the tree's, which consecutivity does not
// distinguish, so afterwards the tree constrains the partner directly.
func (et *EmbeddingTree) MapPartnerEdges(partner graph.NodeID, bij []AdjPair) {
	matched := make(map[graph.AdjID]graph.AdjID, 2*len(bij))
	for _, pr := range bij {
		matched[pr.A] = pr.B
		matched[pr.B] = pr.A
	}
	et.MapGraph(partner, func(a graph.AdjID) graph.AdjID {
		m, ok := matched[a]
		assertf(ok, "adjacency entry missing from pipe bijection")
		return m
	})
}
