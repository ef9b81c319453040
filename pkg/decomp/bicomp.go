package decomp

import (
	"github.com/matzehuels/planarkit/pkg/graph"
)

// Blocks is the biconnected-component decomposition of a graph. Every edge
// belongs to exactly one block; a bridge forms a block of its own. Cut
// vertices are the nodes shared by two or more blocks.
type Blocks struct {
	// BlockEdges lists the edges of each block.
	BlockEdges [][]graph.EdgeID

	// EdgeBlock maps an edge slot index to the id of its block.
	EdgeBlock map[int]int

	// Cut reports, keyed by node slot index, whether a node is a cut vertex.
	Cut map[int]bool

	// NodeBlocks maps a node slot index to the ids of the blocks it appears
	// in, in discovery order. Non-cut vertices appear in at most one block;
	// isolated nodes appear in none.
	NodeBlocks map[int][]int
}

// NumBlocks returns the number of biconnected components.
func (b *Blocks) NumBlocks() int { return len(b.BlockEdges) }

// SameBlock reports whether two edges lie in the same biconnected component.
func (b *Blocks) SameBlock(e1, e2 graph.EdgeID) bool {
	return b.EdgeBlock[e1.Index()] == b.EdgeBlock[e2.Index()]
}

type dfsFrame struct {
	node      graph.NodeID
	parentAdj graph.AdjID // adjacency entry at node leading back to the parent
	adjs      []graph.AdjID
	next      int
}

// BiconnectedComponents computes the blocks and cut vertices of g using an
// iterative depth-first search with an edge stack (Hopcroft–Tarjan).
func BiconnectedComponents(g *graph.Graph) *Blocks {
	b := &Blocks{
		EdgeBlock:  make(map[int]int),
		Cut:        make(map[int]bool),
		NodeBlocks: make(map[int][]int),
	}

	disc := make(map[int]int) // node slot -> discovery index, 0 = unvisited
	low := make(map[int]int)
	time := 0

	var edgeStack []graph.EdgeID

	popBlock := func(until graph.EdgeID) {
		id := len(b.BlockEdges)
		var comp []graph.EdgeID
		seen := make(map[int]bool)
		for {
			e := edgeStack[len(edgeStack)-1]
			edgeStack = edgeStack[:len(edgeStack)-1]
			comp = append(comp, e)
			b.EdgeBlock[e.Index()] = id
			for _, n := range []graph.NodeID{g.Source(e), g.Target(e)} {
				if !seen[n.Index()] {
					seen[n.Index()] = true
					b.NodeBlocks[n.Index()] = append(b.NodeBlocks[n.Index()], id)
				}
			}
			if e == until {
				break
			}
		}
		b.BlockEdges = append(b.BlockEdges, comp)
	}

	for _, root := range g.Nodes() {
		if disc[root.Index()] != 0 {
			continue
		}
		time++
		disc[root.Index()] = time
		low[root.Index()] = time
		stack := []dfsFrame{{node: root, adjs: g.AdjList(root)}}
		rootChildren := 0

		for len(stack) > 0 {
			fr := &stack[len(stack)-1]
			if fr.next < len(fr.adjs) {
				a := fr.adjs[fr.next]
				fr.next++
				if a == fr.parentAdj {
					continue // skip the tree edge back to the parent once
				}
				w := g.TwinNode(a)
				e := g.AdjEdge(a)
				if disc[w.Index()] == 0 {
					edgeStack = append(edgeStack, e)
					time++
					disc[w.Index()] = time
					low[w.Index()] = time
					if fr.node == root {
						rootChildren++
					}
					stack = append(stack, dfsFrame{
						node:      w,
						parentAdj: g.Twin(a),
						adjs:      g.AdjList(w),
					})
				} else if disc[w.Index()] < disc[fr.node.Index()] {
					// Back edge (or parallel edge to an ancestor).
					edgeStack = append(edgeStack, e)
					if disc[w.Index()] < low[fr.node.Index()] {
						low[fr.node.Index()] = disc[w.Index()]
					}
				}
				continue
			}

			// Frame exhausted: fold low into the parent and close blocks.
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				break
			}
			parent := &stack[len(stack)-1]
			v, w := parent.node, fr.node
			if low[w.Index()] < low[v.Index()] {
				low[v.Index()] = low[w.Index()]
			}
			if low[w.Index()] >= disc[v.Index()] {
				if v != root || rootChildren > 1 {
					b.Cut[v.Index()] = true
				}
				popBlock(g.AdjEdge(fr.parentAdj))
			}
		}
	}
	return b
}
