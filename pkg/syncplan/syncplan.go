package syncplan

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/planarkit/pkg/graph"
)

// assertf panics when cond is false. Violations indicate a broken engine
// invariant or a malformed input contract, never a non-planar instance.
func assertf(cond bool, msg string) {
	if !cond {
		panic("syncplan: " + msg)
	}
}

// Options configures a SyncPlan run.
type Options struct {
	// Logger receives progress at debug level. Defaults to a discarding
	// logger.
	Logger *log.Logger

	// RecordAugmentation collects, during the replay in SolveReduced, the
	// pairs of boundary adjacency entries between which an edge would have to
	// be inserted to make each cluster's boundary span a single biconnected
	// component.
	RecordAugmentation bool
}

// Stats describes the work a run performed.
type Stats struct {
	Clusters       int `json:"clusters"`
	Pipes          int `json:"pipes"`
	PipesProcessed int `json:"pipes_processed"`
	TreesBuilt     int `json:"trees_built"`
	MaxPipeDegree  int `json:"max_pipe_degree"`
	UndoDepth      int `json:"undo_depth"`
}

// SyncPlan reduces a clustered graph to a synchronized-planarity instance
// and decides cluster-planarity. The graph and cluster graph are mutated
// destructively; a successful SolveReduced restores them, carrying the
// computed embedding, and Embed finalizes the run.
//
// The calls form a strict sequence: New, MakeReduced, SolveReduced, Embed.
// After a false return from either boolean step, Rollback restores the
// original structure and cluster membership without an embedding.
type SyncPlan struct {
	G  *graph.Graph
	CG *graph.ClusterGraph

	Matchings  *PMatching
	Components *Partition

	undo  []UndoOperation
	log   *log.Logger
	stats Stats

	recordAug    bool
	augmentation []AdjPair

	reduced bool
	solved  bool
}

// New flattens the clustered graph into a pipe instance: every non-root
// cluster, children before parents, is dissolved into a matched gray node
// pair carrying the cluster's perimeter edges. Afterwards all nodes live in
// the root cluster and the cluster tree is dormant until Embed.
func New(g *graph.Graph, cg *graph.ClusterGraph, opts Options) *SyncPlan {
	assertf(cg.Graph() == g, "cluster graph overlays a different graph")
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	sp := &SyncPlan{
		G:          g,
		CG:         cg,
		Matchings:  NewPMatching(g),
		Components: NewPartition(),
		log:        logger,
		recordAug:  opts.RecordAugmentation,
	}

	order := cg.PostOrder()
	sp.stats.Clusters = len(order)

	// Freeze the original membership before any gray nodes exist. The list
	// is kept root first so the undo replays parents before children.
	op := &undoInitCluster{}
	for i := len(order) - 1; i >= 0; i-- {
		c := order[i]
		op.clusters = append(op.clusters, frozenCluster{
			cluster: c,
			parent:  cg.Parent(c),
			nodes:   cg.Nodes(c),
		})
	}
	byCluster := make(map[graph.ClusterID]*frozenCluster, len(op.clusters))
	for i := range op.clusters {
		byCluster[op.clusters[i].cluster] = &op.clusters[i]
	}

	for _, c := range order {
		if c == cg.Root() {
			continue
		}
		parent := cg.Parent(c)
		cn := g.NewNode()
		pn := g.NewNode()
		cg.ReassignNode(cn, c)
		cg.ReassignNode(pn, parent)
		byCluster[c].clusterNode = cn

		count := 0
		for _, n := range cg.Nodes(c) {
			if n == cn {
				continue
			}
			var crossing []graph.AdjID
			for _, a := range g.AdjList(n) {
				if cg.ClusterOf(g.TwinNode(a)) != c {
					crossing = append(crossing, a)
				}
			}
			for _, a := range crossing {
				g.SplitEdge(g.Twin(a), pn, cn)
			}
			count += len(crossing)
		}
		if count > 0 {
			// Mirror the rotations so position i at cn pairs with position
			// degree-1-i at pn.
			g.ReverseAdj(pn)
		}
		sp.Matchings.MatchNodes(cn, pn)
		sp.log.Debug("rerouted cluster perimeter",
			"cluster", c.String(), "edges", count)
	}

	for _, c := range order {
		if c == cg.Root() {
			continue
		}
		for _, n := range cg.Nodes(c) {
			cg.ReassignNode(n, cg.Root())
		}
	}

	for _, e := range g.Edges() {
		sp.Components.Union(g.Source(e), g.Target(e))
	}
	sp.Matchings.RebuildHeap()
	sp.stats.Pipes = sp.Matchings.Len()
	sp.pushUndo(op)
	return sp
}

// Stats returns run statistics collected so far.
func (sp *SyncPlan) Stats() Stats {
	s := sp.stats
	s.UndoDepth = len(sp.undo)
	return s
}

// Augmentation returns the boundary adjacency pairs recorded during the
// replay. Empty unless Options.RecordAugmentation was set.
func (sp *SyncPlan) Augmentation() []AdjPair {
	return append([]AdjPair(nil), sp.augmentation...)
}
