// Package syncplan decides cluster-planarity and produces cluster-planar
// embeddings.
//
// The engine flattens a clustered graph into a synchronized-planarity
// instance: every non-root cluster boundary is replaced by a pair of matched
// gray nodes (a "pipe") that carry the cluster's perimeter edges, with a
// bijection between their incident edges and the invariant that both ends of
// a pipe must be embedded with mirrored rotations. Reduction then eliminates
// pipes one by one, consulting PC-trees built over the SPQR decomposition of
// each endpoint's surroundings to reject infeasible rotation constraints
// early. Once reduced, the flattened graph is planarity-tested and embedded,
// and the undo log is replayed in LIFO order to rebuild the clustered graph
// together with its boundary rotation lists. The rebuilt embedding is checked
// for cluster contiguity before the instance is reported solvable.
package syncplan
