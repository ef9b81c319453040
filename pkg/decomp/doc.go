// Package decomp provides graph decompositions and planarity machinery:
// biconnected components (blocks), a planar embedder, and a static
// SPQR-tree over biconnected graphs.
//
// These utilities back the cluster-planarity engine in package syncplan:
// blocks bound the scope of each pipe reduction, the SPQR-tree enumerates
// the admissible rotations of a node compactly, and the embedder fixes the
// rotation of triconnected skeletons and of the final reduced graph.
package decomp
