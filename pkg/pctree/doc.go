// Package pctree implements PC-trees: a compact representation of families
// of circular orderings under consecutivity constraints.
//
// A PC-tree over n elements encodes the set of circular orders of
// [0..n-1] in which every applied restriction (a subset that must appear
// consecutively) is satisfied. It is the circular generalization of the
// PQ-tree: P-nodes allow free permutation of their children, C-nodes fix
// the cyclic order of their children up to reflection.
//
// PC-trees drive the planarity reductions in package syncplan: the
// admissible rotations of a graph node form a PC-tree, and constraining two
// matched rotation systems against each other is PC-tree intersection.
//
// Trees are not safe for concurrent use.
package pctree
