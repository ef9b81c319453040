// Package graph provides the mutable graph model underlying all planarkit
// algorithms: an arena-allocated multigraph with stable integer handles,
// twin-paired adjacency entries, and an optional cluster hierarchy overlay.
//
// # Handles
//
// Nodes, edges and adjacency entries are referenced through small value
// handles ([NodeID], [EdgeID], [AdjID]) rather than pointers. Handles carry
// a generation counter: deleting an element and reusing its arena slot
// invalidates all outstanding handles to it, and Valid* methods detect the
// staleness. This keeps cross-references (cluster→node, pipe→node) safe
// across heavy structural rewriting.
//
// # Adjacency entries
//
// Every edge owns exactly two adjacency entries, one per endpoint, linked as
// twins. The adjacency entries of a node form a circular doubly linked list
// whose order is the node's rotation; a rotation system for every node
// defines a combinatorial embedding (see Faces and EulerOK).
//
// # Clusters
//
// A [ClusterGraph] overlays a rooted tree of clusters on a graph's node set.
// Every node belongs to exactly one cluster; the root cluster transitively
// contains all nodes. Cluster boundaries (the cyclic list of
// perimeter-crossing adjacency entries) are populated by the embedding
// algorithms in package syncplan.
//
// Graph and ClusterGraph are not safe for concurrent use.
package graph
