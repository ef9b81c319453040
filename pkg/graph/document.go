package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// =============================================================================
// Clustered - Clustered Graph Serialization
// =============================================================================

// Clustered is the canonical serialization format for clustered graphs.
// Used for CLI input, API payloads, storage and caching.
//
// Node and cluster IDs are free-form strings. A node's Cluster field names
// the cluster it is directly assigned to; an empty field means the root.
// A cluster's Parent field names its parent; an empty field means the root.
type Clustered struct {
	Nodes    []NodeDoc    `json:"nodes" bson:"nodes"`
	Edges    []EdgeDoc    `json:"edges" bson:"edges"`
	Clusters []ClusterDoc `json:"clusters,omitempty" bson:"clusters,omitempty"`
}

// NodeDoc is one node of a serialized clustered graph.
type NodeDoc struct {
	ID      string `json:"id" bson:"id"`
	Cluster string `json:"cluster,omitempty" bson:"cluster,omitempty"`
}

// EdgeDoc is one undirected edge of a serialized clustered graph.
type EdgeDoc struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// ClusterDoc is one non-root cluster of a serialized clustered graph.
type ClusterDoc struct {
	ID     string `json:"id" bson:"id"`
	Parent string `json:"parent,omitempty" bson:"parent,omitempty"`
}

// Build materializes the document into a Graph plus ClusterGraph.
// Returns an error for duplicate IDs, unknown references, self-loops or a
// cluster parent chain that does not reach the root. The returned maps give
// the handle for each document ID.
func (d Clustered) Build() (*Graph, *ClusterGraph, map[string]NodeID, map[string]ClusterID, error) {
	g := New()
	cg := NewClusterGraph(g)

	clusterOf := make(map[string]ClusterID, len(d.Clusters)+1)
	// Two passes so forward parent references work.
	for _, c := range d.Clusters {
		if c.ID == "" {
			return nil, nil, nil, nil, fmt.Errorf("cluster with empty id")
		}
		if _, dup := clusterOf[c.ID]; dup {
			return nil, nil, nil, nil, fmt.Errorf("duplicate cluster id %q", c.ID)
		}
		clusterOf[c.ID] = cg.NewCluster(cg.Root())
	}
	for _, c := range d.Clusters {
		if c.Parent == "" {
			continue
		}
		parent, ok := clusterOf[c.Parent]
		if !ok {
			return nil, nil, nil, nil, fmt.Errorf("cluster %q: unknown parent %q", c.ID, c.Parent)
		}
		if err := cg.reparent(clusterOf[c.ID], parent); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("cluster %q: %w", c.ID, err)
		}
	}

	nodeOf := make(map[string]NodeID, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return nil, nil, nil, nil, fmt.Errorf("node with empty id")
		}
		if _, dup := nodeOf[n.ID]; dup {
			return nil, nil, nil, nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		id := g.NewNode()
		nodeOf[n.ID] = id
		target := cg.Root()
		if n.Cluster != "" {
			c, ok := clusterOf[n.Cluster]
			if !ok {
				return nil, nil, nil, nil, fmt.Errorf("node %q: unknown cluster %q", n.ID, n.Cluster)
			}
			target = c
		}
		cg.ReassignNode(id, target)
	}

	for _, e := range d.Edges {
		from, ok := nodeOf[e.From]
		if !ok {
			return nil, nil, nil, nil, fmt.Errorf("edge %s→%s: unknown node %q", e.From, e.To, e.From)
		}
		to, ok := nodeOf[e.To]
		if !ok {
			return nil, nil, nil, nil, fmt.Errorf("edge %s→%s: unknown node %q", e.From, e.To, e.To)
		}
		if from == to {
			return nil, nil, nil, nil, fmt.Errorf("edge %s→%s: %w", e.From, e.To, ErrSelfLoop)
		}
		g.NewEdge(from, to)
	}

	if err := cg.Validate(); err != nil {
		return nil, nil, nil, nil, err
	}
	return g, cg, nodeOf, clusterOf, nil
}

// reparent moves c (currently a child of the root) beneath parent.
// Fails if that would make c its own ancestor.
func (cg *ClusterGraph) reparent(c, parent ClusterID) error {
	for x := parent; !x.IsNil(); x = cg.slot(x).parent {
		if x == c {
			return fmt.Errorf("%w", ErrClusterCycle)
		}
	}
	old := cg.slot(c).parent
	os := cg.slot(old)
	os.children = removeCluster(os.children, c)
	cg.slot(c).parent = parent
	ps := cg.slot(parent)
	ps.children = append(ps.children, c)
	return nil
}

// Snapshot converts a cluster graph back into its serialization format.
// Node and cluster IDs are derived from arena indices; output is sorted for
// determinism.
func Snapshot(cg *ClusterGraph) Clustered {
	g := cg.g
	var doc Clustered
	for _, n := range g.Nodes() {
		nd := NodeDoc{ID: n.String()}
		if c := cg.ClusterOf(n); c != cg.Root() && !c.IsNil() {
			nd.Cluster = c.String()
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeDoc{From: g.Source(e).String(), To: g.Target(e).String()})
	}
	for _, c := range cg.Clusters() {
		if c == cg.Root() {
			continue
		}
		cd := ClusterDoc{ID: c.String()}
		if p := cg.Parent(c); p != cg.Root() {
			cd.Parent = p.String()
		}
		doc.Clusters = append(doc.Clusters, cd)
	}
	slices.SortFunc(doc.Nodes, func(a, b NodeDoc) int { return compareStrings(a.ID, b.ID) })
	slices.SortFunc(doc.Edges, func(a, b EdgeDoc) int {
		if c := compareStrings(a.From, b.From); c != 0 {
			return c
		}
		return compareStrings(a.To, b.To)
	})
	slices.SortFunc(doc.Clusters, func(a, b ClusterDoc) int { return compareStrings(a.ID, b.ID) })
	return doc
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalClustered converts a document to indented JSON bytes.
func MarshalClustered(d Clustered) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeClusteredTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalClustered decodes JSON bytes into a document.
func UnmarshalClustered(data []byte) (Clustered, error) {
	var d Clustered
	if err := json.Unmarshal(data, &d); err != nil {
		return Clustered{}, fmt.Errorf("decode: %w", err)
	}
	return d, nil
}

// ReadClusteredFile reads a JSON file into a document.
func ReadClusteredFile(path string) (Clustered, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clustered{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadClustered(f)
}

// ReadClustered decodes a JSON document from an io.Reader.
func ReadClustered(r io.Reader) (Clustered, error) {
	var d Clustered
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Clustered{}, fmt.Errorf("decode: %w", err)
	}
	return d, nil
}

// WriteClusteredFile writes a document to a JSON file with 0644 permissions.
func WriteClusteredFile(d Clustered, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeClusteredTo(d, f)
}

func writeClusteredTo(d Clustered, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
