package graph

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleDoc() Clustered {
	return Clustered{
		Nodes: []NodeDoc{
			{ID: "a", Cluster: "inner"},
			{ID: "b", Cluster: "inner"},
			{ID: "c"},
		},
		Edges: []EdgeDoc{
			{From: "a", To: "b"},
			{From: "b", To: "c"},
			{From: "c", To: "a"},
		},
		Clusters: []ClusterDoc{{ID: "inner"}},
	}
}

func TestBuild(t *testing.T) {
	g, cg, nodes, clusters, err := sampleDoc().Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if g.NumNodes() != 3 || g.NumEdges() != 3 {
		t.Errorf("got %d nodes, %d edges", g.NumNodes(), g.NumEdges())
	}
	if cg.NumClusters() != 2 {
		t.Errorf("NumClusters = %d, want 2", cg.NumClusters())
	}
	inner := clusters["inner"]
	if cg.ClusterOf(nodes["a"]) != inner || cg.ClusterOf(nodes["b"]) != inner {
		t.Error("clustered nodes not assigned to their cluster")
	}
	if cg.ClusterOf(nodes["c"]) != cg.Root() {
		t.Error("unassigned node not in the root")
	}
	if err := cg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestBuildNestedClusters(t *testing.T) {
	doc := Clustered{
		Nodes: []NodeDoc{{ID: "a", Cluster: "leaf"}},
		Clusters: []ClusterDoc{
			// Forward parent reference: leaf appears before mid.
			{ID: "leaf", Parent: "mid"},
			{ID: "mid"},
		},
	}
	_, cg, _, clusters, err := doc.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if cg.Parent(clusters["leaf"]) != clusters["mid"] {
		t.Error("forward parent reference not resolved")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  Clustered
	}{
		{"duplicate node", Clustered{Nodes: []NodeDoc{{ID: "a"}, {ID: "a"}}}},
		{"empty node id", Clustered{Nodes: []NodeDoc{{ID: ""}}}},
		{"unknown edge endpoint", Clustered{
			Nodes: []NodeDoc{{ID: "a"}},
			Edges: []EdgeDoc{{From: "a", To: "b"}},
		}},
		{"unknown cluster", Clustered{Nodes: []NodeDoc{{ID: "a", Cluster: "x"}}}},
		{"unknown parent", Clustered{Clusters: []ClusterDoc{{ID: "x", Parent: "y"}}}},
		{"duplicate cluster", Clustered{Clusters: []ClusterDoc{{ID: "x"}, {ID: "x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, _, err := tt.doc.Build(); err == nil {
				t.Error("Build() succeeded, want error")
			}
		})
	}
}

func TestBuildSelfLoop(t *testing.T) {
	doc := Clustered{
		Nodes: []NodeDoc{{ID: "a"}},
		Edges: []EdgeDoc{{From: "a", To: "a"}},
	}
	_, _, _, _, err := doc.Build()
	if !errors.Is(err, ErrSelfLoop) {
		t.Errorf("Build() = %v, want ErrSelfLoop", err)
	}
}

func TestBuildClusterCycle(t *testing.T) {
	doc := Clustered{
		Clusters: []ClusterDoc{
			{ID: "x", Parent: "y"},
			{ID: "y", Parent: "x"},
		},
	}
	_, _, _, _, err := doc.Build()
	if !errors.Is(err, ErrClusterCycle) {
		t.Errorf("Build() = %v, want ErrClusterCycle", err)
	}
}

func TestSnapshot(t *testing.T) {
	g, cg, _, _, err := sampleDoc().Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	snap := Snapshot(cg)
	if len(snap.Nodes) != 3 || len(snap.Edges) != 3 || len(snap.Clusters) != 1 {
		t.Fatalf("snapshot shape: %d nodes, %d edges, %d clusters",
			len(snap.Nodes), len(snap.Edges), len(snap.Clusters))
	}
	// The snapshot of a snapshot-built graph must be identical: IDs are
	// arena-derived and the output is sorted.
	g2, cg2, _, _, err := snap.Build()
	if err != nil {
		t.Fatalf("Build() of snapshot: %v", err)
	}
	if g2.NumNodes() != g.NumNodes() || g2.NumEdges() != g.NumEdges() {
		t.Error("rebuilt graph has different shape")
	}
	if !reflect.DeepEqual(Snapshot(cg2), snap) {
		t.Error("snapshot not stable across rebuild")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	doc := sampleDoc()
	data, err := MarshalClustered(doc)
	if err != nil {
		t.Fatalf("MarshalClustered() error: %v", err)
	}
	back, err := UnmarshalClustered(data)
	if err != nil {
		t.Fatalf("UnmarshalClustered() error: %v", err)
	}
	if !reflect.DeepEqual(back, doc) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", back, doc)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	if _, err := UnmarshalClustered([]byte("{")); err == nil {
		t.Error("UnmarshalClustered accepted truncated JSON")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	doc := sampleDoc()
	if err := WriteClusteredFile(doc, path); err != nil {
		t.Fatalf("WriteClusteredFile() error: %v", err)
	}
	back, err := ReadClusteredFile(path)
	if err != nil {
		t.Fatalf("ReadClusteredFile() error: %v", err)
	}
	if !reflect.DeepEqual(back, doc) {
		t.Error("file round trip mismatch")
	}
}

func TestReadClusteredFileMissing(t *testing.T) {
	if _, err := ReadClusteredFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("ReadClusteredFile succeeded on a missing file")
	}
}
