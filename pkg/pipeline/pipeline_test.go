package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/planarkit/pkg/graph"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"invalid", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"json", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func triangleDoc() graph.Clustered {
	return graph.Clustered{
		Nodes: []graph.NodeDoc{
			{ID: "a", Cluster: "inner"},
			{ID: "b", Cluster: "inner"},
			{ID: "c"},
		},
		Edges: []graph.EdgeDoc{
			{From: "a", To: "b"},
			{From: "b", To: "c"},
			{From: "c", To: "a"},
		},
		Clusters: []graph.ClusterDoc{{ID: "inner"}},
	}
}

func k5Doc() graph.Clustered {
	names := []string{"v1", "v2", "v3", "v4", "v5"}
	var d graph.Clustered
	for _, n := range names {
		d.Nodes = append(d.Nodes, graph.NodeDoc{ID: n})
	}
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			d.Edges = append(d.Edges, graph.EdgeDoc{From: names[i], To: names[j]})
		}
	}
	return d
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Document: triangleDoc()}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("Valid options should pass: %v", err)
	}

	// Check defaults were set
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats should default to [json], got %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
}

func TestOptionsValidateForCheck(t *testing.T) {
	// Empty document
	opts := Options{}
	if err := opts.ValidateForCheck(); err == nil {
		t.Error("Empty document should fail")
	}

	// Augmentation implies Embed
	opts = Options{Document: triangleDoc(), Augmentation: true}
	if err := opts.ValidateForCheck(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if !opts.Embed {
		t.Error("Augmentation should force Embed on")
	}
}

func TestOptionsInvalidFormat(t *testing.T) {
	opts := Options{Document: triangleDoc(), Formats: []string{"png"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("Unknown format should fail validation")
	}
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), Options{
		Document: triangleDoc(),
		Formats:  []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !result.Report.Planar {
		t.Error("Clustered triangle should be cluster-planar")
	}
	if result.Report.DocHash == "" {
		t.Error("Report should carry the document hash")
	}
	if result.Report.Stats.Pipes != 1 {
		t.Errorf("One non-root cluster should yield one pipe, got %d", result.Report.Stats.Pipes)
	}
	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 3 || result.Stats.ClusterCount != 1 {
		t.Errorf("unexpected document stats: %+v", result.Stats)
	}

	data, ok := result.Artifacts[FormatJSON]
	if !ok {
		t.Fatal("Missing json artifact")
	}
	report, err := UnmarshalReport(data)
	if err != nil {
		t.Fatalf("json artifact should decode as a report: %v", err)
	}
	if report.Planar != result.Report.Planar || report.DocHash != result.Report.DocHash {
		t.Error("json artifact should embed the check report")
	}

	dot := string(result.Artifacts[FormatDOT])
	if !strings.Contains(dot, "subgraph \"cluster_inner\"") {
		t.Errorf("dot artifact should contain the cluster subgraph:\n%s", dot)
	}
}

func TestRunnerExecuteEmbed(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), Options{
		Document: triangleDoc(),
		Embed:    true,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !result.Report.Planar {
		t.Fatal("Clustered triangle should be cluster-planar")
	}
	if result.Report.Faces != 2 {
		t.Errorf("Embedded triangle should have 2 faces, got %d", result.Report.Faces)
	}
	if got := result.Report.Boundaries["inner"]; got != 2 {
		t.Errorf("Cluster boundary should cross 2 edges, got %d", got)
	}
}

func TestRunnerExecuteNonPlanar(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), Options{
		Document: k5Doc(),
		Embed:    true,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Report.Planar {
		t.Error("K5 should not be planar")
	}
	if result.Report.Faces != 0 {
		t.Error("Non-planar input should not report an embedding")
	}

	// The verdict still renders.
	report, err := UnmarshalReport(result.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact should decode: %v", err)
	}
	if report.Planar {
		t.Error("json artifact should carry the negative verdict")
	}
}

// memCache is an in-memory Cache for exercising the runner's caching paths.
type memCache struct {
	m map[string][]byte
}

func newMemCache() *memCache { return &memCache{m: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := c.m[key]
	return data, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.m[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.m, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestRunnerCheckCaching(t *testing.T) {
	r := NewRunner(newMemCache(), nil, nil)
	defer r.Close()

	ctx := context.Background()
	opts := Options{Document: triangleDoc()}
	docHash := "testhash"

	report, hit, err := r.CheckWithCacheInfo(ctx, docHash, opts)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if hit {
		t.Error("First check should miss the cache")
	}

	cached, hit, err := r.CheckWithCacheInfo(ctx, docHash, opts)
	if err != nil {
		t.Fatalf("Second check failed: %v", err)
	}
	if !hit {
		t.Error("Second check should hit the cache")
	}
	if cached.Planar != report.Planar || cached.Stats != report.Stats {
		t.Error("Cached report should match the computed one")
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	if _, hit, _ := r.CheckWithCacheInfo(ctx, docHash, opts); hit {
		t.Error("Refresh should bypass the cache")
	}

	// Different options use different keys.
	opts.Refresh = false
	opts.Embed = true
	if _, hit, _ := r.CheckWithCacheInfo(ctx, docHash, opts); hit {
		t.Error("Embed option should change the cache key")
	}
}

func TestRunnerRenderCaching(t *testing.T) {
	r := NewRunner(newMemCache(), nil, nil)
	defer r.Close()

	ctx := context.Background()
	opts := Options{Document: triangleDoc(), Formats: []string{FormatDOT}}
	report := Report{Planar: true, DocHash: "testhash"}

	first, hit, err := r.RenderWithCacheInfo(ctx, "testhash", report, opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if hit {
		t.Error("First render should miss the cache")
	}

	second, hit, err := r.RenderWithCacheInfo(ctx, "testhash", report, opts)
	if err != nil {
		t.Fatalf("Second render failed: %v", err)
	}
	if !hit {
		t.Error("Second render should hit the cache")
	}
	if string(first[FormatDOT]) != string(second[FormatDOT]) {
		t.Error("Cached artifact should match the rendered one")
	}
}
