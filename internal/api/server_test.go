package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/planarkit/pkg/graph"
	"github.com/matzehuels/planarkit/pkg/pipeline"
	"github.com/matzehuels/planarkit/pkg/store"
)

func testServer(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := httptest.NewServer(New(runner, st, logger).Router())
	t.Cleanup(srv.Close)
	return srv
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

func postCheck(t *testing.T, srv *httptest.Server, body any) (*http.Response, []byte) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(srv.URL+"/v1/check", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST /v1/check: %v", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	return resp, respBody
}

func TestHealth(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Get(srv.URL + "/v1/health")
	if err != nil {
		t.Fatalf("GET /v1/health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestCheckEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	resp, body := postCheck(t, srv, pipeline.Options{
		Document: triangleDoc(),
		Embed:    true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}

	var cr CheckResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !cr.Report.Planar {
		t.Error("Clustered triangle should be cluster-planar")
	}
	if cr.Report.Faces != 2 {
		t.Errorf("Expected 2 faces, got %d", cr.Report.Faces)
	}
	if cr.RunID == "" {
		t.Error("Response should carry a run ID")
	}
	if _, ok := cr.Artifacts["json"]; !ok {
		t.Error("Default json artifact should be inlined")
	}
}

func TestCheckEndpointBadRequest(t *testing.T) {
	srv := testServer(t, nil)

	// Malformed JSON
	resp, err := http.Post(srv.URL+"/v1/check", "application/json", bytes.NewReader([]byte("{")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Malformed body should yield 400, got %d", resp.StatusCode)
	}

	// Empty document
	resp, body := postCheck(t, srv, pipeline.Options{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Empty document should yield 400, got %d: %s", resp.StatusCode, body)
	}
}

func TestReportArchival(t *testing.T) {
	st := store.NewMemoryStore()
	srv := testServer(t, st)

	resp, body := postCheck(t, srv, pipeline.Options{Document: triangleDoc()})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	var cr CheckResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// The report is retrievable by run ID.
	resp2, err := http.Get(srv.URL + "/v1/reports/" + cr.RunID)
	if err != nil {
		t.Fatalf("GET report: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp2.StatusCode)
	}
	var rec store.Record
	if err := json.NewDecoder(resp2.Body).Decode(&rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.ID != cr.RunID || rec.Report.Planar != cr.Report.Planar {
		t.Error("Archived record should match the check response")
	}

	// And listable by document hash.
	resp3, err := http.Get(srv.URL + "/v1/reports?doc_hash=" + rec.DocHash)
	if err != nil {
		t.Fatalf("GET reports: %v", err)
	}
	defer resp3.Body.Close()
	var recs []store.Record
	if err := json.NewDecoder(resp3.Body).Decode(&recs); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != cr.RunID {
		t.Errorf("Expected the archived record, got %+v", recs)
	}
}

func TestReportNotFound(t *testing.T) {
	srv := testServer(t, store.NewMemoryStore())

	resp, err := http.Get(srv.URL + "/v1/reports/unknown-id")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Unknown ID should yield 404, got %d", resp.StatusCode)
	}
}

func TestReportsDisabledWithoutStore(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Get(srv.URL + "/v1/reports/some-id")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Disabled archival should yield 404, got %d", resp.StatusCode)
	}
}
