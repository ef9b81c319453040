package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseRestriction(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"0,1", []int{0, 1}, false},
		{"0, 1, 2", []int{0, 1, 2}, false},
		{"3", nil, true},   // single index
		{"a,b", nil, true}, // non-numeric
		{"", nil, true},
	}

	for _, tt := range tests {
		got, err := parseRestriction(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRestriction(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseRestriction(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseRestriction(%q) = %v, want %v", tt.input, got, tt.want)
				break
			}
		}
	}
}

func TestPCTreeCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	out := filepath.Join(t.TempDir(), "tree.dot")

	if err := runCommand(t, "pctree", "--labels", "A,B,C,D", "-o", out, "0,1"); err != nil {
		t.Fatalf("pctree failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(data), "digraph") && !strings.Contains(string(data), "graph") {
		t.Errorf("output should be DOT, got:\n%s", data)
	}
}

func TestPCTreeCommandUnsatisfiable(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// On 4 leaves, {0,1}, {1,2} and {0,2} cannot all be consecutive arcs.
	err := runCommand(t, "pctree", "--labels", "A,B,C,D", "0,1", "1,2", "0,2")
	if err == nil {
		t.Fatal("Contradictory restrictions should fail")
	}
	if !strings.Contains(err.Error(), "unsatisfiable") {
		t.Errorf("unexpected error: %v", err)
	}
}
