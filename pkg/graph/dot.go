package graph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of a clustered graph document.
// Clusters become nested DOT cluster subgraphs, so the output visualizes the
// hierarchy directly with any Graphviz renderer.
func ToDOT(d Clustered) string {
	var buf bytes.Buffer
	buf.WriteString("graph clustered {\n")
	buf.WriteString("  layout=fdp;\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, shape=circle];\n\n")

	children := make(map[string][]string)
	for _, c := range d.Clusters {
		children[c.Parent] = append(children[c.Parent], c.ID)
	}
	members := make(map[string][]string)
	for _, n := range d.Nodes {
		members[n.Cluster] = append(members[n.Cluster], n.ID)
	}

	var writeCluster func(id, indent string)
	writeCluster = func(id, indent string) {
		for _, n := range members[id] {
			fmt.Fprintf(&buf, "%s%q;\n", indent, n)
		}
		for _, c := range children[id] {
			fmt.Fprintf(&buf, "%ssubgraph \"cluster_%s\" {\n", indent, c)
			fmt.Fprintf(&buf, "%s  label=%q;\n", indent, c)
			writeCluster(c, indent+"  ")
			fmt.Fprintf(&buf, "%s}\n", indent)
		}
	}
	writeCluster("", "  ")

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a clustered graph document as an SVG image via Graphviz.
//
// Requires the Graphviz library (github.com/goccy/go-graphviz). Errors are
// wrapped with fmt.Errorf %w, suitable for errors.Is/Unwrap.
func RenderSVG(d Clustered) ([]byte, error) {
	dot := ToDOT(d)

	gv, err := graphviz.New(context.Background())
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(context.Background(), g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
