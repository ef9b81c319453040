// Package pkg provides the core libraries for PlanarKit cluster-planarity
// testing and embedding.
//
// # Overview
//
// PlanarKit decides whether a clustered graph can be drawn in the plane
// with no edge crossings and every cluster occupying a connected,
// crossing-free region, and produces such an embedding when one exists.
// The pkg directory is organized into four main areas:
//
//  1. [graph] - Clustered graph arena (rotation systems, cluster trees, serialization)
//  2. [pctree], [decomp], [syncplan] - The planarity engine
//  3. [pipeline], [cache], [store] - Orchestration, caching and persistence
//  4. [errors], [observability], [httputil] - Cross-cutting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Clustered JSON document
//	         ↓
//	    [graph] package (build arena graph + cluster tree)
//	         ↓
//	    [syncplan] package (reduce pipes, solve, embed)
//	         ↓
//	    [pipeline] package (reports, caching, artifacts)
//	         ↓
//	    JSON/DOT/SVG output
//
// # Quick Start
//
// Check a document and render its embedding:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/planarkit/pkg/graph"
//	    "github.com/matzehuels/planarkit/pkg/pipeline"
//	)
//
//	doc, _ := graph.ReadClusteredFile("graph.json")
//	runner := pipeline.NewRunner(nil)
//	result, _ := runner.Execute(context.Background(), &pipeline.Options{
//	    Document: doc,
//	    Embed:    true,
//	    Formats:  []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	})
//	if result.Report.Planar {
//	    // result.Artifacts holds the rendered outputs
//	}
//
// # Main Packages
//
// ## Graph Foundation
//
// [graph] - Arena-allocated undirected multigraphs with explicit rotation
// systems, generation-checked handles, a cluster tree overlay, combinatorial
// embedding checks, and the canonical JSON document format.
//
// ## Planarity Engine
//
// [pctree] - PC-trees over circular orders with consecutivity restrictions.
// The backbone of both planarity testing and pipe matching.
//
// [decomp] - Connectivity and SPQR-style decomposition: cut vertices,
// biconnected components, triconnected skeletons, and planar embedding of
// biconnected graphs.
//
// [syncplan] - Synchronized planarity. Flattens the cluster hierarchy into
// pipes, reduces them to elementary instances, solves, and replays an undo
// log to carry the embedding back to the original clustered graph.
//
// ## Orchestration
//
// [pipeline] - The load → check → render pipeline with content-addressed
// caching of check results and rendered artifacts.
//
// [cache] - Cache backends (file, Redis, null) and key derivation.
//
// [store] - Report persistence (in-memory and MongoDB) for the HTTP API.
//
// ## Infrastructure
//
// [errors] - Structured error codes with user-facing messages.
//
// [observability] - Hook interfaces for solver, cache, and HTTP events.
//
// [httputil] - Retrying HTTP fetches for remote documents.
//
// [buildinfo] - Version metadata injected at build time.
package pkg
