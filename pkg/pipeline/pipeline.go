// Package pipeline provides the core planarity-checking pipeline for PlanarKit.
//
// This package implements the complete load → check → render pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Build the arena graph and cluster tree from a clustered document
//  2. Check: Decide cluster-planarity, optionally computing an embedding
//  3. Render: Generate output in various formats (JSON, DOT, SVG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Document: doc,
//	    Embed:    true,
//	    Formats:  []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run the check stage alone:
//
//	report, err := runner.Check(ctx, docHash, opts)
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/planarkit/pkg/cache"
	"github.com/matzehuels/planarkit/pkg/graph"
	"github.com/matzehuels/planarkit/pkg/syncplan"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the planarity pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Document is the clustered graph to check.
	Document graph.Clustered `json:"document"`

	// Check options
	Embed        bool `json:"embed,omitempty"`        // Compute an embedding, not just the verdict
	Augmentation bool `json:"augmentation,omitempty"` // Record augmentation edges (implies Embed)
	Refresh      bool `json:"refresh,omitempty"`      // Bypass the cache for the check stage

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Report is the serializable outcome of a planarity check. It is what gets
// cached, stored, and embedded in the JSON artifact.
type Report struct {
	// Planar is the cluster-planarity verdict.
	Planar bool `json:"planar"`

	// DocHash is the content hash of the checked document.
	DocHash string `json:"doc_hash"`

	// Stats describes the solver's work.
	Stats syncplan.Stats `json:"stats"`

	// Faces is the face count of the computed embedding (Embed only).
	Faces int `json:"faces,omitempty"`

	// Boundaries maps cluster ID to perimeter size (Embed only).
	Boundaries map[string]int `json:"boundaries,omitempty"`

	// Augmentation lists edges whose insertion would make each cluster
	// boundary span a single biconnected component (Augmentation only).
	Augmentation []graph.EdgeDoc `json:"augmentation,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this execution.
	RunID uuid.UUID

	// Report is the check outcome.
	Report Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	ClusterCount int
	LoadTime     time.Duration
	CheckTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	CheckHit  bool // Whether the check report came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Report Serialization
// =============================================================================

// MarshalReport encodes a report as JSON bytes.
func MarshalReport(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return data, nil
}

// UnmarshalReport decodes JSON bytes into a report.
func UnmarshalReport(data []byte) (Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCheck(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForCheck checks required fields for the check stage.
func (o *Options) ValidateForCheck() error {
	if len(o.Document.Nodes) == 0 {
		return fmt.Errorf("document has no nodes")
	}

	// Augmentation pairs are collected while the embedding is replayed, so
	// requesting them forces the embedding on.
	if o.Augmentation {
		o.Embed = true
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// CheckKeyOpts returns cache key options for the check stage.
func (o *Options) CheckKeyOpts() cache.CheckKeyOpts {
	return cache.CheckKeyOpts{
		Embed:        o.Embed,
		Augmentation: o.Augmentation,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       format,
		Embed:        o.Embed,
		Augmentation: o.Augmentation,
	}
}
