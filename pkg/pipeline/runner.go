package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/planarkit/pkg/cache"
	"github.com/matzehuels/planarkit/pkg/graph"
	"github.com/matzehuels/planarkit/pkg/observability"
	"github.com/matzehuels/planarkit/pkg/syncplan"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → check → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.New(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load - hash the canonical document and record its size.
	loadStart := time.Now()
	docData, err := graph.MarshalClustered(opts.Document)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	docHash := cache.Hash(docData)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = len(opts.Document.Nodes)
	result.Stats.EdgeCount = len(opts.Document.Edges)
	result.Stats.ClusterCount = len(opts.Document.Clusters)

	r.Logger.Info("loaded document",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"clusters", result.Stats.ClusterCount,
		"hash", docHash)

	// Stage 2: Check
	checkStart := time.Now()
	report, checkHit, err := r.CheckWithCacheInfo(ctx, docHash, opts)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	result.Report = report
	result.Stats.CheckTime = time.Since(checkStart)
	result.CacheInfo.CheckHit = checkHit

	r.Logger.Info("checked cluster-planarity",
		"planar", report.Planar,
		"pipes", report.Stats.Pipes,
		"duration", result.Stats.CheckTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, docHash, report, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// CheckWithCacheInfo runs the check stage with caching and returns cache hit info.
func (r *Runner) CheckWithCacheInfo(ctx context.Context, docHash string, opts Options) (Report, bool, error) {
	if err := opts.ValidateForCheck(); err != nil {
		return Report{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.CheckKey(docHash, opts.CheckKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			report, err := UnmarshalReport(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "check")
				return report, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "check")
	}

	report, err := r.runCheck(ctx, docHash, opts)
	if err != nil {
		return Report{}, false, err
	}

	// Cache the result
	if data, err := MarshalReport(report); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLCheck) == nil {
			observability.Cache().OnCacheSet(ctx, "check", len(data))
		}
	}

	return report, false, nil // Cache miss
}

// Check is a convenience wrapper that calls CheckWithCacheInfo and discards the cache hit info.
func (r *Runner) Check(ctx context.Context, docHash string, opts Options) (Report, error) {
	report, _, err := r.CheckWithCacheInfo(ctx, docHash, opts)
	return report, err
}

// runCheck builds the arena graph and decides cluster-planarity.
func (r *Runner) runCheck(ctx context.Context, docHash string, opts Options) (Report, error) {
	g, cg, nodeIDs, clusterIDs, err := opts.Document.Build()
	if err != nil {
		return Report{}, fmt.Errorf("build graph: %w", err)
	}

	sp := syncplan.New(g, cg, syncplan.Options{
		Logger:             opts.Logger,
		RecordAugmentation: opts.Augmentation,
	})

	obs := observability.Solver()
	obs.OnReduceStart(ctx, sp.Stats().Pipes)

	reduceStart := time.Now()
	ok := sp.MakeReduced()
	obs.OnReduceComplete(ctx, sp.Stats().PipesProcessed, ok, time.Since(reduceStart))

	if ok {
		solveStart := time.Now()
		ok = sp.SolveReduced()
		obs.OnSolveComplete(ctx, ok, time.Since(solveStart))
	}

	report := Report{
		Planar:  ok,
		DocHash: docHash,
		Stats:   sp.Stats(),
	}
	if !ok || !opts.Embed {
		return report, nil
	}

	embedStart := time.Now()
	sp.Embed()
	report.Faces = g.NumFaces()
	obs.OnEmbedComplete(ctx, report.Faces, time.Since(embedStart))

	clusterNames := make(map[graph.ClusterID]string, len(clusterIDs))
	for name, c := range clusterIDs {
		clusterNames[c] = name
	}
	report.Boundaries = make(map[string]int, len(clusterIDs))
	for _, c := range cg.Clusters() {
		if c == cg.Root() {
			continue
		}
		report.Boundaries[clusterNames[c]] = len(cg.Boundary(c))
	}

	if opts.Augmentation {
		nodeNames := make(map[graph.NodeID]string, len(nodeIDs))
		for name, n := range nodeIDs {
			nodeNames[n] = name
		}
		for _, pr := range sp.Augmentation() {
			report.Augmentation = append(report.Augmentation, graph.EdgeDoc{
				From: nodeNames[g.AdjNode(pr.A)],
				To:   nodeNames[g.AdjNode(pr.B)],
			})
		}
	}

	return report, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, docHash string, report Report, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered, err := r.renderFormats(report, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, docHash string, report Report, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, docHash, report, opts)
	return artifacts, err
}

// renderFormats produces every requested artifact from the report and document.
func (r *Runner) renderFormats(report Report, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			data, err := MarshalReport(report)
			if err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts[format] = data
		case FormatDOT:
			artifacts[format] = []byte(graph.ToDOT(opts.Document))
		case FormatSVG:
			data, err := graph.RenderSVG(opts.Document)
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
			artifacts[format] = data
		default:
			return nil, fmt.Errorf("invalid format: %q", format)
		}
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
