// Package cli implements the planarkit command-line interface.
//
// This package provides commands for checking cluster-planarity of clustered
// graphs, computing embeddings, rendering graph documents, and serving the
// HTTP API. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - check: Decide cluster-planarity of a clustered graph document
//   - embed: Compute an embedding and write the check report
//   - dot: Render a clustered graph document as DOT or SVG
//   - pctree: Debug tool for PC-tree restriction visualization
//   - cache: Manage the check result cache
//   - serve: Run the HTTP API server
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/planarkit/pkg/buildinfo"
	"github.com/matzehuels/planarkit/pkg/cache"
	"github.com/matzehuels/planarkit/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "planarkit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger. Configuration is
// loaded from planarkit.toml if present; a broken config file is reported
// but does not prevent startup.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}

	cfg, err := loadConfig()
	if err != nil {
		c.Logger.Warn("ignoring config file", "err", err)
	}
	c.Config = cfg

	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "planarkit",
		Short:        "PlanarKit tests and embeds cluster-planar graphs",
		Long:         `PlanarKit is a CLI tool for deciding cluster-planarity of clustered graphs via synchronized planarity, computing planar embeddings that respect the cluster hierarchy, and rendering the results.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.embedCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.pctreeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, c.Logger), nil
}

// newCache picks the cache backend: redis when configured, otherwise a file
// cache under the XDG cache directory. Failures degrade to a null cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.NoCache {
		return cache.NewNullCache(), nil
	}
	if c.Config.RedisAddr != "" {
		return cache.NewRedisCache(ctx, c.Config.RedisAddr, c.Config.RedisPassword, 0)
	}
	dir := c.Config.CacheDir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/planarkit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	return strings.Split(s, ",")
}
