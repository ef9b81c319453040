package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/planarkit/pkg/pipeline"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		embed   bool
		augment bool
		noCache bool
		refresh bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Decide cluster-planarity of a clustered graph",
		Long: `Check whether a clustered graph document admits a planar embedding in
which every cluster occupies a connected, crossing-free region.

The input is a JSON document with nodes, edges, and a cluster hierarchy,
read from a local file or an http(s) URL. Results are cached by document
content hash; use --no-cache or --refresh to recompute.`,
		Example: `  # Verdict only
  planarkit check graph.json

  # Also compute the embedding and report faces per cluster boundary
  planarkit check graph.json --embed

  # Write the full JSON report
  planarkit check graph.json --embed -o report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			doc, err := loadDocument(ctx, args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.Options{
				Document:     doc,
				Embed:        embed,
				Augmentation: augment,
				Refresh:      refresh,
			}

			spinner := newSpinnerWithContext(ctx, "Checking cluster-planarity...")
			spinner.Start()
			result, err := runner.Execute(ctx, opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			report := result.Report
			printVerdict(report.Planar)
			printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.CheckHit)
			printDetail("clusters: %d · pipes: %d · trees built: %d",
				report.Stats.Clusters, report.Stats.Pipes, report.Stats.TreesBuilt)
			if embed && report.Planar {
				printKeyValue("Faces", fmt.Sprintf("%d", report.Faces))
			}
			if augment && report.Planar {
				printKeyValue("Augmentation", fmt.Sprintf("%d edges", len(report.Augmentation)))
			}

			if output != "" {
				if err := writeFile(result.Artifacts[pipeline.FormatJSON], output); err != nil {
					return err
				}
				printFile(output)
			}
			if report.Planar && !embed {
				printNextStep("Compute the embedding", "planarkit check "+args[0]+" --embed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&embed, "embed", false, "also compute the planar embedding")
	cmd.Flags().BoolVar(&augment, "augment", false, "record augmentation edges (implies --embed)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON report to a file")

	return cmd
}
