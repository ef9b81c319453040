package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/planarkit/pkg/errors"
	"github.com/matzehuels/planarkit/pkg/pipeline"
)

// embedCommand creates the embed command.
func (c *CLI) embedCommand() *cobra.Command {
	var (
		augment bool
		noCache bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "embed FILE",
		Short: "Compute a cluster-planar embedding and write the report",
		Long: `Compute a planar embedding of a clustered graph document in which every
cluster occupies a connected region, and write the embedding report:
face count, per-cluster boundary sizes, and (with --augment) the edges
whose insertion would make each cluster boundary biconnected.

Fails if the document is not cluster-planar.`,
		Example: `  planarkit embed graph.json -o report.json
  planarkit embed graph.json --augment`,
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
				Embed:        true,
				Augmentation: augment,
			}

			spinner := newSpinnerWithContext(ctx, "Computing embedding...")
			spinner.Start()
			result, err := runner.Execute(ctx, opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			report := result.Report
			if !report.Planar {
				printError("Not cluster-planar")
				return errors.New(errors.ErrCodeNotClusterPlanar, "no cluster-planar embedding exists")
			}

			printSuccess("Embedding computed")
			printKeyValue("Faces", fmt.Sprintf("%d", report.Faces))
			for id, size := range report.Boundaries {
				printDetail("cluster %s: boundary %d", id, size)
			}
			if augment {
				printKeyValue("Augmentation", fmt.Sprintf("%d edges", len(report.Augmentation)))
				for _, e := range report.Augmentation {
					printDetail("%s -- %s", e.From, e.To)
				}
			}

			if err := writeFile(result.Artifacts[pipeline.FormatJSON], output); err != nil {
				return err
			}
			if output != "" {
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&augment, "augment", false, "record augmentation edges")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
