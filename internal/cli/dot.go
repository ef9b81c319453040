package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/planarkit/pkg/graph"
)

// dotCommand creates the dot command for rendering clustered graph documents.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output string
		svg    bool
	)

	cmd := &cobra.Command{
		Use:   "dot FILE",
		Short: "Render a clustered graph document as DOT or SVG",
		Long: `Render a clustered graph document with Graphviz. Clusters become nested
DOT subgraphs, so the hierarchy is visible in the output.`,
		Example: `  planarkit dot graph.json -o graph.dot
  planarkit dot graph.json --svg -o graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var data []byte
			if svg {
				data, err = graph.RenderSVG(doc)
				if err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
			} else {
				data = []byte(graph.ToDOT(doc))
			}

			if err := writeFile(data, output); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Rendered %s", args[0])
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG instead of DOT")

	return cmd
}
