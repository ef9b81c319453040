package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/planarkit/pkg/pctree"
)

// rotationPrintLimit bounds how many cyclic orders the pctree command lists.
const rotationPrintLimit = 24

// pctreeCommand creates the pctree command for visualizing PC-tree restrictions.
func (c *CLI) pctreeCommand() *cobra.Command {
	var output string
	var labels string
	var svg bool

	cmd := &cobra.Command{
		Use:   "pctree [restrictions...]",
		Short: "Render a PC-tree with optional restrictions (debug tool)",
		Long: `Render a PC-tree visualization showing valid cyclic orders.

Restrictions are comma-separated leaf indices that must be consecutive in
every cyclic order. Example: "0,1" means leaves 0 and 1 must be adjacent.`,
		Example: `  # Universal tree with 4 leaves
  planarkit pctree --labels A,B,C,D -o tree.svg

  # With restriction: A,B must be consecutive
  planarkit pctree --labels A,B,C,D -o tree.svg 0,1

  # Multiple restrictions
  planarkit pctree --labels A,B,C,D -o tree.svg 0,1 2,3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			labelList := strings.Split(labels, ",")
			if len(labelList) == 0 {
				return fmt.Errorf("at least one label required")
			}

			tree := pctree.New(len(labelList))

			for _, arg := range args {
				restriction, err := parseRestriction(arg)
				if err != nil {
					return fmt.Errorf("invalid restriction %q: %w", arg, err)
				}
				if !tree.Apply(restriction) {
					return fmt.Errorf("restriction %q made tree unsatisfiable", arg)
				}
			}

			var data []byte
			if svg {
				var err error
				data, err = tree.RenderSVG(labelList)
				if err != nil {
					return fmt.Errorf("render: %w", err)
				}
			} else {
				data = []byte(tree.ToDOT(labelList))
			}

			if err := writeFile(data, output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			printSuccess("PC-tree generated")
			printKeyValue("Tree", tree.StringWithLabels(labelList))
			printKeyValue("Orders", fmt.Sprintf("%d", tree.OrderCount()))
			for _, rot := range tree.Rotations(rotationPrintLimit) {
				printDetail("%s", rotationString(rot, labelList))
			}
			if output != "" {
				printFile(output)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&labels, "labels", "A,B,C,D", "comma-separated leaf labels")
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG instead of DOT")

	return cmd
}

// parseRestriction parses a restriction string like "0,1,2" into leaf indices.
func parseRestriction(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return nil, fmt.Errorf("need at least 2 indices")
	}
	result := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", p)
		}
		result[i] = n
	}
	return result, nil
}

// rotationString formats one cyclic order using the leaf labels.
func rotationString(rot []int, labels []string) string {
	parts := make([]string, len(rot))
	for i, leaf := range rot {
		if leaf < len(labels) {
			parts[i] = labels[leaf]
		} else {
			parts[i] = strconv.Itoa(leaf)
		}
	}
	return strings.Join(parts, " ")
}
