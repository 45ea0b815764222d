package cli

import (
	"github.com/spf13/cobra"

	ngio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/tree"
)

// dupCommand creates the dup command, which writes an unfrozen copy of a graph.
func (c *CLI) dupCommand() *cobra.Command {
	var (
		root   string
		flat   bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "dup [file]",
		Short: "Copy a graph",
		Long: `Dup writes an unfrozen copy of the graph below each root.

By default nodes with equal values share one copy. With --flat every
occurrence of a shared node gets its own copy, turning the graph into a tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			f, err := ngio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			roots, err := selectRoots(f, root)
			if err != nil {
				return err
			}

			dup := tree.Duplicate[string]
			if flat {
				dup = tree.DuplicateFlat[string]
			}
			copies := make([]*tree.Node[string], len(roots))
			for i, r := range roots {
				if copies[i], err = dup(r); err != nil {
					return err
				}
				logger.Debug("duplicated", "root", r.Value(), "nodes", copies[i].Count())
			}

			w, closeOut, err := createOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := ngio.WriteJSON(w, copies...); err != nil {
				_ = closeOut()
				return err
			}
			if err := closeOut(); err != nil {
				return err
			}

			if output != "" {
				printSuccess("Duplicated %d roots", len(copies))
				printStats(statsOfGraph(copies...))
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "node id to copy (default: every root)")
	cmd.Flags().BoolVar(&flat, "flat", false, "copy shared nodes once per occurrence")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
