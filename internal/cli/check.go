package cli

import (
	"github.com/spf13/cobra"

	nerrors "github.com/matzehuels/nodegraph/pkg/errors"
	ngio "github.com/matzehuels/nodegraph/pkg/io"
)

// checkCommand creates the check command, which validates a graph file.
func (c *CLI) checkCommand() *cobra.Command {
	var requireFrozen bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a graph file",
		Long:  `Check reads a graph file, rejecting duplicate ids, unknown edge endpoints and edges that would close a cycle, and prints a summary.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			f, err := ngio.ImportJSON(args[0])
			if err != nil {
				printError("%s is invalid", args[0])
				return nerrors.From(err)
			}
			prog.done("Checked graph")

			stats := statsOf(f)
			if requireFrozen && stats.Frozen != stats.Nodes {
				printError("%s has %d unfrozen nodes", args[0], stats.Nodes-stats.Frozen)
				return nerrors.New(nerrors.ErrCodeNotFrozen, "graph is not frozen")
			}

			printSuccess("%s is a valid graph", args[0])
			printStats(stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&requireFrozen, "frozen", false, "fail unless every node is frozen")
	return cmd
}
