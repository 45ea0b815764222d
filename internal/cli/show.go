package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	ngio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/render/text"
	"github.com/matzehuels/nodegraph/pkg/tree"
)

// showOpts holds the command-line flags for the show command.
type showOpts struct {
	root   string // print only this node
	pick   bool   // choose the root interactively
	depth  int    // maximum depth, 0 for unlimited
	expand bool   // expand shared nodes at every occurrence
}

// showCommand creates the show command, which prints a graph as a tree.
func (c *CLI) showCommand() *cobra.Command {
	var opts showOpts

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print a graph as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ngio.ImportJSON(args[0])
			if err != nil {
				return err
			}

			roots, err := selectRoots(f, opts.root)
			if err != nil {
				return err
			}
			if opts.pick && len(roots) > 1 {
				picked, err := pickRoot(f, roots)
				if err != nil {
					return err
				}
				if picked == nil {
					return nil
				}
				roots = []*tree.Node[string]{picked}
			}

			w := cmd.OutOrStdout()
			for _, r := range roots {
				fmt.Fprintln(w, text.Render(r, text.Options{
					MaxDepth:     opts.depth,
					ExpandShared: opts.expand,
					Styles: &text.Styles{
						Root:       styleTreeRoot,
						Item:       styleTreeItem,
						Enumerator: styleTreeEnum,
					},
				}))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", "", "node id to print (default: every root)")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the root interactively")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "maximum depth (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.expand, "expand", false, "expand shared nodes at every occurrence")
	return cmd
}

// pickRoot runs the interactive root picker. It returns nil if the user quit
// without choosing.
func pickRoot(f *ngio.Forest, roots []*tree.Node[string]) (*tree.Node[string], error) {
	final, err := tea.NewProgram(NewRootListModel(f, roots)).Run()
	if err != nil {
		return nil, fmt.Errorf("root picker: %w", err)
	}
	return final.(RootListModel).Selected, nil
}
