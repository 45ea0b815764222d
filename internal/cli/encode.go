package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/cache"
	ngio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/tree"
)

// encodeOpts holds the command-line flags for the encode command.
type encodeOpts struct {
	root     string // node to encode
	output   string // output file (default stdout)
	store    bool   // store frozen nodes and the document in the cache
	fullRoot bool   // write the root in full even if it is deferred
}

// encodeCommand creates the encode command, which writes a persisted document.
func (c *CLI) encodeCommand() *cobra.Command {
	var opts encodeOpts

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode a graph as a persisted document",
		Long: `Encode writes the graph below a root in the persistence format.

With --store, every frozen node is stored in the configured cache under the
configured resolver name, so documents record frozen nodes by value only.
The document itself is stored too and can be read back with
"nodegraph decode --key".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEncode(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", "", "node id to encode (default: the only root)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.store, "store", false, "store frozen nodes and the document in the cache")
	cmd.Flags().BoolVar(&opts.fullRoot, "full-root", false, "write the root in full even when it is stored")
	return cmd
}

func (c *CLI) runEncode(ctx context.Context, cmd *cobra.Command, path string, opts encodeOpts) error {
	logger := loggerFromContext(ctx)

	f, err := ngio.ImportJSON(path)
	if err != nil {
		return err
	}
	root, err := selectRoot(f, opts.root)
	if err != nil {
		return err
	}

	var b *backend
	if opts.store {
		if b, err = c.openBackend(ctx); err != nil {
			return err
		}
		defer b.close()

		frozen := frozenPostOrder(root)
		spin := newSpinner(ctx, fmt.Sprintf("Storing %d frozen nodes...", len(frozen)))
		spin.Start()
		for _, n := range frozen {
			if err := b.resolver.Store(ctx, n); err != nil {
				spin.StopWithError("Storing %q failed", n.Value())
				return err
			}
		}
		spin.Stop()
		logger.Debug("stored frozen nodes", "count", len(frozen), "resolver", b.resolver.Name())
	}

	encOpts := []tree.Option{tree.WithLogger(logger)}
	if opts.fullRoot {
		encOpts = append(encOpts, tree.WithFullRoot())
	}
	var buf bytes.Buffer
	if err := tree.Encode(&buf, root, encOpts...); err != nil {
		return err
	}

	var docKey string
	if b != nil {
		docKey = cache.Hash(buf.Bytes())
		if err := b.store.Set(ctx, b.keyer.DocumentKey(docKey), buf.Bytes(), c.cfg.Cache.TTL.Duration); err != nil {
			return fmt.Errorf("store document: %w", err)
		}
	}

	w, closeOut, err := createOutput(opts.output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}

	if opts.output != "" || docKey != "" {
		printSuccess("Encoded %q", root.Value())
		printStats(statsOfGraph(root))
		if opts.output != "" {
			printFile(opts.output)
		}
		if docKey != "" {
			printKeyValue("document", docKey)
			printNextStep("Decode with", "nodegraph decode --key "+docKey)
		}
	}
	return nil
}

// frozenPostOrder returns every frozen node reachable from root, root
// included, children before parents. Storing them in this order lets each
// stored document refer to its frozen children by value.
func frozenPostOrder(root *tree.Node[string]) []*tree.Node[string] {
	var out []*tree.Node[string]
	seen := map[*tree.Node[string]]bool{}
	var visit func(*tree.Node[string])
	visit = func(n *tree.Node[string]) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, c := range n.Children() {
			visit(c)
		}
		if n.IsFrozen() {
			out = append(out, n)
		}
	}
	visit(root)
	return out
}
