package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/nodegraph/pkg/cache"
	ngio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/tree"
)

// maxParallelDecodes bounds concurrent decodes of several documents.
const maxParallelDecodes = 8

// decodeOpts holds the command-line flags for the decode command.
type decodeOpts struct {
	keys   []string // document hashes to read from the cache
	output string   // output file (default stdout)
}

// decodeCommand creates the decode command, which reads persisted documents
// back into a graph file.
func (c *CLI) decodeCommand() *cobra.Command {
	var opts decodeOpts

	cmd := &cobra.Command{
		Use:   "decode [file...]",
		Short: "Decode persisted documents into a graph file",
		Long: `Decode reads documents written by "nodegraph encode" and writes the
resulting graph in the graph file format.

Deferred records are resolved through the configured cache. Several documents
are decoded concurrently and share the resolver, so a canonical node that
several documents refer to is loaded once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(opts.keys) == 0 {
				return fmt.Errorf("nothing to decode: pass files or --key")
			}
			return c.runDecode(cmd.Context(), cmd, args, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.keys, "key", nil, "document hash printed by encode --store (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// source is one document to decode.
type source struct {
	name string
	read func(context.Context) ([]byte, error)
}

func (c *CLI) runDecode(ctx context.Context, cmd *cobra.Command, files []string, opts decodeOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	b, err := c.openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	var sources []source
	for _, path := range files {
		sources = append(sources, source{name: path, read: func(context.Context) ([]byte, error) {
			return os.ReadFile(path)
		}})
	}
	for _, key := range opts.keys {
		sources = append(sources, source{name: "key " + key, read: func(ctx context.Context) ([]byte, error) {
			return readDocument(ctx, b, key)
		}})
	}

	roots := make([]*tree.Node[string], len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDecodes)
	for i, src := range sources {
		g.Go(func() error {
			data, err := src.read(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", src.name, err)
			}
			n, err := tree.Decode(gctx, bytes.NewReader(data), b.resolvers(), tree.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("%s: %w", src.name, err)
			}
			logger.Debug("decoded", "source", src.name, "root", n.Value())
			roots[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Decoded %d documents", len(roots)))

	w, closeOut, err := createOutput(opts.output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := ngio.WriteJSON(w, roots...); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Decoded %d documents", len(roots))
		printStats(statsOfGraph(roots...))
		printDetail("%d canonical nodes loaded", b.resolver.Loaded())
		printFile(opts.output)
	}
	return nil
}

// readDocument fetches a document stored by encode --store.
func readDocument(ctx context.Context, b *backend, key string) ([]byte, error) {
	var data []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		d, ok, err := b.store.Get(ctx, b.keyer.DocumentKey(key))
		if err != nil {
			return err
		}
		if !ok {
			return cache.ErrCacheMiss
		}
		data = d
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}
