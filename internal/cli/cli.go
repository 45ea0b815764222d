package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/internal/config"
	"github.com/matzehuels/nodegraph/pkg/buildinfo"
	"github.com/matzehuels/nodegraph/pkg/cache"
	ngio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/resolver"
	"github.com/matzehuels/nodegraph/pkg/tree"
)

const appName = config.AppName

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

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "nodegraph inspects, copies and persists frozen node graphs",
		Long:         `nodegraph works with directed acyclic node graphs stored as JSON. It validates and prints them, duplicates them with or without shared nodes, renders them with Graphviz, and persists them so that frozen shared subgraphs are stored once and referenced by value.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/nodegraph/config.toml)")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.dupCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// loadConfig reads the config file and applies its log level. --verbose
// always wins over the configured level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	c.Logger.Debug("config loaded", "backend", cfg.Cache.Backend, "resolver", cfg.Resolver.Name)
	return nil
}

// =============================================================================
// Backend
// =============================================================================

// backend is the opened cache and the resolver persisted in it.
type backend struct {
	store    cache.Cache
	keyer    cache.Keyer
	resolver *resolver.Cached[string]
}

// openBackend opens the configured cache and its resolver. The caller must
// call close.
func (c *CLI) openBackend(ctx context.Context) (*backend, error) {
	store, err := c.cfg.Cache.OpenCache(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", c.cfg.Cache.Backend, err)
	}
	keyer := c.cfg.Cache.Keyer()
	r, err := resolver.NewCached[string](c.cfg.Resolver.Name, store,
		resolver.WithLogger(c.Logger),
		resolver.WithKeyer(keyer),
		resolver.WithTTL(c.cfg.Cache.TTL.Duration),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &backend{store: store, keyer: keyer, resolver: r}, nil
}

func (b *backend) close() error { return b.store.Close() }

// resolvers returns the name map used when decoding.
func (b *backend) resolvers() tree.Resolvers[string] {
	return resolver.Resolvers[string](b.resolver)
}

// =============================================================================
// Helpers
// =============================================================================

// graphStats summarizes a forest.
type graphStats struct {
	Nodes, Edges, Roots, Frozen int
}

func statsOf(f *ngio.Forest) graphStats {
	s := graphStats{Nodes: f.Len(), Roots: len(f.Roots())}
	for _, n := range f.Nodes() {
		s.Edges += n.ChildCount()
		if n.IsFrozen() {
			s.Frozen++
		}
	}
	return s
}

// statsOfGraph summarizes the handles reachable from roots.
func statsOfGraph(roots ...*tree.Node[string]) graphStats {
	s := graphStats{Roots: len(roots)}
	seen := map[*tree.Node[string]]bool{}
	for _, r := range roots {
		r.Accept(tree.VisitorFunc[string](func(n *tree.Node[string]) bool {
			if seen[n] {
				return false
			}
			seen[n] = true
			s.Nodes++
			s.Edges += n.ChildCount()
			if n.IsFrozen() {
				s.Frozen++
			}
			return true
		}))
	}
	return s
}

// selectRoots returns the node named by id, or every root when id is empty.
func selectRoots(f *ngio.Forest, id string) ([]*tree.Node[string], error) {
	if id == "" {
		roots := f.Roots()
		if len(roots) == 0 {
			return nil, fmt.Errorf("graph has no nodes")
		}
		return roots, nil
	}
	n, ok := f.Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ngio.ErrUnknownNode, id)
	}
	return []*tree.Node[string]{n}, nil
}

// selectRoot is selectRoots for commands that need exactly one root.
func selectRoot(f *ngio.Forest, id string) (*tree.Node[string], error) {
	roots, err := selectRoots(f, id)
	if err != nil {
		return nil, err
	}
	if len(roots) > 1 {
		return nil, fmt.Errorf("graph has %d roots, pick one with --root", len(roots))
	}
	return roots[0], nil
}

// createOutput opens path for writing, or returns w when path is empty.
func createOutput(path string, w io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
