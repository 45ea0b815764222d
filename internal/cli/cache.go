package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/internal/config"
	"github.com/matzehuels/nodegraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage stored canonical nodes and documents",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheForgetCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry of the file cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.Backend != config.BackendFile && !c.cfg.Cache.Layered {
				printWarning("The %s backend has no local file cache", c.cfg.Cache.Backend)
				return nil
			}
			fc, err := cache.NewFileCache(c.cfg.Cache.Dir)
			if err != nil {
				return fmt.Errorf("open cache dir: %w", err)
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cfg.Cache.Dir)
			return nil
		},
	}
}

// cacheForgetCommand creates the "cache forget" subcommand.
func (c *CLI) cacheForgetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "forget [value...]",
		Short: "Delete stored canonical nodes by value",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			for _, v := range args {
				if err := b.resolver.Forget(cmd.Context(), v); err != nil {
					return fmt.Errorf("forget %q: %w", v, err)
				}
			}
			printSuccess("Forgot %d canonical nodes", len(args))
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the cache configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.cfg.Cache
			printKeyValue("backend", cc.Backend)
			printKeyValue("resolver", c.cfg.Resolver.Name)
			printKeyValue("ttl", cc.TTL.String())
			switch cc.Backend {
			case config.BackendRedis:
				printKeyValue("redis", fmt.Sprintf("%s db %d", cc.Redis.Addr, cc.Redis.DB))
			case config.BackendMongo:
				printKeyValue("mongo", cc.Mongo.Database+"."+cc.Mongo.Collection)
			}
			if cc.Backend == config.BackendFile || cc.Layered {
				printKeyValue("dir", cc.Dir)
			}
			if cc.Prefix != "" {
				printKeyValue("prefix", cc.Prefix)
			}
			return nil
		},
	}
}
