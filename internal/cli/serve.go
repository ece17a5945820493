package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bentogrid/pkg/api"
	"github.com/matzehuels/bentogrid/pkg/cache"
	"github.com/matzehuels/bentogrid/pkg/config"
	"github.com/matzehuels/bentogrid/pkg/store"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve profile documents over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			return c.serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :5000)")
	return cmd
}

// openStore opens the configured store, behind the read cache when one is
// configured. The returned cache is the one projections should use.
func (c *CLI) openStore(ctx context.Context) (store.Store, cache.Cache, error) {
	logger := loggerFromContext(ctx)
	opts := c.cfg.StoreOptions()
	opts.Logger = logger

	spin := newSpinner(ctx, "Opening "+opts.Backend+" store")
	spin.Start()
	st, err := store.Open(ctx, opts)
	if err != nil {
		spin.StopWithError("Could not open " + opts.Backend + " store")
		return nil, nil, err
	}
	spin.StopWithSuccess("Opened " + opts.Backend + " store")

	if c.cfg.Cache.Backend == config.CacheNone {
		return st, cache.NewNullCache(), nil
	}
	ch, err := c.newCache(ctx)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	logger.Info("cache enabled", "backend", c.cfg.Cache.Backend, "ttl", c.cfg.Cache.TTL)
	cached := store.NewCachedStore(st, ch, store.CachedOptions{
		Keyer:       c.cfg.Keyer(),
		TTL:         c.cfg.Cache.TTL.Duration,
		Breakpoints: c.breakpoints(),
		Logger:      logger,
	})
	return cached, ch, nil
}

func (c *CLI) serve(ctx context.Context) error {
	logger := loggerFromContext(ctx)

	st, ch, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("close store", "err", err)
		}
	}()

	srv := api.New(api.Options{
		Store:          st,
		Cache:          ch,
		Keyer:          c.cfg.Keyer(),
		Breakpoints:    c.breakpoints(),
		ReflowOnResize: c.cfg.Layout.ReflowOnResize,
		AdoptOrphans:   c.cfg.Layout.AdoptOrphans,
		AllowedOrigins: c.cfg.Server.AllowedOrigins,
		RequestTimeout: c.cfg.Server.RequestTimeout.Duration,
		Logger:         logger,
	})
	printKeyValue("Address", c.cfg.Server.Addr)
	printKeyValue("Store", c.cfg.Store.Backend)
	printKeyValue("Cache", c.cfg.Cache.Backend)
	return srv.ListenAndServe(ctx, c.cfg.Server.Addr)
}
