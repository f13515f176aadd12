package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hexglobe/internal/api"
	"github.com/matzehuels/hexglobe/pkg/observability/prom"
	"github.com/matzehuels/hexglobe/pkg/tile"
)

// serveCommand creates the "serve" command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var metrics bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HexGlobe HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			store, err := openTileStore(ctx, cfg.Tiles)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := api.New(runner, tile.NewService(runner.Index, store, c.Logger), c.Logger)
			if metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				prom.New(reg).Register()
				srv.Metrics = prom.HandlerFor(reg)
			}

			c.Logger.Info("starting server",
				"addr", addr,
				"cache", cfg.Cache.Backend,
				"tiles", cfg.Tiles.Backend)
			return srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout.Duration, cfg.Server.WriteTimeout.Duration)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics at /metrics")
	return cmd
}
