package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/visunn/internal/server"
	"github.com/matzehuels/visunn/pkg/observability"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	watch   bool
	noWatch bool
}

// serveCommand creates the fixture backend command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve DIR",
		Short: "Serve a directory of snapshot files as a backend",
		Long: `Serve snapshot fixtures over the same HTTP interface the viewer fetches from.

Every file DIR/<wire-tag>.json (root.json, root;features.json, ...) is
validated and served at /api/<wire-tag> and /topology/<wire-tag>. Invalid
files answer 500 with the validation error. With --watch the directory is
reloaded when its files change. Prometheus metrics are exposed at /metrics.`,
		Example: `  visunn serve ./snapshots
  visunn serve ./snapshots --addr :8080 --no-watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, localhost:5000)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload fixtures when files change")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "never reload fixtures")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, dir string, opts serveOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	addr := cfg.Serve.Addr
	if opts.addr != "" {
		addr = opts.addr
	}
	watch := cfg.Serve.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.watch
	}
	if opts.noWatch {
		watch = false
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observability.Install(observability.NewPrometheus(reg))
	defer observability.Reset()

	srv := server.New(dir, c.Logger, server.WithMetrics(reg))
	n, err := srv.Reload(ctx)
	if err != nil {
		return err
	}
	printSuccess("Loaded %d snapshots", n)
	printDetail("Directory: %s", dir)
	printNextStep("Browse them with", "visunn view --server http://"+addr)

	return serve(ctx, srv, addr, watch)
}

// serve runs the HTTP server and, if watch is set, the fixture watcher
// until ctx is done or either fails.
func serve(ctx context.Context, srv *server.Server, addr string, watch bool) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, addr)
	})
	if watch {
		g.Go(func() error {
			return srv.Watch(gctx)
		})
	}
	return g.Wait()
}
