package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhuisman/etymon/internal/api"
	"github.com/mhuisman/etymon/pkg/config"
	"github.com/mhuisman/etymon/pkg/garden"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The server exposes the pipeline over REST (trace, layout, export, modes,
and the garden) plus a server-sent event stream on /events that fires
when the config file or the garden file changes on disk.

The server shares the CLI's cache, so traces rendered on the command
line are warm for API clients and vice versa.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8573)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the runner and garden store and serves until ctx is
// cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store, err := c.newGarden(ctx)
	if err != nil {
		return fmt.Errorf("initialize garden: %w", err)
	}
	defer store.Close()

	if addr == "" {
		addr = c.Config.Serve.Addr
	}

	srv, err := api.New(api.Config{
		Addr:   addr,
		Runner: runner,
		Garden: store,
		Watch:  c.watchTargets(store),
		Logger: c.Logger,
	})
	if err != nil {
		return err
	}

	printInfo("Serving on %s", addr)
	printDetail("Press Ctrl+C to stop")
	return srv.ListenAndServe(ctx)
}

// watchTargets lists the files whose changes the event stream reports.
func (c *CLI) watchTargets(store garden.Store) map[string]string {
	watch := make(map[string]string)

	path := c.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		watch[path] = "config"
	}

	if fs, ok := store.(*garden.FileStore); ok {
		watch[fs.Path()] = "garden"
	}

	return watch
}
