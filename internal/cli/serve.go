package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tracelayout/pkg/observability"
	"github.com/matzehuels/tracelayout/pkg/pipeline"
	"github.com/matzehuels/tracelayout/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		source     string
		checkOrder bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve [input]",
		Short: "Serve computed tables over HTTP",
		Long: `Load a slice store once and serve computed tables over HTTP.

Routes:
  GET /healthz
  GET /v1/tracks
  GET /v1/tables
  GET /v1/tables/{name}?filter_track_ids=1,2&format=ascii

The server stops gracefully on interrupt.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input := c.Config.Source.MongoURI
			if len(args) == 1 {
				input = args[0]
			}
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ds, err := runner.Load(ctx, pipeline.Options{Input: input, Source: source, Logger: c.Logger})
			if err != nil {
				return err
			}

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetHTTPHooks(hooks)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			defer observability.Reset()

			srv := server.New(runner, ds,
				server.WithLogger(c.Logger),
				server.WithOrderCheck(checkOrder || c.Config.Layout.CheckOrder),
				server.WithTimeouts(c.Config.Server.ReadTimeout, c.Config.Server.WriteTimeout, c.Config.Server.ShutdownTimeout),
			)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config, :8080)")
	cmd.Flags().StringVar(&source, "source", "", "input kind: json, chrome or mongo (default: detected)")
	cmd.Flags().BoolVar(&checkOrder, "check-order", false, "verify track ordering on every request")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
