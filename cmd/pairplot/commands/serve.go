package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spektr-org/pairplot/logger"
	"github.com/spektr-org/pairplot/query"
	"github.com/spektr-org/pairplot/server"
)

// ServeCmd starts the query shell.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the query shell web server",
	Long: `Serve a page that runs SQL against the configured database and shows
the result rows next to their pair plot, plus a JSON API:

  POST /api/query       {"query": "...", "types": {...}}
  POST /api/plot        {"rows": [...], "types": {...}, "columns": [...]}
  GET  /api/plots/:id   a plot synthesized earlier
  GET  /healthz

Query results are cached for query.cache_ttl_seconds. With an empty
--database only /api/plot is available.

Examples:
  pairplot serve --database penguins.db
  pairplot serve --host 0.0.0.0 --port 9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().String("database", "", "SQLite database path or DSN (empty disables /api/query)")
	ServeCmd.Flags().Int("max-rows", 0, "Fail queries returning more rows")
	ServeCmd.Flags().String("host", "", "Listen host")
	ServeCmd.Flags().Int("port", 0, "Listen port")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var exec query.Executor
	if cfg.Query.Database != "" {
		db, err := query.Open(cfg.Query.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		cached := query.NewCachedExecutor(query.NewSQLExecutor(db, cfg.Query.MaxRows), cfg.Query.CacheTTL())
		defer func() {
			hits, misses := cached.Stats()
			logger.Infow("query cache", "hits", hits, "misses", misses)
		}()
		exec = cached

		logger.Infow("query backend ready",
			logger.FieldDriver, query.DriverName,
			"database", cfg.Query.Database)
	} else {
		logger.Warnw("no database configured, /api/query is disabled")
	}

	controller := server.NewPlotController(exec, cfg.Plot, cfg.Query.Timeout(), server.NewPlotStore(cfg.Server.PlotTTL()))
	return server.StartServer(ctx, controller, cfg.Server)
}
