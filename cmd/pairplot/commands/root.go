// Package commands holds the pairplot command tree.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spektr-org/pairplot/config"
	"github.com/spektr-org/pairplot/logger"
)

var (
	configPath string

	// cfg is loaded once per invocation, before any command runs.
	cfg *config.Config
)

// RootCmd is the pairplot entry point.
var RootCmd = &cobra.Command{
	Use:   "pairplot",
	Short: "Pair-plot synthesis for typed tabular data",
	Long: `pairplot — pair plots for any table.

Every pair of typed columns gets one small chart: scatter for two
measures, a dot heat map for two categories, jittered strips or bars for
a measure against a category. The result is one Vega-Lite v5 spec with
linked selections across all panels.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (PAIRPLOT_* prefix)
3. Config file (--config, or ./pairplot.toml)
4. Default values

Examples:
  pairplot discover penguins.csv              # Show discovered column types
  pairplot spec penguins.csv -o plot.vl.json  # Write the pair plot spec
  pairplot query "SELECT * FROM cars"         # Plot a query result
  pairplot serve                              # Start the query shell`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded

		if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a pairplot.toml config file")
	RootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON to stdout")
	RootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v, -vv)")

	RootCmd.AddCommand(SpecCmd)
	RootCmd.AddCommand(DiscoverCmd)
	RootCmd.AddCommand(QueryCmd)
	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(VersionCmd)
}

// Execute runs the command tree and reports a failure with its hints.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", pterm.Red("Error:"), err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  %s %s\n", pterm.Yellow("hint:"), hint)
	}
}

// ── Config binding ───────────────────────────────────────────────────────────

// flagKeys maps command-line flags onto config keys. A flag overrides the
// config only when set.
var flagKeys = map[string]string{
	"log-json":     "log.json",
	"verbose":      "log.verbosity",
	"max-pairs":    "plot.max_pairs",
	"max-columns":  "plot.max_columns",
	"max-nominals": "plot.max_nominals",
	"truncation":   "plot.truncation",
	"layout":       "plot.layout",
	"jitter":       "plot.jitter",
	"seed":         "plot.jitter_seed",
	"strict":       "plot.strict",
	"database":     "query.database",
	"max-rows":     "query.max_rows",
	"host":         "server.host",
	"port":         "server.port",
}

func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	v := config.NewViper()
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}
	return config.Load(v, configPath)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed || bindErr != nil {
			return
		}
		bindErr = errors.Wrapf(v.BindPFlag(key, f), "bind --%s", f.Name)
	})
	return bindErr
}

// addPlotFlags registers the synthesis overrides shared by spec and query.
func addPlotFlags(flags *pflag.FlagSet) {
	flags.Int("max-pairs", 0, "Maximum number of panels")
	flags.Int("max-columns", 0, "Maximum number of columns considered")
	flags.Int("max-nominals", 0, "Maximum categories per nominal column")
	flags.String("truncation", "", "Category truncation: eager or lazy")
	flags.String("layout", "", "Panel layout: grid or vertical")
	flags.String("jitter", "", "Jitter mode: expression or literal")
	flags.Int64("seed", 0, "Seed for literal jitter")
	flags.Bool("strict", false, "Fail on pairs without a chart template")
}
