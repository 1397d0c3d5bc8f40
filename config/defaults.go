package config

import (
	"github.com/spf13/viper"

	"github.com/spektr-org/pairplot/engine"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Plot defaults
	v.SetDefault("plot.max_pairs", engine.DefaultMaxPairs)
	v.SetDefault("plot.max_columns", engine.DefaultMaxColumns)
	v.SetDefault("plot.max_nominals", engine.DefaultMaxNominals)
	v.SetDefault("plot.truncation", "eager")
	v.SetDefault("plot.layout", "grid")
	v.SetDefault("plot.jitter", "expression")
	v.SetDefault("plot.jitter_seed", 1)
	v.SetDefault("plot.strict", false)
	v.SetDefault("plot.palette.default", engine.DefaultPalette.Default)
	v.SetDefault("plot.palette.selected", engine.DefaultPalette.Selected)
	v.SetDefault("plot.palette.opacity", engine.DefaultPalette.Opacity)

	// Query defaults
	v.SetDefault("query.database", "pairplot.db")
	v.SetDefault("query.max_rows", 50000)
	v.SetDefault("query.cache_ttl_seconds", 120)
	v.SetDefault("query.timeout_seconds", 30)

	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 10.0) // requests/second per client
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("server.plot_ttl_seconds", 600)

	// Log defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}
