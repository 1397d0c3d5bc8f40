// Package config loads pairplot settings from pairplot.toml, PAIRPLOT_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"fmt"
	"time"
)

// Config is the full pairplot configuration.
type Config struct {
	Plot   PlotConfig   `mapstructure:"plot" toml:"plot"`
	Query  QueryConfig  `mapstructure:"query" toml:"query"`
	Server ServerConfig `mapstructure:"server" toml:"server"`
	Log    LogConfig    `mapstructure:"log" toml:"log"`
}

// PlotConfig holds the synthesis options (see Options).
type PlotConfig struct {
	MaxPairs    int    `mapstructure:"max_pairs" toml:"max_pairs"`
	MaxColumns  int    `mapstructure:"max_columns" toml:"max_columns"`
	MaxNominals int    `mapstructure:"max_nominals" toml:"max_nominals"`
	Truncation  string `mapstructure:"truncation" toml:"truncation"` // eager | lazy
	Layout      string `mapstructure:"layout" toml:"layout"`         // grid | vertical
	Jitter      string `mapstructure:"jitter" toml:"jitter"`         // expression | literal
	JitterSeed  int64  `mapstructure:"jitter_seed" toml:"jitter_seed"`
	Strict      bool   `mapstructure:"strict" toml:"strict"`

	Palette PaletteConfig `mapstructure:"palette" toml:"palette"`
}

// PaletteConfig holds the two-tone selection colors.
type PaletteConfig struct {
	Default  string  `mapstructure:"default" toml:"default"`
	Selected string  `mapstructure:"selected" toml:"selected"`
	Opacity  float64 `mapstructure:"opacity" toml:"opacity"`
}

// QueryConfig configures the SQL backend.
type QueryConfig struct {
	Database        string `mapstructure:"database" toml:"database"` // SQLite DSN
	MaxRows         int    `mapstructure:"max_rows" toml:"max_rows"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" toml:"cache_ttl_seconds"` // 0 disables caching
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" toml:"timeout_seconds"`
}

// CacheTTL returns the result cache lifetime.
func (q QueryConfig) CacheTTL() time.Duration {
	return time.Duration(q.CacheTTLSeconds) * time.Second
}

// Timeout returns the per-query deadline.
func (q QueryConfig) Timeout() time.Duration {
	return time.Duration(q.TimeoutSeconds) * time.Second
}

// ServerConfig configures the HTTP shell.
type ServerConfig struct {
	Host           string  `mapstructure:"host" toml:"host"`
	Port           int     `mapstructure:"port" toml:"port"`
	RateLimit      float64 `mapstructure:"rate_limit" toml:"rate_limit"` // requests per second per client; 0 disables
	RateBurst      int     `mapstructure:"rate_burst" toml:"rate_burst"`
	PlotTTLSeconds int     `mapstructure:"plot_ttl_seconds" toml:"plot_ttl_seconds"`
}

// Address returns host:port.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PlotTTL returns how long synthesized plots stay retrievable by id.
func (s ServerConfig) PlotTTL() time.Duration {
	return time.Duration(s.PlotTTLSeconds) * time.Second
}

// LogConfig configures the global logger.
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity"`
}
