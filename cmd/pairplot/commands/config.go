package commands

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/spektr-org/pairplot/config"
)

// ConfigCmd inspects the effective configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect pairplot configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the configuration after merging defaults, the config file and
PAIRPLOT_* environment variables. The TOML output is a valid pairplot.toml.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json")
	ConfigCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	var (
		out []byte
		err error
	)
	switch configFormat {
	case "toml":
		out, err = config.Marshal(cfg)
	case "json":
		out, err = json.MarshalIndent(cfg, "", "  ")
	default:
		return errors.WithHint(
			errors.Newf("unknown format %q", configFormat),
			"use toml or json")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
