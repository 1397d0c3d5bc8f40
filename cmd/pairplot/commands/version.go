package commands

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/spektr-org/pairplot/query"
)

// Version is the pairplot release.
const Version = "0.3.0"

// VersionCmd prints version information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show pairplot version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := map[string]string{
			"version":  Version,
			"go":       runtime.Version(),
			"platform": runtime.GOOS + "/" + runtime.GOARCH,
			"driver":   query.DriverName,
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "pairplot %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s\n", info["platform"])
		fmt.Fprintf(cmd.OutOrStdout(), "Go: %s\n", info["go"])
		fmt.Fprintf(cmd.OutOrStdout(), "SQLite driver: %s\n", info["driver"])
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}
