package commands

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/spektr-org/pairplot/helpers"
	"github.com/spektr-org/pairplot/schema"
)

// DiscoverCmd prints the semantic types discovery assigns to a dataset.
var DiscoverCmd = &cobra.Command{
	Use:   "discover <dataset>",
	Short: "Show the column types discovered in a dataset",
	Long: `Classify every column of a CSV or JSON dataset as quantitative,
nominal or temporal, and list the columns left out with the reason.

With --json the type map is printed in the format --types accepts, so it
can be saved, edited and passed back to "pairplot spec".

Examples:
  pairplot discover jira.csv
  pairplot discover jira.csv --recover Summary
  pairplot discover cars.csv --json > cars.types.json`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

var (
	discoverRecover []string
	discoverJSON    bool
)

func init() {
	DiscoverCmd.Flags().StringSliceVar(&discoverRecover, "recover", nil, "Keep these skipped columns as nominal")
	DiscoverCmd.Flags().BoolVarP(&discoverJSON, "json", "j", false, "Print the type map as JSON")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	rows, columns, err := helpers.LoadDataset(args[0])
	if err != nil {
		return err
	}

	types, skipped := schema.Discover(columns, rows, discoverOptions(discoverRecover))

	if discoverJSON {
		out, err := json.MarshalIndent(types, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode type map")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %d rows, %d columns\n\n",
		pterm.LightCyan(args[0]), len(rows), len(columns))

	data := pterm.TableData{{"Column", "Type"}}
	for _, col := range types.Columns() {
		data = append(data, []string{col.Name, string(col.Type)})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render(); err != nil {
		return errors.Wrap(err, "render types")
	}

	if len(skipped) == 0 {
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", pterm.Yellow("Skipped:"))
	data = pterm.TableData{{"Column", "Reason", "Recoverable"}}
	for _, s := range skipped {
		recoverable := ""
		if s.Recoverable {
			recoverable = "--recover " + s.Column
		}
		data = append(data, []string{s.Column, s.Reason, recoverable})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
}
