package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/spektr-org/pairplot/engine"
	"github.com/spektr-org/pairplot/helpers"
	"github.com/spektr-org/pairplot/logger"
	"github.com/spektr-org/pairplot/schema"
)

// SpecCmd writes the pair plot of a dataset file.
var SpecCmd = &cobra.Command{
	Use:   "spec <dataset>",
	Short: "Write the pair plot spec of a CSV or JSON dataset",
	Long: `Synthesize the Vega-Lite pair plot of a dataset.

Column types come from --types (a JSON or YAML column → type map whose key
order is the plot order) or are discovered from the data.

Examples:
  pairplot spec cars.csv
  pairplot spec penguins.json --types penguins.types.yaml -o plot.vl.json
  pairplot spec cars.csv --columns Horsepower,Origin --truncation lazy`,
	Args: cobra.ExactArgs(1),
	RunE: runSpec,
}

var (
	specTypesPath string
	specColumns   []string
	specRecover   []string
	specOut       string
)

func init() {
	SpecCmd.Flags().StringVarP(&specTypesPath, "types", "t", "", "Column type map (.json, .yaml)")
	SpecCmd.Flags().StringSliceVar(&specColumns, "columns", nil, "Plot only these columns, in this order")
	SpecCmd.Flags().StringSliceVar(&specRecover, "recover", nil, "Discovery: keep these skipped columns as nominal")
	SpecCmd.Flags().StringVarP(&specOut, "out", "o", "", "Write the spec to a file instead of stdout")
	addPlotFlags(SpecCmd.Flags())
}

func runSpec(cmd *cobra.Command, args []string) error {
	rows, columns, err := helpers.LoadDataset(args[0])
	if err != nil {
		return err
	}

	var types schema.TypeMap
	if specTypesPath != "" {
		if types, err = helpers.LoadTypeMap(specTypesPath); err != nil {
			return err
		}
	} else {
		var skipped []schema.SkippedColumn
		types, skipped = schema.Discover(columns, rows, discoverOptions(specRecover))
		logSkippedColumns(skipped)
	}

	var extra []engine.Option
	if len(specColumns) > 0 {
		extra = append(extra, engine.WithColumns(specColumns...))
	}

	result, err := synthesize(rows, types, extra...)
	if err != nil {
		return err
	}
	return writeResult(cmd, result, specOut)
}

func discoverOptions(recoverColumns []string) schema.DiscoverOptions {
	opts := schema.DefaultDiscoverOptions()
	opts.RecoverColumns = recoverColumns
	return opts
}

// synthesize applies the configured plot options, then extra.
func synthesize(rows engine.Dataset, types schema.TypeMap, extra ...engine.Option) (*engine.Result, error) {
	opts, err := cfg.Plot.Options()
	if err != nil {
		return nil, err
	}
	return engine.Synthesize(rows, types, append(opts, extra...)...)
}

// writeResult writes the spec as indented JSON and a one-line summary to
// stderr, or a log line when logs are JSON.
func writeResult(cmd *cobra.Command, result *engine.Result, outPath string) error {
	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return errors.Wrapf(err, "create %s", outPath)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result.Spec); err != nil {
		return errors.Wrap(err, "encode spec")
	}

	for _, s := range result.Skipped {
		logger.Warnw("pair skipped",
			"a", s.Pair.A, "b", s.Pair.B,
			"types", fmt.Sprintf("%s × %s", s.Types[0], s.Types[1]),
			"reason", s.Reason)
	}

	if logger.JSONOutput {
		logger.Infow("spec written",
			logger.FieldPairs, len(result.Pairs),
			logger.FieldSkipped, len(result.Skipped),
			"out", outPath)
		return nil
	}

	summary := fmt.Sprintf("%d panels", len(result.Pairs))
	if len(result.Skipped) > 0 {
		summary += fmt.Sprintf(", %d pairs skipped", len(result.Skipped))
	}
	if outPath != "" {
		summary += " → " + outPath
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", pterm.LightGreen("✓"), summary)
	return nil
}

func logSkippedColumns(skipped []schema.SkippedColumn) {
	for _, s := range skipped {
		logger.Infow("column skipped",
			"column", s.Column,
			"reason", s.Reason,
			"recoverable", s.Recoverable)
	}
}
