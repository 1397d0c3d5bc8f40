package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/spektr-org/pairplot/helpers"
	"github.com/spektr-org/pairplot/query"
	"github.com/spektr-org/pairplot/schema"
)

// QueryCmd plots the result of a SQL query.
var QueryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a SQL query and write the pair plot of its result",
	Long: `Run a query against the configured SQLite database and synthesize
the pair plot of the result. Column types are discovered unless --types
is given; columns the type map does not name are left out.

Examples:
  pairplot query "SELECT * FROM penguins"
  pairplot query "SELECT mpg, cyl, origin FROM cars" --database cars.db --layout vertical
  pairplot query "SELECT * FROM penguins" --rows`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var (
	queryTypesPath string
	queryOut       string
	queryRows      bool
)

func init() {
	QueryCmd.Flags().String("database", "", "SQLite database path or DSN")
	QueryCmd.Flags().Int("max-rows", 0, "Fail when the result has more rows")
	QueryCmd.Flags().StringVarP(&queryTypesPath, "types", "t", "", "Column type map (.json, .yaml)")
	QueryCmd.Flags().StringVarP(&queryOut, "out", "o", "", "Write the spec to a file instead of stdout")
	QueryCmd.Flags().BoolVar(&queryRows, "rows", false, "Print the result rows instead of the spec")
	addPlotFlags(QueryCmd.Flags())
}

func runQuery(cmd *cobra.Command, args []string) error {
	db, err := query.Open(cfg.Query.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := cfg.Query.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := query.NewSQLExecutor(db, cfg.Query.MaxRows).Execute(ctx, args[0])
	if err != nil {
		return err
	}

	if queryRows {
		return printRows(cmd, res)
	}

	var types schema.TypeMap
	if queryTypesPath != "" {
		given, err := helpers.LoadTypeMap(queryTypesPath)
		if err != nil {
			return err
		}
		types = schema.FromStatType(res.Columns, schema.StatType(given))
	} else {
		var skipped []schema.SkippedColumn
		types, skipped = schema.Discover(res.Columns, res.Rows)
		logSkippedColumns(skipped)
	}
	if types.Len() == 0 {
		return errors.WithHint(
			errors.New("no column of the result has a semantic type"),
			"pass --types, or select columns with numeric or categorical values")
	}

	result, err := synthesize(res.Rows, types)
	if err != nil {
		return err
	}
	return writeResult(cmd, result, queryOut)
}

func printRows(cmd *cobra.Command, res *query.Result) error {
	data := pterm.TableData{res.Columns}
	for _, row := range res.Rows {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			if v := row[col]; v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		data = append(data, cells)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render(); err != nil {
		return errors.Wrap(err, "render rows")
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %d rows (%s)\n",
		pterm.LightGreen("✓"), len(res.Rows), strings.Join(res.Columns, ", "))
	return nil
}
