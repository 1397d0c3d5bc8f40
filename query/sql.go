package query

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/spektr-org/pairplot/engine"
	"github.com/spektr-org/pairplot/logger"
)

// DefaultMaxRows bounds how many rows a query may return.
const DefaultMaxRows = 50000

// SQLExecutor runs queries on a database/sql handle.
type SQLExecutor struct {
	db      *sql.DB
	maxRows int
}

// NewSQLExecutor wraps db. maxRows <= 0 means DefaultMaxRows.
func NewSQLExecutor(db *sql.DB, maxRows int) *SQLExecutor {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &SQLExecutor{db: db, maxRows: maxRows}
}

// Execute runs q and converts every cell to an engine scalar: NULL → nil,
// []byte → string, time.Time → RFC 3339 string. Rows beyond the limit are
// an error rather than a silent truncation.
func (e *SQLExecutor) Execute(ctx context.Context, q string) (*Result, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "execute query")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "read result columns")
	}

	result := &Result{Columns: columns, Rows: engine.Dataset{}}
	cells := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range cells {
		ptrs[i] = &cells[i]
	}

	for rows.Next() {
		if len(result.Rows) >= e.maxRows {
			return nil, errors.WithHint(
				errors.Newf("query returned more than %d rows", e.maxRows),
				"add a LIMIT clause or aggregate the data")
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		row := make(engine.Row, len(columns))
		for i, col := range columns {
			row[col] = scalar(cells[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate rows")
	}

	logger.Named("query").Debugw("query executed",
		logger.FieldColumns, len(columns),
		logger.FieldRows, len(result.Rows),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return result, nil
}

func scalar(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return v
}
