// Package query runs SQL against a tabular backend and returns rows in the
// shape the pair-plot engine consumes.
package query

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/spektr-org/pairplot/engine"
)

// Executor runs a query and returns its rows.
type Executor interface {
	Execute(ctx context.Context, q string) (*Result, error)
}

// Result is a tabular query result. Columns keep the backend's order.
// Callers must treat a Result as read-only; cached results are shared.
type Result struct {
	Columns []string       `json:"columns"`
	Rows    engine.Dataset `json:"rows"`
}

// ErrEmptyQuery is returned for blank query text.
var ErrEmptyQuery = errors.New("empty query")

// Open connects to a SQLite database with the driver compiled into this
// binary (see DriverName). In-memory databases are pinned to a single
// connection so every statement sees the same data.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database %q", DriverName, dsn)
	}
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
