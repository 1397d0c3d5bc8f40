package engine

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/spektr-org/pairplot/schema"
)

var (
	// ErrUnmappedColumn means a requested column has no semantic type.
	ErrUnmappedColumn = errors.New("column has no semantic type")
	// ErrUnsupportedPair means no chart template handles the type combination.
	ErrUnsupportedPair = errors.New("unsupported column type combination")
	// ErrInvalidOption means an option value is out of range.
	ErrInvalidOption = errors.New("invalid option")
)

// PairError reports a pair the selector could not dispatch.
type PairError struct {
	Pair  ColumnPair
	Types [2]schema.SemanticType
	Err   error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("pair (%s: %s, %s: %s): %v",
		e.Pair.A, typeLabel(e.Types[0]), e.Pair.B, typeLabel(e.Types[1]), e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }

func typeLabel(t schema.SemanticType) string {
	if t == "" {
		return "unmapped"
	}
	return string(t)
}
