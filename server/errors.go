package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/spektr-org/pairplot/engine"
	"github.com/spektr-org/pairplot/query"
)

// UserVisibleError carries a status code and a message safe to show to the
// client.
type UserVisibleError struct {
	HttpCode int
	Message  string
}

func (e *UserVisibleError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.HttpCode, e.Message)
}

// NewUserVisibleError builds a UserVisibleError.
func NewUserVisibleError(httpCode int, message string) *UserVisibleError {
	return &UserVisibleError{
		HttpCode: httpCode,
		Message:  message,
	}
}

// synthesisError maps engine failures to 422 and leaves anything else alone.
func synthesisError(err error) error {
	switch {
	case errors.Is(err, engine.ErrUnmappedColumn),
		errors.Is(err, engine.ErrUnsupportedPair),
		errors.Is(err, engine.ErrInvalidOption):
		return NewUserVisibleError(http.StatusUnprocessableEntity, withHints(err))
	}
	return err
}

// queryError maps backend failures to 400 with the driver message; the
// query text is the client's, so is the mistake.
func queryError(err error) error {
	switch {
	case errors.Is(err, query.ErrEmptyQuery):
		return NewUserVisibleError(http.StatusBadRequest, "query is empty")
	case errors.Is(err, context.DeadlineExceeded):
		return NewUserVisibleError(http.StatusGatewayTimeout, "query timed out")
	}
	return NewUserVisibleError(http.StatusBadRequest, withHints(err))
}

func withHints(err error) string {
	msg := err.Error()
	for _, hint := range errors.GetAllHints(err) {
		msg += " (hint: " + hint + ")"
	}
	return msg
}
