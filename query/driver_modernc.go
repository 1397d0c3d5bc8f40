//go:build !cgo_sqlite

package query

import (
	"database/sql/driver"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/patrickmn/go-cache"
	sqlite "modernc.org/sqlite"
)

// DriverName is the database/sql driver backing Open.
const DriverName = "sqlite"

var regexCache = cache.New(2*time.Minute, 5*time.Minute)

// regexp(pattern, text) lets queries filter with Go regular expressions,
// e.g. WHERE regexp('^Adelie', species).
func init() {
	sqlite.MustRegisterDeterministicScalarFunction(
		"regexp",
		2,
		func(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			pattern, ok := args[0].(string)
			if !ok {
				return nil, errors.New("regexp: expected pattern to be text")
			}
			text, ok := args[1].(string)
			if !ok {
				return false, nil
			}

			if !strings.HasPrefix(pattern, "(?s)") {
				pattern = "(?s)" + pattern
			}

			var re *regexp.Regexp
			if cached, found := regexCache.Get(pattern); found {
				re = cached.(*regexp.Regexp)
			} else {
				var err error
				re, err = regexp.Compile(pattern)
				if err != nil {
					return nil, errors.Wrap(err, "regexp")
				}
				regexCache.Set(pattern, re, cache.DefaultExpiration)
			}
			return re.MatchString(text), nil
		},
	)
}
