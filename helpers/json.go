package helpers

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/spektr-org/pairplot/engine"
)

// ParseJSON parses a JSON array of row objects. Columns are returned in
// order of first appearance across rows. Numbers decode as float64.
func ParseJSON(data []byte) (engine.Dataset, []string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, errors.Wrap(err, "rows must be a JSON array of objects")
	}

	rows := make(engine.Dataset, 0, len(raw))
	var columns []string
	seen := make(map[string]bool)

	for i, msg := range raw {
		var row engine.Row
		if err := json.Unmarshal(msg, &row); err != nil {
			return nil, nil, errors.Wrapf(err, "row %d", i)
		}
		if row == nil {
			row = engine.Row{}
		}
		rows = append(rows, row)

		keys, err := objectKeys(msg)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "row %d", i)
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}

	return rows, columns, nil
}

// objectKeys lists the top-level keys of a JSON object in document order.
func objectKeys(msg json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.Newf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		keys = append(keys, tok.(string))

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
