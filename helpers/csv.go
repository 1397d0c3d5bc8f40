package helpers

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/spektr-org/pairplot/engine"
)

// ============================================================================
// CSV HELPER — Parses CSV data into an engine.Dataset
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, S3, Sheets).
// This helper converts the raw bytes into generic rows: numeric cells become
// float64, null tokens become nil, everything else stays a string.
// ============================================================================

// nullTokens are cell values read as missing.
var nullTokens = map[string]bool{
	"": true, "null": true, "NULL": true, "NA": true, "N/A": true, "n/a": true, "NaN": true,
}

// ParseCSV parses CSV bytes with a header row. It returns the rows and the
// header names in file order. Malformed rows are skipped.
func ParseCSV(data []byte) (engine.Dataset, []string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read CSV headers")
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := engine.Dataset{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		row := make(engine.Row, len(headers))
		for i, h := range headers {
			if i >= len(record) {
				row[h] = nil
				continue
			}
			row[h] = parseCell(record[i])
		}
		rows = append(rows, row)
	}

	return rows, headers, nil
}

// parseCell converts one CSV cell to a scalar.
func parseCell(raw string) any {
	val := strings.TrimSpace(raw)
	if nullTokens[val] {
		return nil
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(val, ",", ""), 64); err == nil && looksNumeric(val) {
		return f
	}
	return val
}

// looksNumeric rejects strings ParseFloat accepts but people don't mean as
// numbers ("Inf", "nan", "0x1p-2").
func looksNumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == ',', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}
