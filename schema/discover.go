package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic semantic typing (the statType collaborator)
// ============================================================================
// Inspects query results or raw CSV and decides a SemanticType per column.
// No AI needed. Good enough for exploratory plots of well-structured data.
//
// Classification pipeline per column:
//   1. Sample values → detect storage type (numeric, date, bool, string)
//   2. Storage type + cardinality → semantic type or skip
//   3. Pattern matching on strings → temporal (Jan-2026, 2026-01, Q1 2026)
//
// Columns that cannot be classified are reported in SkippedColumn and are
// left out of the TypeMap, so they never reach the plot.
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int      // Max rows to inspect (0 = all). Default: 1000
	RecoverColumns []string // Force-include columns that were auto-skipped (as nominal)
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
	}
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `json:"column"`
	Reason      string `json:"reason"`
	Recoverable bool   `json:"recoverable"` // Can be restored via RecoverColumns
}

// Discover classifies columns of a tabular result.
// Column order of the returned TypeMap follows columns.
func Discover(columns []string, rows []map[string]any, opts ...DiscoverOptions) (TypeMap, []SkippedColumn) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	if opt.SampleSize > 0 && len(rows) > opt.SampleSize {
		rows = rows[:opt.SampleSize]
	}

	recoverSet := make(map[string]bool)
	for _, col := range opt.RecoverColumns {
		recoverSet[strings.ToLower(col)] = true
	}

	var types TypeMap
	var skipped []SkippedColumn

	for _, name := range columns {
		if name == "" {
			continue
		}
		values := make([]any, len(rows))
		for i, row := range rows {
			values[i] = row[name]
		}

		col := analyzeColumn(name, values)
		if col.skipped {
			if recoverSet[strings.ToLower(name)] && col.recoverable {
				types.Set(name, Nominal)
				continue
			}
			skipped = append(skipped, SkippedColumn{
				Column:      name,
				Reason:      col.skipReason,
				Recoverable: col.recoverable,
			})
			continue
		}
		types.Set(name, col.semantic)
	}

	return types, skipped
}

// DiscoverFromCSV reads CSV bytes (header + rows) and classifies each column.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (TypeMap, []SkippedColumn, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	headers, err := reader.Read()
	if err != nil {
		return TypeMap{}, nil, errors.Wrap(err, "failed to read CSV headers")
	}
	if len(headers) == 0 {
		return TypeMap{}, nil, errors.New("CSV has no columns")
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows []map[string]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		row := make(map[string]any, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}

	types, skipped := Discover(headers, rows, opts...)
	return types, skipped, nil
}

// StatType adapts a TypeMap to the statType callback shape used by the
// query shell: it returns "" for unknown columns.
func StatType(types TypeMap) func(string) SemanticType {
	return func(col string) SemanticType {
		t, _ := types.Get(col)
		return t
	}
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type storageType int

const (
	typeString storageType = iota
	typeNumeric
	typeDate
	typeBool
)

type columnAnalysis struct {
	name     string
	semantic SemanticType

	skipped     bool
	skipReason  string
	recoverable bool

	storage     storageType
	uniqueCount int
	totalCount  int
	hasDecimals bool
}

// analyzeColumn inspects all values in a column and classifies it.
func analyzeColumn(name string, raw []any) columnAnalysis {
	col := columnAnalysis{
		name:       name,
		totalCount: len(raw),
	}

	values := make([]string, 0, len(raw))
	uniqueSet := make(map[string]bool)
	typedNumbers := 0
	typedBools := 0

	for _, v := range raw {
		s, kind, ok := normalizeValue(v)
		if !ok {
			continue
		}
		switch kind {
		case typeNumeric:
			typedNumbers++
		case typeBool:
			typedBools++
		}
		values = append(values, s)
		uniqueSet[s] = true
	}

	col.uniqueCount = len(uniqueSet)

	if len(values) == 0 {
		col.skipped = true
		col.skipReason = "All values are empty/null"
		return col
	}

	// Typed values (JSON numbers, SQL integers) win over string sniffing.
	switch {
	case typedNumbers == len(values):
		col.storage = typeNumeric
	case typedBools == len(values):
		col.storage = typeBool
	default:
		col.storage = detectType(values)
	}

	if col.storage == typeNumeric {
		for _, v := range values {
			if strings.Contains(v, ".") {
				col.hasDecimals = true
				break
			}
		}
	}

	col.classify(values)
	return col
}

// normalizeValue turns a raw cell into a trimmed string and a storage hint.
// ok is false for missing values.
func normalizeValue(v any) (string, storageType, bool) {
	switch x := v.(type) {
	case nil:
		return "", typeString, false
	case string:
		s := strings.TrimSpace(x)
		if isNullToken(s) {
			return "", typeString, false
		}
		return s, typeString, true
	case []byte:
		return normalizeValue(string(x))
	case bool:
		return strconv.FormatBool(x), typeBool, true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", typeString, false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), typeNumeric, true
	case float32:
		return normalizeValue(float64(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), typeNumeric, true
	case time.Time:
		return x.Format(time.RFC3339), typeDate, true
	default:
		return "", typeString, false
	}
}

func isNullToken(s string) bool {
	switch s {
	case "", "null", "NULL", "N/A", "n/a", "NA", "NaN":
		return true
	}
	return false
}

// classify determines the semantic type or marks the column skipped.
func (col *columnAnalysis) classify(values []string) {
	total := len(values)

	switch col.storage {
	case typeNumeric:
		if col.uniqueCount == total && total > 10 && !col.hasDecimals {
			// Every value unique integer → likely an ID
			col.skip("Unique per row — likely an ID column", false)
			return
		}
		if col.hasDecimals {
			col.semantic = Quantitative
			return
		}
		// Few unique integers relative to rows → coded category (e.g. cylinders 4/6/8)
		uniqueRatio := float64(col.uniqueCount) / float64(total)
		if col.uniqueCount < 20 && uniqueRatio < 0.3 {
			col.semantic = Nominal
			return
		}
		col.semantic = Quantitative

	case typeDate:
		col.semantic = Temporal

	case typeBool:
		col.semantic = Nominal

	case typeString:
		if ok, _ := detectTemporalPattern(values); ok {
			col.semantic = Temporal
			return
		}
		if col.uniqueCount == total && total > 10 {
			col.skip("Unique per row — likely an identifier or free text", true)
			return
		}
		if col.uniqueCount > total/2 && col.uniqueCount > 50 {
			col.skip(fmt.Sprintf("High cardinality (%d unique values) — not useful as a category", col.uniqueCount), true)
			return
		}
		col.semantic = Nominal
	}
}

func (col *columnAnalysis) skip(reason string, recoverable bool) {
	col.skipped = true
	col.skipReason = reason
	col.recoverable = recoverable
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// detectType inspects values to determine storage type.
// Requires 80%+ of non-null values to match for numeric/date/bool.
func detectType(values []string) storageType {
	if len(values) == 0 {
		return typeString
	}

	numCount := 0
	dateCount := 0
	boolCount := 0

	for _, v := range values {
		if isNumeric(v) {
			numCount++
		}
		if isDate(v) {
			dateCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	if threshold < 1 {
		threshold = 1
	}

	if boolCount >= threshold {
		return typeBool
	}
	if dateCount >= threshold {
		return typeDate
	}
	if numCount >= threshold {
		return typeNumeric
	}
	return typeString
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "") // handle "1,234.56"
	s = strings.TrimPrefix(s, "-")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Bare years ("2006") are left to the numeric detector.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

func isDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "false" || s == "yes" || s == "no"
}

var monthPatterns = []struct {
	re     *regexp.Regexp
	format string
}{
	{regexp.MustCompile(`^[A-Z][a-z]{2}-\d{4}$`), "MMM-yyyy"}, // Jan-2026
	{regexp.MustCompile(`^\d{4}-\d{2}$`), "yyyy-MM"},          // 2026-01
	{regexp.MustCompile(`^Q[1-4]-\d{4}$`), "QN-yyyy"},         // Q1-2026
	{regexp.MustCompile(`^Q[1-4]\s+\d{4}$`), "QN yyyy"},       // Q1 2026
	{regexp.MustCompile(`^[A-Z][a-z]+ \d{4}$`), "MMMM yyyy"},  // January 2026
}

// detectTemporalPattern checks if values match known month/quarter patterns.
func detectTemporalPattern(values []string) (bool, string) {
	if len(values) == 0 {
		return false, ""
	}

	for _, pattern := range monthPatterns {
		matches := 0
		for _, s := range values {
			if pattern.re.MatchString(strings.TrimSpace(s)) {
				matches++
			}
		}
		if float64(matches)/float64(len(values)) >= 0.8 {
			return true, pattern.format
		}
	}

	return false, ""
}
