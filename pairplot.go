// Package pairplot renders exploratory pair-plot matrices.
// Picolytics for column pairs.
//
// Usage:
//
//	import "github.com/spektr-org/pairplot/engine"
//
//	result, err := engine.Synthesize(rows, types,
//	    engine.WithMaxPairs(8),
//	    engine.WithTruncation(engine.LazyTruncation{}),
//	)
//
// The engine takes rows (column → scalar maps) and a schema.TypeMap and
// returns a Vega-Lite v5 specification with one panel per column pair:
// scatter, heat-dot, bar or jittered strip, chosen from the column types.
//
// Query execution (query), type discovery (schema), loaders (helpers) and
// the HTTP shell (server) live in their own packages. The engine never does
// I/O — the spec it returns is a plain value handed to a Vega-Lite renderer.
package pairplot
