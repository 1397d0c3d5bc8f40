package logger

import "go.uber.org/zap/zapcore"

// Standard field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldPlotID     = "plot_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldQuery      = "query"
	FieldDriver     = "driver"
	FieldAddress    = "address"
	FieldDurationMS = "duration_ms"
	FieldRows       = "rows"
	FieldColumns    = "columns"
	FieldPairs      = "pairs"
	FieldSkipped    = "skipped"
	FieldCacheHit   = "cache_hit"
	FieldError      = "error"
)

// Verbosity levels for the -v flag count.
const (
	VerbosityUser  = 0 // results and errors only
	VerbosityInfo  = 1 // -v: + progress, startup
	VerbosityDebug = 2 // -vv: + queries, timing, config details
)

// VerbosityToLevel maps -v flag counts to zap levels:
// 0 → warn, 1 → info, 2+ → debug.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
