package embeddedsass

import "embeddedsass/internal/wire"

// SourceSpan locates a diagnostic in source text (spec.md §6 "SourceSpan").
// Line/column are zero-based on the wire and exposed unchanged here.
type (
	SourceSpan     = wire.SourceSpan
	SourceLocation = wire.SourceLocation
)

// LogEventType classifies a LogEvent.
type LogEventType = wire.LogEventType

// Log event type values.
const (
	LogEventWarning            = wire.LogEventWarning
	LogEventDeprecationWarning = wire.LogEventDeprecationWarning
	LogEventDebug              = wire.LogEventDebug
)

// LogEvent is a warning/deprecation-warning/debug message emitted while
// compiling (spec.md §6 "LogEvent").
type LogEvent = wire.LogEvent

// Logger receives LogEvents as they arrive. Both methods are optional in
// the sense that a caller may leave either nil; Compiler checks before
// calling (spec.md §6 "logger: { warn?, debug? }").
type Logger struct {
	Warn  func(event *LogEvent)
	Debug func(event *LogEvent)
}

// dispatch routes event to Warn or Debug depending on its type, matching
// godartsass's default behavior of writing formatted log events to stderr
// when no logger is configured (spec.md §5 "Supplemented features").
func (l *Logger) dispatch(event *LogEvent) {
	switch event.Type {
	case LogEventDebug:
		if l != nil && l.Debug != nil {
			l.Debug(event)
			return
		}
	default:
		if l != nil && l.Warn != nil {
			l.Warn(event)
			return
		}
	}
	defaultLogSink(event)
}
