package embeddedsass

import "log"

// defaultLogSink writes a LogEvent's formatted diagnostic to the process
// log the way godartsass's caller does when no Logger is configured
// (spec.md §7 "User-visible formatting": "Log events whose formatted
// field is non-empty are written to the host's stderr when no logger is
// configured"). This repo uses the standard log package rather than a
// structured logging library, matching every teacher main() (see
// SocketHandoff/main.go's plain log.Printf use).
func defaultLogSink(event *LogEvent) {
	if event.Formatted == "" {
		return
	}
	log.Print(event.Formatted)
}
