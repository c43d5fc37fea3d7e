package embeddedsass

import "fmt"

// The error taxonomy spec.md §7 names. Each is a distinct Go type so
// callers can type-switch or errors.As on the kind they care about,
// matching the teacher's own style of plain Go error values rather than a
// single generic error with a code field (see
// graceful_restarts/SocketHandoff/main.go's plain fmt.Errorf/log.Fatalf
// use, and the godartsass reference file's ErrShutdown sentinel).

// ExecutableNotFoundError is raised before any I/O when the compiler
// binary cannot be located (spec.md §7 kind 1).
type ExecutableNotFoundError struct {
	SearchedPaths []string
}

func (e *ExecutableNotFoundError) Error() string {
	return "Embedded Sass compiler executable not found"
}

// CompilerError means the host detected a protocol violation in data it
// received (spec.md §7 kind 2). Message is always prefixed accordingly.
type CompilerError struct {
	Detail string
}

func (e *CompilerError) Error() string {
	return fmt.Sprintf("Compiler caused error: %s", e.Detail)
}

// HostError means the compiler reported a protocol error via an Error
// message (spec.md §7 kind 3).
type HostError struct {
	Detail string
}

func (e *HostError) Error() string {
	return fmt.Sprintf("Compiler reported error: %s", e.Detail)
}

// ProtocolError is a request/response bookkeeping violation detected
// locally: id reuse, unknown id, type mismatch, invalid id (spec.md §7
// kind 4). Detail is already one of the exact messages spec.md §8 and
// internal/tracker produce.
type ProtocolError struct {
	Detail string
}

func (e *ProtocolError) Error() string { return e.Detail }

// SassException is a compile failure: the compiler ran and returned a
// CompileResponse.failure (spec.md §7 kind 5).
type SassException struct {
	Message    string
	Span       *SourceSpan
	StackTrace string
	Formatted  string
}

func (e *SassException) Error() string { return e.Message }

// String reproduces the compiler's formatted diagnostic verbatim (spec.md
// §7 "User-visible formatting").
func (e *SassException) String() string { return e.Formatted }

// CompilerExitError means the child exited before a response arrived
// (spec.md §7 kind 6).
type CompilerExitError struct{}

func (e *CompilerExitError) Error() string { return "Embedded compiler exited unexpectedly." }

// ValueError is produced by the value bridge when inputs to a
// host-visible operation are out of range (spec.md §7 kind 7): negative
// alpha, an invalid unit string, a zero list index, and the like.
type ValueError struct {
	Detail string
}

func (e *ValueError) Error() string { return e.Detail }
