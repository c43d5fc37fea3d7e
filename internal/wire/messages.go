// Package wire holds the tagged-union message types of the Embedded Sass
// Protocol (spec.md §6) and their protobuf-wire codec.
//
// There is no generated embeddedsassv1 package here: this repo builds
// without running protoc, so the oneof-based generated types the real
// protocol uses (see the godartsass reference file,
// other_examples/76028f7a_bep-godartsass__transpiler.go.go, which imports
// such a generated package) are replaced by hand-written Go sum types, per
// DESIGN NOTES §9 ("Tagged-union message cases... replaced by pattern
// matching"). Field numbers below are this codec's own and only need to
// be self-consistent; see DESIGN.md's "hand-rolled protobuf" note.
package wire

// Kind values identify the case of a tagged-union message. They double as
// the "expected response kind" strings the request tracker (internal/tracker)
// stores per pending request.
const (
	KindCompileRequest      = "CompileRequest"
	KindCanonicalizeResponse = "CanonicalizeResponse"
	KindImportResponse       = "ImportResponse"
	KindFileImportResponse   = "FileImportResponse"
	KindFunctionCallResponse = "FunctionCallResponse"

	KindCompileResponse     = "CompileResponse"
	KindLogEvent            = "LogEvent"
	KindCanonicalizeRequest = "CanonicalizeRequest"
	KindImportRequest       = "ImportRequest"
	KindFileImportRequest   = "FileImportRequest"
	KindFunctionCallRequest = "FunctionCallRequest"
	KindError               = "Error"
)

// Style is the CSS output style requested for a compile.
type Style int

const (
	StyleExpanded Style = iota
	StyleCompressed
)

// Syntax is the input stylesheet syntax.
type Syntax int

const (
	SyntaxSCSS Syntax = iota
	SyntaxIndented
	SyntaxCSS
)

// ErrorType classifies an out-of-band protocol Error message.
type ErrorType int

const (
	ErrorTypeParse ErrorType = iota
	ErrorTypeParams
	ErrorTypeInternal
)

// LogEventType classifies a LogEvent.
type LogEventType int

const (
	LogEventWarning            LogEventType = iota
	LogEventDeprecationWarning
	LogEventDebug
)

// SourceLocation is a zero-based offset/line/column triple, exposed
// unchanged from the wire (spec.md §6 SourceSpan).
type SourceLocation struct {
	Offset int
	Line   int
	Column int
}

// SourceSpan locates a diagnostic in source text.
type SourceSpan struct {
	Text    string
	Start   SourceLocation
	End     SourceLocation
	URL     string
	Context string
}

// Importer is one entry of CompileRequest.importers: exactly one of Path,
// ImporterID, FileImporterID is set.
type Importer struct {
	Path           string
	ImporterID     *int64
	FileImporterID *int64
}

// StringInput is the in-memory form of CompileRequest.input.
type StringInput struct {
	Source   string
	URL      string
	Syntax   Syntax
	Importer *Importer
}

// CompileRequest is the only inbound request kind (spec.md §3 "currently
// only CompileRequest").
type CompileRequest struct {
	ID                      int
	PathInput               *string
	StringInput             *StringInput
	Style                   Style
	SourceMap               bool
	SourceMapIncludeSources bool
	Importers               []Importer
	GlobalFunctions         []string
	AlertColor              bool
	AlertAscii              bool
	QuietDeps               bool
	Verbose                 bool
	Charset                 bool
}

// CanonicalizeResponse answers a CanonicalizeRequest. A nil URL and nil
// Error together mean "this importer declines the URL".
type CanonicalizeResponse struct {
	ID    int
	URL   *string
	Error *string
}

// ImportSuccess is the success arm of ImportResponse.
type ImportSuccess struct {
	Contents     string
	Syntax       Syntax
	SourceMapURL *string
}

// ImportResponse answers an ImportRequest.
type ImportResponse struct {
	ID      int
	Success *ImportSuccess
	Error   *string
}

// FileImportResponse answers a FileImportRequest.
type FileImportResponse struct {
	ID      int
	FileURL *string
	Error   *string
}

// FunctionCallResponse answers a FunctionCallRequest.
type FunctionCallResponse struct {
	ID                    int
	Success               *Value
	Error                 *string
	AccessedArgumentLists []int64
}

// InboundMessage is the host-to-compiler tagged union (spec.md §3, §6).
// Exactly one field other than Kind is non-nil; decode/encode match
// exhaustively on Kind rather than relying on a generated oneof.
type InboundMessage struct {
	Kind                  string
	CompileRequest        *CompileRequest
	CanonicalizeResponse  *CanonicalizeResponse
	ImportResponse        *ImportResponse
	FileImportResponse    *FileImportResponse
	FunctionCallResponse  *FunctionCallResponse
}

// CompileSuccess is the success arm of CompileResponse.
type CompileSuccess struct {
	CSS        string
	SourceMap  string
	LoadedURLs []string
}

// CompileFailure is the failure arm of CompileResponse (surfaced to the
// caller as a SassException, spec.md §7 kind 5).
type CompileFailure struct {
	Message    string
	Span       *SourceSpan
	StackTrace string
	Formatted  string
}

// CompileResponse answers a CompileRequest.
type CompileResponse struct {
	ID      int
	Success *CompileSuccess
	Failure *CompileFailure
}

// LogEvent is a warning/deprecation-warning/debug message emitted while
// running a compile. It carries no request id; it is fanned out, not
// resolved against a tracker slot (spec.md §4.5 routing rule 1).
type LogEvent struct {
	Type       LogEventType
	Message    string
	Formatted  string
	Span       *SourceSpan
	StackTrace string
}

// CanonicalizeRequest asks the host to resolve url to a canonical URL via
// the importer identified by ImporterID.
type CanonicalizeRequest struct {
	ID         int
	ImporterID int64
	URL        string
	FromImport bool
}

// ImportRequest asks the host to load contents for a canonical URL.
type ImportRequest struct {
	ID         int
	ImporterID int64
	URL        string
}

// FileImportRequest asks the host to resolve url to a file:// URL via a
// file importer.
type FileImportRequest struct {
	ID         int
	ImporterID int64
	URL        string
	FromImport bool
}

// FunctionCallRequest invokes a host function, identified either by Name
// or by FunctionID.
type FunctionCallRequest struct {
	ID         int
	Name       *string
	FunctionID *int64
	Arguments  []*Value
}

// ErrorMessage is the compiler's out-of-band protocol-error report
// (spec.md §6 "Error"). DecodeOutbound returns it as an ordinary message
// of KindError; the dispatcher turns it into a HostError (spec.md §7 kind
// 3) when it handles it.
type ErrorMessage struct {
	Type    ErrorType
	ID      int
	Message string
}

// OutboundMessage is the compiler-to-host tagged union.
type OutboundMessage struct {
	Kind                 string
	CompileResponse      *CompileResponse
	LogEvent             *LogEvent
	CanonicalizeRequest  *CanonicalizeRequest
	ImportRequest        *ImportRequest
	FileImportRequest    *FileImportRequest
	FunctionCallRequest  *FunctionCallRequest
	Error                *ErrorMessage
}
