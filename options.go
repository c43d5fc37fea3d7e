package embeddedsass

// Style is the CSS output style requested for a compile (spec.md §6
// "Host-exposed surface").
type Style string

const (
	StyleExpanded   Style = "expanded"
	StyleCompressed Style = "compressed"
)

// Syntax is the input stylesheet syntax, used only for string input.
type Syntax string

const (
	SyntaxSCSS     Syntax = "scss"
	SyntaxIndented Syntax = "indented"
	SyntaxCSS      Syntax = "css"
)

// Importer resolves `@use`/`@import` URLs to canonical URLs and loads
// their contents. The core only defines this contract (spec.md §1
// "Deliberately out of scope... the implementations of user-supplied
// importer and function callbacks"); implementations are supplied by the
// caller.
type Importer interface {
	// CanonicalizeURL resolves url to a canonical form, or returns ok=false
	// to decline (spec.md §6 CanonicalizeRequest/CanonicalizeResponse).
	CanonicalizeURL(url string, fromImport bool) (canonicalURL string, ok bool, err error)
	// Load returns the contents and syntax for a canonical URL previously
	// returned by CanonicalizeURL.
	Load(canonicalURL string) (contents string, syntax Syntax, sourceMapURL string, err error)
}

// FileImporter is the file-based variant of Importer: it resolves a URL
// directly to a file:// URL that the compiler itself then reads, rather
// than returning contents (spec.md §6 FileImportRequest/FileImportResponse).
type FileImporter interface {
	CanonicalizeFileURL(url string, fromImport bool) (fileURL string, ok bool, err error)
}

// FunctionCall carries a host function invocation's arguments plus the
// per-call state needed to report ArgumentList keyword access back to the
// compiler (spec.md §4.7 "accessed-argument-list set").
type FunctionCall struct {
	Arguments []*Value

	protofier interface {
		Keywords(al *ArgumentList) *OrderedMap
	}
}

// Keywords returns arg's keyword map if arg is an ArgumentList, recording
// that this call read it (spec.md §4.7: the set is "the union of IDs of
// decoded argument-lists whose keywords view was read").
func (c *FunctionCall) Keywords(arg *Value) *OrderedMap {
	if arg == nil || arg.Kind != ValueKindArgumentList {
		return nil
	}
	return c.protofier.Keywords(arg.ArgumentList)
}

// Function is a host-defined Sass function body.
type Function func(call *FunctionCall) (*Value, error)

// Options configures a single compile (spec.md §6 "Host-exposed surface").
// Zero value is a complete, valid configuration: expanded style, no
// source map, charset enabled, alert color autodetected from stdout,
// everything else off.
type Options struct {
	Style                   Style
	SourceMap               bool
	SourceMapIncludeSources bool
	LoadPaths               []string
	Importers               []Importer
	Functions               map[string]Function
	AlertColor              *bool // nil means "autodetect from stdout"
	AlertAscii              bool
	QuietDeps               bool
	Verbose                 bool
	DisableCharset          bool // charset defaults to true; set this to turn it off
	Syntax                  Syntax
	URL                     string
	Logger                  *Logger
}
