package embeddedsass

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"embeddedsass/internal/dispatch"
	"embeddedsass/internal/execlookup"
	"embeddedsass/internal/process"
	"embeddedsass/internal/protofier"
	"embeddedsass/internal/registry"
	"embeddedsass/internal/syncdriver"
	"embeddedsass/internal/tracker"
	"embeddedsass/internal/wire"
)

// Result is the outcome of a successful compile (spec.md §6 "compile(...)
// → { css, source_map?, loaded_urls[] }").
type Result struct {
	CSS        string
	SourceMap  string
	LoadedURLs []string
}

// Compiler drives one or more compiles against freshly spawned compiler
// children, one child per compile (spec.md §1 Non-goals: "Multiplexing
// compilations over one child process").
type Compiler struct {
	// LibraryDir is the directory execlookup.Find searches relative to.
	// Left empty, it defaults to the current working directory.
	LibraryDir string
}

// Compile runs source through the embedded compiler synchronously,
// blocking the calling goroutine for the duration of the compile (spec.md
// §4.6 "Sync driver").
func (c *Compiler) Compile(source string, opts Options) (*Result, error) {
	return c.compile(opts.buildRequest(source), opts)
}

// CompilePath is the file-input variant of Compile.
func (c *Compiler) CompilePath(path string, opts Options) (*Result, error) {
	req := opts.buildRequest("")
	req.StringInput = nil
	req.PathInput = &path
	return c.compile(req, opts)
}

func (c *Compiler) compile(req *wire.CompileRequest, opts Options) (*Result, error) {
	bin, err := execlookup.Find(c.LibraryDir)
	if err != nil {
		return nil, &ExecutableNotFoundError{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, err := process.Start(ctx, bin)
	if err != nil {
		return nil, fmt.Errorf("embeddedsass: starting compiler: %w", err)
	}
	defer sess.Close()

	functions := registry.NewFunctionRegistry()
	for sig := range opts.Functions {
		functions.Register(sig)
	}
	importers := registry.NewImporterRegistry()
	fileImporters := registry.NewImporterRegistry()
	for _, imp := range opts.Importers {
		id := importers.Register(imp)
		req.Importers = append(req.Importers, wire.Importer{ImporterID: int64Ptr(id)})
		if fi, ok := imp.(FileImporter); ok {
			fid := fileImporters.Register(fi)
			req.Importers = append(req.Importers, wire.Importer{FileImporterID: int64Ptr(fid)})
		}
	}
	for _, p := range opts.LoadPaths {
		req.Importers = append(req.Importers, wire.Importer{Path: p})
	}
	for sig := range opts.Functions {
		req.GlobalFunctions = append(req.GlobalFunctions, sig)
	}

	handlers := dispatch.Handlers{
		HandleCanonicalize: func(r *wire.CanonicalizeRequest) *wire.CanonicalizeResponse {
			return handleCanonicalize(importers, r)
		},
		HandleImport: func(r *wire.ImportRequest) *wire.ImportResponse {
			return handleImport(importers, r)
		},
		HandleFileImport: func(r *wire.FileImportRequest) *wire.FileImportResponse {
			return handleFileImport(fileImporters, r)
		},
		HandleFunctionCall: func(r *wire.FunctionCallRequest) *wire.FunctionCallResponse {
			return handleFunctionCall(functions, opts.Functions, r)
		},
	}

	d := dispatch.New(sess.Stdin(), handlers)
	driver := syncdriver.New(sess, d, os.Stderr)

	go forwardLogs(d, opts.Logger)

	resp, err := driver.Compile(req)
	if err != nil {
		return nil, translateDriverError(err)
	}
	if resp.Failure != nil {
		return nil, &SassException{
			Message:    resp.Failure.Message,
			Span:       resp.Failure.Span,
			StackTrace: resp.Failure.StackTrace,
			Formatted:  resp.Failure.Formatted,
		}
	}
	return &Result{
		CSS:        resp.Success.CSS,
		SourceMap:  resp.Success.SourceMap,
		LoadedURLs: resp.Success.LoadedURLs,
	}, nil
}

// translateDriverError maps an error surfaced by the sync driver back to
// its spec.md §7 taxonomy kind, rather than folding everything into
// CompilerError (which is reserved for a protocol violation the host
// itself detected in data it received, §7 kind 2).
func translateDriverError(err error) error {
	switch e := err.(type) {
	case *dispatch.HostError:
		return &HostError{Detail: e.Detail}
	case *tracker.ProtocolError:
		return &ProtocolError{Detail: e.Error()}
	default:
		if err == syncdriver.ErrCompilerExited {
			return &CompilerExitError{}
		}
		return &CompilerError{Detail: err.Error()}
	}
}

func forwardLogs(d *dispatch.Dispatcher, logger *Logger) {
	for event := range d.LogEvents() {
		logger.dispatch(event)
	}
}

func (o Options) buildRequest(source string) *wire.CompileRequest {
	style := wire.StyleExpanded
	if o.Style == StyleCompressed {
		style = wire.StyleCompressed
	}
	syntax := wire.SyntaxSCSS
	switch o.Syntax {
	case SyntaxIndented:
		syntax = wire.SyntaxIndented
	case SyntaxCSS:
		syntax = wire.SyntaxCSS
	}
	alertColor := o.AlertColor
	autoColor := isatty.IsTerminal(os.Stdout.Fd())
	color := autoColor
	if alertColor != nil {
		color = *alertColor
	}
	return &wire.CompileRequest{
		StringInput: &wire.StringInput{
			Source: source,
			URL:    o.URL,
			Syntax: syntax,
		},
		Style:                   style,
		SourceMap:               o.SourceMap,
		SourceMapIncludeSources: o.SourceMapIncludeSources,
		AlertColor:              color,
		AlertAscii:              o.AlertAscii,
		QuietDeps:               o.QuietDeps,
		Verbose:                 o.Verbose,
		Charset:                 !o.DisableCharset,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func handleCanonicalize(importers *registry.ImporterRegistry, r *wire.CanonicalizeRequest) *wire.CanonicalizeResponse {
	v, ok := importers.ByID(r.ImporterID)
	if !ok {
		msg := fmt.Sprintf("unknown importer id %d", r.ImporterID)
		return &wire.CanonicalizeResponse{Error: &msg}
	}
	imp := v.(Importer)
	canonical, matched, err := imp.CanonicalizeURL(r.URL, r.FromImport)
	if err != nil {
		msg := err.Error()
		return &wire.CanonicalizeResponse{Error: &msg}
	}
	if !matched {
		return &wire.CanonicalizeResponse{}
	}
	return &wire.CanonicalizeResponse{URL: &canonical}
}

func handleImport(importers *registry.ImporterRegistry, r *wire.ImportRequest) *wire.ImportResponse {
	v, ok := importers.ByID(r.ImporterID)
	if !ok {
		msg := fmt.Sprintf("unknown importer id %d", r.ImporterID)
		return &wire.ImportResponse{Error: &msg}
	}
	imp := v.(Importer)
	contents, syntax, sourceMapURL, err := imp.Load(r.URL)
	if err != nil {
		msg := err.Error()
		return &wire.ImportResponse{Error: &msg}
	}
	wireSyntax := wire.SyntaxSCSS
	switch syntax {
	case SyntaxIndented:
		wireSyntax = wire.SyntaxIndented
	case SyntaxCSS:
		wireSyntax = wire.SyntaxCSS
	}
	success := &wire.ImportSuccess{Contents: contents, Syntax: wireSyntax}
	if sourceMapURL != "" {
		success.SourceMapURL = &sourceMapURL
	}
	return &wire.ImportResponse{Success: success}
}

func handleFileImport(fileImporters *registry.ImporterRegistry, r *wire.FileImportRequest) *wire.FileImportResponse {
	v, ok := fileImporters.ByID(r.ImporterID)
	if !ok {
		msg := fmt.Sprintf("unknown file importer id %d", r.ImporterID)
		return &wire.FileImportResponse{Error: &msg}
	}
	imp := v.(FileImporter)
	fileURL, matched, err := imp.CanonicalizeFileURL(r.URL, r.FromImport)
	if err != nil {
		msg := err.Error()
		return &wire.FileImportResponse{Error: &msg}
	}
	if !matched {
		return &wire.FileImportResponse{}
	}
	return &wire.FileImportResponse{FileURL: &fileURL}
}

func handleFunctionCall(functions *registry.FunctionRegistry, bodies map[string]Function, r *wire.FunctionCallRequest) *wire.FunctionCallResponse {
	var f *registry.HostFunc
	var ok bool
	switch {
	case r.Name != nil:
		f, ok = functions.ByName(*r.Name)
	case r.FunctionID != nil:
		f, ok = functions.ByID(*r.FunctionID)
	}
	if !ok {
		msg := "no host function registered for this call"
		if r.Name != nil {
			msg = fmt.Sprintf("no host function registered for %q", *r.Name)
		} else if r.FunctionID != nil {
			msg = fmt.Sprintf("unknown function id %d", *r.FunctionID)
		}
		return &wire.FunctionCallResponse{Error: &msg}
	}

	// bodies is keyed by the full signature (spec.md §6 "functions:
	// { signature -> callback }"); f.Signature is that same string, while
	// f.Name is only the simple name the wire protocol identifies calls by.
	body, ok := bodies[f.Signature]
	if !ok {
		msg := fmt.Sprintf("no host function registered for %q", f.Signature)
		return &wire.FunctionCallResponse{Error: &msg}
	}

	p := protofier.New(functions)
	call := &FunctionCall{Arguments: r.Arguments, protofier: p}
	result, err := body(call)
	if err != nil {
		msg := err.Error()
		return &wire.FunctionCallResponse{Error: &msg, AccessedArgumentLists: p.AccessedArgumentLists()}
	}
	return &wire.FunctionCallResponse{Success: result, AccessedArgumentLists: p.AccessedArgumentLists()}
}
