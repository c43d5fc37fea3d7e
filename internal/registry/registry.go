// Package registry implements the importer and function registries spec.md
// §4.8 describes: numeric-id tables the compiler references by id or, for
// functions, by name. Grounded in internal/tracker's "smallest free slot"
// shape for the bookkeeping style, fleshed out with the process-wide
// monotonic counter spec.md §9's Open Questions section and DESIGN.md's
// decision 1 call for.
package registry

import (
	"strings"
	"sync/atomic"
)

// nextFunctionID is process-wide and write-once-per-registration, matching
// spec.md §5 "The only process-wide state is the monotonic function-id
// counter; it is write-once-per-registration and only increases." Whether
// this cross-session sharing is deliberate or accidental is spec.md's own
// unresolved question (§9); this repo reproduces the behavior rather than
// silently "fixing" it.
var nextFunctionID int64

// NewFunctionID returns the next process-wide function id.
func NewFunctionID() int64 {
	return atomic.AddInt64(&nextFunctionID, 1) - 1
}

// HostFunc is a host-registered Sass function: Signature is the full
// signature text ("mix($color1, $color2)"); Name is Signature truncated to
// the first "(" (spec.md §3 FunctionRegistry: "the function's simple name,
// extracted from its signature up to the first `(`").
type HostFunc struct {
	ID        int64
	Signature string
	Name      string
}

func functionName(signature string) string {
	if i := strings.IndexByte(signature, '('); i >= 0 {
		return signature[:i]
	}
	return signature
}

// FunctionRegistry tables host functions by id and by simple name.
type FunctionRegistry struct {
	byID   map[int64]*HostFunc
	byName map[string]*HostFunc
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		byID:   make(map[int64]*HostFunc),
		byName: make(map[string]*HostFunc),
	}
}

// Register assigns signature a fresh process-wide id and tables it by both
// id and simple name.
func (r *FunctionRegistry) Register(signature string) *HostFunc {
	f := &HostFunc{
		ID:        NewFunctionID(),
		Signature: signature,
		Name:      functionName(signature),
	}
	r.byID[f.ID] = f
	r.byName[f.Name] = f
	return f
}

// ByID looks up a function by its numeric id.
func (r *FunctionRegistry) ByID(id int64) (*HostFunc, bool) {
	f, ok := r.byID[id]
	return f, ok
}

// ByName looks up a function by its simple name.
func (r *FunctionRegistry) ByName(name string) (*HostFunc, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Importer is a host-registered importer, referenced by id from a
// CompileRequest's Importers list and then by the same id in
// Canonicalize/Import/FileImport request triples.
type Importer struct {
	ID int64
}

// ImporterRegistry tables host importers by id within one session. Unlike
// the function registry, importer ids are scoped to a single compile
// (spec.md §3 Session) rather than process-wide.
type ImporterRegistry struct {
	next int64
	byID map[int64]interface{}
}

// NewImporterRegistry returns an empty, session-scoped importer registry.
func NewImporterRegistry() *ImporterRegistry {
	return &ImporterRegistry{byID: make(map[int64]interface{})}
}

// Register tables an arbitrary host importer value (the root package
// defines the actual importer interfaces; this registry only needs
// identity, not behavior) and returns its freshly assigned id.
func (r *ImporterRegistry) Register(importer interface{}) int64 {
	id := r.next
	r.next++
	r.byID[id] = importer
	return id
}

// ByID looks up a registered importer.
func (r *ImporterRegistry) ByID(id int64) (interface{}, bool) {
	v, ok := r.byID[id]
	return v, ok
}
