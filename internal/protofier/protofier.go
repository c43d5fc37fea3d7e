// Package protofier implements the per-function-call "value bridge" spec.md
// §4.7 describes. It is deliberately thin: internal/wire already defines
// the Value sum type and its codec; what this package adds is the
// *stateful* part spec.md calls out — the per-call argument-list
// keyword-access set and function-registry lookups — which is exactly the
// state DESIGN NOTES §9 says must move from an "any"-typed dynamic bridge
// into explicit per-call converter state.
package protofier

import (
	"fmt"

	"embeddedsass/internal/registry"
	"embeddedsass/internal/wire"
)

// Protofier converts wire values for a single host function call,
// recording which ArgumentList keyword views were read along the way.
type Protofier struct {
	functions *registry.FunctionRegistry
	accessed  map[int64]bool
}

// New returns a Protofier scoped to one function call, backed by the
// session's function registry for HostFunction lookups.
func New(functions *registry.FunctionRegistry) *Protofier {
	return &Protofier{functions: functions, accessed: make(map[int64]bool)}
}

// Keywords returns al's keyword map and marks al as accessed, so that its
// ID is included in AccessedArgumentLists() (spec.md §4.7 "the union of IDs
// of decoded argument-lists whose keywords view was read").
func (p *Protofier) Keywords(al *wire.ArgumentList) *wire.OrderedMap {
	p.accessed[al.ID] = true
	return al.Keywords
}

// AccessedArgumentLists returns the ids to attach to a FunctionCallResponse.
func (p *Protofier) AccessedArgumentLists() []int64 {
	ids := make([]int64, 0, len(p.accessed))
	for id := range p.accessed {
		ids = append(ids, id)
	}
	return ids
}

// FunctionValue resolves a host-registered function by its simple name
// into a wire Value the compiler can later invoke via functionId (spec.md
// §4.7 "HostFunction | hostFunction | allocates/looks up id in function
// registry").
func (p *Protofier) FunctionValue(name string) (*wire.Value, error) {
	f, ok := p.functions.ByName(name)
	if !ok {
		return nil, fmt.Errorf("protofier: no host function registered with name %q", name)
	}
	return &wire.Value{
		Kind: wire.ValueKindHostFunction,
		HostFunction: &wire.HostFunction{
			ID:        f.ID,
			Signature: f.Signature,
		},
	}, nil
}

// Decode parses a wire-encoded argument, the entry point for turning bytes
// received in a FunctionCallRequest into a Value the host function body
// operates on.
func (p *Protofier) Decode(buf []byte) (*wire.Value, error) {
	return wire.DecodeValue(buf)
}

// Encode serializes v, the return value of a host function body, back to
// wire bytes.
func (p *Protofier) Encode(v *wire.Value) []byte {
	return wire.EncodeValue(v)
}
