// Package tracker implements the request/response bookkeeping described in
// spec.md §4.4: a sparse table of "expected response kind" keyed by request
// id, with ids allocated as the smallest non-negative integer not currently
// in use.
//
// It is the fleshed-out form of what the teacher's empty idGen module
// was named for: an id generator, generalized here to also remember what
// each allocated id is waiting for.
package tracker

import "fmt"

// ProtocolError is returned for every local bookkeeping violation spec.md
// §4.4 and §7 (kind 4, ProtocolError) describe: id reuse, unknown id on
// resolve, or a response kind that doesn't match what was requested.
type ProtocolError struct {
	msg string
}

func (e *ProtocolError) Error() string { return e.msg }

func newProtocolError(format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{msg: fmt.Sprintf(format, args...)}
}

// Tracker is a sparse array of in-flight requests keyed by id. It is not
// safe for concurrent use; the dispatcher that owns a Tracker serializes
// access to it (see internal/dispatch).
type Tracker struct {
	slots map[int]string // id -> expected response kind
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{slots: make(map[int]string)}
}

// NextID returns the smallest non-negative integer not currently occupied
// by a pending request. It does not reserve the id; pair it with Add.
func (t *Tracker) NextID() int {
	for i := 0; ; i++ {
		if _, ok := t.slots[i]; !ok {
			return i
		}
	}
}

// Add registers a pending request with the response kind expected to
// resolve it. It fails if id is negative or already in flight.
func (t *Tracker) Add(id int, expectedKind string) error {
	if id < 0 {
		return newProtocolError("Request ID %d is invalid: must be non-negative.", id)
	}
	if _, ok := t.slots[id]; ok {
		return newProtocolError("Request ID %d is already in use by an in-flight request.", id)
	}
	t.slots[id] = expectedKind
	return nil
}

// Resolve releases the slot for id if actualKind matches what was
// registered for it. The slot is freed in all cases where id was found,
// even on a kind mismatch, matching the one-shot nature of a pending
// request: a second response for the same id is always "does not match
// any pending requests", never a second kind-mismatch report.
func (t *Tracker) Resolve(id int, actualKind string) error {
	expected, ok := t.slots[id]
	if !ok {
		return newProtocolError("Response ID %d does not match any pending requests.", id)
	}
	delete(t.slots, id)
	if expected != actualKind {
		return newProtocolError(
			"Response with ID %d does not match pending request's type. Expected %s but received %s.",
			id, expected, actualKind,
		)
	}
	return nil
}

// Len reports the number of in-flight requests.
func (t *Tracker) Len() int { return len(t.slots) }

// IDs returns the currently in-flight request ids, unordered.
func (t *Tracker) IDs() []int {
	ids := make([]int, 0, len(t.slots))
	for id := range t.slots {
		ids = append(ids, id)
	}
	return ids
}
