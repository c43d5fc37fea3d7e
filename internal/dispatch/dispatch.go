// Package dispatch implements the bidirectional request/response router
// spec.md §4.5 describes, grounded on the godartsass reference file's
// pending-call table (`pending map[uint32]*call`) and its `input()`
// read-loop dispatch switch, generalized from one request kind
// (CompileRequest only, there) to the full set of outbound request kinds
// this protocol defines.
package dispatch

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"embeddedsass/internal/framer"
	"embeddedsass/internal/tracker"
	"embeddedsass/internal/wire"
)

// ErrClosed is the error every pending waiter and future send sees once
// the dispatcher has entered its terminal error state (spec.md §4.5 "Error
// discipline").
var ErrClosed = errors.New("Dispatcher closed")

// HostError wraps the message of a compiler-sent Error message (spec.md §7
// kind 3), distinguishing it from a locally detected *tracker.ProtocolError
// so callers can map each back to its own taxonomy kind instead of folding
// both into one generic failure.
type HostError struct {
	Detail string
}

func (e *HostError) Error() string { return fmt.Sprintf("Compiler reported error: %s", e.Detail) }

// CompileResult is delivered on the channel SendCompileRequest returns.
type CompileResult struct {
	Response *wire.CompileResponse
	Err      error
}

// Handlers are the host callbacks invoked for each outbound request kind
// the compiler can send (spec.md §4.5).
type Handlers struct {
	HandleImport        func(*wire.ImportRequest) *wire.ImportResponse
	HandleFileImport    func(*wire.FileImportRequest) *wire.FileImportResponse
	HandleCanonicalize  func(*wire.CanonicalizeRequest) *wire.CanonicalizeResponse
	HandleFunctionCall  func(*wire.FunctionCallRequest) *wire.FunctionCallResponse
}

// Dispatcher owns both trackers, the outbound message bus, the log-event
// stream, and the handler table. It is not safe for use by more than one
// goroutine driving it concurrently, matching spec.md §5 "a session
// belongs to the thread/task that created it".
type Dispatcher struct {
	stdin    io.Writer
	handlers Handlers

	mu       sync.Mutex
	inbound  *tracker.Tracker // host -> compiler: CompileRequest/CompileResponse
	outbound *tracker.Tracker // compiler -> host: Import/FileImport/Canonicalize/FunctionCall

	waiters map[int]chan CompileResult

	logCh  chan *wire.LogEvent
	done   chan struct{}
	err    error
	closed bool
}

// New returns a Dispatcher that writes framed inbound messages to stdin
// and routes outbound requests to handlers.
func New(stdin io.Writer, handlers Handlers) *Dispatcher {
	return &Dispatcher{
		stdin:    stdin,
		handlers: handlers,
		inbound:  tracker.New(),
		outbound: tracker.New(),
		waiters:  make(map[int]chan CompileResult),
		logCh:    make(chan *wire.LogEvent, 16),
		done:     make(chan struct{}),
	}
}

// LogEvents streams LogEvents in arrival order (spec.md §4.5 routing rule
// 1: "no bookkeeping"). It is closed, without a final value, when the
// dispatcher enters its terminal error state.
func (d *Dispatcher) LogEvents() <-chan *wire.LogEvent { return d.logCh }

// Done is closed once the dispatcher has failed.
func (d *Dispatcher) Done() <-chan struct{} { return d.done }

// Err returns the terminal error, or nil while the dispatcher is healthy.
func (d *Dispatcher) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// SendCompileRequest assigns req an id, writes it to stdin, and returns a
// channel that receives exactly one CompileResult (spec.md §4.5 "Sending a
// CompileRequest").
func (d *Dispatcher) SendCompileRequest(req *wire.CompileRequest) (<-chan CompileResult, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrClosed
	}
	id := d.inbound.NextID()
	if err := d.inbound.Add(id, wire.KindCompileResponse); err != nil {
		d.mu.Unlock()
		return nil, err
	}
	req.ID = id
	ch := make(chan CompileResult, 1)
	d.waiters[id] = ch
	d.mu.Unlock()

	if err := d.write(&wire.InboundMessage{Kind: wire.KindCompileRequest, CompileRequest: req}); err != nil {
		d.fail(err)
		return ch, nil
	}
	return ch, nil
}

func (d *Dispatcher) write(msg *wire.InboundMessage) error {
	payload := wire.EncodeInbound(msg)
	_, err := d.stdin.Write(framer.Encode(payload))
	return err
}

// HandleOutbound routes one decoded OutboundMessage per spec.md §4.5's
// numbered rules. It is called once per message the framer/codec produce.
func (d *Dispatcher) HandleOutbound(msg *wire.OutboundMessage) {
	if msg.Kind == wire.KindError {
		d.fail(&HostError{Detail: msg.Error.Message})
		return
	}

	switch msg.Kind {
	case wire.KindLogEvent:
		select {
		case d.logCh <- msg.LogEvent:
		case <-d.done:
		}
	case wire.KindCompileResponse:
		d.resolveCompile(msg.CompileResponse)
	case wire.KindCanonicalizeRequest:
		d.serve(msg.CanonicalizeRequest.ID, wire.KindCanonicalizeResponse, func() *wire.InboundMessage {
			return &wire.InboundMessage{
				Kind:                 wire.KindCanonicalizeResponse,
				CanonicalizeResponse: withID(d.handlers.HandleCanonicalize(msg.CanonicalizeRequest), msg.CanonicalizeRequest.ID),
			}
		})
	case wire.KindImportRequest:
		d.serve(msg.ImportRequest.ID, wire.KindImportResponse, func() *wire.InboundMessage {
			resp := d.handlers.HandleImport(msg.ImportRequest)
			resp.ID = msg.ImportRequest.ID
			return &wire.InboundMessage{Kind: wire.KindImportResponse, ImportResponse: resp}
		})
	case wire.KindFileImportRequest:
		d.serve(msg.FileImportRequest.ID, wire.KindFileImportResponse, func() *wire.InboundMessage {
			resp := d.handlers.HandleFileImport(msg.FileImportRequest)
			resp.ID = msg.FileImportRequest.ID
			return &wire.InboundMessage{Kind: wire.KindFileImportResponse, FileImportResponse: resp}
		})
	case wire.KindFunctionCallRequest:
		d.serve(msg.FunctionCallRequest.ID, wire.KindFunctionCallResponse, func() *wire.InboundMessage {
			resp := d.handlers.HandleFunctionCall(msg.FunctionCallRequest)
			resp.ID = msg.FunctionCallRequest.ID
			return &wire.InboundMessage{Kind: wire.KindFunctionCallResponse, FunctionCallResponse: resp}
		})
	}
}

func withID(resp *wire.CanonicalizeResponse, id int) *wire.CanonicalizeResponse {
	resp.ID = id
	return resp
}

// serve implements rule 3 of spec.md §4.5: add the outbound tracker slot,
// invoke the handler, write the inbound response, then resolve the slot.
func (d *Dispatcher) serve(id int, expectedKind string, build func() *wire.InboundMessage) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if err := d.outbound.Add(id, expectedKind); err != nil {
		d.mu.Unlock()
		d.fail(err)
		return
	}
	d.mu.Unlock()

	resp := build()

	if err := d.write(resp); err != nil {
		d.fail(err)
		return
	}

	d.mu.Lock()
	if err := d.outbound.Resolve(id, expectedKind); err != nil {
		d.mu.Unlock()
		d.fail(err)
		return
	}
	d.mu.Unlock()
}

func (d *Dispatcher) resolveCompile(resp *wire.CompileResponse) {
	d.mu.Lock()
	err := d.inbound.Resolve(resp.ID, wire.KindCompileResponse)
	ch, ok := d.waiters[resp.ID]
	if ok {
		delete(d.waiters, resp.ID)
	}
	d.mu.Unlock()

	if err != nil {
		d.fail(err)
		return
	}
	if ok {
		ch <- CompileResult{Response: resp}
	}
}

// fail transitions the dispatcher to its terminal error state exactly
// once (spec.md §4.5 "Error discipline").
func (d *Dispatcher) fail(err error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.err = err
	waiters := d.waiters
	d.waiters = nil
	d.mu.Unlock()

	for _, ch := range waiters {
		ch <- CompileResult{Err: err}
	}
	close(d.logCh)
	close(d.done)
}

// Fail lets the caller (e.g. the sync driver, on child exit) externally
// force the dispatcher into its terminal error state.
func (d *Dispatcher) Fail(err error) { d.fail(err) }
