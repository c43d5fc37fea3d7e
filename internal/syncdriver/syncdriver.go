// Package syncdriver implements the blocking "sync-over-async" front end
// spec.md §4.6 describes: it lets a single OS thread drive the dispatcher
// by pumping the child's stdio one chunk at a time, grounded on the
// godartsass reference file's blocking `select` over `call.Done`/timeout
// in its synchronous `Execute`, reshaped per DESIGN NOTES §9's
// "sync-over-async" guidance into an explicit `yield_one()` primitive
// instead of a hidden event loop.
package syncdriver

import (
	"errors"
	"io"

	"embeddedsass/internal/dispatch"
	"embeddedsass/internal/framer"
	"embeddedsass/internal/process"
	"embeddedsass/internal/wire"
)

// ErrCompilerExited is raised when the child exits before a response
// arrives (spec.md §7 kind 6, "Embedded compiler exited unexpectedly.").
var ErrCompilerExited = errors.New("Embedded compiler exited unexpectedly.")

type eventKind int

const (
	eventStdout eventKind = iota
	eventStderr
	eventExit
)

type event struct {
	kind eventKind
	data []byte
	err  error
}

// Child is the subset of process.Session the driver needs, accepted as an
// interface so tests can drive it with pipes instead of a real child.
type Child interface {
	Stdout() io.Reader
	Stderr() io.Reader
	Exited() <-chan process.ExitResult
}

// Driver pumps one compiler child's stdio for a single blocking compile.
type Driver struct {
	sess      Child
	disp      *dispatch.Dispatcher
	framer    *framer.Framer
	stderrOut io.Writer

	events chan event
}

// New starts the background readers that feed YieldOne and returns a
// Driver ready to drive a blocking compile. stderrOut receives the
// child's stderr verbatim (spec.md §4.1: "Stderr chunks are forwarded
// verbatim to the host's stderr"); pass nil to discard it.
func New(sess Child, disp *dispatch.Dispatcher, stderrOut io.Writer) *Driver {
	d := &Driver{
		sess:      sess,
		disp:      disp,
		framer:    framer.New(),
		stderrOut: stderrOut,
		events:    make(chan event, 8),
	}
	go d.pump(sess.Stdout(), eventStdout)
	go d.pump(sess.Stderr(), eventStderr)
	go d.waitExit()
	return d
}

func (d *Driver) pump(r io.Reader, kind eventKind) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			d.events <- event{kind: kind, data: chunk}
		}
		if err != nil {
			return
		}
	}
}

func (d *Driver) waitExit() {
	res := <-d.sess.Exited()
	d.events <- event{kind: eventExit, err: res.Err}
}

// YieldOne blocks until the child produces one of {stdout chunk, stderr
// chunk, exit}, delivers it, and reports whether the child is still
// running (spec.md §4.6).
func (d *Driver) YieldOne() (bool, error) {
	ev := <-d.events
	switch ev.kind {
	case eventStdout:
		for _, payload := range d.framer.Feed(ev.data) {
			msg, err := wire.DecodeOutbound(payload)
			if err != nil {
				d.disp.Fail(err)
				return true, err
			}
			d.disp.HandleOutbound(msg)
		}
		return true, nil
	case eventStderr:
		if d.stderrOut != nil {
			d.stderrOut.Write(ev.data)
		}
		return true, nil
	case eventExit:
		return false, ev.err
	}
	return true, nil
}

// Compile drives one blocking compile to completion, implementing the
// loop spec.md §4.6 gives in pseudocode.
func (d *Driver) Compile(req *wire.CompileRequest) (*wire.CompileResponse, error) {
	resCh, err := d.disp.SendCompileRequest(req)
	if err != nil {
		return nil, err
	}
	for {
		select {
		case res := <-resCh:
			if res.Err != nil {
				return nil, res.Err
			}
			return res.Response, nil
		default:
		}

		more, _ := d.YieldOne()
		if !more {
			return nil, ErrCompilerExited
		}
		if err := d.disp.Err(); err != nil {
			return nil, err
		}
	}
}
