package syncdriver

import (
	"bytes"
	"io"
	"testing"
	"time"

	"embeddedsass/internal/dispatch"
	"embeddedsass/internal/framer"
	"embeddedsass/internal/process"
	"embeddedsass/internal/wire"
)

type fakeChild struct {
	stdout io.Reader
	stderr io.Reader
	exited chan process.ExitResult
}

func (f *fakeChild) Stdout() io.Reader                     { return f.stdout }
func (f *fakeChild) Stderr() io.Reader                      { return f.stderr }
func (f *fakeChild) Exited() <-chan process.ExitResult { return f.exited }

func noopHandlers() dispatch.Handlers {
	return dispatch.Handlers{
		HandleImport:       func(*wire.ImportRequest) *wire.ImportResponse { return &wire.ImportResponse{} },
		HandleFileImport:   func(*wire.FileImportRequest) *wire.FileImportResponse { return &wire.FileImportResponse{} },
		HandleCanonicalize: func(*wire.CanonicalizeRequest) *wire.CanonicalizeResponse { return &wire.CanonicalizeResponse{} },
		HandleFunctionCall: func(*wire.FunctionCallRequest) *wire.FunctionCallResponse { return &wire.FunctionCallResponse{} },
	}
}

func TestCompileReturnsResponseDeliveredOverStdout(t *testing.T) {
	var stdin bytes.Buffer
	disp := dispatch.New(&stdin, noopHandlers())

	stdoutR, stdoutW := io.Pipe()
	child := &fakeChild{
		stdout: stdoutR,
		stderr: bytes.NewReader(nil),
		exited: make(chan process.ExitResult, 1),
	}
	driver := New(child, disp, nil)

	// The dispatcher's inbound tracker is fresh, so the first
	// SendCompileRequest (issued inside driver.Compile below) is assigned
	// id 0 deterministically; this goroutine plays the compiler side of
	// the wire, answering that id directly.
	go func() {
		time.Sleep(20 * time.Millisecond)
		outMsg := &wire.OutboundMessage{
			Kind: wire.KindCompileResponse,
			CompileResponse: &wire.CompileResponse{
				ID:      0,
				Success: &wire.CompileSuccess{CSS: "a{}"},
			},
		}
		payload := wire.EncodeOutbound(outMsg)
		stdoutW.Write(framer.Encode(payload))
	}()

	resp, err := driver.Compile(&wire.CompileRequest{StringInput: &wire.StringInput{Source: "a{}"}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if resp.Success.CSS != "a{}" {
		t.Fatalf("got %+v", resp)
	}
}

func TestCompileFailsWhenChildExitsBeforeResponse(t *testing.T) {
	var stdin bytes.Buffer
	disp := dispatch.New(&stdin, noopHandlers())

	stdoutR, _ := io.Pipe()
	exited := make(chan process.ExitResult, 1)
	exited <- process.ExitResult{Err: nil}
	child := &fakeChild{
		stdout: stdoutR,
		stderr: bytes.NewReader(nil),
		exited: exited,
	}
	driver := New(child, disp, nil)

	_, err := driver.Compile(&wire.CompileRequest{StringInput: &wire.StringInput{Source: "a{}"}})
	if err != ErrCompilerExited {
		t.Fatalf("err = %v, want %v", err, ErrCompilerExited)
	}
}
