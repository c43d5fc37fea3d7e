package dispatch

import (
	"bytes"
	"testing"
	"time"

	"embeddedsass/internal/wire"
)

func noopHandlers() Handlers {
	return Handlers{
		HandleImport:       func(*wire.ImportRequest) *wire.ImportResponse { return &wire.ImportResponse{} },
		HandleFileImport:   func(*wire.FileImportRequest) *wire.FileImportResponse { return &wire.FileImportResponse{} },
		HandleCanonicalize: func(*wire.CanonicalizeRequest) *wire.CanonicalizeResponse { return &wire.CanonicalizeResponse{} },
		HandleFunctionCall: func(*wire.FunctionCallRequest) *wire.FunctionCallResponse { return &wire.FunctionCallResponse{} },
	}
}

func TestSendCompileRequestResolvesOnMatchingResponse(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, noopHandlers())

	req := &wire.CompileRequest{StringInput: &wire.StringInput{Source: "a{}"}}
	resCh, err := d.SendCompileRequest(req)
	if err != nil {
		t.Fatalf("SendCompileRequest: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected bytes written to stdin")
	}

	d.HandleOutbound(&wire.OutboundMessage{
		Kind:            wire.KindCompileResponse,
		CompileResponse: &wire.CompileResponse{ID: req.ID, Success: &wire.CompileSuccess{CSS: "a{}"}},
	})

	select {
	case res := <-resCh:
		if res.Err != nil || res.Response.Success.CSS != "a{}" {
			t.Fatalf("got %+v", res)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for compile result")
	}
}

func TestImportRequestInvokesHandlerAndWritesResponse(t *testing.T) {
	var buf bytes.Buffer
	called := false
	handlers := noopHandlers()
	handlers.HandleImport = func(req *wire.ImportRequest) *wire.ImportResponse {
		called = true
		return &wire.ImportResponse{Success: &wire.ImportSuccess{Contents: "body { color: red }"}}
	}
	d := New(&buf, handlers)

	d.HandleOutbound(&wire.OutboundMessage{
		Kind:          wire.KindImportRequest,
		ImportRequest: &wire.ImportRequest{ID: 3, ImporterID: 1, URL: "file:///a.scss"},
	})

	if !called {
		t.Fatal("expected import handler to be invoked")
	}
	if buf.Len() == 0 {
		t.Fatal("expected an ImportResponse to be written to stdin")
	}
}

func TestErrorMessageTransitionsToTerminalState(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, noopHandlers())

	req := &wire.CompileRequest{StringInput: &wire.StringInput{Source: "a{}"}}
	resCh, _ := d.SendCompileRequest(req)

	d.HandleOutbound(&wire.OutboundMessage{
		Kind:  wire.KindError,
		Error: &wire.ErrorMessage{Type: wire.ErrorTypeInternal, Message: "boom"},
	})

	select {
	case res := <-resCh:
		if res.Err == nil {
			t.Fatal("expected pending waiter to be rejected")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}

	if _, open := <-d.LogEvents(); open {
		t.Fatal("expected log event channel to be closed")
	}

	if _, err := d.SendCompileRequest(&wire.CompileRequest{}); err != ErrClosed {
		t.Fatalf("expected ErrClosed after failure, got %v", err)
	}
}

func TestDuplicateOutboundIDTransitionsToTerminalState(t *testing.T) {
	var buf bytes.Buffer
	blocked := make(chan struct{})
	handlers := noopHandlers()
	handlers.HandleCanonicalize = func(*wire.CanonicalizeRequest) *wire.CanonicalizeResponse {
		<-blocked
		return &wire.CanonicalizeResponse{}
	}
	d := New(&buf, handlers)

	go d.HandleOutbound(&wire.OutboundMessage{
		Kind:                wire.KindCanonicalizeRequest,
		CanonicalizeRequest: &wire.CanonicalizeRequest{ID: 1, ImporterID: 0, URL: "x"},
	})

	time.Sleep(50 * time.Millisecond)

	d.HandleOutbound(&wire.OutboundMessage{
		Kind:                wire.KindCanonicalizeRequest,
		CanonicalizeRequest: &wire.CanonicalizeRequest{ID: 1, ImporterID: 0, URL: "y"},
	})
	close(blocked)

	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("expected dispatcher to fail on duplicate outbound id")
	}
	if d.Err() == nil {
		t.Fatal("expected Err() to be set")
	}
}
