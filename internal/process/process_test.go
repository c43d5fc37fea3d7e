package process

import (
	"bufio"
	"context"
	"testing"
	"time"
)

func TestStartEchoRoundTrip(t *testing.T) {
	s, err := Start(context.Background(), "/bin/cat")
	if err != nil {
		t.Skipf("no /bin/cat on this system: %v", err)
	}
	defer s.Close()

	if _, err := s.Stdin().Write([]byte("hello\n")); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	r := bufio.NewReader(s.Stdout())
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	if line != "hello\n" {
		t.Fatalf("got %q, want %q", line, "hello\n")
	}
}

func TestCloseSignalsExit(t *testing.T) {
	s, err := Start(context.Background(), "/bin/cat")
	if err != nil {
		t.Skipf("no /bin/cat on this system: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case <-s.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for child to exit after stdin closed")
	}
}

func TestPidBeforeStartIsNegativeOne(t *testing.T) {
	s := &Session{}
	if got := s.Pid(); got != -1 {
		t.Fatalf("Pid() = %d, want -1", got)
	}
}
