// Package process supervises the compiler child process (spec.md §4.1
// "Child supervisor"). It is grounded on the lifecycle/shutdown shape of
// graceful_restarts/SocketHandoff/main.go and graceful_restarts/tbflip/main.go
// — a started child, a channel that closes on exit, explicit stdio
// ownership — generalized from "restart an HTTP listener" to "own a child
// compiler's stdin/stdout/stderr".
package process

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// ExitResult carries the child's exit status once it has been reaped.
type ExitResult struct {
	Err error
}

// Session is a started compiler child process: stdin can be written to,
// stdout is framed packet traffic, stderr is passed through for logging,
// and Exited fires exactly once when the child has been reaped.
type Session struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	exited chan ExitResult
	once   sync.Once
}

// Start spawns path with no arguments (spec.md §6: "No flags are passed on
// the command line; the protocol is spoken entirely on stdio"), wiring up
// stdin/stdout/stderr pipes before the process is started.
func Start(ctx context.Context, path string) (*Session, error) {
	cmd := exec.CommandContext(ctx, path)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("process: start %s: %w", path, err)
	}

	s := &Session{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		exited: make(chan ExitResult, 1),
	}

	go s.wait()

	return s, nil
}

func (s *Session) wait() {
	err := s.cmd.Wait()
	s.exited <- ExitResult{Err: err}
}

// Stdin is the pipe writers use to send framed packets to the child.
func (s *Session) Stdin() io.Writer { return s.stdin }

// Stdout is the pipe readers use to receive framed packets from the child.
func (s *Session) Stdout() io.Reader { return s.stdout }

// Stderr streams the child's diagnostic output, typically copied straight
// to the host's own logger.
func (s *Session) Stderr() io.Reader { return s.stderr }

// Exited fires once, carrying the child's final exit status (spec.md §7
// kind 6 CompilerExit, raised by whatever owns the Session once this
// channel fires while requests are still outstanding).
func (s *Session) Exited() <-chan ExitResult { return s.exited }

// Close closes stdin, which is how a well-behaved compiler child learns to
// shut down; it does not force-kill the process. Callers that need a hard
// stop should cancel the context passed to Start instead.
func (s *Session) Close() error {
	var closeErr error
	s.once.Do(func() {
		closeErr = s.stdin.Close()
	})
	return closeErr
}

// Pid reports the child's process id, useful for logging.
func (s *Session) Pid() int {
	if s.cmd == nil || s.cmd.Process == nil {
		return -1
	}
	return s.cmd.Process.Pid
}
