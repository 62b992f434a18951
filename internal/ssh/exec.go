package ssh

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"
)

// ExecResult holds the result of a remote command execution
type ExecResult struct {
	// Output is the combined stdout and stderr, in arrival order
	Output   string
	ExitCode int
}

// OK reports whether the command exited zero
func (r *ExecResult) OK() bool {
	return r.ExitCode == 0
}

// Exec runs a command on the remote host. Combined output is captured and
// streamed line by line to the OnOutput callback as it arrives. A non-zero
// remote exit is reported in the result, not as an error; errors mean the
// command could not be run at all.
func (c *Client) Exec(ctx context.Context, command string) (*ExecResult, error) {
	session, err := c.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	sink := newLineSink(c.onOutput)
	session.Stdout = sink
	session.Stderr = sink

	if err := session.Start(command); err != nil {
		return nil, fmt.Errorf("failed to start command: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- session.Wait() }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		<-done
		return nil, ctx.Err()
	case err = <-done:
	}

	sink.flush()

	result := &ExecResult{Output: sink.String()}
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitStatus()
		} else {
			return result, fmt.Errorf("failed to execute command: %w", err)
		}
	}

	return result, nil
}

// lineSink accumulates command output and forwards complete lines to a
// callback. Both stdout and stderr write to one sink, so the mutex keeps
// interleaved writes whole.
type lineSink struct {
	mu      sync.Mutex
	buf     strings.Builder
	partial strings.Builder
	onLine  func(string)
}

func newLineSink(onLine func(string)) *lineSink {
	return &lineSink{onLine: onLine}
}

func (s *lineSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.Write(p)

	if s.onLine == nil {
		return len(p), nil
	}

	for _, b := range p {
		if b == '\n' {
			s.onLine(s.partial.String())
			s.partial.Reset()
			continue
		}
		s.partial.WriteByte(b)
	}
	return len(p), nil
}

// flush emits any trailing output that did not end with a newline
func (s *lineSink) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onLine != nil && s.partial.Len() > 0 {
		s.onLine(s.partial.String())
		s.partial.Reset()
	}
}

func (s *lineSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}
