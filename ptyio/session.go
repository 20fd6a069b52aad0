// Package ptyio wraps OS-level pseudo-terminal allocation behind the narrow
// open/resize/read/write/wait contract the terminal-core spec places outside
// its own scope (spec §4.7, §5 "OS-level PTY creation" is an external
// collaborator).
package ptyio

import (
	"errors"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// ErrClosed is returned by Read/Write once Close has been called. Loop
// treats it, like the read error a pty gives after the child exits, as the
// end of output rather than a fatal error.
var ErrClosed = errors.New("ptyio: session closed")

// Session owns one pseudo-terminal and the child process attached to it.
type Session struct {
	cmd *exec.Cmd
	f   *os.File

	mu     sync.Mutex
	closed bool
}

// Start spawns name with args attached to a freshly allocated PTY sized
// rows x cols.
func Start(name string, args []string, rows, cols int) (*Session, error) {
	cmd := exec.Command(name, args...)
	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, err
	}
	return &Session{cmd: cmd, f: f}, nil
}

// Read reads raw bytes produced by the child. A transient read error (the
// pty closing because the child exited) surfaces from the underlying
// *os.File as io.EOF or, on Linux, syscall.EIO; any read after Close
// returns ErrClosed.
func (s *Session) Read(p []byte) (int, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrClosed
	}
	s.mu.Unlock()
	return s.f.Read(p)
}

// Write sends bytes to the child's stdin (keyboard input, pasted text,
// response bytes such as DSR/DA replies).
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.f.Write(p)
}

// Resize updates the PTY's window size. Callers must resize the PTY before
// resizing the terminal's grid, per spec §4.7: a resize racing in-flight
// output should never see a grid narrower than what the child already
// believes it has.
func (s *Session) Resize(rows, cols int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return pty.Setsize(s.f, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Wait blocks until the child process exits and returns its exit error, if
// any (mirroring exec.Cmd.Wait).
func (s *Session) Wait() error {
	return s.cmd.Wait()
}

// Close terminates the child process and releases the PTY file descriptor.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	return s.f.Close()
}
