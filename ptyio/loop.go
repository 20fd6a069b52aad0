package ptyio

import (
	"errors"
	"io"
	"sync/atomic"
	"syscall"
)

// State reports whether a Loop is still pumping bytes or has observed the
// child exit.
type State int32

const (
	StateRunning State = iota
	StateDrained
)

// Resizer is the narrow surface ResizeBoth needs from a terminal: just
// enough to apply a grid resize, nothing about cells or cursors.
type Resizer interface {
	Resize(rows, cols int)
}

// ResizeBoth resizes the PTY before the terminal's grid, so a child that
// immediately queries the window size after a SIGWINCH never reads a size
// wider than what the grid is about to become (spec §4.7 resize ordering).
func ResizeBoth(s *Session, r Resizer, rows, cols int) error {
	if err := s.Resize(rows, cols); err != nil {
		return err
	}
	r.Resize(rows, cols)
	return nil
}

// isTransientReadErr reports whether err is the pty-side signal that the
// child exited and closed its end — expected, not a fault — as opposed to a
// genuine fatal I/O error.
func isTransientReadErr(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, ErrClosed) {
		return true
	}
	// Linux returns EIO, not EOF, when the master side of a pty is read
	// after the slave side has no open file descriptors left.
	return errors.Is(err, syscall.EIO)
}

// Loop pumps bytes from a Session into a terminal's Write method until the
// child exits or a fatal error occurs.
type Loop struct {
	session *Session
	output  io.Writer
	state   atomic.Int32
}

// NewLoop wires a session's output into dst (typically a *termcore.Terminal,
// which satisfies io.Writer).
func NewLoop(session *Session, dst io.Writer) *Loop {
	return &Loop{session: session, output: dst}
}

// Run reads from the PTY and writes each chunk to the terminal until the
// child exits (a transient read error), returning nil, or a fatal I/O error
// occurs, returning that error. Either way the Loop transitions to
// StateDrained before returning.
func (l *Loop) Run() error {
	defer l.state.Store(int32(StateDrained))
	buf := make([]byte, 4096)
	for {
		n, err := l.session.Read(buf)
		if n > 0 {
			if _, werr := l.output.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if isTransientReadErr(err) {
				return nil
			}
			return err
		}
	}
}

// State reports whether the loop is still running or has drained.
func (l *Loop) State() State { return State(l.state.Load()) }

// Drained reports whether Run has returned.
func (l *Loop) Drained() bool { return l.State() == StateDrained }
