package ptyio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
)

func TestSessionReadsChildOutput(t *testing.T) {
	s, err := Start("/bin/sh", []string{"-c", "echo hello"}, 24, 80)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Close()

	buf := make([]byte, 256)
	n, err := s.Read(buf)
	if err != nil && n == 0 {
		t.Fatalf("Read: %v", err)
	}
	if !strings.Contains(string(buf[:n]), "hello") {
		t.Errorf("expected output to contain %q, got %q", "hello", string(buf[:n]))
	}
}

func TestSessionWriteToChild(t *testing.T) {
	s, err := Start("/bin/cat", nil, 24, 80)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Close()

	if _, err := s.Write([]byte("ping\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	buf := make([]byte, 256)
	n, err := s.Read(buf)
	if err != nil && n == 0 {
		t.Fatalf("Read: %v", err)
	}
	if !strings.Contains(string(buf[:n]), "ping") {
		t.Errorf("expected echoed input, got %q", string(buf[:n]))
	}
}

func TestSessionCloseReturnsErrClosed(t *testing.T) {
	s, err := Start("/bin/cat", nil, 24, 80)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := s.Write([]byte("x")); err != ErrClosed {
		t.Errorf("Write after Close = %v, want ErrClosed", err)
	}
}

// fakeResizer records the size it was given and, when session is set, the
// PTY's size at the moment the terminal resize happened.
type fakeResizer struct {
	rows, cols       int
	session          *Session
	ptyRows, ptyCols int
}

func (f *fakeResizer) Resize(rows, cols int) {
	f.rows, f.cols = rows, cols
	if f.session != nil {
		f.ptyRows, f.ptyCols, _ = pty.Getsize(f.session.f)
	}
}

func TestResizeBothOrdersPtyBeforeTerminal(t *testing.T) {
	s, err := Start("/bin/cat", nil, 24, 80)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Close()

	r := &fakeResizer{session: s}
	if err := ResizeBoth(s, r, 40, 120); err != nil {
		t.Fatalf("ResizeBoth: %v", err)
	}
	if r.ptyRows != 40 || r.ptyCols != 120 {
		t.Errorf("pty size seen during terminal resize = (%d,%d), want (40,120)", r.ptyRows, r.ptyCols)
	}
	if r.rows != 40 || r.cols != 120 {
		t.Errorf("terminal resize = (%d,%d), want (40,120)", r.rows, r.cols)
	}
}

func TestLoopDrainsOnChildExit(t *testing.T) {
	s, err := Start("/bin/sh", []string{"-c", "echo done; exit 0"}, 24, 80)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Close()

	var out bytes.Buffer
	l := NewLoop(s, &out)

	done := make(chan error, 1)
	go func() { done <- l.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Loop.Run did not return after child exit")
	}

	if !l.Drained() {
		t.Error("expected loop to be drained after Run returns")
	}
	if !strings.Contains(out.String(), "done") {
		t.Errorf("expected captured output to contain %q, got %q", "done", out.String())
	}
}
