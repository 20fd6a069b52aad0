package reftest

import (
	"bytes"
	"io"
	"sync"

	"github.com/google/uuid"

	"termcore"
)

// Recorder captures a session's raw input stream into a fixture, with
// periodic Checkpoint calls recording the terminal's rendered state at that
// point. It satisfies termcore.RecordingProvider, so it can be installed
// directly via termcore.WithRecording and fed every byte the terminal
// receives without the caller duplicating writes.
type Recorder struct {
	mu        sync.Mutex
	w         io.Writer
	buf       bytes.Buffer // mirrors the raw stream for RecordingProvider.Data
	err       error
	SessionID string
}

// NewRecorder returns a Recorder that appends fixture records to w, tagging
// the fixture with a freshly generated session id as its first record so a
// later Replay can report which recording run it is checking against.
func NewRecorder(w io.Writer) *Recorder {
	r := &Recorder{w: w, SessionID: uuid.NewString()}
	r.err = writeRecord(w, kindSession, []byte(r.SessionID))
	return r
}

// Record implements termcore.RecordingProvider: called by Terminal.Write
// with the exact bytes about to be parsed.
func (r *Recorder) Record(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Write(data)
	if r.err != nil {
		return
	}
	r.err = writeRecord(r.w, kindInput, data)
}

// Data implements termcore.RecordingProvider.
func (r *Recorder) Data() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.buf.Bytes()...)
}

// Clear implements termcore.RecordingProvider.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Reset()
}

// Checkpoint records the terminal's current rendered state as a fixture
// checkpoint, to be matched against the same point during Replay.
func (r *Recorder) Checkpoint(term *termcore.Terminal) error {
	payload, err := encodeCheckpoint(term.Snapshot())
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	return writeRecord(r.w, kindCheckpoint, payload)
}

// Err returns the first write error encountered while recording, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

var _ termcore.RecordingProvider = (*Recorder)(nil)
