package reftest

import (
	"bytes"
	"testing"

	"termcore"
)

func recordSession(t *testing.T) (fixture []byte, sessionID string) {
	t.Helper()
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	term := termcore.New(termcore.WithSize(5, 20), termcore.WithRecording(rec))

	term.WriteString("hello")
	if err := rec.Checkpoint(term); err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	term.WriteString(" world")
	if err := rec.Checkpoint(term); err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	if err := rec.Err(); err != nil {
		t.Fatalf("recorder error: %v", err)
	}
	return buf.Bytes(), rec.SessionID
}

func TestReplayMatchesRecording(t *testing.T) {
	fixture, wantSessionID := recordSession(t)

	term := termcore.New(termcore.WithSize(5, 20))
	sessionID, mismatches, err := Replay(bytes.NewReader(fixture), term)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(mismatches) != 0 {
		t.Fatalf("expected no mismatches, got %+v", mismatches)
	}
	if sessionID != wantSessionID {
		t.Errorf("sessionID = %q, want %q", sessionID, wantSessionID)
	}
}

func TestReplayDetectsDivergence(t *testing.T) {
	fixture, _ := recordSession(t)

	term := termcore.New(termcore.WithSize(5, 20))
	// Feed different input than the fixture so checkpoints diverge.
	term.WriteString("XXXXX world")

	_, mismatches, err := Replay(bytes.NewReader(fixture), term)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(mismatches) == 0 {
		t.Fatal("expected a mismatch because the terminal was pre-seeded with different content")
	}
}
