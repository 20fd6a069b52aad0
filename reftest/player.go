package reftest

import (
	"errors"
	"fmt"
	"io"

	"termcore"
)

// Mismatch describes one checkpoint that diverged from the recorded fixture.
type Mismatch struct {
	CheckpointIndex int
	Diffs           []string
}

// Replay feeds r's recorded input chunks into term and compares the
// terminal's rendered state against each recorded checkpoint in order. It
// returns the fixture's session id (from its Recorder) and every mismatch
// found; a nil/empty mismatch slice means the replay reproduced the
// recording exactly.
func Replay(r io.Reader, term *termcore.Terminal) (sessionID string, mismatches []Mismatch, err error) {
	checkpointIndex := 0
	for {
		kind, payload, rerr := readRecord(r)
		if errors.Is(rerr, io.EOF) {
			return sessionID, mismatches, nil
		}
		if rerr != nil {
			return sessionID, mismatches, rerr
		}
		switch kind {
		case kindSession:
			sessionID = string(payload)
		case kindInput:
			if _, werr := term.Write(payload); werr != nil {
				return sessionID, mismatches, fmt.Errorf("reftest: replay write: %w", werr)
			}
		case kindCheckpoint:
			want, derr := decodeCheckpoint(payload)
			if derr != nil {
				return sessionID, mismatches, fmt.Errorf("reftest: decode checkpoint %d: %w", checkpointIndex, derr)
			}
			if diffs := compareSnapshots(want, term.Snapshot()); len(diffs) > 0 {
				mismatches = append(mismatches, Mismatch{CheckpointIndex: checkpointIndex, Diffs: diffs})
			}
			checkpointIndex++
		default:
			return sessionID, mismatches, fmt.Errorf("reftest: unknown record kind %d", kind)
		}
	}
}
