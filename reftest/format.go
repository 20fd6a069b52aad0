// Package reftest implements the record/replay/compare test harness named by
// the terminal-core spec's test-infrastructure component: a fixture capturing
// raw input chunks interleaved with periodic grid-snapshot checkpoints, so a
// recorded session can be replayed against a later build and any divergence
// in rendered state is caught automatically.
package reftest

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"termcore"
)

type recordKind uint8

const (
	kindSession recordKind = iota
	kindInput
	kindCheckpoint
)

// writeRecord writes one length-prefixed [kind][len][payload] record.
func writeRecord(w io.Writer, kind recordKind, payload []byte) error {
	header := make([]byte, 5)
	header[0] = byte(kind)
	binary.BigEndian.PutUint32(header[1:], uint32(len(payload)))
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readRecord reads one record, returning io.EOF when the stream is exhausted
// exactly at a record boundary.
func readRecord(r io.Reader) (recordKind, []byte, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}
	n := binary.BigEndian.Uint32(header[1:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF // header present, payload missing: not a record boundary
		}
		return 0, nil, fmt.Errorf("reftest: truncated record payload: %w", err)
	}
	return recordKind(header[0]), payload, nil
}

func encodeCheckpoint(snap termcore.Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

func decodeCheckpoint(payload []byte) (termcore.Snapshot, error) {
	var snap termcore.Snapshot
	err := json.Unmarshal(payload, &snap)
	return snap, err
}
