package reftest

import (
	"fmt"
	"reflect"

	"termcore"
)

// compareSnapshots returns a human-readable diff list between a recorded
// checkpoint and a freshly produced one; an empty result means they match.
// Diffs stop at the first structural mismatch per row to keep output
// readable on a badly diverged replay.
func compareSnapshots(want, got termcore.Snapshot) []string {
	var diffs []string
	if want.Size != got.Size {
		diffs = append(diffs, fmt.Sprintf("size: want %+v, got %+v", want.Size, got.Size))
		return diffs
	}
	if want.Cursor != got.Cursor {
		diffs = append(diffs, fmt.Sprintf("cursor: want %+v, got %+v", want.Cursor, got.Cursor))
	}
	if len(want.Lines) != len(got.Lines) {
		diffs = append(diffs, fmt.Sprintf("line count: want %d, got %d", len(want.Lines), len(got.Lines)))
		return diffs
	}
	for row := range want.Lines {
		wl, gl := want.Lines[row].Cells, got.Lines[row].Cells
		if len(wl) != len(gl) {
			diffs = append(diffs, fmt.Sprintf("row %d: cell count want %d, got %d", row, len(wl), len(gl)))
			continue
		}
		for col := range wl {
			if !reflect.DeepEqual(wl[col], gl[col]) {
				diffs = append(diffs, fmt.Sprintf("row %d col %d: want %+v, got %+v", row, col, wl[col], gl[col]))
				break
			}
		}
	}
	return diffs
}
