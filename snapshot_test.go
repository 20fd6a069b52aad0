package termcore

import "testing"

func TestSnapshotSize(t *testing.T) {
	term := New(WithSize(3, 10))
	snap := term.Snapshot()

	if snap.Size.Rows != 3 {
		t.Errorf("Size.Rows = %d, want 3", snap.Size.Rows)
	}
	if snap.Size.Cols != 10 {
		t.Errorf("Size.Cols = %d, want 10", snap.Size.Cols)
	}
	if len(snap.Lines) != 3 {
		t.Fatalf("len(Lines) = %d, want 3", len(snap.Lines))
	}
}

func TestSnapshotText(t *testing.T) {
	term := New(WithSize(3, 10))
	term.WriteString("Hello")
	term.WriteString("\x1b[2;1H")
	term.WriteString("World")

	snap := term.Snapshot()

	text := func(line SnapshotLine, n int) string {
		r := make([]rune, 0, n)
		for i := 0; i < n; i++ {
			r = append(r, line.Cells[i].Char)
		}
		return string(r)
	}

	if got := text(snap.Lines[0], 5); got != "Hello" {
		t.Errorf("Lines[0] = %q, want %q", got, "Hello")
	}
	if got := text(snap.Lines[1], 5); got != "World" {
		t.Errorf("Lines[1] = %q, want %q", got, "World")
	}
}

func TestSnapshotCursor(t *testing.T) {
	term := New(WithSize(5, 10))
	term.WriteString("ABC")

	snap := term.Snapshot()

	if snap.Cursor.Row != 0 {
		t.Errorf("Cursor.Row = %d, want 0", snap.Cursor.Row)
	}
	if snap.Cursor.Col != 3 {
		t.Errorf("Cursor.Col = %d, want 3", snap.Cursor.Col)
	}
	if !snap.Cursor.Visible {
		t.Error("Cursor.Visible = false, want true")
	}
}

func TestSnapshotResolvesSGRColor(t *testing.T) {
	term := New(WithSize(3, 20))
	term.WriteString("\x1b[31mRed\x1b[0m")

	snap := term.Snapshot()
	cell := snap.Lines[0].Cells[0]
	if cell.Fg == ([3]uint8{}) {
		t.Error("expected a non-zero resolved red foreground")
	}
}

func TestSnapshotUnderlineVariant(t *testing.T) {
	term := New(WithSize(3, 20))
	term.WriteString("\x1b[4:3mCurly\x1b[0m")

	snap := term.Snapshot()
	cell := snap.Lines[0].Cells[0]
	if !cell.HasUnderline {
		t.Error("expected HasUnderline to be true")
	}
	if cell.Flags&CellFlagCurlyUnderline == 0 {
		t.Error("expected curly underline flag set")
	}
}

func TestSnapshotHyperlink(t *testing.T) {
	term := New(WithSize(3, 40))
	term.WriteString("\x1b]8;;https://example.com\x07Link\x1b]8;;\x07")

	snap := term.Snapshot()
	for i := 0; i < 4; i++ {
		if snap.Lines[0].Cells[i].HyperlinkID == 0 {
			t.Errorf("cell %d expected a hyperlink id", i)
		}
	}
}

func TestSnapshotWideChar(t *testing.T) {
	term := New(WithSize(3, 10))
	term.WriteString("中")

	snap := term.Snapshot()
	if snap.Lines[0].Cells[0].Flags&CellFlagWideChar == 0 {
		t.Error("expected cell 0 to carry the wide-char flag")
	}
	if snap.Lines[0].Cells[1].Flags&CellFlagWideCharSpacer == 0 {
		t.Error("expected cell 1 to be a wide-char spacer")
	}
}

func TestSnapshotDamageFullOnFirstCall(t *testing.T) {
	term := New(WithSize(3, 10))
	term.WriteString("x")

	snap := term.Snapshot()
	if !snap.Damage.FullRedraw {
		t.Error("expected the first snapshot to report a full redraw")
	}

	snap2 := term.Snapshot()
	if snap2.Damage.FullRedraw {
		t.Error("expected the second snapshot, with no writes in between, to report no damage")
	}
	if len(snap2.Damage.DirtyRows) != 0 {
		t.Errorf("expected no dirty rows, got %v", snap2.Damage.DirtyRows)
	}
}

func TestSnapshotDamageTracksDirtyRow(t *testing.T) {
	term := New(WithSize(5, 10))
	term.Snapshot() // drain the initial full-redraw

	term.WriteString("\x1b[3;1Hhi")
	snap := term.Snapshot()
	if snap.Damage.FullRedraw {
		t.Fatal("expected a partial damage report, not full redraw")
	}
	found := false
	for _, row := range snap.Damage.DirtyRows {
		if row == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected row 2 dirty, got %v", snap.Damage.DirtyRows)
	}
}
