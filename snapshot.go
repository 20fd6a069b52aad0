package termcore

// Snapshot is an immutable, renderer-facing view of the terminal produced
// on demand: it never retains references to live grid storage, so the
// renderer can hold it safely while the terminal keeps mutating (spec §4.8
// "The snapshot never retains references to live grid storage").
type Snapshot struct {
	Size      SnapshotSize
	Cursor    SnapshotCursor
	Lines     []SnapshotLine
	Selection *SnapshotSelection
	Search    []SnapshotSearchRange
	Damage    SnapshotDamage
}

type SnapshotSize struct {
	Rows int
	Cols int
}

// SnapshotCursor reports position, shape, and visibility; Visible is false
// for a hidden cursor.
type SnapshotCursor struct {
	Row     int
	Col     int
	Visible bool
	Style   CursorStyle
}

type SnapshotLine struct {
	Cells []SnapshotCell
}

// SnapshotCell carries fully resolved colors (theme/palette lookups already
// applied, including inverse/dim/hidden/cursor-inversion per spec §4.8) so
// the renderer never needs the palette.
type SnapshotCell struct {
	Char         rune
	Combining    []rune
	Fg           [3]uint8
	Bg           [3]uint8
	Underline    [3]uint8
	HasUnderline bool
	Flags        CellFlags
	HyperlinkID  uint32
}

// SnapshotSelection is the selection range clipped to the visible viewport,
// in row/col coordinates relative to the snapshot's Lines.
type SnapshotSelection struct {
	Mode     SelectionMode
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

type SnapshotSearchRange struct {
	StartRow, StartCol int
	EndRow, EndCol     int
	Focused            bool
}

// SnapshotDamage is either a full-redraw flag or a set of dirty viewport
// rows since the last snapshot.
type SnapshotDamage struct {
	FullRedraw bool
	DirtyRows  []int
}

// Snapshot renders the active screen into an immutable view, resolving
// colors against the current palette and applying the takes-damage-since-
// last-call contract of Grid.TakeDamage.
func (t *Terminal) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.active()
	out := Snapshot{
		Size: SnapshotSize{Rows: s.grid.Rows(), Cols: s.grid.Cols()},
		Cursor: SnapshotCursor{
			Row: s.cursor.Row, Col: s.cursor.Col,
			Visible: t.mode.has(ModeCursorVisible), Style: s.cursor.Style,
		},
	}

	top := s.grid.ViewportTop()
	out.Lines = make([]SnapshotLine, s.grid.Rows())
	for row := 0; row < s.grid.Rows(); row++ {
		l := s.grid.LineAt(top + row)
		if l == nil {
			continue
		}
		line := SnapshotLine{Cells: make([]SnapshotCell, len(l.Cells))}
		for col, c := range l.Cells {
			line.Cells[col] = t.resolveCell(c, row, col)
		}
		out.Lines[row] = line
	}

	if t.selection != nil && t.selection.Active {
		out.Selection = t.clipSelection(s, top)
	}
	if t.search != nil {
		out.Search = t.clipSearch(s, top)
	}

	lines, full := s.grid.TakeDamage()
	out.Damage.FullRedraw = full
	if !full {
		for _, abs := range lines {
			if row := abs - top; row >= 0 && row < s.grid.Rows() {
				out.Damage.DirtyRows = append(out.Damage.DirtyRows, row)
			}
		}
	}
	return out
}

// resolveCell applies inverse/dim/hidden/cursor-inversion to produce final
// RGB colors, matching spec §4.8's "applying inverse, dim, hidden,
// cursor-inversion at the cursor cell".
func (t *Terminal) resolveCell(c Cell, row, col int) SnapshotCell {
	fg := t.palette.Resolve(c.Fg, true)
	bg := t.palette.Resolve(c.Bg, false)

	atCursor := row == t.active().cursor.Row && col == t.active().cursor.Col && t.mode.has(ModeCursorVisible)
	if c.HasFlag(CellFlagReverse) || atCursor {
		fg, bg = bg, fg
	}
	if c.HasFlag(CellFlagDim) {
		fg = Dim(fg)
	}
	if c.HasFlag(CellFlagHidden) {
		fg = bg
	}

	out := SnapshotCell{
		Char: c.Char, Combining: append([]rune(nil), c.Combining...), Flags: c.Flags, HyperlinkID: c.HyperlinkID,
	}
	out.Fg[0], out.Fg[1], out.Fg[2] = rgb8(fg)
	out.Bg[0], out.Bg[1], out.Bg[2] = rgb8(bg)
	if c.Flags&underlineFlags != 0 {
		out.HasUnderline = true
		uc := fg
		if c.Underline.Tag != ColorDefaultTag {
			uc = t.palette.Resolve(c.Underline, true)
		}
		out.Underline[0], out.Underline[1], out.Underline[2] = rgb8(uc)
	}
	return out
}

func rgb8(c interface{ RGBA() (uint32, uint32, uint32, uint32) }) (uint8, uint8, uint8) {
	r, g, b, _ := c.RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

// clipSelection converts absolute selection endpoints into viewport-
// relative coordinates, clipping to [0, rows).
func (t *Terminal) clipSelection(s *screen, top int) *SnapshotSelection {
	sel := t.selection
	anchor, head := sel.Anchor, sel.Head
	if head.Before(anchor) {
		anchor, head = head, anchor
	}
	rows := s.grid.Rows()
	startRow := clampInt(anchor.Line-top, 0, rows-1)
	endRow := clampInt(head.Line-top, 0, rows-1)
	return &SnapshotSelection{
		Mode: sel.Mode, StartRow: startRow, StartCol: anchor.Col, EndRow: endRow, EndCol: head.Col,
	}
}

func (t *Terminal) clipSearch(s *screen, top int) []SnapshotSearchRange {
	var out []SnapshotSearchRange
	rows := s.grid.Rows()
	for i, m := range t.search.Matches {
		if m.End.Line < top || m.Start.Line >= top+rows {
			continue
		}
		out = append(out, SnapshotSearchRange{
			StartRow: clampInt(m.Start.Line-top, 0, rows-1), StartCol: m.Start.Col,
			EndRow: clampInt(m.End.Line-top, 0, rows-1), EndCol: m.End.Col,
			Focused: i == t.search.Focused,
		})
	}
	return out
}
