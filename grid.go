package termcore

// Position is an absolute coordinate: Line is a history coordinate that only
// ever increases as the display scrolls (spec §3 "History coordinate...
// integer monotonically increasing"), Col is a column index. Selection and
// the navigation cursor store Positions rather than pointers into the ring,
// since ring slots are reused as soon as a line scrolls out (spec §9
// "Selection as absolute indices, not pointers").
type Position struct {
	Line int
	Col  int
}

// Before reports whether p sorts strictly before other in reading order.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

func (p Position) Equal(other Position) bool { return p == other }

// Line is one row of the grid: a fixed-width slice of cells plus a flag
// recording whether the logical line continues onto the next physical row.
type Line struct {
	Cells   []Cell
	Wrapped bool
}

func newLine(cols int) Line {
	l := Line{Cells: make([]Cell, cols)}
	for i := range l.Cells {
		l.Cells[i] = NewCell()
	}
	return l
}

// Grid is a circular buffer of Lines: visible rows plus bounded scrollback,
// indexed by a monotonically increasing absolute line counter modulo a fixed
// capacity (spec §3, §9 "Circular buffer over linked list"). Scrolling the
// full visible region on the primary screen is O(1): it only advances
// written and writes one new blank Line into the slot vacated R lines ago.
type Grid struct {
	cols         int
	visibleLines int
	maxHistory   int
	capacity     int // visibleLines + maxHistory
	ring         []Line
	written      int // count of lines ever pushed; the viewport is [written-visibleLines, written)

	tabStops []bool
	dirty    map[int]bool
	full     bool

	hyperlinks *hyperlinkTable
	scrollback ScrollbackProvider
}

// NewGrid creates a grid with visibleLines rows, cols columns, and room for
// maxHistory additional scrollback lines. The viewport starts entirely blank.
func NewGrid(visibleLines, cols, maxHistory int, hl *hyperlinkTable) *Grid {
	if maxHistory < 0 {
		maxHistory = 0
	}
	capacity := visibleLines + maxHistory
	g := &Grid{
		cols: cols, visibleLines: visibleLines, maxHistory: maxHistory,
		capacity: capacity, ring: make([]Line, capacity),
		written: visibleLines, tabStops: make([]bool, cols),
		dirty: make(map[int]bool), hyperlinks: hl,
	}
	for i := range g.ring {
		g.ring[i] = newLine(cols)
	}
	for i := 0; i < cols; i += 8 {
		g.tabStops[i] = true
	}
	return g
}

func (g *Grid) Rows() int { return g.visibleLines }
func (g *Grid) Cols() int { return g.cols }

// TopLine returns the absolute line index of the first line still retained
// (either visible or in scrollback).
func (g *Grid) TopLine() int {
	if g.written <= g.capacity {
		return 0
	}
	return g.written - g.capacity
}

// ViewportTop returns the absolute line index of viewport row 0.
func (g *Grid) ViewportTop() int { return g.written - g.visibleLines }

func (g *Grid) slot(absolute int) int { return absolute % g.capacity }

// LineAt returns the line at the given absolute index, or nil if it has
// been evicted or has not been written yet.
func (g *Grid) LineAt(absolute int) *Line {
	if absolute < g.TopLine() || absolute >= g.written {
		return nil
	}
	return &g.ring[g.slot(absolute)]
}

// Cell returns a pointer to the cell at viewport coordinates, or nil if out
// of bounds.
func (g *Grid) Cell(row, col int) *Cell {
	if row < 0 || row >= g.visibleLines || col < 0 || col >= g.cols {
		return nil
	}
	l := g.LineAt(g.ViewportTop() + row)
	if l == nil {
		return nil
	}
	return &l.Cells[col]
}

// SetCell writes a cell at viewport coordinates and marks it dirty. Any
// hyperlink previously occupying the slot is released.
func (g *Grid) SetCell(row, col int, cell Cell) {
	c := g.Cell(row, col)
	if c == nil {
		return
	}
	if c.HyperlinkID != 0 && g.hyperlinks != nil {
		g.hyperlinks.release(c.HyperlinkID)
	}
	if cell.HyperlinkID != 0 && g.hyperlinks != nil {
		g.hyperlinks.retain(cell.HyperlinkID)
	}
	cell.MarkDirty()
	*c = cell
	g.MarkRowDirty(row)
}

// MarkRowDirty records viewport row as changed since the last damage take.
func (g *Grid) MarkRowDirty(row int) { g.dirty[g.ViewportTop()+row] = true }

// MarkFullDamage forces the next TakeDamage to report a full redraw.
func (g *Grid) MarkFullDamage() { g.full = true }

// TakeDamage returns the set of dirty absolute line indices (or fullRedraw
// true) and clears the pending damage set. Per spec §9 damage tracking is
// advisory: over-reporting is correct, under-reporting is not.
func (g *Grid) TakeDamage() (lines []int, fullRedraw bool) {
	if g.full {
		g.full = false
		g.dirty = make(map[int]bool)
		return nil, true
	}
	for l := range g.dirty {
		lines = append(lines, l)
	}
	g.dirty = make(map[int]bool)
	return lines, false
}

// pushLine appends a new blank line to the top of history, evicting the
// oldest retained line if at capacity; an evicted line is handed to the
// scrollback provider.
func (g *Grid) pushLine(bg Color) {
	absolute := g.written
	slot := g.slot(absolute)
	old := g.ring[slot]
	if g.written >= g.capacity && g.scrollback != nil {
		g.scrollback.Push(old.Copy())
	}
	for _, c := range old.Cells {
		if c.HyperlinkID != 0 && g.hyperlinks != nil {
			g.hyperlinks.release(c.HyperlinkID)
		}
	}
	blank := newLine(g.cols)
	for i := range blank.Cells {
		blank.Cells[i].Bg = bg
	}
	g.ring[slot] = blank
	g.written++
}

// ScrollUp scrolls the region [top,bottom] (viewport-relative, inclusive) up
// by n lines. When the region spans the full visible height on the primary
// screen, exposed lines accrete into scrollback via pushLine (O(1) per
// line); otherwise the region is shifted in place and newly exposed lines
// are cleared with bg, per spec §4.3.
func (g *Grid) ScrollUp(top, bottom, n int, primary bool, bg Color) {
	if n <= 0 || top > bottom {
		return
	}
	height := bottom - top + 1
	if n > height {
		n = height
	}
	fullRegion := top == 0 && bottom == g.visibleLines-1
	if fullRegion && primary {
		for i := 0; i < n; i++ {
			g.pushLine(bg)
		}
		g.MarkFullDamage()
		return
	}
	g.shiftRegionUp(top, bottom, n, bg)
}

// ScrollDown scrolls the region down by n lines; never accretes scrollback.
func (g *Grid) ScrollDown(top, bottom, n int, bg Color) {
	if n <= 0 || top > bottom {
		return
	}
	height := bottom - top + 1
	if n > height {
		n = height
	}
	base := g.ViewportTop()
	for row := bottom; row >= top+n; row-- {
		src := g.LineAt(base + row - n)
		dst := g.LineAt(base + row)
		*dst = src.Copy()
	}
	for row := top; row < top+n; row++ {
		g.clearLine(g.LineAt(base+row), bg)
	}
	g.MarkFullDamage()
}

func (g *Grid) shiftRegionUp(top, bottom, n int, bg Color) {
	base := g.ViewportTop()
	for row := top; row <= bottom-n; row++ {
		src := g.LineAt(base + row + n)
		dst := g.LineAt(base + row)
		*dst = src.Copy()
	}
	for row := bottom - n + 1; row <= bottom; row++ {
		g.clearLine(g.LineAt(base+row), bg)
	}
	g.MarkFullDamage()
}

func (g *Grid) clearLine(l *Line, bg Color) {
	if l == nil {
		return
	}
	for i := range l.Cells {
		if l.Cells[i].HyperlinkID != 0 && g.hyperlinks != nil {
			g.hyperlinks.release(l.Cells[i].HyperlinkID)
		}
		l.Cells[i].ResetPreservingBackground(bg)
		l.Cells[i].MarkDirty()
	}
	l.Wrapped = false
}

// ClearRowRange clears columns [startCol,endCol) of viewport row, stamping bg.
func (g *Grid) ClearRowRange(row, startCol, endCol int, bg Color) {
	l := g.LineAt(g.ViewportTop() + row)
	if l == nil {
		return
	}
	if startCol < 0 {
		startCol = 0
	}
	if endCol > g.cols {
		endCol = g.cols
	}
	for col := startCol; col < endCol; col++ {
		if l.Cells[col].HyperlinkID != 0 && g.hyperlinks != nil {
			g.hyperlinks.release(l.Cells[col].HyperlinkID)
		}
		l.Cells[col].ResetPreservingBackground(bg)
		l.Cells[col].MarkDirty()
	}
	g.MarkRowDirty(row)
}

// ClearRow clears an entire viewport row.
func (g *Grid) ClearRow(row int, bg Color) { g.ClearRowRange(row, 0, g.cols, bg) }

// ClearAll clears every visible row without touching scrollback.
func (g *Grid) ClearAll(bg Color) {
	for row := 0; row < g.visibleLines; row++ {
		g.ClearRow(row, bg)
	}
	g.MarkFullDamage()
}

// InsertBlanks shifts cells in row from col rightward by n, filling the gap
// with blanks; cells shifted past the last column are discarded.
func (g *Grid) InsertBlanks(row, col, n int, bg Color) {
	l := g.LineAt(g.ViewportTop() + row)
	if l == nil || col >= g.cols {
		return
	}
	if n > g.cols-col {
		n = g.cols - col
	}
	copy(l.Cells[col+n:], l.Cells[col:g.cols-n])
	for i := col; i < col+n; i++ {
		l.Cells[i].ResetPreservingBackground(bg)
		l.Cells[i].MarkDirty()
	}
	g.MarkRowDirty(row)
}

// DeleteChars shifts cells in row from col+n leftward into col, filling the
// vacated tail with blanks.
func (g *Grid) DeleteChars(row, col, n int, bg Color) {
	l := g.LineAt(g.ViewportTop() + row)
	if l == nil || col >= g.cols {
		return
	}
	if n > g.cols-col {
		n = g.cols - col
	}
	copy(l.Cells[col:], l.Cells[col+n:])
	for i := g.cols - n; i < g.cols; i++ {
		l.Cells[i].ResetPreservingBackground(bg)
		l.Cells[i].MarkDirty()
	}
	g.MarkRowDirty(row)
}

func (l Line) Copy() Line {
	out := Line{Cells: make([]Cell, len(l.Cells)), Wrapped: l.Wrapped}
	for i, c := range l.Cells {
		out.Cells[i] = c.Copy()
	}
	return out
}

// InsertLines inserts n blank lines at row within [top,bottom], shifting
// lines below down; lines pushed past bottom are discarded.
func (g *Grid) InsertLines(row, top, bottom, n int, bg Color) {
	if row < top || row > bottom {
		return
	}
	g.ScrollDown(row, bottom, n, bg)
}

// DeleteLines deletes n lines at row within [top,bottom], shifting lines
// below up; new lines at the bottom are blank.
func (g *Grid) DeleteLines(row, top, bottom, n int, primary bool, bg Color) {
	if row < top || row > bottom {
		return
	}
	g.shiftRegionUp(row, bottom, n, bg)
}

// Resize changes the visible geometry, rewrapping logical lines (chained via
// Wrapped) across the new column count and growing or shrinking the row
// count per spec §4.3. cursorAbs is the cursor's absolute position before
// the resize; when a column-count change triggers a reflow, newCursorAbs is
// that cursor tracked through its containing logical line to its new
// absolute position (spec §4.3 "cursor follows its containing logical
// line"), pendingWrap reports whether it should land in the deferred-wrap
// state a full row leaves it in, and reflowed reports whether tracking
// happened at all — when cols is unchanged, newCursorAbs is cursorAbs
// unmodified and the caller should clamp it the ordinary way.
func (g *Grid) Resize(rows, cols int, bg Color, cursorAbs Position) (newCursorAbs Position, pendingWrap, reflowed bool) {
	newCursorAbs = cursorAbs
	if cols != g.cols {
		newCursorAbs, pendingWrap = g.reflow(cols, bg, cursorAbs)
		reflowed = true
	}
	if rows != g.visibleLines {
		g.resizeRows(rows, bg)
	}
	g.MarkFullDamage()
	return newCursorAbs, pendingWrap, reflowed
}

// reflow rewraps every retained line across the new column width, tracking
// cursorAbs through its containing logical line and returning where it
// lands.
func (g *Grid) reflow(cols int, bg Color, cursorAbs Position) (Position, bool) {
	// Walk every retained line in order, splitting it into logical lines at
	// non-wrapped boundaries, then rewrap each logical line's concatenated
	// cells across the new column width. While walking, record which
	// logical line the cursor's old absolute line falls in and its offset
	// within that logical line's concatenated cells, so it can be relocated
	// after rewrapping instead of merely clamped in place.
	top := g.TopLine()
	var logical [][]Cell
	var cur []Cell
	cursorLogical, cursorOffset := -1, 0
	lineOffset := 0
	for abs := top; abs < g.written; abs++ {
		l := g.LineAt(abs)
		if abs == cursorAbs.Line {
			cursorLogical = len(logical)
			cursorOffset = lineOffset + cursorAbs.Col
		}
		lineOffset += len(l.Cells)
		cur = append(cur, l.Cells...)
		if !l.Wrapped {
			logical = append(logical, cur)
			cur = nil
			lineOffset = 0
		}
	}
	if len(cur) > 0 {
		logical = append(logical, cur)
	}

	newCapacity := g.visibleLines + g.maxHistory
	newRing := make([]Line, 0, newCapacity)
	cursorRow, cursorCol := -1, 0
	cursorPending := false
	for li, cells := range logical {
		// trim trailing blanks before rewrapping
		end := len(cells)
		for end > 0 && cells[end-1].Char == ' ' && cells[end-1].Flags&^CellFlagDirty == 0 && !cells[end-1].HasHyperlink() {
			end--
		}
		cells = cells[:end]
		tracking := li == cursorLogical
		if tracking && cursorOffset > len(cells) {
			cursorOffset = len(cells) // cursor sat on a now-trimmed trailing blank
		}
		if len(cells) == 0 {
			if tracking {
				cursorRow, cursorCol = len(newRing), 0
			}
			newRing = append(newRing, newLineBg(cols, bg))
			continue
		}
		for i := 0; i < len(cells); i += cols {
			j := i + cols
			wrapped := j < len(cells)
			if j > len(cells) {
				j = len(cells)
			}
			row := newLineBg(cols, bg)
			copy(row.Cells, cells[i:j])
			row.Wrapped = wrapped
			if tracking && cursorOffset >= i && (cursorOffset < j || (cursorOffset == j && !wrapped)) {
				col := cursorOffset - i
				cursorRow = len(newRing)
				if col >= cols {
					cursorCol, cursorPending = cols-1, true
				} else {
					cursorCol, cursorPending = col, false
				}
			}
			newRing = append(newRing, row)
		}
	}
	if dropped := len(newRing) - newCapacity; dropped > 0 {
		newRing = newRing[dropped:]
		cursorRow -= dropped
	}
	for len(newRing) < g.visibleLines {
		newRing = append(newRing, newLineBg(cols, bg))
	}
	g.cols = cols
	g.capacity = newCapacity
	g.ring = make([]Line, newCapacity)
	copy(g.ring, newRing)
	g.written = len(newRing)
	g.tabStops = make([]bool, cols)
	for i := 0; i < cols; i += 8 {
		g.tabStops[i] = true
	}

	if cursorRow < 0 {
		// The cursor's logical line wasn't found (shouldn't happen in
		// practice) or was evicted by scrollback capacity; leave the old
		// absolute position for the caller to clamp.
		return cursorAbs, false
	}
	if cursorRow >= g.written {
		cursorRow = g.written - 1
	}
	return Position{Line: cursorRow, Col: cursorCol}, cursorPending
}

func newLineBg(cols int, bg Color) Line {
	l := newLine(cols)
	for i := range l.Cells {
		l.Cells[i].Bg = bg
	}
	return l
}

func (g *Grid) resizeRows(rows int, bg Color) {
	if rows > g.visibleLines {
		// grow: pull blank or history rows in, extend capacity
		extra := rows - g.visibleLines
		g.visibleLines = rows
		g.capacity = g.visibleLines + g.maxHistory
		newRing := make([]Line, g.capacity)
		top := g.TopLine()
		n := g.written - top
		for i := 0; i < n; i++ {
			newRing[i] = *g.LineAt(top + i)
		}
		for i := n; i < g.capacity; i++ {
			newRing[i] = newLineBg(g.cols, bg)
		}
		g.ring = newRing
		g.written = n
		if g.written < g.visibleLines {
			g.written = g.visibleLines // too little history: blank rows fill the bottom
		}
		_ = extra
	} else if rows < g.visibleLines {
		// shrink: push the excess top rows into history (stays retained,
		// just no longer visible) by simply reducing visibleLines.
		g.visibleLines = rows
	}
}

// ResizeNoReflow adjusts geometry without rewrapping logical lines: columns
// are truncated or padded with blanks in place, rows grow/shrink by
// discarding or appending blank lines. Used for the alternate screen, which
// spec §4.3 says "does not reflow — its contents are truncated or padded".
func (g *Grid) ResizeNoReflow(rows, cols int, bg Color) {
	if cols != g.cols {
		top := g.TopLine()
		for abs := top; abs < g.written; abs++ {
			l := g.LineAt(abs)
			resized := make([]Cell, cols)
			for i := range resized {
				resized[i] = NewCell()
				resized[i].Bg = bg
			}
			n := len(l.Cells)
			if n > cols {
				n = cols
			}
			copy(resized, l.Cells[:n])
			l.Cells = resized
		}
		g.cols = cols
	}
	if rows != g.visibleLines {
		g.resizeRows(rows, bg)
	}
	g.MarkFullDamage()
}

// lineText renders the absolute line as a string, skipping wide-char spacers
// and trimming trailing blank columns.
func (g *Grid) lineText(absolute int) string {
	l := g.LineAt(absolute)
	if l == nil {
		return ""
	}
	end := len(l.Cells)
	for end > 0 && l.Cells[end-1].Char == ' ' && !l.Cells[end-1].IsWideSpacer() {
		end--
	}
	runes := make([]rune, 0, end)
	for i := 0; i < end; i++ {
		c := l.Cells[i]
		if c.IsWideSpacer() {
			continue
		}
		runes = append(runes, c.Char)
		runes = append(runes, c.Combining...)
	}
	return string(runes)
}

// Line returns the line at an absolute index (TopLine() is the oldest
// retained), or nil if out of range. Exposed for search and the navigation
// cursor.
func (g *Grid) Line(absolute int) *Line { return g.LineAt(absolute) }

// IsTabStop reports whether col is a configured tab-stop column.
func (g *Grid) IsTabStop(col int) bool { return col >= 0 && col < len(g.tabStops) && g.tabStops[col] }
func (g *Grid) SetTabStop(col int)     { if col >= 0 && col < len(g.tabStops) { g.tabStops[col] = true } }
func (g *Grid) ClearTabStop(col int)   { if col >= 0 && col < len(g.tabStops) { g.tabStops[col] = false } }
func (g *Grid) ClearAllTabStops()      { for i := range g.tabStops { g.tabStops[i] = false } }

// NextTabStop returns the next tab stop at or after col+1, clamped to the
// last column if none exists.
func (g *Grid) NextTabStop(col int) int {
	for c := col + 1; c < g.cols; c++ {
		if g.tabStops[c] {
			return c
		}
	}
	return g.cols - 1
}

// PrevTabStop returns the previous tab stop before col, clamped to 0.
func (g *Grid) PrevTabStop(col int) int {
	for c := col - 1; c >= 0; c-- {
		if g.tabStops[c] {
			return c
		}
	}
	return 0
}

// SetScrollbackProvider installs the collaborator notified of lines evicted
// from the ring once history fills up.
func (g *Grid) SetScrollbackProvider(p ScrollbackProvider) { g.scrollback = p }
