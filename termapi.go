package termcore

// viewportPosition converts a viewport-relative (row, col) into the absolute
// Position the selection/navigation/search state track internally.
func (t *Terminal) viewportPosition(row, col int) Position {
	return Position{Line: t.active().grid.ViewportTop() + row, Col: col}
}

// BeginSelection starts a text selection at viewport coordinates (row, col).
func (t *Terminal) BeginSelection(mode SelectionMode, row, col int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection.Begin(mode, t.viewportPosition(row, col))
}

// ExtendSelection moves the active selection's head to (row, col).
func (t *Terminal) ExtendSelection(row, col int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection.Extend(t.viewportPosition(row, col))
}

// ClearSelection deactivates the current selection.
func (t *Terminal) ClearSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection.Clear()
}

// HasSelection reports whether a selection is active.
func (t *Terminal) HasSelection() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selection.Active
}

// SelectedText extracts the text covered by the active selection.
func (t *Terminal) SelectedText() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active().grid.ExtractText(t.selection)
}

// EnterNavMode activates the vi-mode navigation cursor at the text cursor's
// current position.
func (t *Terminal) EnterNavMode() {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.active()
	t.nav.Enable(t.viewportPosition(s.cursor.Row, s.cursor.Col))
}

// ExitNavMode deactivates the navigation cursor.
func (t *Terminal) ExitNavMode() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nav.Disable()
}

// NavActive reports whether the navigation cursor is active.
func (t *Terminal) NavActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nav.Active
}

// NavPosition returns the navigation cursor's absolute position.
func (t *Terminal) NavPosition() Position {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nav.Pos
}

// NavMoveChar moves the navigation cursor by the given line/column delta.
func (t *Terminal) NavMoveChar(dLines, dCols int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active().grid.MoveChar(t.nav, dLines, dCols)
}

func (t *Terminal) NavMoveWordForward() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active().grid.MoveWordForward(t.nav)
}

func (t *Terminal) NavMoveWordBackward() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active().grid.MoveWordBackward(t.nav)
}

func (t *Terminal) NavMoveLineStart() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active().grid.MoveLineStart(t.nav)
}

func (t *Terminal) NavMoveLineEnd() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active().grid.MoveLineEnd(t.nav)
}

// NavMoveParagraph moves forward (dir=1) or backward (dir=-1) to the next
// blank logical line.
func (t *Terminal) NavMoveParagraph(dir int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active().grid.MoveParagraph(t.nav, dir)
}

// NavMoveScreen moves to the top (where<0), middle (where==0), or bottom
// (where>0) of the current viewport.
func (t *Terminal) NavMoveScreen(where int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active().grid.MoveScreen(t.nav, where)
}

func (t *Terminal) NavMoveMatchingBracket() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active().grid.MoveMatchingBracket(t.nav)
}

// BeginSearch starts an incremental search session in the given direction.
func (t *Terminal) BeginSearch(dir SearchDirection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.search.Begin(dir)
}

// EndSearch closes the search session, retaining the last match set.
func (t *Terminal) EndSearch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.search.End()
}

// SearchTypeChar appends a literal character to the search pattern and
// rescans the retained buffer.
func (t *Terminal) SearchTypeChar(r rune) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active().grid.TypeChar(t.search, r)
}

// SearchBackspace removes the last typed rune from the search pattern.
func (t *Terminal) SearchBackspace() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active().grid.Backspace(t.search)
}

// SearchNext focuses the next match, wrapping at the end of history.
func (t *Terminal) SearchNext() (SearchMatch, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.search.Next()
}

// SearchPrevious focuses the previous match, wrapping at the start of history.
func (t *Terminal) SearchPrevious() (SearchMatch, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.search.Previous()
}

// SearchMatches returns the current match set for the active search.
func (t *Terminal) SearchMatches() []SearchMatch {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.search.Matches
}

// ScanHints runs the configured hint engine over the active screen's
// viewport.
func (t *Terminal) ScanHints() []Hint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hints.Scan(t.active().grid)
}
