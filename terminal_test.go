package termcore

import (
	"strings"
	"testing"
	"time"
)

func TestNewTerminalDefaultSize(t *testing.T) {
	term := New()

	if term.Rows() != 24 {
		t.Errorf("expected 24 rows, got %d", term.Rows())
	}
	if term.Cols() != 80 {
		t.Errorf("expected 80 cols, got %d", term.Cols())
	}
}

func TestTerminalWithSize(t *testing.T) {
	term := New(WithSize(40, 120))

	if term.Rows() != 40 {
		t.Errorf("expected 40 rows, got %d", term.Rows())
	}
	if term.Cols() != 120 {
		t.Errorf("expected 120 cols, got %d", term.Cols())
	}
}

func TestTerminalWrite(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("Hello")

	if got := term.String(); got != "Hello" {
		t.Errorf("String() = %q, want %q", got, "Hello")
	}
}

func TestTerminalCursorPosition(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("ABC")

	row, col := term.CursorPos()
	if row != 0 || col != 3 {
		t.Errorf("expected cursor at (0, 3), got (%d, %d)", row, col)
	}
}

func TestTerminalNewline(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("Line1\r\nLine2")

	if got := term.String(); got != "Line1\nLine2" {
		t.Errorf("String() = %q, want %q", got, "Line1\nLine2")
	}
}

func TestTerminalClearScreen(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("Hello")
	term.WriteString("\x1b[2J")

	if got := term.String(); got != "" {
		t.Errorf("expected empty screen after clear, got %q", got)
	}
}

func TestTerminalAlternateScreen(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("primary text")
	term.WriteString("\x1b[?1049h")

	if !term.IsAlternateScreen() {
		t.Fatal("expected alternate screen to be active")
	}
	term.WriteString("alt text")
	if got := term.String(); got != "alt text" {
		t.Errorf("alt screen content = %q, want %q", got, "alt text")
	}

	term.WriteString("\x1b[?1049l")
	if term.IsAlternateScreen() {
		t.Fatal("expected to be back on the primary screen")
	}
	if got := term.String(); got != "primary text" {
		t.Errorf("restored primary content = %q, want %q", got, "primary text")
	}
}

type testScrollback struct{ lines []Line }

func (s *testScrollback) Push(l Line) { s.lines = append(s.lines, l) }

func TestTerminalScrollbackEviction(t *testing.T) {
	storage := &testScrollback{}
	term := New(WithSize(3, 10), WithScrollback(2), WithScrollbackStorage(storage))

	for i := 0; i < 10; i++ {
		term.WriteString("x\r\n")
	}

	if len(storage.lines) == 0 {
		t.Error("expected at least one line pushed to the scrollback provider")
	}
}

func TestTerminalSelection(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("Hello World")

	term.BeginSelection(SelectionSimple, 0, 0)
	term.ExtendSelection(0, 5)

	if !term.HasSelection() {
		t.Fatal("expected selection to be active")
	}
	if got := term.SelectedText(); got != "Hello" {
		t.Errorf("SelectedText() = %q, want %q", got, "Hello")
	}

	term.ClearSelection()
	if term.HasSelection() {
		t.Error("expected selection to be cleared")
	}
}

func TestTerminalSelectionDroppedOnScrollbackEviction(t *testing.T) {
	term := New(WithSize(3, 10), WithScrollback(2))

	term.WriteString("abc\r\n")
	term.BeginSelection(SelectionSimple, 0, 0)
	term.ExtendSelection(0, 3)
	if !term.HasSelection() {
		t.Fatal("expected selection to be active")
	}

	for i := 0; i < 20; i++ {
		term.WriteString("x\r\n")
	}

	if term.HasSelection() {
		t.Error("expected selection to be dropped once its endpoints scrolled out of retained history")
	}
}

func TestTerminalSearch(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("Hello World\r\n")
	term.WriteString("Hello Again\r\n")

	term.BeginSearch(SearchForward)
	for _, r := range "Hello" {
		if err := term.SearchTypeChar(r); err != nil {
			t.Fatalf("SearchTypeChar(%q) error: %v", r, err)
		}
	}

	matches := term.SearchMatches()
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Start.Col != 0 || matches[1].Start.Col != 0 {
		t.Errorf("expected both matches to start at column 0, got %+v", matches)
	}
}

func TestTerminalNavMode(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("one two three")

	term.EnterNavMode()
	if !term.NavActive() {
		t.Fatal("expected navigation cursor to be active")
	}

	term.NavMoveChar(0, 0)
	start := term.NavPosition()
	term.NavMoveWordForward()
	after := term.NavPosition()
	if !start.Before(after) {
		t.Errorf("expected word-forward motion to advance the position, got %+v -> %+v", start, after)
	}

	term.ExitNavMode()
	if term.NavActive() {
		t.Error("expected navigation cursor to be inactive")
	}
}

func TestTerminalHints(t *testing.T) {
	term := New(WithSize(5, 60))
	term.WriteString("visit http://example.com for details")

	hints := term.ScanHints()
	if len(hints) != 1 {
		t.Fatalf("expected 1 hint, got %d: %+v", len(hints), hints)
	}
	if hints[0].Text != "http://example.com" {
		t.Errorf("hint text = %q, want %q", hints[0].Text, "http://example.com")
	}
}

func TestTerminalResize(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("Hello")
	term.Resize(10, 40)

	if term.Rows() != 10 || term.Cols() != 40 {
		t.Errorf("Resize did not take effect: got %dx%d", term.Rows(), term.Cols())
	}
}

func TestTerminalResizeReflowTracksCursorThroughLogicalLine(t *testing.T) {
	// spec §8 scenario 5: typing "abcdef" at 4 columns wraps it across two
	// rows ("abcd"/"ef"), leaving the cursor on row 1. Growing to 6 columns
	// reflows the wrapped pair back into a single row, and the cursor must
	// follow "abcdef" to the end of row 0 rather than stay at its stale
	// pre-reflow (row, col).
	term := New(WithSize(24, 4))
	term.WriteString("abcdef")

	row, col := term.CursorPos()
	if row != 1 || col != 2 {
		t.Fatalf("setup: cursor = (%d,%d), want (1,2) before reflow", row, col)
	}

	term.Resize(24, 6)

	row, col = term.CursorPos()
	if row != 0 || col != 5 {
		t.Errorf("cursor after reflow = (%d,%d), want (0,5) at the end of \"abcdef\"", row, col)
	}
	if got := term.String(); !strings.HasPrefix(got, "abcdef") {
		t.Errorf("reflowed content = %q, want it to start with %q", got, "abcdef")
	}
}

func TestTerminalResizeSnapsCursorOffWideSpacer(t *testing.T) {
	// The alternate screen truncates/pads on resize instead of reflowing
	// (spec §4.3), which makes the resulting column layout predictable: with
	// a 10-column row holding "1234567" (cols 0-6) followed by a wide rune
	// (lead cell 7, spacer cell 8) and a blank column 9, shrinking to 9
	// columns truncates only column 9, leaving the spacer as the new last
	// column — exactly where a naive clamp would otherwise strand the cursor.
	term := New(WithSize(24, 10))
	term.WriteString("\x1b[?1049h") // enter alternate screen
	term.WriteString("1234567")
	term.WriteString("中")

	term.Resize(24, 9)

	row, col := term.CursorPos()
	if col != 7 {
		t.Fatalf("CursorPos() col = %d, want 7 (clamped to new last column 8, then snapped off its spacer)", col)
	}
	cell, ok := term.Cell(row, col)
	if !ok {
		t.Fatal("expected a cell at the clamped cursor position")
	}
	if cell.IsWideSpacer() {
		t.Errorf("cursor landed on a wide-char spacer at col %d after resize", col)
	}
}

func TestTerminalScrollRegionOriginHoming(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("\x1b[?6h")   // DECOM on
	term.WriteString("\x1b[5;10r") // new scrolling region rows 5-10 (1-indexed)

	row, col := term.CursorPos()
	if row != 4 || col != 0 {
		t.Errorf("CursorPos() = (%d,%d), want (4,0) homed to top of the new region under DECOM", row, col)
	}
}

func TestTerminalTitle(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("\x1b]0;my title\x07")

	if got := term.Title(); got != "my title" {
		t.Errorf("Title() = %q, want %q", got, "my title")
	}
}

func TestTerminalSyncUpdateResetClearsMode(t *testing.T) {
	term := New(WithSize(24, 80), WithSyncUpdateTimeout(50*time.Millisecond))
	term.WriteString("\x1b[?2026h")
	if !term.HasMode(ModeSyncUpdate) {
		t.Fatal("expected sync update mode to be set")
	}
	term.WriteString("\x1b[?2026l")
	if term.HasMode(ModeSyncUpdate) {
		t.Error("expected sync update mode to be cleared by explicit reset")
	}
}

func TestTerminalSyncUpdateTimesOut(t *testing.T) {
	term := New(WithSize(24, 80), WithSyncUpdateTimeout(20*time.Millisecond))
	term.WriteString("\x1b[?2026h")
	if !term.HasMode(ModeSyncUpdate) {
		t.Fatal("expected sync update mode to be set")
	}

	deadline := time.Now().Add(500 * time.Millisecond)
	for term.HasMode(ModeSyncUpdate) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if term.HasMode(ModeSyncUpdate) {
		t.Error("expected sync update mode to be force-cleared after timeout")
	}
}

func TestTerminalKeypadModeIndependentOfCursorMode(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b=")
	if !term.HasMode(ModeKeypadApplication) {
		t.Fatal("expected ESC = to set keypad application mode")
	}
	if term.HasMode(ModeApplicationCursor) {
		t.Error("ESC = must not affect DECCKM cursor-key mode")
	}

	term.WriteString("\x1b[?1h")
	if !term.HasMode(ModeApplicationCursor) {
		t.Fatal("expected CSI ?1h to set DECCKM")
	}
	if !term.HasMode(ModeKeypadApplication) {
		t.Error("CSI ?1h must not clear keypad application mode")
	}

	term.WriteString("\x1b[?1l")
	if term.HasMode(ModeApplicationCursor) {
		t.Error("expected CSI ?1l to clear DECCKM")
	}
	if !term.HasMode(ModeKeypadApplication) {
		t.Error("CSI ?1l must not affect keypad application mode")
	}

	term.WriteString("\x1b>")
	if term.HasMode(ModeKeypadApplication) {
		t.Error("expected ESC > to clear keypad application mode")
	}
}
