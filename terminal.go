package termcore

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"termcore/vtparse"
)

const (
	defaultScrollback = 10_000
	syncUpdateTimeout = 150 * time.Millisecond
)

// screen holds the per-screen-buffer state that the primary and alternate
// screens each need their own copy of (spec §3 "Screens. Two Terminal
// States...").
type screen struct {
	grid        *Grid
	cursor      *Cursor
	savedCursor *SavedCursor
	scrollTop   int
	scrollBot   int
}

// Terminal is the terminal state engine: parser-fed command handler, dual
// screens, selection, navigation cursor, search, hints, and the provider
// set described in the package doc. All exported methods are safe for
// concurrent use; mutation only ever happens while holding mu for writing
// (spec §5 "Only this thread mutates the grid, cursor, selection, and
// modes").
type Terminal struct {
	mu sync.RWMutex

	primary   screen
	alternate screen
	altActive bool

	mode       TerminalMode
	palette    *Palette
	hyperlinks *hyperlinkTable
	titleStack []string
	title      string
	iconTitle  string

	parser *vtparse.Parser

	bell        BellProvider
	titleP      TitleProvider
	clipboard   ClipboardProvider
	scrollbackP ScrollbackProvider
	recording   RecordingProvider
	response    ResponseProvider
	urlLauncher URLLauncherProvider

	middleware *Middleware

	selection *Selection
	nav       *NavCursor
	search    *SearchState
	hints     *HintEngine

	logger *slog.Logger

	syncUpdate        bool
	syncTimer         *time.Timer
	syncUpdateTimeout time.Duration

	openHyperlink string // URI currently scoping printed cells via OSC 8; "" = none
	maxHistory    int
}

// Option configures a Terminal at construction time.
type Option func(*Terminal)

// WithSize sets the initial viewport geometry. Default is 80x24.
func WithSize(rows, cols int) Option {
	return func(t *Terminal) { t.resizeLocked(rows, cols) }
}

// WithScrollback sets the maximum retained history line count.
func WithScrollback(maxLines int) Option {
	return func(t *Terminal) {
		t.maxHistory = maxLines
		// The screens already exist, so rebuild them with the new bound.
		rows, cols := t.primary.grid.Rows(), t.primary.grid.Cols()
		t.primary = t.newScreen(rows, cols)
		t.alternate = t.newScreen(rows, cols)
		t.primary.grid.SetScrollbackProvider(t.scrollbackP)
	}
}

// WithSyncUpdateTimeout bounds how long mode 2026 (synchronized update) may
// stay enabled before the terminal forces it back off, guarding against a
// renderer that sets the mode and then stalls or dies before resetting it.
// Default is 150ms.
func WithSyncUpdateTimeout(d time.Duration) Option {
	return func(t *Terminal) { t.syncUpdateTimeout = d }
}

func WithResponse(p ResponseProvider) Option   { return func(t *Terminal) { t.response = p } }
func WithBell(p BellProvider) Option           { return func(t *Terminal) { t.bell = p } }
func WithTitle(p TitleProvider) Option         { return func(t *Terminal) { t.titleP = p } }
func WithClipboard(p ClipboardProvider) Option { return func(t *Terminal) { t.clipboard = p } }
func WithScrollbackStorage(p ScrollbackProvider) Option {
	return func(t *Terminal) {
		t.scrollbackP = p
		t.primary.grid.SetScrollbackProvider(p)
	}
}
func WithRecording(p RecordingProvider) Option { return func(t *Terminal) { t.recording = p } }
func WithURLLauncher(p URLLauncherProvider) Option {
	return func(t *Terminal) { t.urlLauncher = p }
}
func WithMiddleware(mw *Middleware) Option { return func(t *Terminal) { t.middleware = mw } }
func WithLogger(l *slog.Logger) Option     { return func(t *Terminal) { t.logger = l } }
func WithHintSpecs(specs []HintSpec) Option {
	return func(t *Terminal) { t.hints = NewHintEngine(specs) }
}

// New constructs a Terminal with an 80x24 viewport and 10,000 lines of
// scrollback unless overridden by options.
func New(opts ...Option) *Terminal {
	t := &Terminal{
		mode:        0,
		palette:     NewDefaultPalette(),
		hyperlinks:  newHyperlinkTable(),
		bell:        NoopBell{},
		titleP:      NoopTitle{},
		clipboard:   NoopClipboard{},
		scrollbackP: NoopScrollback{},
		recording:   NoopRecording{},
		response:    NoopResponse{},
		urlLauncher: NoopURLLauncher{},
		maxHistory:  defaultScrollback,
		hints:       NewHintEngine(DefaultHintSpecs()),

		syncUpdateTimeout: syncUpdateTimeout,
	}
	t.mode.set(ModeAutoWrap | ModeCursorVisible)
	t.primary = t.newScreen(24, 80)
	t.alternate = t.newScreen(24, 80)
	t.primary.grid.SetScrollbackProvider(t.scrollbackP)
	t.selection = &Selection{}
	t.nav = &NavCursor{}
	t.search = &SearchState{}
	t.parser = vtparse.New(runeWidth)

	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Terminal) newScreen(rows, cols int) screen {
	return screen{
		grid: NewGrid(rows, cols, t.maxHistory, t.hyperlinks),
		cursor: NewCursor(),
		scrollTop: 0, scrollBot: rows - 1,
	}
}

func (t *Terminal) active() *screen {
	if t.altActive {
		return &t.alternate
	}
	return &t.primary
}

// Write implements io.Writer: raw bytes are recorded (if a RecordingProvider
// is set), then parsed and applied under the write lock.
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording.Record(p)
	t.parser.Parse(p, (*handlerAdapter)(t))
	// Selection tracks absolute history coordinates, which only the primary
	// screen's grid retains across scrollback eviction; the alternate screen
	// has no scrollback, so clamping always checks against primary.
	t.primary.grid.clampSelection(t.selection)
	return len(p), nil
}

func (t *Terminal) WriteString(s string) (int, error) { return t.Write([]byte(s)) }

// Rows and Cols report the active screen's visible geometry.
func (t *Terminal) Rows() int { t.mu.RLock(); defer t.mu.RUnlock(); return t.active().grid.Rows() }
func (t *Terminal) Cols() int { t.mu.RLock(); defer t.mu.RUnlock(); return t.active().grid.Cols() }

// CursorPos returns the 0-indexed (row, col) of the primary cursor on the
// active screen.
func (t *Terminal) CursorPos() (int, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c := t.active().cursor
	return c.Row, c.Col
}

func (t *Terminal) CursorVisible() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode.has(ModeCursorVisible)
}

func (t *Terminal) CursorStyle() CursorStyle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active().cursor.Style
}

func (t *Terminal) Title() string { t.mu.RLock(); defer t.mu.RUnlock(); return t.title }

func (t *Terminal) HasMode(m TerminalMode) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode.has(m)
}

func (t *Terminal) IsAlternateScreen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.altActive
}

// Cell returns a copy of the cell at viewport coordinates on the active
// screen.
func (t *Terminal) Cell(row, col int) (Cell, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c := t.active().grid.Cell(row, col)
	if c == nil {
		return Cell{}, false
	}
	return *c, true
}

// Resize changes the viewport geometry on both screens. Per spec §4.3, the
// alternate screen does not reflow — it is truncated or padded.
func (t *Terminal) Resize(rows, cols int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resizeLocked(rows, cols)
}

func (t *Terminal) resizeLocked(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if t.primary.grid == nil {
		t.primary = t.newScreen(rows, cols)
		t.alternate = t.newScreen(rows, cols)
		return
	}
	bg := t.primary.cursor.Attrs.bg
	primaryCursorAbs := Position{Line: t.primary.grid.ViewportTop() + t.primary.cursor.Row, Col: t.primary.cursor.Col}
	newCursorAbs, pendingWrap, reflowed := t.primary.grid.Resize(rows, cols, bg, primaryCursorAbs)
	t.alternate.grid.ResizeNoReflow(rows, cols, bg) // alt screen: truncate/pad, never reflow
	t.primary.scrollTop, t.primary.scrollBot = 0, rows-1
	t.alternate.scrollTop, t.alternate.scrollBot = 0, rows-1
	if reflowed {
		t.primary.cursor.Row = newCursorAbs.Line - t.primary.grid.ViewportTop()
		t.primary.cursor.Col = newCursorAbs.Col
		t.primary.cursor.PendingWrap = pendingWrap
	}
	clampCursor(t.primary.cursor, t.primary.grid, rows, cols)
	clampCursor(t.alternate.cursor, t.alternate.grid, rows, cols)
	t.primary.grid.clampSelection(t.selection)
}

// clampCursor keeps the cursor within the new viewport bounds and, per the
// "snap to last printable column" resolution of the reflow/wide-char-spacer
// ambiguity, steps it back one column if it lands on a wide character's
// trailing spacer cell rather than a real printable cell.
func clampCursor(c *Cursor, g *Grid, rows, cols int) {
	if c.Row >= rows {
		c.Row = rows - 1
	}
	if c.Col >= cols {
		c.Col = cols - 1
	}
	if c.Col > 0 {
		if cell := g.Cell(c.Row, c.Col); cell != nil && cell.IsWideSpacer() {
			c.Col--
		}
	}
}

func (t *Terminal) logDebug(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Debug(msg, args...)
	}
}

// String implements fmt.Stringer: the active screen's visible content, one
// line per row, trailing blank lines trimmed.
func (t *Terminal) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	g := t.active().grid
	lines := make([]string, 0, g.Rows())
	for row := 0; row < g.Rows(); row++ {
		lines = append(lines, g.lineText(g.ViewportTop()+row))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

func (t *Terminal) errorf(format string, args ...any) error {
	return fmt.Errorf("termcore: "+format, args...)
}
