package termcore

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"termcore/vtparse"
)

// handlerAdapter implements vtparse.Handler by reinterpreting a *Terminal.
// It exists so vtparse.Handler's five methods don't leak into Terminal's own
// much larger public surface.
type handlerAdapter Terminal

func (h *handlerAdapter) t() *Terminal { return (*Terminal)(h) }

func (h *handlerAdapter) Print(r rune, width int) {
	if mw := h.t().middleware; mw != nil && mw.Print != nil {
		mw.Print(r, width, func(r2 rune, w2 int) { h.t().printRune(r2, w2) })
		return
	}
	h.t().printRune(r, width)
}

func (h *handlerAdapter) Execute(b byte) {
	if mw := h.t().middleware; mw != nil && mw.Execute != nil {
		mw.Execute(b, func(b2 byte) { h.t().execute(b2) })
		return
	}
	h.t().execute(b)
}

func (h *handlerAdapter) CsiDispatch(params *vtparse.Params, intermediates []byte, ignored bool, final byte) {
	if mw := h.t().middleware; mw != nil && mw.CsiDispatch != nil {
		mw.CsiDispatch(params, intermediates, ignored, final, func(p2 *vtparse.Params, im2 []byte, ig2 bool, f2 byte) {
			h.t().csiDispatch(p2, im2, ig2, f2)
		})
		return
	}
	h.t().csiDispatch(params, intermediates, ignored, final)
}

func (h *handlerAdapter) OscDispatch(params [][]byte, bellTerminated bool) {
	if mw := h.t().middleware; mw != nil && mw.OscDispatch != nil {
		mw.OscDispatch(params, bellTerminated, func(p2 [][]byte, b2 bool) { h.t().oscDispatch(p2, b2) })
		return
	}
	h.t().oscDispatch(params, bellTerminated)
}

func (h *handlerAdapter) EscDispatch(intermediates []byte, ignored bool, final byte) {
	if mw := h.t().middleware; mw != nil && mw.EscDispatch != nil {
		mw.EscDispatch(intermediates, ignored, final, func(im2 []byte, ig2 bool, f2 byte) {
			h.t().escDispatch(im2, ig2, f2)
		})
		return
	}
	h.t().escDispatch(intermediates, ignored, final)
}

func (h *handlerAdapter) DcsHook(*vtparse.Params, []byte, bool, byte) {}
func (h *handlerAdapter) DcsPut(byte)                                {}
func (h *handlerAdapter) DcsUnhook()                                 {}

// Debug implements vtparse.DebugHandler so parser-level diagnostics (param
// overflow, truncated OSC payloads) flow through the same logger as the
// terminal's own dispatch-level ones.
func (h *handlerAdapter) Debug(reason string) { h.t().logDebug("parser: " + reason) }

var (
	_ vtparse.Handler      = (*handlerAdapter)(nil)
	_ vtparse.DebugHandler = (*handlerAdapter)(nil)
)

// --- Print / C0 ----------------------------------------------------------

// printRune advances the cursor by width, wrapping first if pending-wrap is
// set and auto-wrap is enabled (spec §4.2). A combining mark (width 0)
// attaches to the previous cell instead of occupying a new one.
func (t *Terminal) printRune(r rune, width int) {
	s := t.active()
	cur := s.cursor
	r = cur.translate(r)

	if width == 0 {
		col := cur.Col - 1
		if cur.PendingWrap {
			col = cur.Col // the last printed cell is under the cursor
		}
		if col > 0 && s.grid.Cell(cur.Row, col) != nil && s.grid.Cell(cur.Row, col).IsWideSpacer() {
			col-- // attach to the wide char, not its spacer
		}
		if col >= 0 && isCombiningMark(r) {
			if prev := s.grid.Cell(cur.Row, col); prev != nil {
				prev.AddCombining(r)
				prev.MarkDirty()
				s.grid.MarkRowDirty(cur.Row)
			}
		}
		return
	}

	if cur.PendingWrap && t.mode.has(ModeAutoWrap) {
		s.grid.LineAt(s.grid.ViewportTop() + cur.Row).Wrapped = true
		t.lineFeed()
		cur.Col = 0
		cur.PendingWrap = false
	}

	if width == 2 && cur.Col == s.grid.Cols()-1 && t.mode.has(ModeAutoWrap) {
		s.grid.LineAt(s.grid.ViewportTop() + cur.Row).Wrapped = true
		t.lineFeed()
		cur.Col = 0
		cur.PendingWrap = false
	}

	cell := cur.Attrs.cell(r)
	if t.openHyperlink != "" {
		cell.HyperlinkID = t.hyperlinks.intern(t.openHyperlink)
	}
	s.grid.SetCell(cur.Row, cur.Col, cell)

	if width == 2 && cur.Col+1 < s.grid.Cols() {
		spacer := NewCell()
		spacer.Bg = cur.Attrs.bg
		spacer.SetFlag(CellFlagWideCharSpacer)
		s.grid.SetCell(cur.Row, cur.Col+1, spacer)
		if c := s.grid.Cell(cur.Row, cur.Col); c != nil {
			c.SetFlag(CellFlagWideChar)
		}
	}

	advance := width
	if advance < 1 {
		advance = 1
	}
	if cur.Col+advance >= s.grid.Cols() {
		cur.Col = s.grid.Cols() - 1
		cur.PendingWrap = true
	} else {
		cur.Col += advance
	}
}

func (t *Terminal) execute(b byte) {
	switch b {
	case 0x08: // BS
		t.backspace()
	case 0x09: // HT
		t.horizontalTab()
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		t.lineFeed()
	case 0x0D: // CR
		t.active().cursor.Col = 0
		t.active().cursor.PendingWrap = false
	case 0x07: // BEL
		t.bell.Ring()
	case 0x0E: // SO
		t.active().cursor.ActiveSlot = CharsetIndexG1
	case 0x0F: // SI
		t.active().cursor.ActiveSlot = CharsetIndexG0
	default:
		t.logDebug("execute: unhandled C0", "byte", b)
	}
}

func (t *Terminal) backspace() {
	c := t.active().cursor
	if c.Col > 0 {
		c.Col--
		c.PendingWrap = false
	}
}

func (t *Terminal) horizontalTab() {
	s := t.active()
	s.cursor.Col = s.grid.NextTabStop(s.cursor.Col)
}

// lineFeed advances the cursor down one row, scrolling the scrolling region
// if already at its bottom (spec §4.2 "LF... if at the scrolling-region
// bottom, scroll up").
func (t *Terminal) lineFeed() {
	s := t.active()
	if s.cursor.Row == s.scrollBot {
		s.grid.ScrollUp(s.scrollTop, s.scrollBot, 1, !t.altActive, s.cursor.Attrs.bg)
	} else if s.cursor.Row < s.grid.Rows()-1 {
		s.cursor.Row++
	}
	if t.mode.has(ModeNewline) {
		s.cursor.Col = 0
	}
	s.cursor.PendingWrap = false
}

func (t *Terminal) reverseIndex() {
	s := t.active()
	if s.cursor.Row == s.scrollTop {
		s.grid.ScrollDown(s.scrollTop, s.scrollBot, 1, s.cursor.Attrs.bg)
	} else if s.cursor.Row > 0 {
		s.cursor.Row--
	}
	s.cursor.PendingWrap = false
}

// --- CSI -------------------------------------------------------------

func (t *Terminal) csiDispatch(params *vtparse.Params, intermediates []byte, ignored bool, final byte) {
	_ = ignored
	private := len(intermediates) > 0 && intermediates[0] == '?'
	sp := len(intermediates) > 0 && intermediates[len(intermediates)-1] == ' '
	dollar := len(intermediates) > 0 && intermediates[len(intermediates)-1] == '$'

	get := func(i int, def int) int {
		v := int(params.Get(i, uint16(def)))
		if v == 0 && def != 0 {
			return def
		}
		return v
	}

	s := t.active()
	switch final {
	case '@':
		t.insertBlanks(get(0, 1))
	case 'A':
		t.moveUp(get(0, 1))
	case 'B':
		t.moveDown(get(0, 1))
	case 'C', 'a':
		t.moveForward(get(0, 1))
	case 'D':
		t.moveBackward(get(0, 1))
	case 'E':
		t.moveDown(get(0, 1))
		s.cursor.Col = 0
	case 'F':
		t.moveUp(get(0, 1))
		s.cursor.Col = 0
	case 'G', '`':
		t.gotoCol(get(0, 1) - 1)
	case 'H', 'f':
		t.gotoRowCol(get(0, 1)-1, int(params.Get(1, 1))-1)
	case 'I':
		for i := 0; i < get(0, 1); i++ {
			s.cursor.Col = s.grid.NextTabStop(s.cursor.Col)
		}
	case 'J':
		t.eraseInDisplay(int(params.Get(0, 0)))
	case 'K':
		t.eraseInLine(int(params.Get(0, 0)))
	case 'L':
		t.insertLines(get(0, 1))
	case 'M':
		t.deleteLines(get(0, 1))
	case 'P':
		t.deleteChars(get(0, 1))
	case 'S':
		s.grid.ScrollUp(s.scrollTop, s.scrollBot, get(0, 1), !t.altActive, s.cursor.Attrs.bg)
	case 'T':
		s.grid.ScrollDown(s.scrollTop, s.scrollBot, get(0, 1), s.cursor.Attrs.bg)
	case 'X':
		t.eraseChars(get(0, 1))
	case 'Z':
		for i := 0; i < get(0, 1); i++ {
			s.cursor.Col = s.grid.PrevTabStop(s.cursor.Col)
		}
	case 'b':
		t.logDebug("csi: REP not implemented")
	case 'c':
		t.deviceAttributes(private)
	case 'd':
		t.gotoRow(get(0, 1) - 1)
	case 'e':
		t.moveDown(get(0, 1))
	case 'g':
		t.clearTabs(int(params.Get(0, 0)))
	case 'h':
		t.setModes(params, private, true)
	case 'l':
		t.setModes(params, private, false)
	case 'm':
		t.selectGraphicRendition(params)
	case 'n':
		t.deviceStatusReport(int(params.Get(0, 0)))
	case 'q':
		if sp {
			t.setCursorStyle(int(params.Get(0, 1)))
		}
	case 'r':
		if dollar {
			break // mode-report request form; not implemented beyond a no-op
		}
		t.setScrollingRegion(int(params.Get(0, 1)), int(params.Get(1, 0)))
	case 's':
		if !private {
			t.saveCursor()
		}
	case 't':
		t.windowOp(int(params.Get(0, 0)))
	case 'u':
		t.restoreCursor()
	default:
		t.logDebug("csi: unhandled final", "final", string(final))
	}
}

func (t *Terminal) insertBlanks(n int) {
	s := t.active()
	s.grid.InsertBlanks(s.cursor.Row, s.cursor.Col, n, s.cursor.Attrs.bg)
}

func (t *Terminal) moveUp(n int) {
	s := t.active()
	s.cursor.Row -= n
	if s.cursor.Row < s.scrollTop {
		s.cursor.Row = s.scrollTop
	}
	if s.cursor.Row < 0 {
		s.cursor.Row = 0
	}
	s.cursor.PendingWrap = false
}

func (t *Terminal) moveDown(n int) {
	s := t.active()
	s.cursor.Row += n
	if max := s.grid.Rows() - 1; s.cursor.Row > max {
		s.cursor.Row = max
	}
	s.cursor.PendingWrap = false
}

func (t *Terminal) moveForward(n int) {
	s := t.active()
	s.cursor.Col += n
	if s.cursor.Col > s.grid.Cols()-1 {
		s.cursor.Col = s.grid.Cols() - 1
	}
	s.cursor.PendingWrap = false
}

func (t *Terminal) moveBackward(n int) {
	s := t.active()
	s.cursor.Col -= n
	if s.cursor.Col < 0 {
		s.cursor.Col = 0
	}
	s.cursor.PendingWrap = false
}

func (t *Terminal) gotoCol(col int) {
	s := t.active()
	s.cursor.Col = clampInt(col, 0, s.grid.Cols()-1)
	s.cursor.PendingWrap = false
}

func (t *Terminal) gotoRow(row int) {
	s := t.active()
	top, bot := t.rowBounds()
	if t.mode.has(ModeOrigin) {
		row += top
	}
	s.cursor.Row = clampInt(row, top, bot)
	s.cursor.PendingWrap = false
}

// rowBounds returns the row clamp range for cursor addressing: the full
// viewport normally, or the scrolling region under origin mode (DECOM).
func (t *Terminal) rowBounds() (int, int) {
	s := t.active()
	if t.mode.has(ModeOrigin) {
		return s.scrollTop, s.scrollBot
	}
	return 0, s.grid.Rows() - 1
}

// gotoRowCol implements CSI H/f (CUP/HVP). row/col are 0-indexed from the
// sequence's own 1-indexed arguments; under DECOM, row is relative to the
// scrolling region's top.
func (t *Terminal) gotoRowCol(row, col int) {
	s := t.active()
	top, bot := t.rowBounds()
	if t.mode.has(ModeOrigin) {
		row += top
	}
	s.cursor.Row = clampInt(row, top, bot)
	s.cursor.Col = clampInt(col, 0, s.grid.Cols()-1)
	s.cursor.PendingWrap = false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (t *Terminal) eraseInDisplay(mode int) {
	s := t.active()
	bg := s.cursor.Attrs.bg
	switch mode {
	case 0:
		s.grid.ClearRowRange(s.cursor.Row, s.cursor.Col, s.grid.Cols(), bg)
		for r := s.cursor.Row + 1; r < s.grid.Rows(); r++ {
			s.grid.ClearRow(r, bg)
		}
	case 1:
		s.grid.ClearRowRange(s.cursor.Row, 0, s.cursor.Col+1, bg)
		for r := 0; r < s.cursor.Row; r++ {
			s.grid.ClearRow(r, bg)
		}
	case 2, 3:
		s.grid.ClearAll(bg)
	}
}

func (t *Terminal) eraseInLine(mode int) {
	s := t.active()
	bg := s.cursor.Attrs.bg
	switch mode {
	case 0:
		s.grid.ClearRowRange(s.cursor.Row, s.cursor.Col, s.grid.Cols(), bg)
	case 1:
		s.grid.ClearRowRange(s.cursor.Row, 0, s.cursor.Col+1, bg)
	case 2:
		s.grid.ClearRow(s.cursor.Row, bg)
	}
}

func (t *Terminal) insertLines(n int) {
	s := t.active()
	if s.cursor.Row < s.scrollTop || s.cursor.Row > s.scrollBot {
		return
	}
	s.grid.InsertLines(s.cursor.Row, s.scrollTop, s.scrollBot, n, s.cursor.Attrs.bg)
}

func (t *Terminal) deleteLines(n int) {
	s := t.active()
	if s.cursor.Row < s.scrollTop || s.cursor.Row > s.scrollBot {
		return
	}
	s.grid.DeleteLines(s.cursor.Row, s.scrollTop, s.scrollBot, n, !t.altActive, s.cursor.Attrs.bg)
}

func (t *Terminal) deleteChars(n int) {
	s := t.active()
	s.grid.DeleteChars(s.cursor.Row, s.cursor.Col, n, s.cursor.Attrs.bg)
}

func (t *Terminal) eraseChars(n int) {
	s := t.active()
	s.grid.ClearRowRange(s.cursor.Row, s.cursor.Col, s.cursor.Col+n, s.cursor.Attrs.bg)
}

func (t *Terminal) clearTabs(mode int) {
	s := t.active()
	switch mode {
	case 0:
		s.grid.ClearTabStop(s.cursor.Col)
	case 3:
		s.grid.ClearAllTabStops()
	}
}

func (t *Terminal) deviceAttributes(private bool) {
	if private {
		fmt.Fprint(t.response, "\x1b[>0;10;0c")
		return
	}
	fmt.Fprint(t.response, "\x1b[?62;1;2c")
}

func (t *Terminal) deviceStatusReport(n int) {
	switch n {
	case 5:
		fmt.Fprint(t.response, "\x1b[0n")
	case 6:
		s := t.active()
		row, col := s.cursor.Row+1, s.cursor.Col+1
		if t.mode.has(ModeOrigin) {
			row -= s.scrollTop
		}
		fmt.Fprintf(t.response, "\x1b[%d;%dR", row, col)
	}
}

func (t *Terminal) setCursorStyle(n int) {
	if n >= 1 && n <= 6 {
		t.active().cursor.Style = CursorStyle(n - 1)
	}
}

// setScrollingRegion implements CSI r (DECSTBM): out-of-range or inverted
// arguments reset to the full screen and home the cursor (spec §8 boundary
// behavior).
func (t *Terminal) setScrollingRegion(top, bottom int) {
	s := t.active()
	if bottom == 0 {
		bottom = s.grid.Rows()
	}
	top--
	bottom--
	if top < 0 || bottom >= s.grid.Rows() || top >= bottom {
		top, bottom = 0, s.grid.Rows()-1
	}
	s.scrollTop, s.scrollBot = top, bottom
	s.cursor.Row, s.cursor.Col = 0, 0
	if t.mode.has(ModeOrigin) {
		s.cursor.Row = top
	}
	s.cursor.PendingWrap = false
}

func (t *Terminal) saveCursor() {
	s := t.active()
	saved := s.cursor.save(t.mode.has(ModeOrigin))
	s.savedCursor = &saved
}

func (t *Terminal) restoreCursor() {
	s := t.active()
	if s.savedCursor == nil {
		return
	}
	s.cursor.restore(*s.savedCursor)
	if s.savedCursor.OriginMode {
		t.mode.set(ModeOrigin)
	} else {
		t.mode.unset(ModeOrigin)
	}
}

// windowOp only supports the two reporting operations the core spec keeps in
// scope; everything else is a no-op (window moves/resizes belong to the
// windowing collaborator, out of this repo's scope).
func (t *Terminal) windowOp(n int) {
	s := t.active()
	switch n {
	case 14:
		fmt.Fprintf(t.response, "\x1b[4;%d;%dt", s.grid.Rows()*16, s.grid.Cols()*8)
	case 18:
		fmt.Fprintf(t.response, "\x1b[8;%d;%dt", s.grid.Rows(), s.grid.Cols())
	}
}

func (t *Terminal) setModes(params *vtparse.Params, private, enable bool) {
	table := ansiModes
	if private {
		table = privateModes
	}
	for i := 0; i < params.Len(); i++ {
		n := int(params.Get(i, 0))
		bit, ok := table[n]
		if !ok {
			t.logDebug("csi: unknown mode", "mode", n, "private", private)
			continue
		}
		if enable {
			t.applyModeSet(bit)
		} else {
			t.applyModeUnset(bit)
		}
	}
}

func (t *Terminal) applyModeSet(bit TerminalMode) {
	switch bit {
	case ModeAlternateScreen:
		t.enterAlternateScreen()
	case ModeColumn132:
		t.eraseInDisplay(2)
	case ModeSyncUpdate:
		t.mode.set(bit)
		t.armSyncTimer()
	default:
		t.mode.set(bit)
	}
}

func (t *Terminal) applyModeUnset(bit TerminalMode) {
	switch bit {
	case ModeAlternateScreen:
		t.exitAlternateScreen()
	case ModeSyncUpdate:
		t.mode.unset(bit)
		t.disarmSyncTimer()
	default:
		t.mode.unset(bit)
	}
}

// armSyncTimer starts (or restarts) the safety timer backing mode 2026: a
// renderer sets this mode to ask the terminal to hold damage notifications
// until the matching reset arrives. If that reset never comes, the mode
// would otherwise mask every future update from the renderer forever, so it
// is force-cleared after syncUpdateTimeout elapses. Called with t.mu held.
func (t *Terminal) armSyncTimer() {
	if t.syncTimer != nil {
		t.syncTimer.Stop()
	}
	timeout := t.syncUpdateTimeout
	if timeout <= 0 {
		timeout = syncUpdateTimeout
	}
	t.syncTimer = time.AfterFunc(timeout, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.mode.has(ModeSyncUpdate) {
			t.mode.unset(ModeSyncUpdate)
			t.logDebug("sync update mode timed out, forcing reset", "timeout", timeout)
		}
		t.syncTimer = nil
	})
}

// disarmSyncTimer cancels a pending force-reset once the renderer resets
// mode 2026 itself. Called with t.mu held.
func (t *Terminal) disarmSyncTimer() {
	if t.syncTimer != nil {
		t.syncTimer.Stop()
		t.syncTimer = nil
	}
}

func (t *Terminal) enterAlternateScreen() {
	if t.altActive {
		return
	}
	t.saveCursor()
	t.altActive = true
	t.mode.set(ModeAlternateScreen)
	t.alternate.grid.ClearAll(DefaultColor)
}

func (t *Terminal) exitAlternateScreen() {
	if !t.altActive {
		return
	}
	t.altActive = false
	t.mode.unset(ModeAlternateScreen)
	t.restoreCursor()
}

// selectGraphicRendition applies SGR parameters to the current attribute
// template (spec §4.2 "m: SGR").
func (t *Terminal) selectGraphicRendition(params *vtparse.Params) {
	s := t.active()
	a := &s.cursor.Attrs
	if params.Len() == 0 {
		*a = newAttrs()
		return
	}
	for i := 0; i < params.Len(); i++ {
		n := int(params.Get(i, 0))
		switch {
		case n == 0:
			*a = newAttrs()
		case n == 1:
			a.flags |= CellFlagBold
		case n == 2:
			a.flags |= CellFlagDim
		case n == 3:
			a.flags |= CellFlagItalic
		case n == 4:
			a.flags = setUnderlineVariant(a.flags, params, i)
		case n == 5:
			a.flags |= CellFlagBlinkSlow
		case n == 6:
			a.flags |= CellFlagBlinkFast
		case n == 7:
			a.flags |= CellFlagReverse
		case n == 8:
			a.flags |= CellFlagHidden
		case n == 9:
			a.flags |= CellFlagStrike
		case n == 22:
			a.flags &^= CellFlagBold | CellFlagDim
		case n == 23:
			a.flags &^= CellFlagItalic
		case n == 24:
			a.flags &^= underlineFlags
		case n == 25:
			a.flags &^= CellFlagBlinkSlow | CellFlagBlinkFast
		case n == 27:
			a.flags &^= CellFlagReverse
		case n == 28:
			a.flags &^= CellFlagHidden
		case n == 29:
			a.flags &^= CellFlagStrike
		case n >= 30 && n <= 37:
			a.fg = NamedColorValue(n - 30)
		case n == 38:
			c, consumed := parseExtendedColor(params, i)
			a.fg = c
			i += consumed
		case n == 39:
			a.fg = DefaultColor
		case n >= 40 && n <= 47:
			a.bg = NamedColorValue(n - 40)
		case n == 48:
			c, consumed := parseExtendedColor(params, i)
			a.bg = c
			i += consumed
		case n == 49:
			a.bg = DefaultColor
		case n == 58:
			c, consumed := parseExtendedColor(params, i)
			a.underline = c
			i += consumed
		case n == 59:
			a.underline = DefaultColor
		case n >= 90 && n <= 97:
			a.fg = NamedColorValue(n - 90 + 8)
		case n >= 100 && n <= 107:
			a.bg = NamedColorValue(n - 100 + 8)
		}
	}
}

func setUnderlineVariant(flags CellFlags, params *vtparse.Params, i int) CellFlags {
	flags &^= underlineFlags
	if params.HasSubparams(i) {
		sub := params.Sub(i)
		if len(sub) > 1 {
			switch sub[1] {
			case 0:
				return flags
			case 2:
				return flags | CellFlagDoubleUnderline
			case 3:
				return flags | CellFlagCurlyUnderline
			case 4:
				return flags | CellFlagDottedUnderline
			case 5:
				return flags | CellFlagDashedUnderline
			}
		}
	}
	return flags | CellFlagUnderline
}

// parseExtendedColor parses the SGR 38/48/58 extended color forms: "5;n"
// (indexed) or "2;r;g;b" / "2:r:g:b" (truecolor). Returns the color and how
// many additional top-level parameters it consumed (0 if the form used
// sub-parameters).
func parseExtendedColor(params *vtparse.Params, i int) (Color, int) {
	if params.HasSubparams(i) {
		sub := params.Sub(i)
		if len(sub) >= 3 && sub[1] == 5 {
			return IndexedColorValue(int(sub[2])), 0
		}
		if len(sub) >= 5 && sub[1] == 2 {
			return RGBColorValue(uint8(sub[2]), uint8(sub[3]), uint8(sub[4])), 0
		}
		return DefaultColor, 0
	}
	switch params.Get(i+1, 0) {
	case 5:
		return IndexedColorValue(int(params.Get(i+2, 0))), 2
	case 2:
		r := params.Get(i+2, 0)
		g := params.Get(i+3, 0)
		b := params.Get(i+4, 0)
		return RGBColorValue(uint8(r), uint8(g), uint8(b)), 4
	}
	return DefaultColor, 1
}

// --- OSC -----------------------------------------------------------------

func (t *Terminal) oscDispatch(params [][]byte, bellTerminated bool) {
	_ = bellTerminated
	if len(params) == 0 {
		return
	}
	num, err := strconv.Atoi(string(params[0]))
	if err != nil {
		t.logDebug("osc: non-numeric", "value", string(params[0]))
		return
	}
	arg := func(i int) string {
		if i < len(params) {
			return string(params[i])
		}
		return ""
	}
	switch num {
	case 0, 2:
		t.setTitle(arg(1))
	case 4:
		t.colorSetOrQuery(params[1:])
	case 8:
		t.hyperlinkDispatch(arg(2))
	case 10:
		t.fgColorSetOrQuery(arg(1))
	case 11:
		t.bgColorSetOrQuery(arg(1))
	case 12:
		t.cursorColorSetOrQuery(arg(1))
	case 50:
		// cursor-shape-only query/set; accepted and ignored beyond parsing
	case 52:
		t.clipboardDispatch(arg(1), arg(2))
	case 104:
		t.resetPaletteColor(arg(1))
	case 110:
		t.palette.Foreground = NewDefaultPalette().Foreground
	case 111:
		t.palette.Background = NewDefaultPalette().Background
	case 112:
		t.palette.Cursor = NewDefaultPalette().Cursor
	default:
		t.logDebug("osc: unhandled", "number", num)
	}
}

func (t *Terminal) setTitle(title string) {
	t.title = title
	t.titleP.SetTitle(title)
}

func (t *Terminal) colorSetOrQuery(pairs [][]byte) {
	for i := 0; i+1 < len(pairs); i += 2 {
		idx, err := strconv.Atoi(string(pairs[i]))
		if err != nil || idx < 0 || idx > 255 {
			continue
		}
		spec := string(pairs[i+1])
		if spec == "?" {
			fmt.Fprintf(t.response, "\x1b]4;%d;%s\x1b\\", idx, Hex(t.palette.Table[idx]))
			continue
		}
		if c, ok := parseColorSpec(spec); ok {
			t.palette.Table[idx] = t.palette.Resolve(c, true)
		}
	}
}

func (t *Terminal) fgColorSetOrQuery(spec string) {
	if spec == "?" {
		fmt.Fprintf(t.response, "\x1b]10;%s\x1b\\", Hex(t.palette.Foreground))
		return
	}
	if c, ok := parseColorSpec(spec); ok {
		t.palette.Foreground = t.palette.Resolve(c, true)
	}
}

func (t *Terminal) bgColorSetOrQuery(spec string) {
	if spec == "?" {
		fmt.Fprintf(t.response, "\x1b]11;%s\x1b\\", Hex(t.palette.Background))
		return
	}
	if c, ok := parseColorSpec(spec); ok {
		t.palette.Background = t.palette.Resolve(c, false)
	}
}

func (t *Terminal) cursorColorSetOrQuery(spec string) {
	if spec == "?" {
		fmt.Fprintf(t.response, "\x1b]12;%s\x1b\\", Hex(t.palette.Cursor))
		return
	}
	if c, ok := parseColorSpec(spec); ok {
		t.palette.Cursor = t.palette.Resolve(c, true)
	}
}

func (t *Terminal) resetPaletteColor(spec string) {
	def := NewDefaultPalette()
	if spec == "" {
		t.palette.Table = def.Table
		return
	}
	for _, s := range strings.Split(spec, ";") {
		idx, err := strconv.Atoi(s)
		if err == nil && idx >= 0 && idx < 256 {
			t.palette.Table[idx] = def.Table[idx]
		}
	}
}

// parseColorSpec parses an "rgb:rr/gg/bb" or "#rrggbb" color spec, the forms
// xterm accepts for OSC 4/10/11/12 set operations.
func parseColorSpec(spec string) (Color, bool) {
	spec = strings.TrimPrefix(spec, "rgb:")
	spec = strings.TrimPrefix(spec, "#")
	spec = strings.ReplaceAll(spec, "/", "")
	if len(spec) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(spec, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return RGBColorValue(uint8(v>>16), uint8(v>>8), uint8(v)), true
}

// hyperlinkDispatch implements OSC 8: an empty uri closes the currently open
// hyperlink; a non-empty one scopes subsequent printed cells (spec §4.2 "an
// id string scopes subsequent printed cells").
func (t *Terminal) hyperlinkDispatch(uri string) {
	t.openHyperlink = uri
}

func (t *Terminal) clipboardDispatch(selectors, data string) {
	if len(selectors) == 0 {
		selectors = "c"
	}
	sel := selectors[0]
	if data == "?" {
		fmt.Fprintf(t.response, "\x1b]52;%c;%s\x1b\\", sel, t.clipboard.Read(sel))
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		t.logDebug("osc52: invalid base64")
		return
	}
	t.clipboard.Write(sel, decoded)
}

// --- ESC -------------------------------------------------------------

func (t *Terminal) escDispatch(intermediates []byte, ignored bool, final byte) {
	_ = ignored
	if len(intermediates) == 1 {
		switch intermediates[0] {
		case '(', ')', '*', '+':
			t.configureCharset(intermediates[0], final)
			return
		case '#':
			if final == '8' {
				t.screenAlignmentPattern()
			}
			return
		}
	}
	switch final {
	case '7':
		t.saveCursor()
	case '8':
		t.restoreCursor()
	case 'D':
		t.lineFeed()
	case 'E':
		t.lineFeed()
		t.active().cursor.Col = 0
	case 'H':
		t.active().grid.SetTabStop(t.active().cursor.Col)
	case 'M':
		t.reverseIndex()
	case 'Z':
		fmt.Fprint(t.response, "\x1b[?6c")
	case '=':
		t.mode.set(ModeKeypadApplication)
	case '>':
		t.mode.unset(ModeKeypadApplication)
	default:
		t.logDebug("esc: unhandled final", "final", string(final))
	}
}

var charsetSlots = map[byte]CharsetIndex{
	'(': CharsetIndexG0, ')': CharsetIndexG1, '*': CharsetIndexG2, '+': CharsetIndexG3,
}

func (t *Terminal) configureCharset(slot byte, final byte) {
	idx, ok := charsetSlots[slot]
	if !ok {
		return
	}
	cs := CharsetASCII
	if final == '0' {
		cs = CharsetLineDrawing
	}
	t.active().cursor.Charsets[idx] = cs
}

func (t *Terminal) screenAlignmentPattern() {
	s := t.active()
	for row := 0; row < s.grid.Rows(); row++ {
		l := s.grid.LineAt(s.grid.ViewportTop() + row)
		for i := range l.Cells {
			l.Cells[i] = NewCell()
			l.Cells[i].Char = 'E'
		}
	}
	s.grid.MarkFullDamage()
}
