package termcore

// TerminalMode is a bitmask of the ANSI and DEC private modes named in spec
// §6 as "recognised modes". DEC private modes are distinguished from the two
// ANSI modes only by the constant's identity, not by bit layout; setModes
// takes the mode's private-ness as a separate bool.
type TerminalMode uint64

const (
	// ANSI modes.
	ModeInsert TerminalMode = 1 << iota // IRM, ANSI 4
	ModeNewline                         // LNM, ANSI 20

	// DEC private modes.
	ModeApplicationCursor // DECCKM, 1
	ModeColumn132         // DECCOLM, 3 (treated as clear-screen)
	ModeOrigin            // DECOM, 6
	ModeAutoWrap          // DECAWM, 7
	ModeCursorBlink       // 12
	ModeCursorVisible     // DECTCEM, 25
	ModeMouseX10          // 1000
	ModeMouseButton       // 1002
	ModeMouseAny          // 1003
	ModeFocusReporting    // 1004
	ModeMouseUTF8         // 1005
	ModeMouseSGR          // 1006
	ModeMouseURXVT        // 1015
	ModeAlternateScroll   // 1007
	ModeUrgencyBell       // 1042
	ModeAlternateScreen   // 1049 (alt screen + save cursor)
	ModeBracketedPaste    // 2004
	ModeSyncUpdate        // 2026

	// ModeKeypadApplication tracks DECKPAM/DECKPNM (ESC = / ESC >), which
	// selects application vs. numeric keypad encoding. It has no CSI ?h/l
	// number of its own — ESC = and ESC > set and clear it directly — and is
	// distinct from ModeApplicationCursor (DECCKM, CSI ?1h/l), which governs
	// cursor-key encoding instead.
	ModeKeypadApplication
)

// privateModes maps the DEC private mode number (as it appears after `?` in
// CSI h/l) to its TerminalMode bit.
var privateModes = map[int]TerminalMode{
	1:    ModeApplicationCursor,
	3:    ModeColumn132,
	6:    ModeOrigin,
	7:    ModeAutoWrap,
	12:   ModeCursorBlink,
	25:   ModeCursorVisible,
	1000: ModeMouseX10,
	1002: ModeMouseButton,
	1003: ModeMouseAny,
	1004: ModeFocusReporting,
	1005: ModeMouseUTF8,
	1006: ModeMouseSGR,
	1015: ModeMouseURXVT,
	1007: ModeAlternateScroll,
	1042: ModeUrgencyBell,
	1049: ModeAlternateScreen,
	2004: ModeBracketedPaste,
	2026: ModeSyncUpdate,
}

// ansiModes maps the ANSI mode number (CSI h/l without `?`) to its bit.
var ansiModes = map[int]TerminalMode{
	4:  ModeInsert,
	20: ModeNewline,
}

func (m *TerminalMode) has(bit TerminalMode) bool { return *m&bit != 0 }
func (m *TerminalMode) set(bit TerminalMode)      { *m |= bit }
func (m *TerminalMode) unset(bit TerminalMode)    { *m &^= bit }
