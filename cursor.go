package termcore

// CursorStyle determines how the cursor is rendered. Values map directly to
// the six shapes addressable via CSI q (DECSCUSR).
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Charset selects the character-set translation applied to printed bytes.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CharsetIndex selects one of the four designatable slots, G0-G3.
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)

// attrs is the set of graphics attributes applied to newly printed
// characters; SGR mutates it, and it is copied into each new Cell.
type attrs struct {
	fg        Color
	bg        Color
	underline Color
	flags     CellFlags
	hyperlink uint32
}

func newAttrs() attrs { return attrs{fg: DefaultColor, bg: DefaultColor, underline: DefaultColor} }

func (a attrs) cell(r rune) Cell {
	return Cell{
		Char:        r,
		Fg:          a.fg,
		Bg:          a.bg,
		Underline:   a.underline,
		Flags:       a.flags,
		HyperlinkID: a.hyperlink,
	}
}

// Cursor is the primary text cursor: position, pending-wrap flag, current
// graphics attributes, and the active charset slot (spec §3).
type Cursor struct {
	Row         int
	Col         int
	PendingWrap bool
	Style       CursorStyle
	Visible     bool
	Attrs       attrs
	Charsets    [4]Charset
	ActiveSlot  CharsetIndex
}

// NewCursor returns a cursor at the origin with default attributes, visible,
// blinking-block style.
func NewCursor() *Cursor {
	return &Cursor{Style: CursorStyleBlinkingBlock, Visible: true, Attrs: newAttrs()}
}

// translate applies the active charset's mapping to a printed rune (only
// DEC Special Graphics differs from ASCII in the core's supported set).
func (c *Cursor) translate(r rune) rune {
	if c.Charsets[c.ActiveSlot] != CharsetLineDrawing {
		return r
	}
	if mapped, ok := decSpecialGraphics[r]; ok {
		return mapped
	}
	return r
}

// decSpecialGraphics maps ASCII 0x60-0x7e to the DEC Special Graphics glyph
// set (line drawing) used by full-screen TUIs for box borders.
var decSpecialGraphics = map[rune]rune{
	'`': '◆', 'a': '▒', 'b': '␉', 'c': '␌', 'd': '␍', 'e': '␊',
	'f': '°', 'g': '±', 'h': '␤', 'i': '␋', 'j': '┘', 'k': '┐',
	'l': '┌', 'm': '└', 'n': '┼', 'o': '⎺', 'p': '⎻', 'q': '─',
	'r': '⎼', 's': '⎽', 't': '├', 'u': '┤', 'v': '┴', 'w': '┬',
	'x': '│', 'y': '≤', 'z': '≥', '{': 'π', '|': '≠', '}': '£', '~': '·',
}

// SavedCursor captures the state restored by DECRC or when switching
// screens: position, attributes, charset state, and origin mode.
type SavedCursor struct {
	Row        int
	Col        int
	Attrs      attrs
	Charsets   [4]Charset
	ActiveSlot CharsetIndex
	OriginMode bool
}

func (c *Cursor) save(originMode bool) SavedCursor {
	return SavedCursor{
		Row: c.Row, Col: c.Col, Attrs: c.Attrs,
		Charsets: c.Charsets, ActiveSlot: c.ActiveSlot, OriginMode: originMode,
	}
}

func (c *Cursor) restore(s SavedCursor) {
	c.Row, c.Col, c.Attrs = s.Row, s.Col, s.Attrs
	c.Charsets, c.ActiveSlot = s.Charsets, s.ActiveSlot
	c.PendingWrap = false
}
