package termcore

// NavCursor is the vi-mode navigation cursor: a second cursor, independent
// of the text cursor, constrained to the history+viewport range (spec §4.5
// "a second cursor with its own row/col").
type NavCursor struct {
	Active bool
	Pos    Position
}

var bracketPairs = map[rune]rune{'(': ')', '[': ']', '{': '}'}
var bracketPairsRev = map[rune]rune{')': '(', ']': '[', '}': '{'}

// Enable activates the navigation cursor at pos, typically the current text
// cursor's absolute position.
func (n *NavCursor) Enable(pos Position) {
	n.Active = true
	n.Pos = pos
}

func (n *NavCursor) Disable() { n.Active = false }

func (g *Grid) clampNav(p Position) Position {
	if p.Line < g.TopLine() {
		p.Line = g.TopLine()
	}
	if p.Line >= g.written {
		p.Line = g.written - 1
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if p.Col >= g.cols {
		p.Col = g.cols - 1
	}
	return p
}

// MoveChar moves the navigation cursor by dCols columns and dLines lines,
// clamped to the retained history range.
func (g *Grid) MoveChar(n *NavCursor, dLines, dCols int) {
	n.Pos = g.clampNav(Position{Line: n.Pos.Line + dLines, Col: n.Pos.Col + dCols})
}

// MoveWordForward moves to the start of the next word, skipping separators,
// and wrapping onto following logical lines.
func (g *Grid) MoveWordForward(n *NavCursor) {
	pos := n.Pos
	_, end := g.wordBounds(pos)
	if end.Col >= pos.Col {
		pos.Col = end.Col
	}
	for {
		l := g.LineAt(pos.Line)
		if l == nil {
			break
		}
		for pos.Col < len(l.Cells) && isSeparatorCell(l.Cells[pos.Col]) {
			pos.Col++
		}
		if pos.Col < len(l.Cells) {
			break
		}
		if pos.Line+1 >= g.written {
			break
		}
		pos = Position{Line: pos.Line + 1, Col: 0}
	}
	n.Pos = g.clampNav(pos)
}

// MoveWordBackward moves to the start of the previous word.
func (g *Grid) MoveWordBackward(n *NavCursor) {
	pos := n.Pos
	for {
		if pos.Col == 0 {
			if pos.Line <= g.TopLine() {
				break
			}
			pos.Line--
			l := g.LineAt(pos.Line)
			if l == nil {
				break
			}
			pos.Col = len(l.Cells)
			continue
		}
		pos.Col--
		l := g.LineAt(pos.Line)
		if l != nil && pos.Col < len(l.Cells) && !isSeparatorCell(l.Cells[pos.Col]) {
			start, _ := g.wordBounds(pos)
			n.Pos = g.clampNav(start)
			return
		}
	}
	n.Pos = g.clampNav(pos)
}

func isSeparatorCell(c Cell) bool {
	for _, r := range Separators {
		if c.Char == r {
			return true
		}
	}
	return false
}

// MoveLineStart and MoveLineEnd move within the logical line (across
// wrapped-line boundaries).
func (g *Grid) MoveLineStart(n *NavCursor) {
	rng := g.logicalLineRange(n.Pos.Line)
	n.Pos = Position{Line: rng[0], Col: 0}
}

func (g *Grid) MoveLineEnd(n *NavCursor) {
	rng := g.logicalLineRange(n.Pos.Line)
	l := g.LineAt(rng[1])
	col := 0
	if l != nil {
		col = len(l.Cells) - 1
		for col > 0 && l.Cells[col].Char == ' ' {
			col--
		}
	}
	n.Pos = Position{Line: rng[1], Col: col}
}

// MoveParagraph moves forward (dir=1) or backward (dir=-1) to the next
// blank logical line, the paragraph motion's usual definition.
func (g *Grid) MoveParagraph(n *NavCursor, dir int) {
	abs := n.Pos.Line
	for {
		abs += dir
		if abs < g.TopLine() || abs >= g.written {
			abs = clampInt(abs, g.TopLine(), g.written-1)
			break
		}
		if isBlankLine(g.LineAt(abs)) {
			break
		}
	}
	n.Pos = g.clampNav(Position{Line: abs, Col: 0})
}

func isBlankLine(l *Line) bool {
	if l == nil {
		return true
	}
	for _, c := range l.Cells {
		if c.Char != ' ' {
			return false
		}
	}
	return true
}

// MoveScreen moves to the top, middle, or bottom of the current viewport.
func (g *Grid) MoveScreen(n *NavCursor, where int) {
	top := g.ViewportTop()
	var row int
	switch {
	case where < 0:
		row = 0
	case where == 0:
		row = g.visibleLines / 2
	default:
		row = g.visibleLines - 1
	}
	n.Pos = g.clampNav(Position{Line: top + row, Col: n.Pos.Col})
}

// MoveMatchingBracket jumps to the bracket matching the one under the
// cursor, scanning forward or backward across lines as needed.
func (g *Grid) MoveMatchingBracket(n *NavCursor) {
	l := g.LineAt(n.Pos.Line)
	if l == nil || n.Pos.Col >= len(l.Cells) {
		return
	}
	ch := l.Cells[n.Pos.Col].Char
	if close, ok := bracketPairs[ch]; ok {
		if p, found := g.scanBracket(n.Pos, close, ch, 1); found {
			n.Pos = p
		}
		return
	}
	if open, ok := bracketPairsRev[ch]; ok {
		if p, found := g.scanBracket(n.Pos, open, ch, -1); found {
			n.Pos = p
		}
	}
}

func (g *Grid) scanBracket(from Position, target, opposite rune, dir int) (Position, bool) {
	depth := 0
	pos := from
	for {
		l := g.LineAt(pos.Line)
		if l != nil && pos.Col >= 0 && pos.Col < len(l.Cells) {
			c := l.Cells[pos.Col].Char
			switch {
			case c == opposite:
				depth++
			case c == target:
				depth--
				if depth == 0 {
					return pos, true
				}
			}
		}
		pos.Col += dir
		if pos.Col < 0 {
			pos.Line--
			if pos.Line < g.TopLine() {
				return Position{}, false
			}
			if l2 := g.LineAt(pos.Line); l2 != nil {
				pos.Col = len(l2.Cells) - 1
			}
		} else if l != nil && pos.Col >= len(l.Cells) {
			pos.Line++
			pos.Col = 0
			if pos.Line >= g.written {
				return Position{}, false
			}
		}
	}
}
