package termcore

import "regexp"

// SearchDirection selects forward "/" or backward "?" search (spec §4.5).
type SearchDirection int

const (
	SearchForward SearchDirection = iota
	SearchBackward
)

// SearchMatch is one match expressed as absolute-line ranges into the grid.
type SearchMatch struct {
	Start Position
	End   Position // exclusive
}

// SearchState holds the active search pattern, its compiled form, and the
// current match set (spec §4.5 "Incremental search updates the current
// match as each character is typed").
type SearchState struct {
	Active    bool
	Direction SearchDirection
	Pattern   string
	CaseFold  bool
	re        *regexp.Regexp
	Matches   []SearchMatch
	Focused   int
}

// Begin starts an incremental search session in the given direction.
func (s *SearchState) Begin(dir SearchDirection) {
	s.Active = true
	s.Direction = dir
	s.Pattern = ""
	s.Matches = nil
	s.Focused = -1
}

// End closes the search session, leaving the last match set intact for
// highlight purposes until a new search begins.
func (s *SearchState) End() { s.Active = false }

// lineStream builds the on-demand reading-order character stream for a
// grid, joining wrapped lines and skipping wide-char spacers, along with a
// parallel index mapping each rune's offset to its absolute Position (spec
// §4.5 "on-demand character stream built from the grid in reading order").
type lineStream struct {
	runes []rune
	pos   []Position
}

func (g *Grid) buildStream() lineStream {
	var s lineStream
	for abs := g.TopLine(); abs < g.written; abs++ {
		l := g.LineAt(abs)
		if l == nil {
			continue
		}
		for col, c := range l.Cells {
			if c.IsWideSpacer() {
				continue
			}
			s.runes = append(s.runes, c.Char)
			s.pos = append(s.pos, Position{Line: abs, Col: col})
			for range c.Combining {
				// one placeholder per mark, mapped to its base cell so the
				// position index stays aligned with runes
				s.runes = append(s.runes, ' ')
				s.pos = append(s.pos, Position{Line: abs, Col: col})
			}
		}
		if !l.Wrapped {
			s.runes = append(s.runes, '\n')
			s.pos = append(s.pos, Position{Line: abs, Col: len(l.Cells)})
		}
	}
	return s
}

// SetPattern recompiles the pattern and rescans the whole retained buffer.
// Returns an error if the pattern is not a valid RE2 expression; Go's
// regexp package (RE2) natively covers spec §4.5's required Unicode
// classes, anchors, and case-insensitive matching via an inline (?i) flag,
// so no additional regex engine is pulled in for this.
func (g *Grid) SetPattern(s *SearchState, pattern string, caseFold bool) error {
	expr := pattern
	if caseFold {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return err
	}
	s.Pattern = pattern
	s.CaseFold = caseFold
	s.re = re
	g.rescan(s)
	return nil
}

func (g *Grid) rescan(s *SearchState) {
	s.Matches = nil
	s.Focused = -1
	if s.re == nil {
		return
	}
	stream := g.buildStream()
	text := string(stream.runes)
	for _, loc := range s.re.FindAllStringIndex(text, -1) {
		start, end := runeOffsetFromByte(text, loc[0]), runeOffsetFromByte(text, loc[1])
		if start >= len(stream.pos) || end > len(stream.pos) {
			continue
		}
		endPos := stream.pos[len(stream.pos)-1]
		if end < len(stream.pos) {
			endPos = stream.pos[end]
		}
		s.Matches = append(s.Matches, SearchMatch{Start: stream.pos[start], End: endPos})
	}
}

func runeOffsetFromByte(s string, byteOff int) int {
	return len([]rune(s[:byteOff]))
}

// Next advances to the next match after the current focus, wrapping at the
// end of history (spec §4.5 "Next/Previous wrap at the ends of history").
func (s *SearchState) Next() (SearchMatch, bool) {
	if len(s.Matches) == 0 {
		return SearchMatch{}, false
	}
	s.Focused = (s.Focused + 1) % len(s.Matches)
	return s.Matches[s.Focused], true
}

// Previous moves to the match before the current focus, wrapping.
func (s *SearchState) Previous() (SearchMatch, bool) {
	if len(s.Matches) == 0 {
		return SearchMatch{}, false
	}
	s.Focused--
	if s.Focused < 0 {
		s.Focused = len(s.Matches) - 1
	}
	return s.Matches[s.Focused], true
}

// TypeChar appends a character to the incremental search pattern (treated
// literally, not as a regex fragment, matching the common "type to search"
// behavior) and rescans.
func (g *Grid) TypeChar(s *SearchState, r rune) error {
	return g.SetPattern(s, s.Pattern+regexp.QuoteMeta(string(r)), s.CaseFold)
}

// Backspace removes the last typed rune from the pattern and rescans.
func (g *Grid) Backspace(s *SearchState) error {
	if s.Pattern == "" {
		return nil
	}
	runes := []rune(s.Pattern)
	runes = runes[:len(runes)-1]
	// TypeChar stores QuoteMeta-escaped text: an odd run of trailing
	// backslashes means the removed rune was escaped, so drop its escape too.
	n := 0
	for i := len(runes) - 1; i >= 0 && runes[i] == '\\'; i-- {
		n++
	}
	if n%2 == 1 {
		runes = runes[:len(runes)-1]
	}
	return g.SetPattern(s, string(runes), s.CaseFold)
}
