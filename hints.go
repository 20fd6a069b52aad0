package termcore

import (
	"regexp"
	"sort"
	"strings"
)

// HintAction names what activating a hint does; the actual side effect is
// carried out by a provider the caller owns (spec §4.6 "Each hint carries
// an action: copy, paste, open via external URL launcher, or move the
// navigation cursor").
type HintAction int

const (
	HintActionCopy HintAction = iota
	HintActionPaste
	HintActionOpen
	HintActionMoveCursor
)

// HintSpec is a regex plus post-processing rules for one class of hint
// (URLs, file paths, IP addresses, ...).
type HintSpec struct {
	Name    string
	Pattern *regexp.Regexp
	Action  HintAction
	// TrimTrailingPunct strips common trailing punctuation a URL regex
	// tends to over-match ("check http://x.com." catches the period).
	TrimTrailingPunct bool
	// RequireScheme additionally filters matches lacking "://" when true,
	// used for specs broad enough to otherwise match bare hostnames.
	RequireScheme bool
}

// Hint is one located, post-processed match ready for activation.
type Hint struct {
	Spec  *HintSpec
	Start Position
	End   Position // exclusive
	Text  string
}

// HintEngine scans visible lines for configured hint patterns plus
// synthetic hints over OSC 8 hyperlink runs.
type HintEngine struct {
	specs []HintSpec
}

// NewHintEngine returns an engine scanning for the given specs, in order;
// on overlap, spec order only matters for which Hint.Spec survives
// deduplication (longest wins, left-most wins on ties, per spec §4.6).
func NewHintEngine(specs []HintSpec) *HintEngine {
	return &HintEngine{specs: specs}
}

var urlPattern = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9+.-]*://[^\s<>"']+`)
var pathPattern = regexp.MustCompile(`(?:~|\.{1,2})?/[\w./-]+`)
var ipPattern = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

// DefaultHintSpecs returns the built-in hint set: URLs, filesystem paths,
// and IPv4 addresses. URLs open via the URL launcher on activation; paths
// and addresses are copied.
func DefaultHintSpecs() []HintSpec {
	return []HintSpec{
		{Name: "url", Pattern: urlPattern, Action: HintActionOpen, TrimTrailingPunct: true, RequireScheme: true},
		{Name: "path", Pattern: pathPattern, Action: HintActionCopy},
		{Name: "ipv4", Pattern: ipPattern, Action: HintActionCopy},
	}
}

// Scan finds hints across the grid's current viewport, adding synthetic
// hyperlink hints for OSC 8 runs, and returns them deduplicated in reading
// order.
func (e *HintEngine) Scan(g *Grid) []Hint {
	var hints []Hint
	hl := g.hyperlinks

	for row := 0; row < g.visibleLines; row++ {
		abs := g.ViewportTop() + row
		l := g.LineAt(abs)
		if l == nil {
			continue
		}
		// colAt maps each byte of line to the cell column it came from.
		var b strings.Builder
		colAt := make([]int, 0, len(l.Cells)+1)
		for col, c := range l.Cells {
			if c.IsWideSpacer() {
				continue
			}
			for _, r := range append([]rune{c.Char}, c.Combining...) {
				n, _ := b.WriteRune(r)
				for k := 0; k < n; k++ {
					colAt = append(colAt, col)
				}
			}
		}
		colAt = append(colAt, len(l.Cells))
		line := b.String()
		for i := range e.specs {
			spec := &e.specs[i]
			for _, loc := range spec.Pattern.FindAllStringIndex(line, -1) {
				text := line[loc[0]:loc[1]]
				if spec.RequireScheme && !strings.Contains(text, "://") {
					continue
				}
				end := loc[1]
				if spec.TrimTrailingPunct {
					for end > loc[0] && strings.ContainsRune(".,;:!?)]}", rune(line[end-1])) {
						end--
					}
				}
				text = line[loc[0]:end]
				hints = append(hints, Hint{
					Spec:  spec,
					Start: Position{Line: abs, Col: colAt[loc[0]]},
					End:   Position{Line: abs, Col: colAt[end]},
					Text:  text,
				})
			}
		}
		hints = append(hints, hyperlinkHints(l, abs, hl)...)
	}
	return dedupHints(hints)
}

func hyperlinkHints(l *Line, abs int, hl *hyperlinkTable) []Hint {
	if hl == nil {
		return nil
	}
	var out []Hint
	col := 0
	for col < len(l.Cells) {
		id := l.Cells[col].HyperlinkID
		if id == 0 {
			col++
			continue
		}
		start := col
		for col < len(l.Cells) && l.Cells[col].HyperlinkID == id {
			col++
		}
		uri, ok := hl.uri(id)
		if !ok {
			continue
		}
		out = append(out, Hint{
			Spec:  &HintSpec{Name: "hyperlink", Action: HintActionOpen},
			Start: Position{Line: abs, Col: start},
			End:   Position{Line: abs, Col: col},
			Text:  uri,
		})
	}
	return out
}

// dedupHints keeps, among overlapping hints, the longest; ties go to the
// left-most (spec §4.6 "deduplicate overlapping matches (longest wins,
// left-most wins on ties)").
func dedupHints(hints []Hint) []Hint {
	sort.SliceStable(hints, func(i, j int) bool {
		li := hints[i].End.Col - hints[i].Start.Col
		lj := hints[j].End.Col - hints[j].Start.Col
		if li != lj {
			return li > lj
		}
		if hints[i].Start.Line != hints[j].Start.Line {
			return hints[i].Start.Line < hints[j].Start.Line
		}
		return hints[i].Start.Col < hints[j].Start.Col
	})
	var out []Hint
	for _, h := range hints {
		overlaps := false
		for _, kept := range out {
			if hintsOverlap(kept, h) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func hintsOverlap(a, b Hint) bool {
	if a.Start.Line != b.Start.Line {
		return false
	}
	return a.Start.Col < b.End.Col && b.Start.Col < a.End.Col
}
