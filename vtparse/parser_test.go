package vtparse

import "testing"

// recordingHandler captures every event the parser dispatches, so tests can
// assert on the exact sequence without standing up a full Terminal.
type recordingHandler struct {
	prints  []rune
	widths  []int
	execs   []byte
	csis    []csiCall
	escs    []escCall
	oscs    [][]string
	debugs  []string
	dcsOpen bool
	dcsBuf  []byte
}

type csiCall struct {
	params       []uint16
	intermediate []byte
	ignored      bool
	final        byte
}

type escCall struct {
	intermediate []byte
	ignored      bool
	final        byte
}

func (h *recordingHandler) Print(r rune, width int) {
	h.prints = append(h.prints, r)
	h.widths = append(h.widths, width)
}

func (h *recordingHandler) Execute(b byte) { h.execs = append(h.execs, b) }

func (h *recordingHandler) CsiDispatch(params *Params, intermediates []byte, ignored bool, final byte) {
	vals := make([]uint16, params.Len())
	for i := range vals {
		vals[i] = params.Get(i, 0)
	}
	h.csis = append(h.csis, csiCall{
		params:       vals,
		intermediate: append([]byte(nil), intermediates...),
		ignored:      ignored,
		final:        final,
	})
}

func (h *recordingHandler) EscDispatch(intermediates []byte, ignored bool, final byte) {
	h.escs = append(h.escs, escCall{
		intermediate: append([]byte(nil), intermediates...),
		ignored:      ignored,
		final:        final,
	})
}

func (h *recordingHandler) OscDispatch(params [][]byte, bellTerminated bool) {
	strs := make([]string, len(params))
	for i, p := range params {
		strs[i] = string(p)
	}
	h.oscs = append(h.oscs, strs)
}

func (h *recordingHandler) DcsHook(params *Params, intermediates []byte, ignored bool, final byte) {
	h.dcsOpen = true
}
func (h *recordingHandler) DcsPut(b byte) { h.dcsBuf = append(h.dcsBuf, b) }
func (h *recordingHandler) DcsUnhook()    { h.dcsOpen = false }

func (h *recordingHandler) Debug(reason string) { h.debugs = append(h.debugs, reason) }

func wideOnCJK(r rune) int {
	if r == '中' {
		return 2
	}
	return 1
}

func TestParserPrintsAsciiWithWidthOne(t *testing.T) {
	h := &recordingHandler{}
	p := New(nil)
	p.Parse([]byte("hi"), h)

	if string(h.prints) != "hi" {
		t.Fatalf("prints = %q, want %q", string(h.prints), "hi")
	}
	for _, w := range h.widths {
		if w != 1 {
			t.Errorf("width = %d, want 1", w)
		}
	}
}

func TestParserUsesWidthFuncForWideRunes(t *testing.T) {
	h := &recordingHandler{}
	p := New(wideOnCJK)
	p.Parse([]byte("中"), h)

	if len(h.prints) != 1 || h.prints[0] != '中' {
		t.Fatalf("prints = %v, want [中]", h.prints)
	}
	if h.widths[0] != 2 {
		t.Errorf("width = %d, want 2", h.widths[0])
	}
}

func TestParserExecutesC0Controls(t *testing.T) {
	h := &recordingHandler{}
	p := New(nil)
	p.Parse([]byte("a\nb\r"), h)

	if string(h.prints) != "ab" {
		t.Fatalf("prints = %q, want %q", string(h.prints), "ab")
	}
	if len(h.execs) != 2 || h.execs[0] != '\n' || h.execs[1] != '\r' {
		t.Fatalf("execs = %v, want [\\n \\r]", h.execs)
	}
}

func TestParserDispatchesCsiWithParams(t *testing.T) {
	h := &recordingHandler{}
	p := New(nil)
	p.Parse([]byte("\x1b[12;34H"), h)

	if len(h.csis) != 1 {
		t.Fatalf("csis = %v, want 1 call", h.csis)
	}
	call := h.csis[0]
	if call.final != 'H' {
		t.Errorf("final = %q, want H", call.final)
	}
	if len(call.params) != 2 || call.params[0] != 12 || call.params[1] != 34 {
		t.Errorf("params = %v, want [12 34]", call.params)
	}
}

func TestParserDispatchesCsiWithDefaultParam(t *testing.T) {
	h := &recordingHandler{}
	p := New(nil)
	p.Parse([]byte("\x1b[H"), h)

	if len(h.csis) != 1 || len(h.csis[0].params) != 0 {
		t.Fatalf("csis = %v, want one call with no explicit params", h.csis)
	}
}

func TestParserDispatchesCsiWithIntermediate(t *testing.T) {
	h := &recordingHandler{}
	p := New(nil)
	p.Parse([]byte("\x1b[?25h"), h)

	if len(h.csis) != 1 {
		t.Fatalf("csis = %v, want 1 call", h.csis)
	}
	call := h.csis[0]
	if len(call.intermediate) != 1 || call.intermediate[0] != '?' {
		t.Errorf("intermediate = %v, want [?]", call.intermediate)
	}
	if call.final != 'h' || len(call.params) != 1 || call.params[0] != 25 {
		t.Errorf("unexpected call: %+v", call)
	}
}

func TestParserDispatchesEscSequence(t *testing.T) {
	h := &recordingHandler{}
	p := New(nil)
	p.Parse([]byte("\x1b7"), h)

	if len(h.escs) != 1 || h.escs[0].final != '7' {
		t.Fatalf("escs = %v, want one call ending in 7", h.escs)
	}
}

func TestParserDispatchesOscBellTerminated(t *testing.T) {
	h := &recordingHandler{}
	p := New(nil)
	p.Parse([]byte("\x1b]0;my title\x07"), h)

	if len(h.oscs) != 1 {
		t.Fatalf("oscs = %v, want 1 call", h.oscs)
	}
	if len(h.oscs[0]) != 2 || h.oscs[0][0] != "0" || h.oscs[0][1] != "my title" {
		t.Errorf("osc params = %v, want [0 \"my title\"]", h.oscs[0])
	}
}

func TestParserDispatchesOscStringTerminated(t *testing.T) {
	h := &recordingHandler{}
	p := New(nil)
	p.Parse([]byte("\x1b]8;;https://example.com\x1b\\"), h)

	if len(h.oscs) != 1 {
		t.Fatalf("oscs = %v, want 1 call", h.oscs)
	}
	if len(h.oscs[0]) != 3 || h.oscs[0][0] != "8" || h.oscs[0][2] != "https://example.com" {
		t.Errorf("osc params = %v", h.oscs[0])
	}
}

func TestParserDcsHookPutUnhook(t *testing.T) {
	h := &recordingHandler{}
	p := New(nil)
	p.Parse([]byte("\x1bP1$rabc\x1b\\"), h)

	if h.dcsOpen {
		t.Error("expected DcsUnhook to have closed the string")
	}
	if string(h.dcsBuf) != "abc" {
		t.Errorf("dcsBuf = %q, want %q", string(h.dcsBuf), "abc")
	}
}

func TestParserIgnoresParamsPastCapacity(t *testing.T) {
	h := &recordingHandler{}
	p := New(nil)

	seq := "\x1b["
	for i := 0; i < maxParams+4; i++ {
		seq += "1;"
	}
	seq += "m"
	p.Parse([]byte(seq), h)

	// Once parameter count exceeds maxParams the parser drops into its Ignore
	// state for the remainder of the sequence, so the overflowed CSI never
	// reaches CsiDispatch at all; it only surfaces as a Debug annotation.
	if len(h.csis) != 0 {
		t.Fatalf("csis = %v, want no dispatch for an overflowed sequence", h.csis)
	}
	found := false
	for _, d := range h.debugs {
		if d == "csi: parameter overflow" {
			found = true
		}
	}
	if !found {
		t.Errorf("debugs = %v, want a parameter overflow annotation", h.debugs)
	}
}

func TestParserRecoversAfterIgnoredSequence(t *testing.T) {
	h := &recordingHandler{}
	p := New(nil)

	seq := "\x1b["
	for i := 0; i < maxParams+4; i++ {
		seq += "1;"
	}
	seq += "mOK"
	p.Parse([]byte(seq), h)

	if string(h.prints) != "OK" {
		t.Errorf("prints = %q, want %q (parser should resync to Ground)", string(h.prints), "OK")
	}
}
