package vtparse

import "unicode/utf8"

// state names follow the canonical VT500 parser table referenced by spec
// §4.1.
type state int

const (
	stateGround state = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateCsiIgnore
	stateDcsEntry
	stateDcsParam
	stateDcsIntermediate
	stateDcsPassthrough
	stateDcsIgnore
	stateOscString
	stateSosPmApcString
	stateUtf8Continuation
)

const (
	maxIntermediates = 2
	maxOscLen        = 1 << 20 // covers both the >=2KiB general floor and the >=1MiB OSC 52 floor
)

// Parser is a byte-at-a-time VT/ANSI state machine. It holds no references
// to the Handler between calls and performs no heap allocation once its
// internal buffers have grown to steady state, apart from the slice of
// parameters that each OSC dispatch builds.
type Parser struct {
	st            state
	intermediates [maxIntermediates]byte
	numIntermed   int
	ignoredExtra  bool // an intermediate or parameter arrived past capacity

	params Params

	oscBuf        []byte
	oscTrunc      bool
	pendingOscEsc bool

	// UTF-8 decode state, used only while st == stateUtf8Continuation.
	utf8Buf  [utf8.UTFMax]byte
	utf8Len  int
	utf8Want int

	width WidthFunc
}

// New returns a Parser in the Ground state. width resolves display width for
// Print events; if nil, every printable rune is reported with width 1.
func New(width WidthFunc) *Parser {
	if width == nil {
		width = func(rune) int { return 1 }
	}
	p := &Parser{width: width}
	p.oscBuf = make([]byte, 0, 256)
	return p
}

// Parse feeds an entire byte slice through the parser, calling into h for
// every recognised event. It is equivalent to calling Advance for each byte.
func (p *Parser) Parse(data []byte, h Handler) {
	for _, b := range data {
		p.Advance(b, h)
	}
}

// Advance processes a single byte. CAN (0x18) and SUB (0x1A) abort any
// in-flight sequence and return to Ground; a fresh ESC (0x1B) always starts
// a new escape sequence regardless of current state, per spec §4.1.
func (p *Parser) Advance(b byte, h Handler) {
	if p.st == stateUtf8Continuation {
		p.advanceUtf8(b, h)
		return
	}

	// C0 controls are dispatched immediately outside of string states,
	// where they terminate or are consumed per type (spec §4.1).
	if b < 0x20 && p.st != stateOscString && p.st != stateSosPmApcString && p.st != stateDcsPassthrough {
		p.handleC0(b, h)
		return
	}

	switch p.st {
	case stateGround:
		p.ground(b, h)
	case stateEscape:
		p.escape(b, h)
	case stateEscapeIntermediate:
		p.escapeIntermediate(b, h)
	case stateCsiEntry:
		p.csiEntry(b, h)
	case stateCsiParam:
		p.csiParam(b, h)
	case stateCsiIntermediate:
		p.csiIntermediate(b, h)
	case stateCsiIgnore:
		p.csiIgnore(b, h)
	case stateDcsEntry:
		p.dcsEntry(b, h)
	case stateDcsParam:
		p.dcsParam(b, h)
	case stateDcsIntermediate:
		p.dcsIntermediate(b, h)
	case stateDcsPassthrough:
		p.dcsPassthrough(b, h)
	case stateDcsIgnore:
		p.dcsIgnore(b, h)
	case stateOscString:
		p.oscString(b, h)
	case stateSosPmApcString:
		p.sosPmApcString(b, h)
	}
}

func (p *Parser) reset() {
	p.st = stateGround
	p.numIntermed = 0
	p.ignoredExtra = false
	p.params.reset()
	p.oscBuf = p.oscBuf[:0]
	p.oscTrunc = false
	p.pendingOscEsc = false
}

func (p *Parser) handleC0(b byte, h Handler) {
	switch b {
	case 0x18, 0x1A: // CAN, SUB
		p.reset()
	case 0x1B: // ESC
		p.reset()
		p.st = stateEscape
	default:
		switch p.st {
		case stateCsiEntry, stateCsiParam, stateCsiIntermediate, stateCsiIgnore,
			stateDcsEntry, stateDcsParam, stateDcsIntermediate, stateDcsIgnore:
			// execute immediately, stay in the sequence per VT500 table
			h.Execute(b)
		default:
			h.Execute(b)
		}
	}
}

func (p *Parser) ground(b byte, h Handler) {
	switch {
	case b == 0x1B:
		p.reset()
		p.st = stateEscape
	case b < 0x80:
		h.Print(rune(b), p.width(rune(b)))
	default:
		p.beginUtf8(b, h)
	}
}

func (p *Parser) beginUtf8(b byte, h Handler) {
	n := utf8SeqLen(b)
	if n <= 1 {
		h.Print(utf8.RuneError, p.width(utf8.RuneError))
		return
	}
	p.utf8Buf[0] = b
	p.utf8Len = 1
	p.utf8Want = n
	p.st = stateUtf8Continuation
}

func utf8SeqLen(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

func (p *Parser) advanceUtf8(b byte, h Handler) {
	if b&0xC0 != 0x80 {
		// invalid continuation byte: emit replacement, reprocess b fresh
		h.Print(utf8.RuneError, p.width(utf8.RuneError))
		p.st = stateGround
		p.Advance(b, h)
		return
	}
	p.utf8Buf[p.utf8Len] = b
	p.utf8Len++
	if p.utf8Len < p.utf8Want {
		return
	}
	r, size := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
	if r == utf8.RuneError && size <= 1 {
		r = utf8.RuneError
	}
	p.st = stateGround
	h.Print(r, p.width(r))
}

func (p *Parser) escape(b byte, h Handler) {
	switch {
	case b == 0x5B: // [
		p.reset()
		p.st = stateCsiEntry
	case b == 0x5D: // ]
		p.reset()
		p.st = stateOscString
	case b == 0x50: // P
		p.reset()
		p.st = stateDcsEntry
	case b == 0x58 || b == 0x5E || b == 0x5F: // X, ^, _
		p.reset()
		p.st = stateSosPmApcString
	case b >= 0x20 && b <= 0x2F:
		p.addIntermediate(b)
		p.st = stateEscapeIntermediate
	case b >= 0x30 && b <= 0x7E:
		h.EscDispatch(p.intermediates[:p.numIntermed], p.ignoredExtra, b)
		p.reset()
	default:
		p.reset()
	}
}

func (p *Parser) escapeIntermediate(b byte, h Handler) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		p.addIntermediate(b)
	case b >= 0x30 && b <= 0x7E:
		h.EscDispatch(p.intermediates[:p.numIntermed], p.ignoredExtra, b)
		p.reset()
	default:
		p.reset()
	}
}

func (p *Parser) addIntermediate(b byte) {
	if p.numIntermed >= maxIntermediates {
		p.ignoredExtra = true
		return
	}
	p.intermediates[p.numIntermed] = b
	p.numIntermed++
}

func (p *Parser) csiEntry(b byte, h Handler) {
	switch {
	case b == '?' || b == '>' || b == '<' || b == '=':
		p.addIntermediate(b)
		p.st = stateCsiParam
	case b >= '0' && b <= '9':
		p.params.currentDigit(uint16(b - '0'))
		p.st = stateCsiParam
	case b == ';':
		p.params.startParam()
		p.st = stateCsiParam
	case b == ':':
		p.params.nextSubparam()
		p.st = stateCsiParam
	case b >= 0x20 && b <= 0x2F:
		p.addIntermediate(b)
		p.st = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7E:
		h.CsiDispatch(&p.params, p.intermediates[:p.numIntermed], p.ignoredExtra, b)
		p.reset()
	default:
		p.st = stateCsiIgnore
	}
}

func (p *Parser) csiParam(b byte, h Handler) {
	switch {
	case b >= '0' && b <= '9':
		p.params.currentDigit(uint16(b - '0'))
	case b == ';':
		if !p.params.startParam() {
			debug(h, "csi: parameter overflow")
			p.st = stateCsiIgnore
		}
	case b == ':':
		p.params.nextSubparam()
	case b >= 0x20 && b <= 0x2F:
		p.addIntermediate(b)
		p.st = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7E:
		h.CsiDispatch(&p.params, p.intermediates[:p.numIntermed], p.ignoredExtra, b)
		p.reset()
	default:
		p.st = stateCsiIgnore
	}
}

func (p *Parser) csiIntermediate(b byte, h Handler) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		p.addIntermediate(b)
	case b >= 0x40 && b <= 0x7E:
		h.CsiDispatch(&p.params, p.intermediates[:p.numIntermed], true, b)
		p.reset()
	default:
		p.st = stateCsiIgnore
	}
}

func (p *Parser) csiIgnore(b byte, h Handler) {
	if b >= 0x40 && b <= 0x7E {
		p.reset()
	}
}

func (p *Parser) dcsEntry(b byte, h Handler) {
	switch {
	case b == '?' || b == '>' || b == '<' || b == '=':
		p.addIntermediate(b)
		p.st = stateDcsParam
	case b >= '0' && b <= '9':
		p.params.currentDigit(uint16(b - '0'))
		p.st = stateDcsParam
	case b == ';':
		p.params.startParam()
		p.st = stateDcsParam
	case b >= 0x20 && b <= 0x2F:
		p.addIntermediate(b)
		p.st = stateDcsIntermediate
	case b >= 0x40 && b <= 0x7E:
		h.DcsHook(&p.params, p.intermediates[:p.numIntermed], p.ignoredExtra, b)
		p.st = stateDcsPassthrough
	default:
		p.st = stateDcsIgnore
	}
}

func (p *Parser) dcsParam(b byte, h Handler) {
	switch {
	case b >= '0' && b <= '9':
		p.params.currentDigit(uint16(b - '0'))
	case b == ';':
		if !p.params.startParam() {
			p.st = stateDcsIgnore
		}
	case b >= 0x20 && b <= 0x2F:
		p.addIntermediate(b)
		p.st = stateDcsIntermediate
	case b >= 0x40 && b <= 0x7E:
		h.DcsHook(&p.params, p.intermediates[:p.numIntermed], p.ignoredExtra, b)
		p.st = stateDcsPassthrough
	default:
		p.st = stateDcsIgnore
	}
}

func (p *Parser) dcsIntermediate(b byte, h Handler) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		p.addIntermediate(b)
	case b >= 0x40 && b <= 0x7E:
		h.DcsHook(&p.params, p.intermediates[:p.numIntermed], true, b)
		p.st = stateDcsPassthrough
	default:
		p.st = stateDcsIgnore
	}
}

func (p *Parser) dcsPassthrough(b byte, h Handler) {
	switch b {
	case 0x1B:
		h.DcsUnhook()
		p.reset()
		p.st = stateEscape
	case 0x18, 0x1A:
		h.DcsUnhook()
		p.reset()
	default:
		h.DcsPut(b)
	}
}

func (p *Parser) dcsIgnore(b byte, h Handler) {
	if b == 0x1B {
		p.reset()
		p.st = stateEscape
	}
}

func (p *Parser) oscString(b byte, h Handler) {
	switch b {
	case 0x07: // BEL terminator
		p.dispatchOsc(h, true)
		p.reset()
	case 0x1B:
		p.pendingOscEsc = true
	default:
		if p.pendingOscEsc {
			p.pendingOscEsc = false
			if b == '\\' {
				p.dispatchOsc(h, false)
				p.reset()
				return
			}
			// not a valid ST; treat the ESC as starting a new sequence
			p.dispatchOsc(h, false)
			p.reset()
			p.st = stateEscape
			p.Advance(b, h)
			return
		}
		p.appendOsc(b)
	}
}

func (p *Parser) appendOsc(b byte) {
	if len(p.oscBuf) >= maxOscLen {
		p.oscTrunc = true
		return
	}
	p.oscBuf = append(p.oscBuf, b)
}

func (p *Parser) dispatchOsc(h Handler, bell bool) {
	if p.oscTrunc {
		debug(h, "osc: payload truncated")
	}
	if len(p.oscBuf) == 0 {
		h.OscDispatch(nil, bell)
		return
	}
	parts := splitOsc(p.oscBuf)
	h.OscDispatch(parts, bell)
}

func splitOsc(buf []byte) [][]byte {
	var parts [][]byte
	start := 0
	for i, b := range buf {
		if b == ';' {
			parts = append(parts, buf[start:i])
			start = i + 1
		}
	}
	parts = append(parts, buf[start:])
	return parts
}

// sosPmApcString discards SOS/PM/APC payloads: the core spec names no
// behavior for them beyond tolerant parsing, so only termination detection
// matters here.
func (p *Parser) sosPmApcString(b byte, h Handler) {
	switch b {
	case 0x1B:
		p.pendingOscEsc = true
	default:
		if p.pendingOscEsc {
			p.pendingOscEsc = false
			if b == '\\' {
				p.reset()
				return
			}
			p.reset()
			p.st = stateEscape
			p.Advance(b, h)
		}
	}
}
