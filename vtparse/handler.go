// Package vtparse implements a byte-level VT/ANSI parser: a deterministic
// finite automaton that turns an arbitrary byte stream into a sequence of
// semantic events delivered to a caller-supplied Handler, without retained
// heap allocation on the hot path (spec §4.1, §9 "Parser without dynamic
// dispatch... emit events as tagged values on a caller-provided visitor").
package vtparse

// Handler is the capability interface every event consumer implements: the
// terminal's command dispatcher, a ref-test recorder, or a debug printer can
// all sit behind the same five operations, matching spec §9's "Polymorphism
// over event sinks... express this as a capability interface... rather than
// any inheritance hierarchy."
type Handler interface {
	// Print is called for each printable scalar value with its display
	// width (1 or 2), already resolved by the caller-supplied WidthFunc.
	Print(r rune, width int)

	// Execute is called for a C0/C1 control byte (BS, HT, LF, CR, BEL, ...).
	Execute(b byte)

	// CsiDispatch is called once a complete CSI sequence has been
	// recognised. params is reused across calls; implementations must not
	// retain it past the call.
	CsiDispatch(params *Params, intermediates []byte, ignored bool, final byte)

	// EscDispatch is called for a complete ESC sequence (not CSI/OSC/DCS).
	EscDispatch(intermediates []byte, ignored bool, final byte)

	// OscDispatch is called once an OSC string is terminated (BEL or
	// ST). params is a sequence of byte slices split on ';'; like
	// CsiDispatch's params, it is not valid past the call.
	OscDispatch(params [][]byte, bellTerminated bool)

	// DcsHook/DcsPut/DcsUnhook bracket a Device Control String. Most
	// terminals ignore DCS content; a Handler that doesn't care may leave
	// these as no-ops.
	DcsHook(params *Params, intermediates []byte, ignored bool, final byte)
	DcsPut(b byte)
	DcsUnhook()
}

// DebugHandler is an optional extension a Handler may also implement to
// receive diagnostic annotations for dropped or overflowed sequences (spec
// §4.1 "it may emit a DEBUG annotation for diagnostics").
type DebugHandler interface {
	Debug(reason string)
}

func debug(h Handler, reason string) {
	if d, ok := h.(DebugHandler); ok {
		d.Debug(reason)
	}
}

// WidthFunc reports the display width (0, 1, or 2) of a rune, letting the
// parser stay agnostic of any particular East-Asian-width table.
type WidthFunc func(r rune) int
