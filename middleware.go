package termcore

import "termcore/vtparse"

// Middleware lets a caller intercept the five parser events before they
// reach the terminal's own handling, calling next to continue the chain.
// This generalizes the teacher library's per-CSI-operation interception
// (one func field per command like MoveUp, InsertBlank, SetMode) to the
// five-operation capability interface the parser itself is built around
// (spec §9 "Polymorphism over event sinks"): the core spec exposes CSI/OSC/
// ESC as dispatch events, not as seventy named commands, so interception at
// that grain is both sufficient and keeps one Middleware field in sync with
// one Handler method instead of drifting from it as CSI finals are added.
type Middleware struct {
	Print       func(r rune, width int, next func(rune, int))
	Execute     func(b byte, next func(byte))
	CsiDispatch func(params *vtparse.Params, intermediates []byte, ignored bool, final byte, next func(*vtparse.Params, []byte, bool, byte))
	OscDispatch func(params [][]byte, bellTerminated bool, next func([][]byte, bool))
	EscDispatch func(intermediates []byte, ignored bool, final byte, next func([]byte, bool, byte))
}

// Merge combines two middlewares so that m's interceptors run first and call
// into other's as their "next", then the terminal's own implementation.
// Either argument may be nil.
func (m *Middleware) Merge(other *Middleware) *Middleware {
	if m == nil {
		return other
	}
	if other == nil {
		return m
	}
	merged := &Middleware{}
	if m.Print != nil {
		merged.Print = func(r rune, w int, next func(rune, int)) {
			m.Print(r, w, func(r2 rune, w2 int) {
				if other.Print != nil {
					other.Print(r2, w2, next)
				} else {
					next(r2, w2)
				}
			})
		}
	} else {
		merged.Print = other.Print
	}
	if m.Execute != nil {
		merged.Execute = func(b byte, next func(byte)) {
			m.Execute(b, func(b2 byte) {
				if other.Execute != nil {
					other.Execute(b2, next)
				} else {
					next(b2)
				}
			})
		}
	} else {
		merged.Execute = other.Execute
	}
	if m.CsiDispatch != nil {
		merged.CsiDispatch = func(p *vtparse.Params, im []byte, ig bool, f byte, next func(*vtparse.Params, []byte, bool, byte)) {
			m.CsiDispatch(p, im, ig, f, func(p2 *vtparse.Params, im2 []byte, ig2 bool, f2 byte) {
				if other.CsiDispatch != nil {
					other.CsiDispatch(p2, im2, ig2, f2, next)
				} else {
					next(p2, im2, ig2, f2)
				}
			})
		}
	} else {
		merged.CsiDispatch = other.CsiDispatch
	}
	if m.OscDispatch != nil {
		merged.OscDispatch = func(p [][]byte, bell bool, next func([][]byte, bool)) {
			m.OscDispatch(p, bell, func(p2 [][]byte, bell2 bool) {
				if other.OscDispatch != nil {
					other.OscDispatch(p2, bell2, next)
				} else {
					next(p2, bell2)
				}
			})
		}
	} else {
		merged.OscDispatch = other.OscDispatch
	}
	if m.EscDispatch != nil {
		merged.EscDispatch = func(im []byte, ig bool, f byte, next func([]byte, bool, byte)) {
			m.EscDispatch(im, ig, f, func(im2 []byte, ig2 bool, f2 byte) {
				if other.EscDispatch != nil {
					other.EscDispatch(im2, ig2, f2, next)
				} else {
					next(im2, ig2, f2)
				}
			})
		}
	} else {
		merged.EscDispatch = other.EscDispatch
	}
	return merged
}
