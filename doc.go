// Package termcore implements the core state engine of a terminal emulator:
// a VT/ANSI parser and command handler, a circular-buffer grid with bounded
// scrollback, a selection model, a vi-style navigation cursor with regex
// search, a hint/pattern-detection pass, and a renderable snapshot producer.
//
// # Architecture
//
// Bytes arrive through Terminal.Write, are decoded by a vtparse.Parser into
// semantic events, and are applied to terminal state by handlerAdapter, the
// Terminal's implementation of vtparse.Handler. The grid is a ring buffer: scrolling rotates a
// base index instead of copying rows, so it never reallocates and absolute
// line coordinates (used by Selection and the navigation cursor) stay valid
// across scrolling.
//
// # Screens
//
// A Terminal owns two Grids, primary and alternate. Only the primary grid
// accretes scrollback; switching to the alternate screen (DEC mode 1049)
// saves the cursor and swaps the active grid without discarding either.
//
// # Providers
//
// Side effects that don't belong in the core — ringing a bell, setting a
// window title, reading or writing the system clipboard, persisting
// scrollback — are expressed as small provider interfaces with no-op default
// implementations, following the same capability-interface shape the parser
// uses for its event sink (see vtparse.Handler).
//
// # Concurrency
//
// A Terminal is safe for concurrent use. All exported methods acquire an
// internal RWMutex; mutation of the grid, cursor, and modes happens only
// while holding the write lock, matching the single-writer invariant a PTY
// reader loop (see package ptyio) depends on: the reader decodes and applies
// bytes, everything else only reads a Snapshot.
package termcore
