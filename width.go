package termcore

import (
	"unicode/utf8"

	"github.com/unilibs/uniwidth"
	"golang.org/x/text/unicode/norm"
)

// runeWidth returns the display width: 2 for wide characters (CJK, emoji), 1 for normal, 0 for zero-width (combining marks, control chars).
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isWideRune returns true if the rune occupies 2 columns (CJK ideographs, fullwidth forms, emoji).
func isWideRune(r rune) bool {
	return uniwidth.RuneWidth(r) == 2
}

// StringWidth returns the total display width of a string (sum of rune widths).
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}

// isCombiningMark reports whether r has a nonzero canonical combining class.
// uniwidth already reports these runes as width 0, but so do a handful of
// non-combining zero-width runes (variation selectors, ZWJ); printRune uses
// this to decide whether a width-0 rune actually attaches to the previous
// cell or is dropped instead of silently merged.
func isCombiningMark(r rune) bool {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return norm.NFC.Properties(buf[:n]).CCC() != 0
}
