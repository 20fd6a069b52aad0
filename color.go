package termcore

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorTag identifies how a Color's Value is interpreted, matching the
// renderer wire payload of spec §6 ("tagged 32-bit value (tag byte: 0 named,
// 1 indexed, 2 rgb, 3 default)").
type ColorTag uint8

const (
	ColorNamed ColorTag = iota
	ColorIndexed
	ColorRGB
	ColorDefaultTag
)

// Color is a small tagged value: a named color (0-15), an indexed palette
// entry (0-255), a 24-bit RGB value, or "use the theme default". Resolution
// against a palette happens only when a Snapshot or a response (e.g. OSC
// 4 query) is produced, never while applying SGR.
type Color struct {
	Tag   ColorTag
	Value uint32 // named/indexed: palette index; rgb: 0x00RRGGBB
}

// DefaultColor resolves to the palette's foreground or background default
// depending on context.
var DefaultColor = Color{Tag: ColorDefaultTag}

// NamedColorValue builds a Color referencing one of the 16 standard slots.
func NamedColorValue(index int) Color { return Color{Tag: ColorNamed, Value: uint32(index)} }

// IndexedColorValue builds a Color referencing the 256-entry palette.
func IndexedColorValue(index int) Color { return Color{Tag: ColorIndexed, Value: uint32(index)} }

// RGBColorValue builds a Color from 8-bit components.
func RGBColorValue(r, g, b uint8) Color {
	return Color{Tag: ColorRGB, Value: uint32(r)<<16 | uint32(g)<<8 | uint32(b)}
}

// RGB returns the 8-bit components of an RGB-tagged color.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c.Value >> 16), uint8(c.Value >> 8), uint8(c.Value)
}

// Palette holds the 256-entry indexed table plus the theme defaults, one per
// Terminal (spec §3 "Color palette: 256-entry table plus foreground/
// background/cursor defaults").
type Palette struct {
	Table      [256]colorful.Color
	Foreground colorful.Color
	Background colorful.Color
	Cursor     colorful.Color
}

// NewDefaultPalette returns the standard xterm-compatible 256-color palette.
func NewDefaultPalette() *Palette {
	p := &Palette{
		Foreground: mustHex("#e5e5e5"),
		Background: mustHex("#000000"),
		Cursor:     mustHex("#e5e5e5"),
	}
	std := []string{
		"#000000", "#cd3131", "#0dbc79", "#e5e510",
		"#2472c8", "#bc3fbc", "#11a8cd", "#e5e5e5",
		"#666666", "#f14c4c", "#23d18b", "#f5f543",
		"#3b8eea", "#d670d6", "#29b8db", "#ffffff",
	}
	for i, h := range std {
		p.Table[i] = mustHex(h)
	}
	i := 16
	levels := [6]uint8{0, 95, 135, 175, 215, 255}
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p.Table[i] = colorful.Color{
					R: float64(levels[r]) / 255,
					G: float64(levels[g]) / 255,
					B: float64(levels[b]) / 255,
				}
				i++
			}
		}
	}
	for j := 0; j < 24; j++ {
		gray := float64(8+j*10) / 255
		p.Table[232+j] = colorful.Color{R: gray, G: gray, B: gray}
	}
	return p
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("termcore: invalid built-in palette color %q: %v", s, err))
	}
	return c
}

// Resolve converts a tagged Color into a concrete colorful.Color against the
// palette, treating fg to pick the right default when Tag is
// ColorDefaultTag.
func (p *Palette) Resolve(c Color, fg bool) colorful.Color {
	switch c.Tag {
	case ColorNamed:
		if c.Value < 16 {
			return p.Table[c.Value]
		}
	case ColorIndexed:
		if c.Value < 256 {
			return p.Table[c.Value]
		}
	case ColorRGB:
		r, g, b := c.RGB()
		return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	}
	if fg {
		return p.Foreground
	}
	return p.Background
}

// Dim blends a color 34% toward black, the perceptually-even replacement for
// the hand-rolled "×0.66 multiply" dim treatment, computed in Lab space via
// go-colorful's BlendLab rather than a flat per-channel multiply.
func Dim(c colorful.Color) colorful.Color {
	return colorful.Color{}.BlendLab(c, 0.66)
}

// Hex formats a color as "#rrggbb", the representation OSC 4/10/11/12 color
// queries reply with.
func Hex(c colorful.Color) string {
	return c.Hex()
}
