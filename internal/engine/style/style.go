package style

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	ColorBlack = Color{R: 0, G: 0, B: 0}
	ColorWhite = Color{R: 255, G: 255, B: 255}
)

// ColorFromHex parses a "#rrggbb" color string.
func ColorFromHex(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// Hex returns the "#rrggbb" representation of the color.
func (c Color) Hex() string {
	return c.colorful().Hex()
}

// Blend mixes the color with other by the given amount in [0,1].
func (c Color) Blend(other Color, amount float64) Color {
	m := c.colorful().BlendRgb(other.colorful(), amount)
	r, g, b := m.RGB255()
	return Color{R: r, G: g, B: b}
}

// Luminance returns the perceived luminance in [0,1], used by renderers to
// pick contrasting caret and selection colors.
func (c Color) Luminance() float64 {
	_, _, l := c.colorful().Hsl()
	return l
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// String returns a human-readable representation of the color.
func (c Color) String() string {
	return c.Hex()
}

// Style describes the formatting of a character range.
// Styles are immutable values; the With* methods return modified copies.
type Style struct {
	Family    string
	Size      int
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Color     Color
}

// Default returns the engine's default style: 18px plain monospace, black.
func Default() Style {
	return Style{
		Family: "Monospaced",
		Size:   18,
		Color:  ColorBlack,
	}
}

// WithFamily returns a copy with the font family replaced.
func (s Style) WithFamily(family string) Style {
	s.Family = family
	return s
}

// WithSize returns a copy with the font size replaced.
func (s Style) WithSize(size int) Style {
	s.Size = size
	return s
}

// WithBold returns a copy with the bold flag replaced.
func (s Style) WithBold(b bool) Style {
	s.Bold = b
	return s
}

// WithItalic returns a copy with the italic flag replaced.
func (s Style) WithItalic(i bool) Style {
	s.Italic = i
	return s
}

// WithUnderline returns a copy with the underline flag replaced.
func (s Style) WithUnderline(u bool) Style {
	s.Underline = u
	return s
}

// WithStrike returns a copy with the strikethrough flag replaced.
func (s Style) WithStrike(st bool) Style {
	s.Strike = st
	return s
}

// WithColor returns a copy with the color replaced.
func (s Style) WithColor(c Color) Style {
	s.Color = c
	return s
}

// Equals reports structural equality.
func (s Style) Equals(other Style) bool {
	return s == other
}

// String returns a human-readable representation of the style.
func (s Style) String() string {
	return fmt.Sprintf("%s %d bold=%t italic=%t underline=%t strike=%t color=%s",
		s.Family, s.Size, s.Bold, s.Italic, s.Underline, s.Strike, s.Color)
}

// Transform maps one style to another. Used by Overlay.ApplyStyle.
type Transform func(Style) Style

// Constant returns a transform that replaces any style with st.
func Constant(st Style) Transform {
	return func(Style) Style { return st }
}
