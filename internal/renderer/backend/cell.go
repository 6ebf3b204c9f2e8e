package backend

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/scribe-editor/scribe/internal/engine/style"
)

// CellMetrics measures text in terminal cells: every printable glyph is
// one cell wide regardless of style, every line is one cell tall. It
// lets the layout engine and position resolvers work unchanged with the
// terminal as the rendering surface.
type CellMetrics struct{}

// Advance returns the cell width of the byte at a document offset.
// Control bytes and UTF-8 continuation bytes take no cells of their
// own; a multi-byte rune's width is carried by its lead byte.
func (CellMetrics) Advance(ch byte, _ style.Style) int {
	if ch < 32 || ch == 127 {
		return 0
	}
	if ch < utf8.RuneSelf {
		return uniseg.StringWidth(string(rune(ch)))
	}
	if ch&0xC0 == 0x80 {
		return 0
	}
	// lead byte of a multi-byte rune; the drawing path measures the
	// decoded rune itself
	return 1
}

// LineMetrics reports zero extents; the layout engine's minimum line
// height of one then makes every terminal line exactly one cell tall,
// with the baseline on the cell's top edge so resolved positions stay
// inside their line's vertical range.
func (CellMetrics) LineMetrics(style.Style) (ascent, descent, leading int) {
	return 0, 0, 0
}

// RuneWidth returns the number of terminal cells a rune occupies.
func RuneWidth(r rune) int {
	return uniseg.StringWidth(string(r))
}
