// Package metrics defines the font-metrics capability the layout engine
// consumes. Concrete providers live at the rendering boundary: terminals
// report cell metrics, tests use the fixed provider.
package metrics

import "github.com/scribe-editor/scribe/internal/engine/style"

// Provider supplies glyph advances and vertical line metrics per style.
type Provider interface {
	// Advance returns the horizontal advance of ch rendered in st, in
	// pixels. Tab characters are never passed here; the layout engine
	// expands a tab to four space advances at the tab's style.
	Advance(ch byte, st style.Style) int

	// LineMetrics returns the ascent, descent and leading for st.
	LineMetrics(st style.Style) (ascent, descent, leading int)
}

// Fixed is a size-proportional monospace provider. Every glyph of a style
// advances by the same amount, derived from the style's point size. Bold
// adds one pixel of advance, mimicking a heavier face.
type Fixed struct{}

// Advance implements Provider.
// Control characters report zero advance, like AWT font metrics do.
func (Fixed) Advance(ch byte, st style.Style) int {
	if ch < 32 || ch == 127 {
		return 0
	}
	w := st.Size * 3 / 5
	if w < 1 {
		w = 1
	}
	if st.Bold {
		w++
	}
	return w
}

// LineMetrics implements Provider.
func (Fixed) LineMetrics(st style.Style) (ascent, descent, leading int) {
	ascent = st.Size * 4 / 5
	if ascent < 1 {
		ascent = 1
	}
	descent = st.Size / 5
	leading = st.Size / 9
	return ascent, descent, leading
}
