package backend

import (
	"unicode/utf8"

	"github.com/scribe-editor/scribe/internal/renderer/caret"
	"github.com/scribe-editor/scribe/internal/renderer/layout"
)

// Document is the text view the renderer reads from.
type Document interface {
	layout.Document
	Substring(from, to int) string
}

// Render draws the laid-out document onto the terminal: styled glyph
// runs, the selection in reverse video and the caret as the hardware
// cursor. The caller decides when to call Show.
func Render(t *Terminal, doc Document, lay *layout.Layout, ctrl *caret.Controller) {
	t.Clear()

	selBeg, selEnd := -1, -1
	if sel, ok := ctrl.Sel(); ok {
		selBeg, selEnd = sel.Beg.TPos, sel.End.TPos
	}

	for i := lay.First(); i != layout.NoLine; i = lay.LineAt(i).Next {
		ln := lay.LineAt(i)
		end := drawEnd(doc, ln)
		x := ln.X

		for pos := ln.Org; pos < end; {
			r, size := utf8.DecodeRuneInString(doc.Substring(pos, min(end, pos+utf8.UTFMax)))
			if r == utf8.RuneError && size < 2 {
				size = 1
			}
			st := doc.StyleAt(pos)
			selected := pos >= selBeg && pos < selEnd

			if r == '\t' {
				for k := 0; k < 4; k++ {
					t.SetCell(x, ln.Y, ' ', st, selected)
					x++
				}
			} else {
				t.SetCell(x, ln.Y, r, st, selected)
				x += RuneWidth(r)
			}
			pos += size
		}

		// a selection crossing the terminator marks one trailing cell
		if selBeg <= end && end < selEnd && end < ln.Org+ln.Len {
			t.SetCell(x, ln.Y, ' ', doc.StyleAt(end), true)
		}
	}

	if p, ok := ctrl.Caret(); ok {
		t.ShowCursor(p.X, p.Y)
	} else {
		t.HideCursor()
	}
}

// drawEnd mirrors the layout engine's drawn range: the line span minus a
// trailing LF or CRLF pair.
func drawEnd(doc Document, ln layout.Line) int {
	end := ln.Org + ln.Len
	if end >= 1 && doc.CharAt(end-1) == '\n' {
		if end >= 2 && doc.CharAt(end-2) == '\r' {
			return end - 2
		}
		return end - 1
	}
	return end
}
