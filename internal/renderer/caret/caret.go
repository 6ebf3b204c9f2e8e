package caret

import (
	"github.com/scribe-editor/scribe/internal/engine/notify"
	"github.com/scribe-editor/scribe/internal/engine/style"
	"github.com/scribe-editor/scribe/internal/renderer/layout"
)

// Document is the view of the text a controller needs: offset reads for
// word boundaries and typing-style fallback, plus range styling for
// formatting commands over a selection.
type Document interface {
	Len() int
	CharAt(pos int) byte
	StyleAt(pos int) style.Style
	ApplyStyle(from, to int, edit style.Transform)
}

// Selection is an ordered pair of resolved positions. Beg.TPos < End.TPos
// always holds while a selection is active; a collapsed pair is never
// stored.
type Selection struct {
	Beg layout.Position
	End layout.Position
}

// Controller tracks the caret and selection for one view. At most one of
// the two is visible at a time: setting a caret clears the selection and
// vice versa. All offsets are re-resolved against the layout on demand,
// so positions held here are only valid until the next edit or refill.
type Controller struct {
	doc Document
	lay *layout.Layout

	caret  *layout.Position
	sel    *Selection
	anchor *layout.Position // drag reference point

	typing *style.Style
}

// NewController returns a controller with no caret and no selection.
func NewController(doc Document, lay *layout.Layout) *Controller {
	return &Controller{doc: doc, lay: lay}
}

// Caret returns the current caret position, if one is set.
func (c *Controller) Caret() (layout.Position, bool) {
	if c.caret == nil {
		return layout.Position{Line: layout.NoLine}, false
	}
	return *c.caret, true
}

// Sel returns the active selection, if one is set.
func (c *Controller) Sel() (Selection, bool) {
	if c.sel == nil {
		return Selection{}, false
	}
	return *c.sel, true
}

// SetCaret places the caret at a document offset. The offset must lie
// within the laid-out range; outside it the caret becomes absent.
func (c *Controller) SetCaret(tpos int) {
	if !c.lay.Filled() || tpos < c.lay.FirstTpos() || tpos > c.lay.LastTpos() {
		c.caret = nil
		return
	}
	c.place(c.lay.Pos(tpos))
}

// SetCaretAt places the caret at the position nearest a coordinate.
func (c *Controller) SetCaretAt(x, y int) {
	p := c.lay.PosAt(x, y)
	if p.Line == layout.NoLine {
		c.caret = nil
		return
	}
	c.place(p)
}

func (c *Controller) place(p layout.Position) {
	c.RemoveSelection()
	c.caret = &p
	if c.typing == nil {
		st := c.doc.StyleAt(max(0, p.TPos-1))
		c.typing = &st
	}
}

// RemoveCaret makes the caret absent.
func (c *Controller) RemoveCaret() {
	c.caret = nil
}

// SetSelection marks [from, to) active when from < to, clearing any
// caret. from >= to clears the selection instead.
func (c *Controller) SetSelection(from, to int) {
	if from >= to || !c.lay.Filled() {
		c.sel = nil
		return
	}
	c.caret = nil
	c.sel = &Selection{Beg: c.lay.Pos(from), End: c.lay.Pos(to)}
}

// RemoveSelection clears the active selection.
func (c *Controller) RemoveSelection() {
	c.sel = nil
}

func isWordChar(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

// SelectWordAt selects the run of word characters (letters, digits,
// underscore) around the coordinate. A hit just past a word pulls back
// one offset so the word is still selected; a hit between two non-word
// characters places a caret instead.
func (c *Controller) SelectWordAt(x, y int) {
	p := c.lay.PosAt(x, y)
	if p.Line == layout.NoLine || c.doc.Len() == 0 {
		return
	}

	t := p.TPos
	if t >= c.doc.Len() {
		t = c.doc.Len() - 1
	}
	if !isWordChar(c.doc.CharAt(t)) && t > 0 && isWordChar(c.doc.CharAt(t-1)) {
		t--
	}
	if !isWordChar(c.doc.CharAt(t)) {
		c.RemoveSelection()
		c.place(p)
		return
	}

	start := t
	for start > 0 && isWordChar(c.doc.CharAt(start-1)) {
		start--
	}
	end := t + 1
	for end < c.doc.Len() && isWordChar(c.doc.CharAt(end)) {
		end++
	}
	c.SetSelection(start, end)
}

// BeginDrag starts a drag gesture at a coordinate: a collapsed selection
// whose both ends sit at the press point, which becomes the anchor.
func (c *Controller) BeginDrag(x, y int) {
	p := c.lay.PosAt(x, y)
	if p.Line == layout.NoLine {
		return
	}
	c.caret = nil
	c.sel = &Selection{Beg: p, End: p}
	c.anchor = &p
}

// DragTo extends the active drag to a coordinate. The end that was last
// moved keeps moving; crossing the fixed end flips which position is the
// beginning and which the end.
func (c *Controller) DragTo(x, y int) {
	if c.sel == nil {
		return
	}
	if c.anchor == nil {
		a := c.sel.End
		c.anchor = &a
	}

	pos := c.lay.PosAt(x, y)
	if pos.Line == layout.NoLine {
		return
	}

	switch {
	case pos.TPos < c.sel.Beg.TPos:
		if c.anchor.TPos == c.sel.End.TPos {
			c.sel.End = c.sel.Beg
		}
		c.sel.Beg = pos
	case pos.TPos > c.sel.End.TPos:
		if c.anchor.TPos == c.sel.Beg.TPos {
			c.sel.Beg = c.sel.End
		}
		c.sel.End = pos
	case pos.TPos < c.anchor.TPos:
		c.sel.End = pos
	case c.anchor.TPos < pos.TPos:
		c.sel.Beg = pos
	}
	c.anchor = &pos
}

// EndDrag finishes the gesture. A drag that never left its press point
// collapses to a plain caret.
func (c *Controller) EndDrag() {
	c.anchor = nil
	if c.sel == nil {
		return
	}
	if c.sel.Beg.TPos == c.sel.End.TPos {
		p := c.sel.Beg
		c.sel = nil
		c.place(p)
	}
}

// selFrom and selTo give the range formatting commands act on: the
// selection bounds when one is active, the caret offset (an empty range)
// otherwise.
func (c *Controller) selFrom() int {
	if c.sel != nil {
		return min(c.sel.Beg.TPos, c.sel.End.TPos)
	}
	if c.caret != nil {
		return c.caret.TPos
	}
	return 0
}

func (c *Controller) selTo() int {
	if c.sel != nil {
		return max(c.sel.Beg.TPos, c.sel.End.TPos)
	}
	if c.caret != nil {
		return c.caret.TPos
	}
	return 0
}

func (c *Controller) typingBase() style.Style {
	if c.typing != nil {
		return *c.typing
	}
	p := 0
	if c.caret != nil {
		p = c.caret.TPos
	}
	return c.doc.StyleAt(max(0, p-1))
}

// applyFormat runs a style edit over the selection, or records it as the
// pending typing style when no selection is active.
func (c *Controller) applyFormat(edit style.Transform) {
	a, b := c.selFrom(), c.selTo()
	if a == b {
		st := edit(c.typingBase())
		c.typing = &st
		return
	}
	c.doc.ApplyStyle(a, b, edit)
	c.refillKeepingState()
}

// ToggleBold flips bold over the selection, or on the typing style.
func (c *Controller) ToggleBold() {
	c.applyFormat(func(st style.Style) style.Style { return st.WithBold(!st.Bold) })
}

// ToggleItalic flips italic over the selection, or on the typing style.
func (c *Controller) ToggleItalic() {
	c.applyFormat(func(st style.Style) style.Style { return st.WithItalic(!st.Italic) })
}

// ToggleUnderline flips underline over the selection, or on the typing style.
func (c *Controller) ToggleUnderline() {
	c.applyFormat(func(st style.Style) style.Style { return st.WithUnderline(!st.Underline) })
}

// ToggleStrike flips strikethrough over the selection, or on the typing style.
func (c *Controller) ToggleStrike() {
	c.applyFormat(func(st style.Style) style.Style { return st.WithStrike(!st.Strike) })
}

// SetFamily applies a font family over the selection, or to the typing style.
func (c *Controller) SetFamily(family string) {
	c.applyFormat(func(st style.Style) style.Style { return st.WithFamily(family) })
}

// SetSize applies a font size over the selection, or to the typing style.
func (c *Controller) SetSize(size int) {
	c.applyFormat(func(st style.Style) style.Style { return st.WithSize(size) })
}

// SetColor applies a color over the selection, or to the typing style.
func (c *Controller) SetColor(col style.Color) {
	c.applyFormat(func(st style.Style) style.Style { return st.WithColor(col) })
}

// TypingStyle returns the pending typing style, if any.
func (c *Controller) TypingStyle() (style.Style, bool) {
	if c.typing == nil {
		return style.Style{}, false
	}
	return *c.typing, true
}

// ConsumeTypingStyle returns the style the next inserted character should
// carry and clears the pending override. Without a pending style it falls
// back to the style immediately before the caret.
func (c *Controller) ConsumeTypingStyle() style.Style {
	st := c.typingBase()
	c.typing = nil
	return st
}

// ApplyEdit remaps the saved caret and selection offsets through an edit
// delta, rebuilds the layout from the first affected line, and restores
// both at their adjusted offsets. Offsets at or after an insertion point
// shift right by the inserted length; offsets after a deletion's start
// shift left, clamped to it.
func (c *Controller) ApplyEdit(ch notify.Change) {
	caretPos := -1
	if c.caret != nil {
		caretPos = c.caret.TPos
	}
	selA, selB := -1, -1
	if c.sel != nil {
		selA, selB = c.sel.Beg.TPos, c.sel.End.TPos
	}

	switch {
	case ch.Kind == notify.KindInsert && len(ch.Text) > 0:
		k := len(ch.Text)
		if caretPos >= ch.From {
			caretPos += k
		}
		if selA >= ch.From {
			selA += k
		}
		if selB >= ch.From {
			selB += k
		}
	case ch.Kind == notify.KindDelete && ch.To > ch.From:
		k := ch.To - ch.From
		if caretPos > ch.From {
			caretPos = max(ch.From, caretPos-k)
		}
		if selA > ch.From {
			selA = max(ch.From, selA-k)
		}
		if selB > ch.From {
			selB = max(ch.From, selB-k)
		}
	}

	c.sel = nil
	c.caret = nil

	if c.lay.Filled() {
		rebuildPos := max(ch.From, c.lay.FirstTpos())
		c.lay.RebuildFrom(c.lay.Pos(rebuildPos))
	}

	if caretPos >= 0 {
		c.SetCaret(caretPos)
	}
	if selA >= 0 && selB >= 0 && selA != selB {
		c.SetSelection(min(selA, selB), max(selA, selB))
	}
}

// Reresolve re-resolves the caret and selection against the current
// layout, keeping their offsets. Call after the layout has been refilled
// for a scroll or a resize.
func (c *Controller) Reresolve() {
	caretPos := -1
	if c.caret != nil {
		caretPos = c.caret.TPos
	}
	selA, selB := -1, -1
	if c.sel != nil {
		selA, selB = c.sel.Beg.TPos, c.sel.End.TPos
	}

	c.caret = nil
	c.sel = nil
	if caretPos >= 0 {
		c.SetCaret(caretPos)
	}
	if selA >= 0 && selB >= 0 && selA != selB {
		c.SetSelection(selA, selB)
	}
}

// refillKeepingState relays the whole visible chain out (style changes
// may alter line heights) and restores caret and selection by offset.
func (c *Controller) refillKeepingState() {
	if !c.lay.Filled() {
		return
	}
	c.lay.RebuildFrom(c.lay.Pos(c.lay.FirstTpos()))
	c.Reresolve()
}
