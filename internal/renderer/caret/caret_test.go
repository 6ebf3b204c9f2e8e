package caret

import (
	"testing"

	"github.com/scribe-editor/scribe/internal/engine/document"
	"github.com/scribe-editor/scribe/internal/engine/notify"
	"github.com/scribe-editor/scribe/internal/engine/style"
	"github.com/scribe-editor/scribe/internal/renderer/layout"
	"github.com/scribe-editor/scribe/internal/renderer/metrics"
)

// Fixed metrics at the 18px default style: every glyph 10 wide, every
// line 19 tall. charX(i) is a coordinate inside character i of line 0.
func charX(i int) int { return i*10 + 5 }

func newController(text string) (*document.Document, *layout.Layout, *Controller) {
	doc := document.New(text, style.Default())
	lay := layout.New(doc, metrics.Fixed{}, 0)
	lay.Fill(0, 1000, 0)
	return doc, lay, NewController(doc, lay)
}

func TestSetCaretWithinRange(t *testing.T) {
	_, _, c := newController("hello\nworld")

	c.SetCaret(7)
	p, ok := c.Caret()
	if !ok || p.TPos != 7 {
		t.Fatalf("caret = %+v, ok=%v", p, ok)
	}
	if p.Line != 1 || p.Off != 1 {
		t.Errorf("caret resolved to line %d off %d", p.Line, p.Off)
	}
}

func TestSetCaretOutsideRangeRemovesIt(t *testing.T) {
	_, _, c := newController("hello")

	c.SetCaret(3)
	c.SetCaret(99)
	if _, ok := c.Caret(); ok {
		t.Error("caret survived an out-of-range offset")
	}
}

func TestSetCaretClearsSelection(t *testing.T) {
	_, _, c := newController("hello world")

	c.SetSelection(0, 5)
	c.SetCaret(2)
	if _, ok := c.Sel(); ok {
		t.Error("selection survived SetCaret")
	}
	if _, ok := c.Caret(); !ok {
		t.Error("caret not set")
	}
}

func TestSetSelectionClearsCaret(t *testing.T) {
	_, _, c := newController("hello world")

	c.SetCaret(2)
	c.SetSelection(3, 8)
	if _, ok := c.Caret(); ok {
		t.Error("caret survived SetSelection")
	}
	sel, ok := c.Sel()
	if !ok || sel.Beg.TPos != 3 || sel.End.TPos != 8 {
		t.Errorf("selection = %+v, ok=%v", sel, ok)
	}
}

func TestSetSelectionCollapsedClears(t *testing.T) {
	_, _, c := newController("hello")

	c.SetSelection(1, 4)
	c.SetSelection(3, 3)
	if _, ok := c.Sel(); ok {
		t.Error("collapsed range kept a selection alive")
	}
}

func TestSelectWordAt(t *testing.T) {
	_, _, c := newController("foo bar_2 baz")

	// inside "bar_2"
	c.SelectWordAt(charX(6), 5)
	sel, ok := c.Sel()
	if !ok || sel.Beg.TPos != 4 || sel.End.TPos != 9 {
		t.Errorf("word selection = %+v, ok=%v", sel, ok)
	}
}

func TestSelectWordAtJustAfterWord(t *testing.T) {
	_, _, c := newController("foo bar")

	// the space at offset 3: the preceding word is still selected
	c.SelectWordAt(charX(3), 5)
	sel, ok := c.Sel()
	if !ok || sel.Beg.TPos != 0 || sel.End.TPos != 3 {
		t.Errorf("pull-back selection = %+v, ok=%v", sel, ok)
	}
}

func TestSelectWordAtBetweenNonWordChars(t *testing.T) {
	_, _, c := newController("a  .. b")

	// offset 4, between '.' and '.': caret only
	c.SelectWordAt(charX(4), 5)
	if _, ok := c.Sel(); ok {
		t.Error("selection made between two non-word characters")
	}
	p, ok := c.Caret()
	if !ok || p.TPos != 4 {
		t.Errorf("caret = %+v, ok=%v", p, ok)
	}
}

func TestSelectWordAtEndOfDocument(t *testing.T) {
	_, _, c := newController("word")

	// past the last character: steps back onto the word
	c.SelectWordAt(9999, 5)
	sel, ok := c.Sel()
	if !ok || sel.Beg.TPos != 0 || sel.End.TPos != 4 {
		t.Errorf("EOF selection = %+v, ok=%v", sel, ok)
	}
}

func TestDragExtendsForward(t *testing.T) {
	_, _, c := newController("abcdef")

	c.BeginDrag(charX(2), 5)
	c.DragTo(charX(5), 5)
	sel, ok := c.Sel()
	if !ok || sel.Beg.TPos != 2 || sel.End.TPos != 5 {
		t.Errorf("selection = %+v, ok=%v", sel, ok)
	}
}

func TestDragFlipsAcrossAnchor(t *testing.T) {
	_, _, c := newController("abcdef")

	c.BeginDrag(charX(3), 5)
	c.DragTo(charX(5), 5) // [3,5)
	c.DragTo(charX(1), 5) // crossed the anchor: [1,3)
	sel, ok := c.Sel()
	if !ok || sel.Beg.TPos != 1 || sel.End.TPos != 3 {
		t.Errorf("selection after flip = %+v, ok=%v", sel, ok)
	}
}

func TestDragShrinksWithinSelection(t *testing.T) {
	_, _, c := newController("abcdef")

	c.BeginDrag(charX(1), 5)
	c.DragTo(charX(5), 5) // [1,5)
	c.DragTo(charX(3), 5) // moving end retreats: [1,3)
	sel, ok := c.Sel()
	if !ok || sel.Beg.TPos != 1 || sel.End.TPos != 3 {
		t.Errorf("selection after retreat = %+v, ok=%v", sel, ok)
	}
}

func TestEndDragCollapsesToCaret(t *testing.T) {
	_, _, c := newController("abcdef")

	c.BeginDrag(charX(2), 5)
	c.EndDrag()
	if _, ok := c.Sel(); ok {
		t.Error("collapsed drag kept a selection")
	}
	p, ok := c.Caret()
	if !ok || p.TPos != 2 {
		t.Errorf("caret = %+v, ok=%v", p, ok)
	}
}

func TestToggleBoldWithoutSelectionSetsTypingStyle(t *testing.T) {
	doc, _, c := newController("hello")

	c.SetCaret(3)
	c.ToggleBold()

	st, ok := c.TypingStyle()
	if !ok || !st.Bold {
		t.Fatalf("typing style = %+v, ok=%v", st, ok)
	}
	// stored content untouched
	if doc.StyleAt(2).Bold {
		t.Error("content styled without a selection")
	}
}

func TestConsumeTypingStyleClearsPending(t *testing.T) {
	_, _, c := newController("hello")

	c.SetCaret(3)
	c.ToggleBold()

	st := c.ConsumeTypingStyle()
	if !st.Bold {
		t.Fatal("consumed style not bold")
	}
	// next consume falls back to the style before the caret
	st = c.ConsumeTypingStyle()
	if st.Bold {
		t.Error("pending style not cleared after consume")
	}
}

func TestToggleBoldWithSelectionEditsContent(t *testing.T) {
	doc, _, c := newController("hello world")

	c.SetSelection(0, 5)
	c.ToggleBold()

	if !doc.StyleAt(2).Bold {
		t.Error("selection range not bolded")
	}
	if doc.StyleAt(7).Bold {
		t.Error("style leaked past the selection")
	}
	// selection survives the style edit
	sel, ok := c.Sel()
	if !ok || sel.Beg.TPos != 0 || sel.End.TPos != 5 {
		t.Errorf("selection after toggle = %+v, ok=%v", sel, ok)
	}
}

func TestSelectionStyleRefillTracksNewHeights(t *testing.T) {
	_, lay, c := newController("aa\nbb")

	c.SetSelection(0, 2)
	c.SetSize(36)

	// 36px line: ascent 28, descent 7, leading 4
	if h := lay.LineAt(0).H; h != 39 {
		t.Errorf("line 0 height %d after size change, want 39", h)
	}
	if y := lay.LineAt(1).Y; y != 39 {
		t.Errorf("line 1 y %d, want 39", y)
	}
}

func TestApplyEditInsertShiftsCaret(t *testing.T) {
	doc, _, c := newController("hello world")
	doc.Subscribe(c.ApplyEdit)

	c.SetCaret(6)
	doc.Insert(2, "XY")

	p, ok := c.Caret()
	if !ok || p.TPos != 8 {
		t.Errorf("caret = %+v, ok=%v", p, ok)
	}
}

func TestApplyEditInsertBeforePointKeepsCaret(t *testing.T) {
	doc, _, c := newController("hello world")
	doc.Subscribe(c.ApplyEdit)

	c.SetCaret(3)
	doc.Insert(8, "XY")

	p, ok := c.Caret()
	if !ok || p.TPos != 3 {
		t.Errorf("caret = %+v, ok=%v", p, ok)
	}
}

func TestApplyEditDeleteShiftsCaret(t *testing.T) {
	doc, _, c := newController("hello world")
	doc.Subscribe(c.ApplyEdit)

	c.SetCaret(8)
	doc.Delete(0, 3)

	p, ok := c.Caret()
	if !ok || p.TPos != 5 {
		t.Errorf("caret = %+v, ok=%v", p, ok)
	}
}

func TestApplyEditDeleteClampsCaretInsideRange(t *testing.T) {
	doc, _, c := newController("hello world")
	doc.Subscribe(c.ApplyEdit)

	c.SetCaret(4)
	doc.Delete(2, 8)

	p, ok := c.Caret()
	if !ok || p.TPos != 2 {
		t.Errorf("caret = %+v, ok=%v", p, ok)
	}
}

func TestApplyEditRemapsSelection(t *testing.T) {
	doc, _, c := newController("hello world")
	doc.Subscribe(c.ApplyEdit)

	c.SetSelection(6, 11)
	doc.Insert(0, "> ")

	sel, ok := c.Sel()
	if !ok || sel.Beg.TPos != 8 || sel.End.TPos != 13 {
		t.Errorf("selection = %+v, ok=%v", sel, ok)
	}
}

func TestApplyEditSelectionSwallowedByDelete(t *testing.T) {
	doc, _, c := newController("hello world")
	doc.Subscribe(c.ApplyEdit)

	c.SetSelection(4, 7)
	doc.Delete(2, 9)

	// both ends clamp to the deletion start: nothing left to select
	if _, ok := c.Sel(); ok {
		t.Error("selection survived a delete that covered it")
	}
}

func TestApplyEditRebuildsLayout(t *testing.T) {
	doc, lay, c := newController("aa\nbb")
	doc.Subscribe(c.ApplyEdit)

	doc.Insert(0, "X\n")

	if lay.LineCount() != 3 {
		t.Errorf("layout has %d lines after edit, want 3", lay.LineCount())
	}
	if lay.LineAt(0).Len != 2 {
		t.Errorf("line 0 len %d, want 2", lay.LineAt(0).Len)
	}
}

func TestReresolveAfterRefill(t *testing.T) {
	_, lay, c := newController("aa\nbb\ncc")

	c.SetCaret(4)
	lay.Fill(0, 1000, 3) // scrolled down one line
	c.Reresolve()

	p, ok := c.Caret()
	if !ok || p.TPos != 4 {
		t.Fatalf("caret = %+v, ok=%v", p, ok)
	}
	if p.Line != 0 || p.Y != 14 {
		t.Errorf("caret resolved to line %d y %d against the new chain", p.Line, p.Y)
	}
}

func TestReresolveDropsCaretScrolledOut(t *testing.T) {
	_, lay, c := newController("aa\nbb\ncc")

	c.SetCaret(1)
	lay.Fill(0, 1000, 3)
	c.Reresolve()

	if _, ok := c.Caret(); ok {
		t.Error("caret survived scrolling out of the laid-out range")
	}
}

func TestApplyEditDirect(t *testing.T) {
	tests := []struct {
		name  string
		caret int
		ch    notify.Change
		want  int
	}{
		{"insert at caret", 5, notify.Change{From: 5, To: 5, Text: "ab", Kind: notify.KindInsert}, 7},
		{"insert after caret", 5, notify.Change{From: 6, To: 6, Text: "ab", Kind: notify.KindInsert}, 5},
		{"delete before caret", 5, notify.Change{From: 0, To: 2, Kind: notify.KindDelete}, 3},
		{"delete at caret", 5, notify.Change{From: 5, To: 7, Kind: notify.KindDelete}, 5},
		{"empty delete", 5, notify.Change{From: 3, To: 3, Kind: notify.KindDelete}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _, c := newController("0123456789")
			c.SetCaret(tt.caret)

			// apply the matching mutation so layout and change agree
			switch tt.ch.Kind {
			case notify.KindInsert:
				doc.Insert(tt.ch.From, tt.ch.Text)
			case notify.KindDelete:
				doc.Delete(tt.ch.From, tt.ch.To)
			}
			c.ApplyEdit(tt.ch)

			p, ok := c.Caret()
			if !ok || p.TPos != tt.want {
				t.Errorf("caret = %+v, ok=%v, want tpos %d", p, ok, tt.want)
			}
		})
	}
}
