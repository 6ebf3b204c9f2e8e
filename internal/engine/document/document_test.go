package document

import (
	"reflect"
	"testing"

	"github.com/scribe-editor/scribe/internal/engine/notify"
	"github.com/scribe-editor/scribe/internal/engine/style"
)

func TestInsertDeleteScenario(t *testing.T) {
	// Spec scenario: "hello" -> insert " world" -> bold [0,5) -> delete [0,6)
	d := New("hello", style.Default())

	d.Insert(5, " world")
	if d.Len() != 11 {
		t.Fatalf("expected length 11, got %d", d.Len())
	}
	if d.CharAt(5) != ' ' {
		t.Fatalf("CharAt(5) = %q, want ' '", d.CharAt(5))
	}

	d.ApplyStyle(0, 5, func(s style.Style) style.Style { return s.WithBold(true) })
	runs := d.Runs()
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %v", runs)
	}
	if !runs[0].Style.Bold || runs[0].To != 5 || runs[1].Style.Bold {
		t.Fatalf("unexpected runs: %v", runs)
	}

	d.Delete(0, 6)
	if d.Text() != "world" {
		t.Fatalf("expected 'world', got %q", d.Text())
	}
	runs = d.Runs()
	if len(runs) != 1 || runs[0].From != 0 || runs[0].To != 5 {
		t.Fatalf("expected single run [0,5), got %v", runs)
	}
	if !runs[0].Style.Equals(style.Default()) {
		t.Fatal("remaining run should carry the default style")
	}
}

func TestNextInsertStyleScenario(t *testing.T) {
	italic := style.Default().WithItalic(true)
	d := New("", style.Default())

	d.SetNextInsertStyle(italic)
	d.Insert(0, "x")
	if !d.StyleAt(0).Equals(italic) {
		t.Fatal("run [0,1) should be italic")
	}

	d.Insert(1, "y")
	runs := d.Runs()
	if len(runs) != 1 || runs[0].To != 2 || !runs[0].Style.Equals(italic) {
		t.Fatalf("expected single merged italic run [0,2), got %v", runs)
	}
}

func TestNotificationOrdering(t *testing.T) {
	d := New("abc", style.Default())

	var seen []notify.Change
	d.Subscribe(func(c notify.Change) {
		// by the time an observer runs, buffer and overlay must agree
		if d.Len() != d.overlayLenForTest() {
			t.Errorf("observer saw inconsistent state: len=%d overlay=%d", d.Len(), d.overlayLenForTest())
		}
		seen = append(seen, c)
	})

	d.Insert(3, "de")
	d.Delete(0, 2)
	d.Delete(2, 1) // inverted: no-op but still published

	want := []notify.Change{
		{From: 3, To: 3, Text: "de", Kind: notify.KindInsert},
		{From: 0, To: 2, Kind: notify.KindDelete},
		{From: 2, To: 1, Kind: notify.KindDelete},
	}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("notifications:\n got  %v\n want %v", seen, want)
	}
}

func TestInsertEmptyPublishesNothing(t *testing.T) {
	d := New("abc", style.Default())

	calls := 0
	d.Subscribe(func(notify.Change) { calls++ })
	d.Insert(1, "")

	if calls != 0 {
		t.Errorf("empty insert published %d changes", calls)
	}
}

func TestInsertDeleteInverse(t *testing.T) {
	d := New("hello world", style.Default())
	d.ApplyStyle(0, 5, func(s style.Style) style.Style { return s.WithBold(true) })

	before := d.Text()
	runsBefore := d.Runs()

	d.Insert(5, "XYZ")
	d.Delete(5, 8)

	if d.Text() != before {
		t.Errorf("text not restored: %q", d.Text())
	}
	if !reflect.DeepEqual(d.Runs(), runsBefore) {
		t.Errorf("style coverage not restored:\n got  %v\n want %v", d.Runs(), runsBefore)
	}
}

func TestFragmentRoundTrip(t *testing.T) {
	d := New("hello world", style.Default())
	d.SetStyleRange(3, 8, style.Default().WithItalic(true))

	frag := d.CopyFragment(2, 9)
	if frag.Text != "llo wor" {
		t.Fatalf("fragment text %q", frag.Text)
	}

	// per-character styles of the fragment must match the source range
	for i := 0; i < len(frag.Text); i++ {
		var fs style.Style
		found := false
		for _, r := range frag.Runs {
			if i >= r.From && i < r.To {
				fs = r.Style
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("fragment offset %d not covered by runs %v", i, frag.Runs)
		}
		if !fs.Equals(d.StyleAt(2 + i)) {
			t.Errorf("fragment style at %d differs from source", i)
		}
	}

	// re-inserting at the same spot reproduces text and styles
	d2 := New("hello world", style.Default())
	d2.SetStyleRange(3, 8, style.Default().WithItalic(true))
	d2.InsertFragment(2, frag)

	if d2.Substring(2, 9) != frag.Text {
		t.Errorf("reinserted text %q", d2.Substring(2, 9))
	}
	for i := 2; i < 9; i++ {
		if !d2.StyleAt(i).Equals(d.StyleAt(i)) {
			t.Errorf("style mismatch at %d after reinsert", i)
		}
	}
}

func TestCopyFragmentEmptyRange(t *testing.T) {
	d := New("abc", style.Default())

	frag := d.CopyFragment(2, 2)
	if !frag.IsEmpty() {
		t.Errorf("expected empty fragment, got %+v", frag)
	}

	// inserting an empty fragment is a no-op
	d.InsertFragment(1, frag)
	if d.Text() != "abc" {
		t.Errorf("empty fragment changed document: %q", d.Text())
	}
}

func TestRevisionAdvances(t *testing.T) {
	d := New("abc", style.Default())

	r0 := d.Revision()
	d.Insert(0, "x")
	r1 := d.Revision()
	d.ApplyStyle(0, 1, func(s style.Style) style.Style { return s.WithBold(true) })
	r2 := d.Revision()

	if r0 == r1 || r1 == r2 {
		t.Errorf("revision did not advance: %d %d %d", r0, r1, r2)
	}
}

func TestDocumentIdentity(t *testing.T) {
	a := New("", style.Default())
	b := New("", style.Default())

	if a.ID() == b.ID() {
		t.Error("documents must have distinct identities")
	}
}

// overlayLenForTest exposes the overlay length for the ordering test.
func (d *Document) overlayLenForTest() int {
	return d.overlay.Len()
}
