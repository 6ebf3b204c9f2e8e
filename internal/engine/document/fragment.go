package document

import "github.com/scribe-editor/scribe/internal/engine/style"

// Fragment is a self-contained styled excerpt. Run bounds are relative to
// the fragment's own start, so a fragment can be re-inserted anywhere,
// including into a different document.
type Fragment struct {
	Text string
	Runs []style.Run
}

// IsEmpty reports whether the fragment carries no text.
func (f Fragment) IsEmpty() bool {
	return f.Text == ""
}

// CopyFragment extracts [from, to) as a fragment. Bounds are clamped; an
// empty range yields an empty fragment. The fragment always carries at
// least one run when it carries text.
func (d *Document) CopyFragment(from, to int) Fragment {
	d.mu.RLock()
	defer d.mu.RUnlock()

	from = clamp(from, d.table.Len())
	to = clamp(to, d.table.Len())
	if from >= to {
		return Fragment{}
	}

	text := d.table.Substring(from, to)

	var runs []style.Run
	for _, r := range d.overlay.Runs() {
		if r.To <= from {
			continue
		}
		if r.From >= to {
			break
		}
		a := max(from, r.From)
		b := min(to, r.To)
		if a < b {
			runs = append(runs, style.Run{From: a - from, To: b - from, Style: r.Style})
		}
	}

	if len(runs) == 0 {
		runs = append(runs, style.Run{From: 0, To: len(text), Style: d.overlay.Default()})
	}
	return Fragment{Text: text, Runs: runs}
}

// InsertFragment inserts the fragment's text at pos and re-anchors its runs
// over the inserted region. Empty fragments are a no-op.
func (d *Document) InsertFragment(pos int, frag Fragment) {
	if frag.IsEmpty() {
		return
	}

	d.mu.RLock()
	pos = clamp(pos, d.table.Len())
	d.mu.RUnlock()

	d.Insert(pos, frag.Text)

	for _, r := range frag.Runs {
		a := pos + max(0, r.From)
		b := pos + min(len(frag.Text), r.To)
		if a < b {
			d.SetStyleRange(a, b, r.Style)
		}
	}
}
