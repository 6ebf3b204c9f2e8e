package style

import (
	"fmt"
	"sort"
)

// Run is a style over the half-open offset range [From, To).
type Run struct {
	From  int
	To    int
	Style Style
}

// Len returns the run length.
func (r Run) Len() int {
	return r.To - r.From
}

// String returns a human-readable representation of the run.
func (r Run) String() string {
	return fmt.Sprintf("(%d..%d) %s", r.From, r.To, r.Style)
}

// Overlay maintains the document's style runs.
//
// After every mutation the run set is normalized: sorted by From, mutually
// non-overlapping, gapless over [0, length) with gaps filled by the default
// style, and maximally merged (no two adjacent runs carry an equal style).
// A document of length zero holds a single empty run at the default style
// so StyleAt is always defined.
type Overlay struct {
	runs       []Run
	length     int
	def        Style
	nextInsert *Style // pending typing style, consumed by the next insert
}

// NewOverlay creates an overlay covering a document of the given length.
func NewOverlay(length int, def Style) *Overlay {
	o := &Overlay{length: length, def: def}
	o.runs = append(o.runs, Run{From: 0, To: length, Style: def})
	o.Normalize()
	return o
}

// NewOverlayWithRuns creates an overlay from pre-parsed runs, clamping each
// into [0, length] and dropping empty or inverted ranges.
func NewOverlayWithRuns(length int, def Style, runs []Run) *Overlay {
	o := &Overlay{length: length, def: def}
	for _, r := range runs {
		a := clampTo(r.From, length)
		b := clampTo(r.To, length)
		if a < b {
			o.runs = append(o.runs, Run{From: a, To: b, Style: r.Style})
		}
	}
	if len(o.runs) == 0 {
		o.runs = append(o.runs, Run{From: 0, To: length, Style: def})
	}
	o.Normalize()
	return o
}

// Default returns the overlay's default style.
func (o *Overlay) Default() Style {
	return o.def
}

// SetDefault replaces the default style used for gap filling.
func (o *Overlay) SetDefault(def Style) {
	o.def = def
}

// Len returns the covered document length.
func (o *Overlay) Len() int {
	return o.length
}

// Runs returns a copy of the current run set.
func (o *Overlay) Runs() []Run {
	out := make([]Run, len(o.runs))
	copy(out, o.runs)
	return out
}

// SetNextInsertStyle sets the pending style applied to the next insertion.
// It is consumed by exactly one insert, then cleared.
func (o *Overlay) SetNextInsertStyle(st Style) {
	o.nextInsert = &st
}

// ClearNextInsertStyle drops any pending insert style.
func (o *Overlay) ClearNextInsertStyle() {
	o.nextInsert = nil
}

// StyleAt returns the style at pos. The position is clamped into
// [0, length-1]; an empty document yields the default style.
func (o *Overlay) StyleAt(pos int) Style {
	if o.length <= 0 {
		return o.def
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= o.length {
		pos = o.length - 1
	}
	for _, r := range o.runs {
		if pos >= r.From && pos < r.To {
			return r.Style
		}
	}
	return o.def
}

// ApplyStyle transforms the style of every character in [from, to).
// Runs overlapping the range are split so their prefix and suffix keep the
// old style while the overlapped middle receives the transformed style.
func (o *Overlay) ApplyStyle(from, to int, edit Transform) {
	from = clampTo(from, o.length)
	to = clampTo(to, o.length)
	if from >= to {
		return
	}

	o.Normalize()

	out := make([]Run, 0, len(o.runs)+2)
	for _, r := range o.runs {
		if r.To <= from || r.From >= to {
			out = append(out, r)
			continue
		}

		if r.From < from {
			out = append(out, Run{From: r.From, To: from, Style: r.Style})
		}

		midFrom := max(r.From, from)
		midTo := min(r.To, to)
		out = append(out, Run{From: midFrom, To: midTo, Style: edit(r.Style)})

		if r.To > to {
			out = append(out, Run{From: to, To: r.To, Style: r.Style})
		}
	}

	o.runs = out
	o.Normalize()
}

// SetStyleRange forces the style over [from, to) to be exactly st.
func (o *Overlay) SetStyleRange(from, to int, st Style) {
	o.ApplyStyle(from, to, Constant(st))
}

// OnInsert adjusts the run set for an insertion of k bytes at pos.
// The inserted span receives the pending next-insert style if one is set
// (consumed here), otherwise the style immediately before the insertion
// point, or the default style when inserting into an empty document.
func (o *Overlay) OnInsert(pos, k int) {
	if k <= 0 {
		return
	}
	o.length += k

	inherit := o.def
	if o.nextInsert != nil {
		inherit = *o.nextInsert
	} else if o.length-k > 0 {
		inherit = o.StyleAt(max(0, pos-1))
	}

	out := make([]Run, 0, len(o.runs)+2)
	for _, r := range o.runs {
		switch {
		case r.To <= pos:
			out = append(out, r)
		case r.From >= pos:
			out = append(out, Run{From: r.From + k, To: r.To + k, Style: r.Style})
		default:
			// run straddles the insertion point; split around it
			out = append(out, Run{From: r.From, To: pos, Style: r.Style})
			out = append(out, Run{From: pos + k, To: r.To + k, Style: r.Style})
		}
	}
	out = append(out, Run{From: pos, To: pos + k, Style: inherit})

	o.runs = out
	o.Normalize()

	o.nextInsert = nil
}

// OnDelete adjusts the run set for a deletion of [from, to). Runs after the
// range shift left, runs inside it are dropped, and straddling runs are
// truncated at the boundary. A now-empty document collapses to a single
// empty run at the default style.
func (o *Overlay) OnDelete(from, to int) {
	k := to - from
	if k <= 0 {
		return
	}

	out := make([]Run, 0, len(o.runs))
	for _, r := range o.runs {
		switch {
		case r.To <= from:
			out = append(out, r)
		case r.From >= to:
			out = append(out, Run{From: r.From - k, To: r.To - k, Style: r.Style})
		default:
			if r.From < from {
				out = append(out, Run{From: r.From, To: from, Style: r.Style})
			}
			if r.To > to {
				out = append(out, Run{From: from, To: r.To - k, Style: r.Style})
			}
		}
	}

	o.length -= k
	if o.length <= 0 {
		o.length = 0
		o.runs = []Run{{From: 0, To: 0, Style: o.def}}
		return
	}

	o.runs = out
	o.Normalize()
}

// Normalize restores the run-set invariant: sorted by From, empty runs
// dropped, adjacent equal-style runs merged, coverage gaps filled with the
// default style, all bounds clamped into [0, length]. It is idempotent.
func (o *Overlay) Normalize() {
	sort.SliceStable(o.runs, func(i, j int) bool {
		return o.runs[i].From < o.runs[j].From
	})

	merged := make([]Run, 0, len(o.runs))
	for _, r := range o.runs {
		if r.From >= r.To {
			continue
		}
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.To == r.From && last.Style.Equals(r.Style) {
				last.To = r.To
				continue
			}
		}
		merged = append(merged, r)
	}

	covered := make([]Run, 0, len(merged)+2)
	cur := 0
	for _, r := range merged {
		if r.From > cur {
			covered = append(covered, Run{From: cur, To: r.From, Style: o.def})
		}
		a := clampTo(r.From, o.length)
		b := clampTo(r.To, o.length)
		if a < b {
			covered = append(covered, Run{From: a, To: b, Style: r.Style})
		}
		if b > cur {
			cur = b
		}
	}
	if cur < o.length {
		covered = append(covered, Run{From: cur, To: o.length, Style: o.def})
	}

	// gap filling can create new equal-style adjacencies
	final := covered[:0]
	for _, r := range covered {
		if n := len(final); n > 0 && final[n-1].To == r.From && final[n-1].Style.Equals(r.Style) {
			final[n-1].To = r.To
			continue
		}
		final = append(final, r)
	}

	o.runs = final
}

// DebugRuns returns a human-readable dump of the run set.
func (o *Overlay) DebugRuns() []string {
	out := make([]string, 0, len(o.runs))
	for i, r := range o.runs {
		out = append(out, fmt.Sprintf("%d: %s", i, r))
	}
	return out
}

func clampTo(pos, length int) int {
	if pos < 0 {
		return 0
	}
	if pos > length {
		return length
	}
	return pos
}
