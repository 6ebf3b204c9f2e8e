package piecetable

import (
	"fmt"
	"strings"
)

// EOF is the sentinel byte returned by CharAt for out-of-range offsets.
const EOF byte = 0

// Table is a piece-table edit buffer.
// The zero value is not usable; construct with New.
type Table struct {
	original string          // immutable original content
	add      strings.Builder // append-only buffer for inserted text
	pieces   []piece
	length   int
}

// New creates a table holding the given original content.
func New(original string) *Table {
	t := &Table{
		original: original,
		length:   len(original),
	}
	if t.length > 0 {
		t.pieces = append(t.pieces, piece{src: SourceOriginal, start: 0, length: t.length})
	}
	return t
}

// Len returns the logical document length in bytes.
func (t *Table) Len() int {
	return t.length
}

// CharAt returns the byte at the given logical offset, or EOF when the
// offset is outside [0, Len()).
func (t *Table) CharAt(pos int) byte {
	if pos < 0 || pos >= t.length {
		return EOF
	}

	cur := 0
	for _, p := range t.pieces {
		next := cur + p.length
		if pos < next {
			idx := p.start + (pos - cur)
			if p.src == SourceOriginal {
				return t.original[idx]
			}
			return t.add.String()[idx]
		}
		cur = next
	}
	return EOF
}

// Substring returns the text in [from, to), with both bounds clamped.
func (t *Table) Substring(from, to int) string {
	from = t.clamp(from)
	to = t.clamp(to)
	if from >= to {
		return ""
	}

	var sb strings.Builder
	sb.Grow(to - from)

	cur := 0
	for _, p := range t.pieces {
		next := cur + p.length
		if next <= from {
			cur = next
			continue
		}
		if cur >= to {
			break
		}

		a := max(from, cur)
		b := min(to, next)
		src := t.buffer(p.src)
		sb.WriteString(src[p.start+(a-cur) : p.start+(b-cur)])
		cur = next
	}
	return sb.String()
}

// String returns the full logical content.
func (t *Table) String() string {
	return t.Substring(0, t.length)
}

// Insert inserts text at pos. The position is clamped into [0, Len()].
// Empty text is a no-op.
func (t *Table) Insert(pos int, text string) {
	if text == "" {
		return
	}
	pos = t.clamp(pos)

	addStart := t.add.Len()
	t.add.WriteString(text)
	ins := piece{src: SourceAdd, start: addStart, length: len(text)}

	loc := t.locate(pos)
	if loc.index < len(t.pieces) {
		t.splitAt(loc)
		loc = t.locate(pos)
	}

	t.pieces = append(t.pieces, piece{})
	copy(t.pieces[loc.index+1:], t.pieces[loc.index:])
	t.pieces[loc.index] = ins

	t.length += len(text)
	t.mergeAround(loc.index)
}

// Delete removes the text in [from, to). Bounds are clamped; an empty or
// inverted range is a no-op.
func (t *Table) Delete(from, to int) {
	from = t.clamp(from)
	to = t.clamp(to)
	if from >= to {
		return
	}

	// Split at both bounds so the deleted range aligns with whole pieces.
	if loc := t.locate(from); loc.index < len(t.pieces) {
		t.splitAt(loc)
	}
	if loc := t.locate(to); loc.index < len(t.pieces) {
		t.splitAt(loc)
	}

	start := t.locate(from).index
	end := t.locate(to).index

	removed := 0
	for i := start; i < end; i++ {
		removed += t.pieces[i].length
	}
	if start < end {
		t.pieces = append(t.pieces[:start], t.pieces[end:]...)
	}

	t.length -= removed
	t.mergeAround(start)
}

// PieceCount returns the current number of pieces.
func (t *Table) PieceCount() int {
	return len(t.pieces)
}

// DebugPieces returns a human-readable dump of the piece sequence.
func (t *Table) DebugPieces() []string {
	out := make([]string, 0, len(t.pieces))
	for i, p := range t.pieces {
		out = append(out, fmt.Sprintf("%d: %s len=%d", i, p, p.length))
	}
	return out
}

func (t *Table) buffer(src Source) string {
	if src == SourceOriginal {
		return t.original
	}
	return t.add.String()
}

func (t *Table) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > t.length {
		return t.length
	}
	return pos
}

// locate finds the piece containing the logical position.
func (t *Table) locate(pos int) location {
	cur := 0
	for i, p := range t.pieces {
		next := cur + p.length
		if pos < next {
			return location{index: i, offset: pos - cur}
		}
		cur = next
	}
	return location{index: len(t.pieces), offset: 0}
}

// splitAt splits the piece at loc into two, leaving the boundary between
// them at the located position. Offsets at a piece edge need no split.
func (t *Table) splitAt(loc location) {
	if loc.index < 0 || loc.index >= len(t.pieces) {
		return
	}
	p := t.pieces[loc.index]
	off := loc.offset
	if off <= 0 || off >= p.length {
		return
	}

	left := piece{src: p.src, start: p.start, length: off}
	right := piece{src: p.src, start: p.start + off, length: p.length - off}

	t.pieces[loc.index] = left
	t.pieces = append(t.pieces, piece{})
	copy(t.pieces[loc.index+2:], t.pieces[loc.index+1:])
	t.pieces[loc.index+1] = right
}

// mergeAround merges the piece at idx with its neighbors where the pieces
// reference physically contiguous ranges of the same buffer.
func (t *Table) mergeAround(idx int) {
	if idx < 0 {
		return
	}

	if idx > 0 && idx < len(t.pieces) {
		prev := t.pieces[idx-1]
		cur := t.pieces[idx]
		if canMerge(prev, cur) {
			t.pieces[idx-1].length += cur.length
			t.pieces = append(t.pieces[:idx], t.pieces[idx+1:]...)
			idx--
		}
	}

	if idx >= 0 && idx+1 < len(t.pieces) {
		cur := t.pieces[idx]
		next := t.pieces[idx+1]
		if canMerge(cur, next) {
			t.pieces[idx].length += next.length
			t.pieces = append(t.pieces[:idx+1], t.pieces[idx+2:]...)
		}
	}
}
