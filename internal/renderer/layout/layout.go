// Package layout maps document offsets to a line-oriented visual layout
// and back. Lines are ephemeral records rebuilt on every edit or scroll;
// they are projections of buffer and style state, never owners of it.
package layout

import (
	"github.com/scribe-editor/scribe/internal/engine/piecetable"
	"github.com/scribe-editor/scribe/internal/engine/style"
	"github.com/scribe-editor/scribe/internal/renderer/metrics"
)

// NoLine marks an absent line index in Prev/Next links and Positions.
const NoLine = -1

// tabSpaces is the fixed tab width in space advances.
const tabSpaces = 4

// Document is the read surface the layout engine consumes.
type Document interface {
	Len() int
	CharAt(pos int) byte
	StyleAt(pos int) style.Style
}

// Line is one visual line. Prev and Next are indices into the layout's
// line slice, NoLine at the chain ends. Len includes trailing terminator
// characters (both of them for CRLF) so offset arithmetic stays
// terminator-aware; terminators are excluded from the drawn glyph range.
type Line struct {
	Org  int // document offset of the first character
	Len  int // character span, terminator included
	X    int
	Y    int
	W    int // drawn width
	H    int // max ascent+descent+leading across styles on the line, min 1
	Base int // baseline y
	Prev int
	Next int
}

// Position is a resolved coordinate: owning line index, baseline point,
// document offset, the line's origin and the offset within the line.
// Positions are valid only against the layout state that resolved them.
type Position struct {
	Line int
	X    int
	Y    int
	TPos int
	Org  int
	Off  int
}

// Layout computes and holds the visual line chain for a viewport.
type Layout struct {
	doc     Document
	metrics metrics.Provider

	lines []Line
	first int // index of the first visible line, NoLine when unfilled

	firstTpos int
	lastTpos  int

	top    int
	bottom int
	left   int
}

// New creates an unfilled layout over doc. The left margin offsets every
// line's x origin.
func New(doc Document, m metrics.Provider, left int) *Layout {
	return &Layout{doc: doc, metrics: m, left: left, first: NoLine}
}

// FirstTpos returns the first laid-out document offset.
func (l *Layout) FirstTpos() int { return l.firstTpos }

// LastTpos returns the offset just past the last laid-out character.
func (l *Layout) LastTpos() int { return l.lastTpos }

// LineCount returns the number of laid-out lines.
func (l *Layout) LineCount() int { return len(l.lines) }

// LineAt returns the line record at index i.
func (l *Layout) LineAt(i int) Line { return l.lines[i] }

// First returns the index of the first visible line, or NoLine.
func (l *Layout) First() int { return l.first }

// Filled reports whether the layout currently holds a line chain.
func (l *Layout) Filled() bool { return l.first != NoLine }

// Fill lays out lines from startTpos until the accumulated height would
// pass bottom or the document ends. The previous chain is discarded.
func (l *Layout) Fill(top, bottom, startTpos int) {
	l.top = top
	l.bottom = bottom
	l.lines = l.lines[:0]
	l.first = NoLine
	l.firstTpos = startTpos
	l.lastTpos = startTpos
	l.fillAppend(top, startTpos)
	if len(l.lines) > 0 {
		l.first = 0
	}
}

// RebuildFrom discards the chain from the anchor's line onward and lays it
// out again from that line's origin with the same bottom bound. An anchor
// with no line (or an unfilled layout) triggers a full refill.
func (l *Layout) RebuildFrom(anchor Position) {
	if !l.Filled() || anchor.Line == NoLine || anchor.Line >= len(l.lines) {
		l.Fill(l.top, l.bottom, l.firstTpos)
		return
	}

	idx := anchor.Line
	ln := l.lines[idx]
	l.lines = l.lines[:idx]
	if idx > 0 {
		l.lines[idx-1].Next = NoLine
	}
	l.lastTpos = ln.Org
	l.fillAppend(ln.Y, ln.Org)

	if len(l.lines) == 0 {
		l.first = NoLine
		return
	}
	l.first = 0
}

// fillAppend appends lines starting at document offset pos and vertical
// offset y, stopping at the bottom bound or after a terminal line.
func (l *Layout) fillAppend(y, pos int) {
	ch := l.doc.CharAt(pos)
	for y < l.bottom {
		idx := len(l.lines)
		prev := idx - 1
		if prev < 0 {
			prev = NoLine
		}

		ln := Line{Org: pos, X: l.left, Y: y, Prev: prev, Next: NoLine}

		var maxAsc, maxDes, maxLead, w int
		start := pos

		for ch != piecetable.EOF && ch != '\n' {
			st := l.doc.StyleAt(pos)
			asc, des, lead := l.metrics.LineMetrics(st)
			maxAsc = max(maxAsc, asc)
			maxDes = max(maxDes, des)
			maxLead = max(maxLead, lead)

			w += l.advanceAt(pos, ch)

			pos++
			ch = l.doc.CharAt(pos)
		}

		eol := ch == '\n'
		if eol {
			// the terminator belongs to this line's span
			pos++
			ch = l.doc.CharAt(pos)
		}

		ln.Len = pos - start
		ln.W = w
		ln.H = max(1, maxAsc+maxDes+maxLead)
		ln.Base = y + maxAsc

		if prev != NoLine {
			l.lines[prev].Next = idx
		}
		l.lines = append(l.lines, ln)

		y += ln.H
		l.lastTpos += ln.Len

		if !eol {
			break
		}
	}
}

// advanceAt returns the advance of the character at pos: four space
// advances for a tab, the provider's glyph advance otherwise.
func (l *Layout) advanceAt(pos int, ch byte) int {
	st := l.doc.StyleAt(pos)
	if ch == '\t' {
		return tabSpaces * l.metrics.Advance(' ', st)
	}
	return l.metrics.Advance(ch, st)
}

// drawEnd returns the offset just past the drawable glyphs of a line,
// excluding a trailing LF or CRLF pair from the drawn range.
func (l *Layout) drawEnd(ln Line) int {
	end := ln.Org + ln.Len
	if end >= 1 && l.doc.CharAt(end-1) == '\n' {
		if end >= 2 && l.doc.CharAt(end-2) == '\r' {
			return end - 2
		}
		return end - 1
	}
	return end
}

// terminatorLen returns the length of the line's trailing terminator:
// 2 for CRLF, 1 for a lone LF, 0 for a terminal line.
func (l *Layout) terminatorLen(ln Line) int {
	return ln.Org + ln.Len - l.drawEnd(ln)
}

// Pos resolves a document offset to a Position. The offset is clamped into
// the laid-out range; an offset past the last line pins to its end.
func (l *Layout) Pos(tpos int) Position {
	if !l.Filled() {
		return Position{Line: NoLine}
	}
	if tpos < l.firstTpos {
		tpos = l.firstTpos
	}
	if tpos > l.lastTpos {
		tpos = l.lastTpos
	}

	var pos Position
	pos.Org = l.firstTpos

	idx := l.first
	last := NoLine
	for idx != NoLine && tpos >= pos.Org+l.lines[idx].Len {
		pos.Org += l.lines[idx].Len
		last = idx
		idx = l.lines[idx].Next
	}

	if idx == NoLine {
		// past the last line: pin to its end
		ln := l.lines[last]
		pos.Line = last
		pos.Org -= ln.Len
		pos.Off = ln.Len
		pos.Y = ln.Base
		pos.X = ln.X + l.advanceRange(ln.Org, ln.Org+ln.Len)
	} else {
		ln := l.lines[idx]
		pos.Line = idx
		pos.Off = tpos - pos.Org
		pos.Y = ln.Base
		pos.X = ln.X + l.advanceRange(pos.Org, tpos)
	}

	pos.TPos = pos.Org + pos.Off
	return pos
}

// PosAt resolves a pixel coordinate to the nearest Position. The y value is
// clamped into the laid-out vertical range; an x beyond the drawn width
// snaps to end of line, excluding the terminator's characters unless the
// line ends the document.
func (l *Layout) PosAt(x, y int) Position {
	if !l.Filled() {
		return Position{Line: NoLine}
	}
	if y >= l.bottom {
		y = l.bottom - 1
	}

	var pos Position
	pos.Org = l.firstTpos

	idx := l.first
	last := NoLine
	for idx != NoLine && y >= l.lines[idx].Y+l.lines[idx].H {
		pos.Org += l.lines[idx].Len
		last = idx
		idx = l.lines[idx].Next
	}
	if idx == NoLine {
		idx = last
		pos.Org -= l.lines[last].Len
	}

	ln := l.lines[idx]
	pos.Line = idx
	pos.Y = ln.Base

	if x >= ln.X+ln.W {
		pos.X = ln.X + ln.W
		pos.Off = ln.Len
		// keep the caret out of the terminator unless this ends the document
		if pos.Org+ln.Len < l.doc.Len() {
			pos.Off -= l.terminatorLen(ln)
		}
		pos.TPos = pos.Org + pos.Off
		return pos
	}

	end := l.drawEnd(ln)
	curX := ln.X
	i := pos.Org
	for i < end {
		w := l.advanceAt(i, l.doc.CharAt(i))
		if x < curX+w {
			break
		}
		curX += w
		i++
	}

	pos.X = curX
	pos.Off = i - pos.Org
	pos.TPos = pos.Org + pos.Off
	return pos
}

// advanceRange sums glyph advances over [from, to).
func (l *Layout) advanceRange(from, to int) int {
	x := 0
	for i := from; i < to; i++ {
		x += l.advanceAt(i, l.doc.CharAt(i))
	}
	return x
}
