// Package piecetable implements the document edit buffer as a piece table.
//
// Content is stored as an ordered sequence of pieces, each referencing a
// contiguous slice of one of two physical buffers: the immutable original
// content and an append-only add buffer. Inserts and deletes manipulate the
// piece sequence only; unchanged content is never copied.
//
// Pieces referencing the same physical buffer over physically contiguous
// ranges are merged eagerly after every mutation, which keeps the piece
// count proportional to the number of edits rather than to document size.
//
// All offset-taking operations clamp silently into valid bounds. CharAt
// returns the EOF sentinel for out-of-range offsets so callers can probe
// one past the end without branching.
package piecetable
