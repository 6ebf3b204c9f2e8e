package piecetable

import "fmt"

// Source identifies which physical buffer a piece references.
type Source uint8

const (
	// SourceOriginal references the immutable original content buffer.
	SourceOriginal Source = iota

	// SourceAdd references the append-only add buffer.
	SourceAdd
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceOriginal:
		return "original"
	case SourceAdd:
		return "add"
	default:
		return "unknown"
	}
}

// piece describes one contiguous slice of a physical buffer.
type piece struct {
	src    Source
	start  int // offset into the physical buffer
	length int // length in bytes
}

// canMerge reports whether b directly continues a in the same buffer.
func canMerge(a, b piece) bool {
	if a.src != b.src {
		return false
	}
	return a.start+a.length == b.start
}

// location identifies where a logical offset lands in the piece sequence.
// For offset == length, index is len(pieces) and offset is 0, meaning
// "append at end".
type location struct {
	index  int // index into the piece sequence
	offset int // 0..piece.length within that piece
}

func (p piece) String() string {
	return fmt.Sprintf("%s[%d:%d]", p.src, p.start, p.start+p.length)
}
