package document

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/scribe-editor/scribe/internal/engine/notify"
	"github.com/scribe-editor/scribe/internal/engine/piecetable"
	"github.com/scribe-editor/scribe/internal/engine/style"
)

// EOF is the sentinel byte CharAt returns past either end of the document.
const EOF = piecetable.EOF

// RevisionID identifies one document revision. Every successful mutation
// produces a new revision.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

// Document is a styled text document.
// All methods are safe for concurrent use, though the editor drives the
// document from a single event loop.
type Document struct {
	mu       sync.RWMutex
	id       uuid.UUID
	table    *piecetable.Table
	overlay  *style.Overlay
	notifier *notify.Notifier
	revision RevisionID
}

// New creates a document with the given initial content and default style.
func New(text string, def style.Style) *Document {
	return &Document{
		id:       uuid.New(),
		table:    piecetable.New(text),
		overlay:  style.NewOverlay(len(text), def),
		notifier: notify.New(),
		revision: NewRevisionID(),
	}
}

// NewWithRuns creates a document whose styling comes from pre-parsed runs,
// as produced by the persistence codec. Run bounds are clamped to the text.
func NewWithRuns(text string, def style.Style, runs []style.Run) *Document {
	return &Document{
		id:       uuid.New(),
		table:    piecetable.New(text),
		overlay:  style.NewOverlayWithRuns(len(text), def, runs),
		notifier: notify.New(),
		revision: NewRevisionID(),
	}
}

// ID returns the document's identity.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Revision returns the current revision ID.
func (d *Document) Revision() RevisionID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// Subscribe registers an observer for edit notifications.
func (d *Document) Subscribe(obs notify.Observer) *notify.Subscription {
	return d.notifier.Subscribe(obs)
}

// Len returns the document length in bytes.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.table.Len()
}

// CharAt returns the byte at pos, or EOF outside [0, Len()).
func (d *Document) CharAt(pos int) byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.table.CharAt(pos)
}

// Substring returns the text in [from, to), clamped.
func (d *Document) Substring(from, to int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.table.Substring(from, to)
}

// Text returns the full document content.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.table.String()
}

// DefaultStyle returns the document's default style.
func (d *Document) DefaultStyle() style.Style {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.overlay.Default()
}

// SetDefaultStyle replaces the default style used for gap filling.
func (d *Document) SetDefaultStyle(st style.Style) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.overlay.SetDefault(st)
}

// StyleAt returns the style at pos, clamped into the document.
func (d *Document) StyleAt(pos int) style.Style {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.overlay.StyleAt(pos)
}

// Runs returns a copy of the normalized style run set.
func (d *Document) Runs() []style.Run {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.overlay.Runs()
}

// SetNextInsertStyle sets the pending style consumed by the next insertion.
func (d *Document) SetNextInsertStyle(st style.Style) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.overlay.SetNextInsertStyle(st)
}

// Insert inserts text at pos (clamped). Empty text is a no-op and publishes
// nothing. Observers are notified after buffer and overlay agree.
func (d *Document) Insert(pos int, text string) {
	if text == "" {
		return
	}

	d.mu.Lock()
	if pos < 0 {
		pos = 0
	}
	if pos > d.table.Len() {
		pos = d.table.Len()
	}
	d.table.Insert(pos, text)
	d.overlay.OnInsert(pos, len(text))
	d.revision = NewRevisionID()
	d.mu.Unlock()

	d.notifier.Publish(notify.Change{From: pos, To: pos, Text: text, Kind: notify.KindInsert})
}

// Delete removes [from, to), clamped. An empty or inverted range mutates
// nothing but still publishes, so listeners can refresh uniformly.
func (d *Document) Delete(from, to int) {
	d.mu.Lock()
	from = clamp(from, d.table.Len())
	to = clamp(to, d.table.Len())
	if from >= to {
		d.mu.Unlock()
		d.notifier.Publish(notify.Change{From: from, To: to, Kind: notify.KindDelete})
		return
	}

	d.table.Delete(from, to)
	d.overlay.OnDelete(from, to)
	d.revision = NewRevisionID()
	d.mu.Unlock()

	d.notifier.Publish(notify.Change{From: from, To: to, Kind: notify.KindDelete})
}

// ApplyStyle transforms the style of every character in [from, to).
func (d *Document) ApplyStyle(from, to int, edit style.Transform) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.overlay.ApplyStyle(from, to, edit)
	d.revision = NewRevisionID()
}

// SetStyleRange forces the style over [from, to) to be exactly st.
func (d *Document) SetStyleRange(from, to int, st style.Style) {
	d.ApplyStyle(from, to, style.Constant(st))
}

// DebugPieces exposes the piece table dump for diagnostics.
func (d *Document) DebugPieces() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.table.DebugPieces()
}

// DebugRuns exposes the style run dump for diagnostics.
func (d *Document) DebugRuns() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.overlay.DebugRuns()
}

func clamp(pos, length int) int {
	if pos < 0 {
		return 0
	}
	if pos > length {
		return length
	}
	return pos
}
