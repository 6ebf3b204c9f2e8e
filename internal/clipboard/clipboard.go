// Package clipboard provides the process-wide styled-fragment store used
// by cut, copy and paste. It is a capability passed to the components
// that need it rather than ambient global state.
package clipboard

import (
	"sync"

	"github.com/google/uuid"

	"github.com/scribe-editor/scribe/internal/engine/document"
)

// Clipboard is a single-slot store for one styled fragment. Every Set
// overwrites the previous content; readers receive whatever was last
// written. A monotonic paste counter is kept for diagnostics.
type Clipboard interface {
	// Set stores a fragment, recording which document produced it.
	Set(frag document.Fragment, source uuid.UUID)
	// Get returns the stored fragment and whether one is present.
	Get() (document.Fragment, bool)
	// HasContent reports whether a non-empty fragment is stored.
	HasContent() bool
	// IncPasteCount bumps the paste counter and returns the new value.
	IncPasteCount() int
	// PasteCount returns the number of pastes since process start.
	PasteCount() int
	// Source returns the identity of the document the content came from.
	Source() uuid.UUID
}

// Memory is the in-process Clipboard implementation.
type Memory struct {
	mu     sync.Mutex
	frag   document.Fragment
	source uuid.UUID
	filled bool
	pastes int
}

// NewMemory returns an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Set(frag document.Fragment, source uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frag = frag
	m.source = source
	m.filled = true
}

func (m *Memory) Get() (document.Fragment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frag, m.filled
}

func (m *Memory) HasContent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filled && m.frag.Text != ""
}

func (m *Memory) IncPasteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pastes++
	return m.pastes
}

func (m *Memory) PasteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pastes
}

func (m *Memory) Source() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}
