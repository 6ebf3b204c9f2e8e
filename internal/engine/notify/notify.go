// Package notify delivers edit notifications to document subscribers.
//
// Delivery is synchronous and ordered: the document publishes a change only
// after the edit buffer and style overlay have finished normalizing, so no
// observer ever sees a transiently inconsistent state.
package notify

import (
	"fmt"
	"sync"
)

// Kind distinguishes the two edit shapes a document can publish.
type Kind uint8

const (
	// KindInsert indicates text was inserted at From (From == To).
	KindInsert Kind = iota

	// KindDelete indicates the range [From, To) was removed. A delete with
	// From == To is a published no-op; it still reaches observers.
	KindDelete
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change describes one document edit.
//
// For inserts From == To and Text holds the inserted content. For deletes
// Text is empty and the kind alone marks the payload as absent, which keeps
// a deletion distinguishable from a zero-length insert.
type Change struct {
	From int
	To   int
	Text string
	Kind Kind
}

// Delta returns the change in document length caused by the edit.
func (c Change) Delta() int {
	if c.Kind == KindInsert {
		return len(c.Text)
	}
	return -(c.To - c.From)
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	if c.Kind == KindInsert {
		return fmt.Sprintf("insert(%d, %q)", c.From, c.Text)
	}
	return fmt.Sprintf("delete[%d,%d)", c.From, c.To)
}

// Observer is called for every published change.
type Observer func(Change)

// Subscription represents an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes the subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
		s.notifier = nil
	}
}

// Notifier manages change subscriptions for one document.
type Notifier struct {
	mu        sync.RWMutex
	observers []entry
	nextID    uint64
}

type entry struct {
	id       uint64
	observer Observer
}

// New creates an empty notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer. Observers are invoked in subscription
// order on the publishing goroutine.
func (n *Notifier) Subscribe(obs Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.observers = append(n.observers, entry{id: n.nextID, observer: obs})
	return &Subscription{id: n.nextID, notifier: n}
}

// Publish delivers the change to all observers synchronously.
func (n *Notifier) Publish(c Change) {
	n.mu.RLock()
	observers := make([]Observer, 0, len(n.observers))
	for _, e := range n.observers {
		observers = append(observers, e.observer)
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(c)
	}
}

// Count returns the number of active subscriptions.
func (n *Notifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.observers)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.observers {
		if e.id == id {
			n.observers = append(n.observers[:i], n.observers[i+1:]...)
			return
		}
	}
}
