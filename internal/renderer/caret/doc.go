// Package caret owns the caret and selection state of a view: a state
// machine over no-caret, caret-only and range-selection, resolved against
// the current line layout. It implements word-boundary selection, drag
// extension with a stable anchor, typing-style inheritance for formatting
// commands, and remapping of saved offsets across buffer edits.
package caret
