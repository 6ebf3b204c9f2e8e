// Package backend provides the terminal rendering surface and input
// events for the editor. It wraps tcell behind a small Screen type,
// supplies a cell-based metrics provider so the layout engine can work
// in terminal units, and renders a laid-out document with its caret and
// selection.
package backend
