package app

import "errors"

var (
	// ErrQuit signals that the editor should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrNoFile is returned when no file argument was given.
	ErrNoFile = errors.New("file name missing")
)
