// Package document composes the piece-table edit buffer, the style overlay
// and the change notifier into the single mutable object the rest of the
// editor works against.
//
// Every mutation follows the same discipline: the edit buffer changes
// first, the overlay is adjusted and re-normalized, and only then is the
// change published to subscribers. Observers therefore never see buffer and
// styles out of step.
//
// All offset-taking methods clamp silently into valid bounds; out-of-range
// positions are never errors.
package document
