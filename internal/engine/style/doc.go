// Package style provides per-character formatting for the document engine.
//
// A Style is an immutable value describing font family, size, weight, slant,
// underline, strikethrough and color. The Overlay maintains formatting as an
// ordered, gapless, non-overlapping set of style runs covering the document
// and keeps that invariant across arbitrary edits by re-normalizing after
// every mutation.
package style
