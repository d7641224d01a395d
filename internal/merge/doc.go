// Package merge accumulates fields read from repeated OCR passes over
// the same document.
//
// For each incoming field the accumulator adds it when its name is new
// and replaces the stored field only when the incoming confidence is
// strictly greater. Merging is idempotent and the confidence stored for
// a name never decreases.
//
// The accumulator does no locking. Callers sharing a field set between
// goroutines serialise Merge calls themselves (see internal/session).
package merge
