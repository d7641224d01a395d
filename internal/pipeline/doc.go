// Package pipeline turns one OCR pass into extracted fields.
//
// A Coordinator classifies the text and runs the ordered strategy chain
// registered for the resulting document type:
//
//	aadhaar: aadhaar-advanced -> aadhaar-improved -> aadhaar-basic
//	pan:     pan-improved -> pan-basic
//	unknown: generic
//
// The first strategy that returns at least one field without an error
// wins. Errors, panics and empty results move the chain to the next
// strategy; when every strategy fails the result simply has no fields.
//
// BatchProcessor runs the Coordinator over many inputs with bounded
// concurrency using errgroup.
package pipeline
