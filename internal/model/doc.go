// Package model defines the core data structures shared by idscan's
// packages.
//
// This package contains the following main types:
//   - DocumentType: Aadhaar, PAN or unknown
//   - ExtractedField: one named value with its confidence
//   - FieldSet: fields keyed by name, kept in display order
//   - ValidationResult: the outcome of checking one value
//   - ExtractionReport: a session's merged fields for report writers
//
// The models are serializable to JSON for report output and database
// storage.
package model
