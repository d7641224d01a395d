// Package extract reads labelled fields out of OCR text.
//
// Each document type has an extractor that looks for every field with up
// to three techniques, stopping at the first hit:
//
//   - label-anchored: an explicit label ("DOB", "Father's Name", "नाम")
//     precedes the value; confidence 85 to 95
//   - positional: the first lines of the card hold the principal name;
//     boilerplate lines are rejected by a blacklist; confidence 75 to 85
//   - pattern-only: a bare format match; confidence 75 or below
//
// Extractors come in strengths (basic, improved, advanced). Stronger
// strategies do more work and refuse inputs they cannot anchor, which
// lets a coordinator fall back to a weaker strategy instead of losing the
// document. All extractors are stateless and safe for concurrent use.
package extract
