package model

import (
	"fmt"
	"strings"
)

// DocumentType is the classification result for one OCR pass.
// It is recomputed for every pass and never stored on its own.
type DocumentType int

const (
	// DocumentUnknown means no known layout won the classification.
	// Unknown is a valid outcome that routes text to the generic extractor.
	DocumentUnknown DocumentType = iota

	// DocumentAadhaar is the Indian national identity card.
	DocumentAadhaar

	// DocumentPAN is the Indian income tax Permanent Account Number card.
	DocumentPAN
)

// String returns the lower-case name used in reports and the database.
func (d DocumentType) String() string {
	switch d {
	case DocumentAadhaar:
		return "aadhaar"
	case DocumentPAN:
		return "pan"
	default:
		return "unknown"
	}
}

// DisplayName returns the name printed on the card itself.
func (d DocumentType) DisplayName() string {
	switch d {
	case DocumentAadhaar:
		return "Aadhaar"
	case DocumentPAN:
		return "PAN"
	default:
		return "Unknown"
	}
}

// ParseDocumentType converts a stored name back into a DocumentType.
// Matching is case-insensitive; unrecognised names are an error.
func ParseDocumentType(s string) (DocumentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aadhaar", "aadhar":
		return DocumentAadhaar, nil
	case "pan":
		return DocumentPAN, nil
	case "unknown", "":
		return DocumentUnknown, nil
	default:
		return DocumentUnknown, fmt.Errorf("unknown document type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d DocumentType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DocumentType) UnmarshalText(text []byte) error {
	parsed, err := ParseDocumentType(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
