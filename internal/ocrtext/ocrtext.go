// Package ocrtext prepares raw OCR output for classification and
// extraction: Unicode normalisation, whitespace cleanup, line splitting
// and content fingerprints.
package ocrtext

import (
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reMultiSpace = regexp.MustCompile(`[ \t\x{00A0}\x{2007}\x{202F}]+`)
	reZeroWidth  = regexp.MustCompile(`[\x{200B}\x{FEFF}]`)
)

// Normalize returns text in NFC form with unified line breaks, zero-width
// characters removed and runs of blanks collapsed to a single space.
// Line structure is kept because line order is positional evidence.
func Normalize(text string) string {
	if text == "" {
		return text
	}
	s := norm.NFC.String(text)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reZeroWidth.ReplaceAllString(s, "")
	s = reMultiSpace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Lines splits text on line breaks, trims each line and drops blank ones.
func Lines(text string) []string {
	raw := strings.Split(reCRLF.ReplaceAllString(text, "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Fingerprint returns the hex BLAKE2b-256 digest of the normalised text.
// Two OCR passes that read identical text share a fingerprint.
func Fingerprint(text string) string {
	sum := blake2b.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}
