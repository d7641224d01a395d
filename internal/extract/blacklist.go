package extract

import (
	"slices"
	"strings"
	"unicode"
)

// Blacklist rejects boilerplate text (agency names, headers, gender
// words) that would otherwise be mistaken for a name.
//
// Entries made only of ASCII letters and digits match whole words of the
// candidate; every other entry (multi-word phrases, Devanagari, "s/o")
// matches as a substring. Matching is case-insensitive.
type Blacklist struct {
	phrases []string
	words   map[string]struct{}
}

// NewBlacklist builds a Blacklist from entries.
func NewBlacklist(entries ...string) *Blacklist {
	b := &Blacklist{words: make(map[string]struct{})}
	b.Add(entries...)
	return b
}

// Add appends entries to the blacklist.
func (b *Blacklist) Add(entries ...string) {
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if isPlainWord(e) {
			b.words[e] = struct{}{}
			continue
		}
		if !slices.Contains(b.phrases, e) {
			b.phrases = append(b.phrases, e)
		}
	}
}

// Len returns the number of entries.
func (b *Blacklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.phrases) + len(b.words)
}

// Matches reports whether candidate contains a blacklisted entry.
func (b *Blacklist) Matches(candidate string) bool {
	if b == nil {
		return false
	}
	lower := strings.ToLower(candidate)
	for _, p := range b.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if _, ok := b.words[w]; ok {
			return true
		}
	}
	return false
}

func isPlainWord(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// DefaultAadhaarBlacklist lists structural text printed on Aadhaar cards
// and letters.
func DefaultAadhaarBlacklist() []string {
	return []string{
		"government of india",
		"govt of india",
		"govt. of india",
		"unique identification authority",
		"भारत सरकार",
		"भारतीय विशिष्ट पहचान प्राधिकरण",
		"mera aadhaar",
		"meri pehchaan",
		"मेरा आधार",
		"मेरी पहचान",
		"आधार",
		"जन्म तिथि",
		"पुरुष",
		"महिला",
		"year of birth",
		"date of birth",
		"issue date",
		"download date",
		"s/o",
		"d/o",
		"w/o",
		"c/o",
		"government",
		"india",
		"uidai",
		"aadhaar",
		"aadhar",
		"male",
		"female",
		"transgender",
		"dob",
		"yob",
		"vid",
		"address",
		"enrolment",
		"enrollment",
		"help",
		"www",
		"father",
		"husband",
	}
}

// DefaultPANBlacklist lists structural text printed on PAN cards.
func DefaultPANBlacklist() []string {
	return []string{
		"income tax department",
		"permanent account number",
		"govt. of india",
		"govt of india",
		"government of india",
		"आयकर विभाग",
		"भारत सरकार",
		"स्थायी लेखा संख्या",
		"पिता का नाम",
		"जन्म की तारीख",
		"father's name",
		"date of birth",
		"e-pan",
		"income",
		"tax",
		"department",
		"govt",
		"government",
		"india",
		"permanent",
		"account",
		"number",
		"card",
		"signature",
		"name",
		"father",
		"dob",
		"pan",
	}
}
