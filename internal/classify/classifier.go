// Package classify decides which identity document an OCR text came from.
//
// Two weighted keyword tables compete: one for Aadhaar and one for PAN.
// The text is lower-cased once, every keyword found as a substring adds
// its weight, and ID number shapes add a fixed bonus. A type wins only
// when it reaches its threshold and strictly beats the other; anything
// else is Unknown. Classification never fails.
package classify

import (
	"regexp"
	"strings"

	"github.com/nao1215/idscan/internal/model"
)

var (
	// aadhaarNumberPattern matches 4-4-4 digit groups with optional separators.
	aadhaarNumberPattern = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)

	// panNumberPattern matches five letters, four digits and a letter.
	panNumberPattern = regexp.MustCompile(`(?i)\b[a-z]{5}\d{4}[a-z]\b`)
)

// Scores holds the per-type evidence totals for one text.
type Scores struct {
	Aadhaar int `json:"aadhaar"`
	PAN     int `json:"pan"`
}

// Classifier scores text against a Rules table. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	rules Rules
}

// New creates a Classifier using rules. The table is copied.
func New(rules Rules) *Classifier {
	return &Classifier{rules: rules.Clone()}
}

// NewDefault creates a Classifier using DefaultRules.
func NewDefault() *Classifier {
	return New(DefaultRules())
}

// Rules returns a copy of the policy table in use.
func (c *Classifier) Rules() Rules {
	return c.rules.Clone()
}

// Score computes the Aadhaar and PAN scores for text.
func (c *Classifier) Score(text string) Scores {
	lower := strings.ToLower(text)

	var s Scores
	for keyword, weight := range c.rules.AadhaarKeywords {
		if keyword != "" && strings.Contains(lower, keyword) {
			s.Aadhaar += weight
		}
	}
	for keyword, weight := range c.rules.PANKeywords {
		if keyword != "" && strings.Contains(lower, keyword) {
			s.PAN += weight
		}
	}

	if aadhaarNumberPattern.MatchString(text) {
		s.Aadhaar += c.rules.AadhaarPatternBonus
	}
	if panNumberPattern.MatchString(text) {
		s.PAN += c.rules.PANPatternBonus
	}
	return s
}

// Classify returns the best-supported document type for text.
func (c *Classifier) Classify(text string) model.DocumentType {
	return c.Decide(c.Score(text))
}

// Decide applies the threshold rule to precomputed scores. Equal scores
// never produce a verdict.
func (c *Classifier) Decide(s Scores) model.DocumentType {
	switch {
	case s.Aadhaar >= c.rules.AadhaarThreshold && s.Aadhaar > s.PAN:
		return model.DocumentAadhaar
	case s.PAN >= c.rules.PANThreshold && s.PAN > s.Aadhaar:
		return model.DocumentPAN
	default:
		return model.DocumentUnknown
	}
}
