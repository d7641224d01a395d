package extract

import (
	"regexp"
	"strings"

	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/idscan/internal/ocrtext"
)

var (
	mobilePattern      = regexp.MustCompile(`\b[6-9]\d{9}\b`)
	mobileLabelPattern = regexp.MustCompile(`(?i)(?:\bmobile\b|\bmob\b|\bphone\b|\bcontact\b|मोबाइल)`)
	emailPattern       = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	emailLabelPattern  = regexp.MustCompile(`(?i)(?:e-?mail|ईमेल)`)
	pinPattern         = regexp.MustCompile(`\b\d{6}\b`)
	pinLabelPattern    = regexp.MustCompile(`(?i)(?:\bpin\s*code\b|\bpincode\b|\bpin\b|\bpostal\s*code\b|पिन)`)
)

// Detector finds one field in text that matched no known document type.
type Detector interface {
	// FieldName returns the field the detector produces.
	FieldName() string

	// Detect returns the field when found.
	Detect(lines []string) (model.ExtractedField, bool)
}

// GenericExtractor runs a list of detectors over unrecognised text.
type GenericExtractor struct {
	detectors []Detector
}

// NewGenericExtractor creates a generic extractor with the built-in
// detectors registered: mobile number, email address, PIN code, date of
// birth and labelled name.
func NewGenericExtractor(opts Options) *GenericExtractor {
	g := &GenericExtractor{}
	g.Register(mobileDetector{})
	g.Register(emailDetector{})
	g.Register(pinDetector{})
	g.Register(dateDetector{})
	g.Register(nameDetector{rule: nameRule{minWords: 2, blacklist: opts.GenericBlacklist}})
	return g
}

// Register appends a detector. Detectors run in registration order.
func (g *GenericExtractor) Register(d Detector) {
	g.detectors = append(g.detectors, d)
}

// Detectors returns the names of the registered detectors' fields.
func (g *GenericExtractor) Detectors() []string {
	names := make([]string, len(g.detectors))
	for i, d := range g.detectors {
		names[i] = d.FieldName()
	}
	return names
}

// Name returns "generic".
func (g *GenericExtractor) Name() string {
	return "generic"
}

// Extract runs every detector and returns what they found. A field name
// is reported once even when two detectors produce it.
func (g *GenericExtractor) Extract(text string, lines []string) ([]model.ExtractedField, error) {
	if lines == nil {
		lines = ocrtext.Lines(text)
	}

	seen := make(map[string]bool)
	var fields []model.ExtractedField
	for _, d := range g.detectors {
		f, ok := d.Detect(lines)
		if !ok || seen[f.FieldName] {
			continue
		}
		seen[f.FieldName] = true
		fields = append(fields, f)
	}

	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	return fields, nil
}

// labelledOrBare returns the first match of pattern on a line carrying
// label, else the first bare match, with matching confidences.
func labelledOrBare(lines []string, label, pattern *regexp.Regexp, accept func(string) bool) (candidate, bool) {
	var bare *candidate
	for _, line := range lines {
		for _, m := range pattern.FindAllString(line, -1) {
			if !accept(m) {
				continue
			}
			if label.MatchString(line) {
				return candidate{m, ConfidenceAnchored}, true
			}
			if bare == nil {
				bare = &candidate{m, ConfidenceGeneric}
			}
		}
	}
	if bare != nil {
		return *bare, true
	}
	return candidate{}, false
}

type mobileDetector struct{}

func (mobileDetector) FieldName() string { return model.FieldMobileNumber }

func (d mobileDetector) Detect(lines []string) (model.ExtractedField, bool) {
	c, ok := labelledOrBare(lines, mobileLabelPattern, mobilePattern, func(string) bool { return true })
	if !ok {
		return model.ExtractedField{}, false
	}
	return c.field(d.FieldName()), true
}

type emailDetector struct{}

func (emailDetector) FieldName() string { return model.FieldEmailAddress }

func (d emailDetector) Detect(lines []string) (model.ExtractedField, bool) {
	c, ok := labelledOrBare(lines, emailLabelPattern, emailPattern, func(string) bool { return true })
	if !ok {
		return model.ExtractedField{}, false
	}
	if c.confidence == ConfidenceGeneric {
		// Bare addresses rank at typed-extractor pattern confidence.
		c.confidence = ConfidencePattern
	}
	return c.field(d.FieldName()), true
}

// pinDetector skips numbers starting with 19 or 20, which are usually the
// head of a year inside a longer numeral run. Real PIN codes in that
// range are missed.
type pinDetector struct{}

func (pinDetector) FieldName() string { return model.FieldZip }

func (d pinDetector) Detect(lines []string) (model.ExtractedField, bool) {
	c, ok := labelledOrBare(lines, pinLabelPattern, pinPattern, IsPlausiblePIN)
	if !ok {
		return model.ExtractedField{}, false
	}
	return c.field(d.FieldName()), true
}

// IsPlausiblePIN reports whether a 6-digit string may be a PIN code.
func IsPlausiblePIN(s string) bool {
	return len(s) == 6 && !strings.HasPrefix(s, "19") && !strings.HasPrefix(s, "20")
}

type dateDetector struct{}

func (dateDetector) FieldName() string { return model.FieldBirthdate }

func (d dateDetector) Detect(lines []string) (model.ExtractedField, bool) {
	if c, _, ok := labelledDate(lines); ok {
		return c.field(d.FieldName()), true
	}
	if c, _, ok := anyDate(lines, ConfidenceGeneric); ok {
		return c.field(d.FieldName()), true
	}
	return model.ExtractedField{}, false
}

// nameDetector only reports labelled names; unrecognised layouts give no
// positional evidence.
type nameDetector struct {
	rule nameRule
}

func (nameDetector) FieldName() string { return model.FieldFirstName }

func (d nameDetector) Detect(lines []string) (model.ExtractedField, bool) {
	c, _, ok := labelledValue(lines, nameLabel, d.rule.accept)
	if !ok {
		return model.ExtractedField{}, false
	}
	// Labelled names in free text rank below labels on a known card.
	c.confidence = ConfidenceAnchored
	return c.field(d.FieldName()), true
}
