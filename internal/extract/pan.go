package extract

import (
	"regexp"
	"strings"

	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/idscan/internal/ocrtext"
)

// PANCategoryCodes are the valid values of the 4th PAN character
// (P person, C company, H HUF, F firm, A AOP, T trust, B BOI,
// L local authority, J artificial juridical person, G government).
const PANCategoryCodes = "PCHFATBLJG"

var (
	panTokenPattern     = regexp.MustCompile(`(?i)\b([a-z]{5}\d{4}[a-z])\b`)
	panLooseToken       = regexp.MustCompile(`\b[A-Za-z0-9]{10}\b`)
	panLabelPattern     = regexp.MustCompile(`(?i)(?:permanent\s+account\s+number|\bpan\b|स्थायी लेखा संख्या)`)
	fatherLabelPattern  = regexp.MustCompile(`(?i)father['’]?s?\s*name\s*[:\-]?\s*(.*)$`)
	hindiFatherLabel    = regexp.MustCompile(`पिता\s*का\s*नाम\s*[:\-/]?\s*(.*)$`)
	fatherLinePattern   = regexp.MustCompile(`(?i)(?:father|पिता)`)
	panFalsePositives   = []string{"DEPAR", "FATHE", "BIRTH", "INCOM", "PERMA", "ACCOU", "SIGNA", "NUMBE", "GOVTO", "INDIA"}
	panDigitPositions   = [10]bool{5: true, 6: true, 7: true, 8: true}
	maxPANNameWordCount = 4
)

// PANExtractor reads fields from PAN card text.
type PANExtractor struct {
	mode Mode
	opts Options
	name nameRule
}

// NewPANExtractor creates a PAN extractor. ModeAdvanced behaves like
// ModeImproved.
func NewPANExtractor(mode Mode, opts Options) *PANExtractor {
	if mode > ModeImproved {
		mode = ModeImproved
	}
	return &PANExtractor{
		mode: mode,
		opts: opts,
		name: nameRule{minWords: 2, maxWords: maxPANNameWordCount, blacklist: opts.PANBlacklist},
	}
}

// Name returns the strategy name, e.g. "pan-improved".
func (e *PANExtractor) Name() string {
	return "pan-" + e.mode.String()
}

// Extract returns the fields found in text. lines may be nil, in which
// case they are derived from text.
func (e *PANExtractor) Extract(text string, lines []string) ([]model.ExtractedField, error) {
	if lines == nil {
		lines = ocrtext.Lines(text)
	}
	if e.mode >= ModeImproved && len(lines) < 2 {
		return nil, ErrInsufficientText
	}

	number, hasNumber := e.findNumber(lines)
	if e.mode >= ModeImproved && !hasNumber {
		return nil, ErrNoIDNumber
	}

	father, fatherLines, hasFather := e.findFather(lines)

	var fields []model.ExtractedField
	if name, ok := e.findName(lines, fatherLines); ok {
		fields = append(fields, name.field(model.FieldFirstName))
	}
	if hasFather {
		fields = append(fields, father.field(model.FieldFatherName))
	}
	if dob, ok := e.findBirthdate(lines); ok {
		fields = append(fields, dob.field(model.FieldBirthdate))
	}
	if hasNumber {
		fields = append(fields, number.field(model.FieldPANNumber))
	}

	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	return fields, nil
}

// findFather only accepts a labelled father's name. It also returns the
// line indexes the label and value occupy so positional name search can
// skip them.
func (e *PANExtractor) findFather(lines []string) (candidate, map[int]bool, bool) {
	skip := make(map[int]bool)
	for i, line := range lines {
		if fatherLinePattern.MatchString(line) {
			skip[i] = true
		}
	}

	for _, pattern := range []*regexp.Regexp{fatherLabelPattern, hindiFatherLabel} {
		if c, idx, ok := labelledValue(lines, pattern, e.name.accept); ok {
			skip[idx] = true
			return c, skip, true
		}
	}

	// Label alone on a line with the value below it: that value line is
	// not the holder's name even when it cannot be read as a name.
	for i, line := range lines {
		if skip[i] && i+1 < len(lines) && isLabelOnly(line) {
			skip[i+1] = true
		}
	}
	return candidate{}, skip, false
}

// isLabelOnly reports whether a father label line carries no value.
func isLabelOnly(line string) bool {
	for _, pattern := range []*regexp.Regexp{fatherLabelPattern, hindiFatherLabel} {
		if m := pattern.FindStringSubmatch(line); m != nil && cleanValue(m[1]) == "" {
			return true
		}
	}
	return false
}

func (e *PANExtractor) findName(lines []string, skip map[int]bool) (candidate, bool) {
	accept := func(s string) (string, bool) {
		if fatherLinePattern.MatchString(s) {
			return "", false
		}
		return e.name.accept(s)
	}
	if c, _, ok := labelledValue(lines, nameLabel, accept); ok {
		return c, true
	}
	if c, _, ok := labelledValue(lines, hindiNameLabel, accept); ok {
		return c, true
	}
	return positionalName(lines, e.opts.positionalLines(), e.name, skip)
}

func (e *PANExtractor) findBirthdate(lines []string) (candidate, bool) {
	if c, _, ok := labelledDate(lines); ok {
		return c, true
	}
	c, _, ok := anyDate(lines, ConfidencePattern)
	return c, ok
}

// findNumber locates the PAN. The improved strategy requires a valid
// category code; the basic strategy keeps a shape-only match at pattern
// confidence when no category-valid PAN exists.
func (e *PANExtractor) findNumber(lines []string) (candidate, bool) {
	var fallback *candidate
	for i, line := range lines {
		for _, m := range panTokenPattern.FindAllStringSubmatch(line, -1) {
			pan := strings.ToUpper(m[1])
			if IsPANFalsePositive(pan) {
				continue
			}
			if !HasValidPANCategory(pan) {
				if fallback == nil {
					fallback = &candidate{pan, ConfidenceGeneric}
				}
				continue
			}
			confidence := ConfidenceAnchored
			if panLabelPattern.MatchString(line) ||
				(i > 0 && panLabelPattern.MatchString(lines[i-1]) && !strings.ContainsAny(lines[i-1], "0123456789")) {
				confidence = ConfidenceLabelInline
			}
			return candidate{pan, confidence}, true
		}
	}

	if e.mode >= ModeImproved {
		for _, line := range lines {
			for _, tok := range panLooseToken.FindAllString(line, -1) {
				pan, ok := repairPANToken(tok)
				if ok && HasValidPANCategory(pan) && !IsPANFalsePositive(pan) {
					return candidate{pan, ConfidenceRepaired}, true
				}
			}
		}
		return candidate{}, false
	}

	if fallback != nil {
		return *fallback, true
	}
	return candidate{}, false
}

// HasValidPANCategory reports whether the 4th character of a 10-character
// PAN is a known holder category code.
func HasValidPANCategory(pan string) bool {
	if len(pan) != 10 {
		return false
	}
	return strings.IndexByte(PANCategoryCodes, strings.ToUpper(pan)[3]) >= 0
}

// IsPANFalsePositive reports whether a PAN-shaped token starts like one
// of the words printed on the card.
func IsPANFalsePositive(pan string) bool {
	upper := strings.ToUpper(pan)
	for _, prefix := range panFalsePositives {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// repairPANToken rewrites letter/digit confusions in a 10-character token
// by position: letters in 1-5 and 10, digits in 6-9.
func repairPANToken(tok string) (string, bool) {
	if len(tok) != 10 {
		return "", false
	}
	upper := []rune(strings.ToUpper(tok))
	for i, r := range upper {
		isDigitRune := r >= '0' && r <= '9'
		switch {
		case panDigitPositions[i] && !isDigitRune:
			d, ok := digitRepair[r]
			if !ok {
				return "", false
			}
			upper[i] = d
		case !panDigitPositions[i] && isDigitRune:
			l, ok := letterRepair[r]
			if !ok {
				return "", false
			}
			upper[i] = l
		}
	}
	pan := string(upper)
	return pan, panTokenPattern.MatchString(pan)
}
