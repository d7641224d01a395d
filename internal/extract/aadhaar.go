package extract

import (
	"regexp"
	"strings"

	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/idscan/internal/ocrtext"
)

// Mode is the strength of an extraction strategy.
type Mode int

const (
	// ModeBasic applies the label, positional and pattern rules only.
	ModeBasic Mode = iota

	// ModeImproved adds OCR confusion repair for ID numbers and refuses
	// texts with fewer than two lines.
	ModeImproved

	// ModeAdvanced (Aadhaar only) also requires an anchor line and prefers
	// the name printed directly above the date of birth.
	ModeAdvanced
)

// String returns the mode name used in strategy names.
func (m Mode) String() string {
	switch m {
	case ModeImproved:
		return "improved"
	case ModeAdvanced:
		return "advanced"
	default:
		return "basic"
	}
}

var (
	aadhaarGroupPattern = regexp.MustCompile(`(\d{4})[ \t\-]?(\d{4})[ \t\-]?(\d{4})`)
	aadhaarLabelPattern = regexp.MustCompile(`(?i)(?:\baadhaa?r\b|आधार)`)
	femalePattern       = regexp.MustCompile(`(?i)\bfemale\b`)
	malePattern         = regexp.MustCompile(`(?i)\bmale\b`)
	transgenderPattern  = regexp.MustCompile(`(?i)\btransgender\b`)
	genderLabelPattern  = regexp.MustCompile(`(?i)(?:\bgender\b|\bsex\b|लिंग)`)
)

// anchorNameWindow is how many lines above the DOB line the advanced
// strategy searches for the name.
const anchorNameWindow = 3

// AadhaarExtractor reads fields from Aadhaar card text.
type AadhaarExtractor struct {
	mode Mode
	opts Options
	name nameRule
}

// NewAadhaarExtractor creates an Aadhaar extractor of the given strength.
func NewAadhaarExtractor(mode Mode, opts Options) *AadhaarExtractor {
	return &AadhaarExtractor{
		mode: mode,
		opts: opts,
		name: nameRule{minWords: 2, blacklist: opts.AadhaarBlacklist},
	}
}

// Name returns the strategy name, e.g. "aadhaar-advanced".
func (e *AadhaarExtractor) Name() string {
	return "aadhaar-" + e.mode.String()
}

// Extract returns the fields found in text. lines may be nil, in which
// case they are derived from text.
func (e *AadhaarExtractor) Extract(text string, lines []string) ([]model.ExtractedField, error) {
	if lines == nil {
		lines = ocrtext.Lines(text)
	}
	if e.mode >= ModeImproved && len(lines) < 2 {
		return nil, ErrInsufficientText
	}

	number, hasNumber := e.findNumber(lines)
	dob, dobLine, hasDOB := e.findBirthdate(lines)

	if e.mode == ModeAdvanced && !hasNumber && dobLine < 0 {
		return nil, ErrNoAnchor
	}

	var fields []model.ExtractedField
	if name, ok := e.findName(lines, dobLine); ok {
		fields = append(fields, name.field(model.FieldFirstName))
	}
	if hasDOB {
		fields = append(fields, dob.field(model.FieldBirthdate))
	}
	if gender, ok := e.findGender(lines); ok {
		fields = append(fields, gender.field(model.FieldGender))
	}
	if hasNumber {
		fields = append(fields, number.field(model.FieldAadhaarNumber))
	}

	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	return fields, nil
}

// findName tries the label, then (advanced) the lines above the DOB line,
// then the leading lines of the card.
func (e *AadhaarExtractor) findName(lines []string, dobLine int) (candidate, bool) {
	if c, _, ok := labelledValue(lines, nameLabel, e.name.accept); ok {
		return c, true
	}
	if c, _, ok := labelledValue(lines, hindiNameLabel, e.name.accept); ok {
		return c, true
	}

	if e.mode == ModeAdvanced && dobLine > 0 {
		for i := dobLine - 1; i >= 0 && i >= dobLine-anchorNameWindow; i-- {
			if v, ok := e.name.accept(lines[i]); ok {
				return candidate{v, ConfidenceAnchored}, true
			}
		}
	}

	return positionalName(lines, e.opts.positionalLines(), e.name, nil)
}

// findBirthdate returns the birth date (or year) and the index of the
// line that anchors it, -1 when there is none.
func (e *AadhaarExtractor) findBirthdate(lines []string) (candidate, int, bool) {
	if c, i, ok := labelledDate(lines); ok {
		return c, i, true
	}
	if c, i, ok := labelledYear(lines); ok {
		return c, i, true
	}
	if c, i, ok := anyDate(lines, ConfidencePattern); ok {
		return c, i, true
	}
	return candidate{}, -1, false
}

// findGender applies the female-before-male priority over the whole text.
func (e *AadhaarExtractor) findGender(lines []string) (candidate, bool) {
	type option struct {
		value   string
		pattern *regexp.Regexp
		hindi   string
	}
	options := []option{
		{"Transgender", transgenderPattern, "ट्रांसजेंडर"},
		{"Female", femalePattern, "महिला"},
		{"Male", malePattern, "पुरुष"},
	}

	for _, opt := range options {
		for _, line := range lines {
			if !opt.pattern.MatchString(line) && !strings.Contains(line, opt.hindi) {
				continue
			}
			confidence := ConfidencePositional
			if genderLabelPattern.MatchString(line) || isBareGenderLine(line) {
				confidence = ConfidenceAnchored
			}
			return candidate{opt.value, confidence}, true
		}
	}
	return candidate{}, false
}

// isBareGenderLine reports whether line holds nothing but gender words,
// as in "पुरुष / MALE".
func isBareGenderLine(line string) bool {
	for _, tok := range strings.FieldsFunc(strings.ToLower(line), func(r rune) bool {
		return r == ' ' || r == '/' || r == ':' || r == '|'
	}) {
		switch tok {
		case "male", "female", "transgender", "पुरुष", "महिला", "ट्रांसजेंडर":
		default:
			return false
		}
	}
	return true
}

// findNumber locates the 12-digit Aadhaar number.
func (e *AadhaarExtractor) findNumber(lines []string) (candidate, bool) {
	for i, line := range lines {
		digits, grouped, ok := firstAadhaarNumber(line)
		if !ok {
			continue
		}
		switch {
		case aadhaarLabelPattern.MatchString(line):
			return candidate{digits, ConfidenceLabelInline}, true
		case i > 0 && aadhaarLabelPattern.MatchString(lines[i-1]) && !strings.ContainsAny(lines[i-1], "0123456789"):
			return candidate{digits, ConfidenceLabel}, true
		case grouped:
			return candidate{digits, ConfidenceAnchored}, true
		default:
			return candidate{digits, ConfidencePattern}, true
		}
	}

	if e.mode >= ModeImproved {
		for _, line := range lines {
			if digits, _, ok := firstAadhaarNumber(repairDigits(line)); ok {
				return candidate{digits, ConfidenceRepaired}, true
			}
		}
	}
	return candidate{}, false
}

// firstAadhaarNumber returns the first isolated, non-zero 12-digit number
// in line and whether it was printed in separated groups.
func firstAadhaarNumber(line string) (string, bool, bool) {
	for _, loc := range aadhaarGroupPattern.FindAllStringSubmatchIndex(line, -1) {
		if !isolatedNumber(line, loc[0], loc[1]) {
			continue
		}
		digits := line[loc[2]:loc[3]] + line[loc[4]:loc[5]] + line[loc[6]:loc[7]]
		if strings.Trim(digits, "0") == "" {
			continue
		}
		grouped := loc[1]-loc[0] > 12
		return digits, grouped, true
	}
	return "", false, false
}

// isolatedNumber reports whether line[start:end] is not part of a longer
// digit run such as a 16-digit VID.
func isolatedNumber(line string, start, end int) bool {
	if start > 0 {
		prev := line[start-1]
		if isDigit(prev) {
			return false
		}
		if (prev == ' ' || prev == '-') && start > 1 && isDigit(line[start-2]) {
			return false
		}
	}
	if end < len(line) {
		next := line[end]
		if isDigit(next) {
			return false
		}
		if (next == ' ' || next == '-') && end+1 < len(line) && isDigit(line[end+1]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
