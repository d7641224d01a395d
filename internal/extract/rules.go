package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/idscan/internal/validate"
)

// Confidence scores by technique.
const (
	ConfidenceLabelInline   = 95 // ID number on the same line as its label
	ConfidenceLabel         = 90 // value on the same line as its label
	ConfidenceLabelNextLine = 88 // label alone on a line, value below it
	ConfidenceAnchored      = 85 // structural: grouped ID shape, name above DOB
	ConfidencePositional    = 80 // leading lines, blacklist filtered
	ConfidenceRepaired      = 78 // ID shape found after OCR confusion repair
	ConfidencePattern       = 75 // bare format match in a typed extractor
	ConfidenceGeneric       = 70 // bare format match in the generic extractor
)

// Accepted birth years during extraction. Dates outside the window are
// treated as a wrong match and dropped.
const (
	MinExtractYear = 1920
	MaxExtractYear = 2024
)

// Name word bounds.
const (
	minNameWordLength = 2
	maxNameWordLength = 20
)

var (
	datePattern     = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})\b`)
	yearPattern     = regexp.MustCompile(`\b(\d{4})\b`)
	latinNameChars  = regexp.MustCompile(`^[A-Za-z][A-Za-z.'\- ]*$`)
	dobLabelPattern = regexp.MustCompile(`(?i)(?:date\s*of\s*birth|birth\s*date|\bd\.?o\.?b\b\.?|जन्म\s*(?:तिथि|की\s*तारीख))`)
	yobLabelPattern = regexp.MustCompile(`(?i)(?:year\s*of\s*birth|\byob\b|जन्म\s*वर्ष)`)
	nameLabel       = regexp.MustCompile(`(?i)^(?:नाम\s*/\s*)?name\b\s*[:\-]?\s*(.*)$`)
	hindiNameLabel  = regexp.MustCompile(`^नाम\s*[:\-/]?\s*(.*)$`)
)

// candidate is a value located in the text together with the confidence
// of the technique that found it.
type candidate struct {
	value      string
	confidence int
}

func (c candidate) field(name string) model.ExtractedField {
	return model.NewExtractedField(name, validate.Format(name, c.value), c.confidence)
}

// nameRule describes an acceptable person name for one document type.
type nameRule struct {
	minWords  int
	maxWords  int // 0 means no upper bound
	blacklist *Blacklist
}

// accept cleans raw and reports whether it is an acceptable name.
func (r nameRule) accept(raw string) (string, bool) {
	s := cleanValue(raw)
	if s == "" || strings.ContainsAny(s, "0123456789") {
		return "", false
	}
	if !latinNameChars.MatchString(s) {
		return "", false
	}
	words := strings.Fields(s)
	if len(words) < r.minWords || (r.maxWords > 0 && len(words) > r.maxWords) {
		return "", false
	}
	for _, w := range words {
		if len(w) < minNameWordLength || len(w) > maxNameWordLength {
			return "", false
		}
	}
	if r.blacklist.Matches(s) {
		return "", false
	}
	return strings.Join(words, " "), true
}

// cleanValue trims whitespace and label punctuation around a value.
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ":;,|/\\-–_ \t")
	s = strings.TrimLeft(s, ". ")
	return strings.Join(strings.Fields(s), " ")
}

// labelledValue finds a label with pattern (one capture group holding the
// rest of the line) and returns the value after it, or the next line when
// the label stands alone.
func labelledValue(lines []string, pattern *regexp.Regexp, accept func(string) (string, bool)) (candidate, int, bool) {
	for i, line := range lines {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if rest := cleanValue(m[len(m)-1]); rest != "" {
			if v, ok := accept(rest); ok {
				return candidate{v, ConfidenceLabel}, i, true
			}
			continue
		}
		if i+1 < len(lines) {
			if v, ok := accept(lines[i+1]); ok {
				return candidate{v, ConfidenceLabelNextLine}, i + 1, true
			}
		}
	}
	return candidate{}, -1, false
}

// positionalName returns the first acceptable name among the first n
// lines, skipping indexes in skip.
func positionalName(lines []string, n int, rule nameRule, skip map[int]bool) (candidate, bool) {
	for i, line := range lines {
		if i >= n {
			break
		}
		if skip[i] {
			continue
		}
		if v, ok := rule.accept(line); ok {
			return candidate{v, ConfidencePositional}, true
		}
	}
	return candidate{}, false
}

// acceptDate checks a day/month/year triple against the extraction window
// and returns it as DD/MM/YYYY.
func acceptDate(dayStr, monthStr, yearStr string) (string, bool) {
	day, err1 := strconv.Atoi(dayStr)
	month, err2 := strconv.Atoi(monthStr)
	year, err3 := strconv.Atoi(yearStr)
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return "", false
	}
	if year < MinExtractYear || year > MaxExtractYear {
		return "", false
	}
	return validate.FormatDate(dayStr + "/" + monthStr + "/" + yearStr), true
}

// firstDate returns the first in-window date in s.
func firstDate(s string) (string, bool) {
	for _, m := range datePattern.FindAllStringSubmatch(s, -1) {
		if v, ok := acceptDate(m[1], m[2], m[3]); ok {
			return v, true
		}
	}
	return "", false
}

// firstYear returns the first in-window four-digit year in s.
func firstYear(s string) (string, bool) {
	for _, m := range yearPattern.FindAllStringSubmatch(s, -1) {
		year, err := strconv.Atoi(m[1])
		if err == nil && year >= MinExtractYear && year <= MaxExtractYear {
			return m[1], true
		}
	}
	return "", false
}

// labelledDate finds a date after a DOB label (same line or next line).
// It returns the index of the label line, or -1.
func labelledDate(lines []string) (candidate, int, bool) {
	for i, line := range lines {
		loc := dobLabelPattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if v, ok := firstDate(line[loc[1]:]); ok {
			return candidate{v, ConfidenceLabel}, i, true
		}
		if i+1 < len(lines) {
			if v, ok := firstDate(lines[i+1]); ok {
				return candidate{v, ConfidenceLabelNextLine}, i, true
			}
		}
	}
	return candidate{}, -1, false
}

// labelledYear finds a bare birth year after a "year of birth" label.
func labelledYear(lines []string) (candidate, int, bool) {
	for i, line := range lines {
		loc := yobLabelPattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if v, ok := firstYear(line[loc[1]:]); ok {
			return candidate{v, ConfidenceAnchored}, i, true
		}
		if i+1 < len(lines) {
			if v, ok := firstYear(lines[i+1]); ok {
				return candidate{v, ConfidenceAnchored}, i, true
			}
		}
	}
	return candidate{}, -1, false
}

// anyDate finds an unlabelled in-window date anywhere in lines.
func anyDate(lines []string, confidence int) (candidate, int, bool) {
	for i, line := range lines {
		if v, ok := firstDate(line); ok {
			return candidate{v, confidence}, i, true
		}
	}
	return candidate{}, -1, false
}

// digitRepair maps characters OCR commonly confuses with digits.
var digitRepair = map[rune]rune{
	'O': '0', 'o': '0', 'D': '0', 'Q': '0',
	'I': '1', 'l': '1', 'L': '1', '|': '1', 'i': '1',
	'Z': '2', 'z': '2',
	'S': '5', 's': '5',
	'G': '6', 'b': '6',
	'B': '8',
}

// letterRepair maps digits OCR commonly produces for letters.
var letterRepair = map[rune]rune{
	'0': 'O', '1': 'I', '2': 'Z', '5': 'S', '6': 'G', '8': 'B',
}

// repairDigitToken rewrites a token that is mostly digits but contains
// confusable letters. It returns the token unchanged when fewer than half
// of its characters are real digits or a character cannot be repaired.
func repairDigitToken(tok string) string {
	digits := 0
	for _, r := range tok {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits == 0 || digits == len(tok) || digits*2 < len(tok) {
		return tok
	}
	var sb strings.Builder
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9', r == '-':
			sb.WriteRune(r)
		default:
			d, ok := digitRepair[r]
			if !ok {
				return tok
			}
			sb.WriteRune(d)
		}
	}
	return sb.String()
}

// repairDigits applies repairDigitToken to every space-separated token.
func repairDigits(line string) string {
	tokens := strings.Split(line, " ")
	for i, tok := range tokens {
		tokens[i] = repairDigitToken(tok)
	}
	return strings.Join(tokens, " ")
}
