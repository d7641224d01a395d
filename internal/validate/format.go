package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/idscan/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format returns the canonical form of raw for fieldName. Values that
// cannot be canonicalised are returned trimmed.
func Format(fieldName, raw string) string {
	v := strings.TrimSpace(raw)
	switch fieldName {
	case model.FieldAadhaarNumber:
		return FormatAadhaar(v)
	case model.FieldPANNumber:
		return strings.ToUpper(strings.Join(strings.Fields(v), ""))
	case model.FieldMobileNumber, model.FieldZip:
		return onlyDigits(v)
	case model.FieldEmailAddress:
		return strings.ToLower(v)
	case model.FieldFirstName, model.FieldFatherName, model.FieldGender:
		return TitleCase(v)
	case model.FieldBirthdate:
		return FormatDate(v)
	default:
		return v
	}
}

// FormatAadhaar groups a 12-digit number as "XXXX XXXX XXXX".
func FormatAadhaar(raw string) string {
	digits := onlyDigits(raw)
	if len(digits) != 12 {
		return strings.TrimSpace(raw)
	}
	return digits[0:4] + " " + digits[4:8] + " " + digits[8:12]
}

// FormatDate rewrites D-M-YYYY style dates as zero-padded DD/MM/YYYY.
func FormatDate(raw string) string {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return strings.TrimSpace(raw)
	}
	day, _ := strconv.Atoi(m[1])   //nolint:errcheck // digits only
	month, _ := strconv.Atoi(m[2]) //nolint:errcheck // digits only
	return fmt.Sprintf("%02d/%02d/%s", day, month, m[3])
}

// TitleCase collapses whitespace and capitalises the first letter of each
// word, lower-casing the rest ("RAHUL  KUMAR" -> "Rahul Kumar").
func TitleCase(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	// cases.Caser keeps state, so each call gets its own.
	return cases.Title(language.Und).String(collapsed)
}
