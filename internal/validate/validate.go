// Package validate holds the per-field syntactic validators and canonical
// formatters. Every function is pure and safe for concurrent use.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/idscan/internal/model"
)

var (
	panPattern    = regexp.MustCompile(`(?i)^[A-Z]{5}\d{4}[A-Z]$`)
	mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	pinPattern    = regexp.MustCompile(`^\d{6}$`)
	emailPattern  = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)*\.[A-Za-z]{2,}$`)
	namePattern   = regexp.MustCompile(`^[\p{L}\p{M}\s.'\-]+$`)
)

// Name length bounds, in characters.
const (
	MinNameLength = 2
	MaxNameLength = 100
)

// Validate checks raw against the rules for fieldName. Field names
// without rules are always valid.
func Validate(fieldName, raw string) model.ValidationResult {
	switch fieldName {
	case model.FieldAadhaarNumber:
		return Aadhaar(raw)
	case model.FieldPANNumber:
		return PAN(raw)
	case model.FieldMobileNumber:
		return Mobile(raw)
	case model.FieldZip:
		return PIN(raw)
	case model.FieldEmailAddress:
		return Email(raw)
	case model.FieldFirstName, model.FieldFatherName:
		return Name(raw)
	case model.FieldBirthdate:
		return DateOfBirth(raw)
	case model.FieldGender:
		return Gender(raw)
	default:
		return model.Valid()
	}
}

// ValidateFields validates every field of fs, keyed by field name.
func ValidateFields(fs *model.FieldSet) map[string]model.ValidationResult {
	results := make(map[string]model.ValidationResult, fs.Len())
	for _, f := range fs.Fields() {
		results[f.FieldName] = Validate(f.FieldName, f.Value)
	}
	return results
}

// Aadhaar accepts exactly 12 digits once spaces and hyphens are removed.
func Aadhaar(raw string) model.ValidationResult {
	v := stripSeparators(raw)
	if v == "" {
		return model.Invalid("Aadhaar number is required")
	}
	if len(v) != 12 || !isDigits(v) {
		return model.Invalid("Aadhaar number must be 12 digits")
	}
	return model.Valid()
}

// PAN accepts five letters, four digits and one letter, in any case.
func PAN(raw string) model.ValidationResult {
	v := strings.TrimSpace(raw)
	if v == "" {
		return model.Invalid("PAN number is required")
	}
	if len(v) != 10 {
		return model.Invalid("PAN number must be 10 characters")
	}
	if !panPattern.MatchString(v) {
		return model.Invalid("Invalid PAN format")
	}
	return model.Valid()
}

// Mobile accepts 10 digits starting with 6, 7, 8 or 9.
func Mobile(raw string) model.ValidationResult {
	v := strings.TrimSpace(raw)
	if v == "" {
		return model.Invalid("Mobile number is required")
	}
	if !mobilePattern.MatchString(v) {
		return model.Invalid("Mobile number must be 10 digits starting with 6-9")
	}
	return model.Valid()
}

// PIN accepts a 6-digit postal code.
func PIN(raw string) model.ValidationResult {
	v := strings.TrimSpace(raw)
	if v == "" {
		return model.Invalid("PIN code is required")
	}
	if !pinPattern.MatchString(v) {
		return model.Invalid("PIN code must be 6 digits")
	}
	return model.Valid()
}

// Email accepts a local@domain.tld address.
func Email(raw string) model.ValidationResult {
	v := strings.TrimSpace(raw)
	if v == "" {
		return model.Invalid("Email address is required")
	}
	if !emailPattern.MatchString(v) {
		return model.Invalid("Invalid email address")
	}
	return model.Valid()
}

// Name accepts letters, spaces, periods, hyphens and apostrophes,
// between 2 and 100 characters long.
func Name(raw string) model.ValidationResult {
	v := strings.TrimSpace(raw)
	if v == "" {
		return model.Invalid("Name is required")
	}
	n := utf8.RuneCountInString(v)
	if n < MinNameLength || n > MaxNameLength {
		return model.Invalid("Name must be between 2 and 100 characters")
	}
	if !namePattern.MatchString(v) {
		return model.Invalid("Name may contain only letters, spaces, periods, hyphens and apostrophes")
	}
	return model.Valid()
}

// Gender accepts the values printed on Indian identity cards.
func Gender(raw string) model.ValidationResult {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return model.Invalid("Gender is required")
	case "male", "female", "transgender", "other":
		return model.Valid()
	default:
		return model.Invalid("Gender must be Male, Female, Transgender or Other")
	}
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
