package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/idscan/internal/model"
)

// Accepted birth year range for validation.
const (
	MinBirthYear = 1900
	MaxBirthYear = 2024
)

var (
	datePattern = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})$`)
	yearPattern = regexp.MustCompile(`^\d{4}$`)
)

// DateOfBirth validates a DD/MM/YYYY (or DD-MM-YYYY) date with calendar
// checks. A bare four-digit year, as printed under "Year of Birth" on
// older Aadhaar cards, is accepted when it lies in range.
func DateOfBirth(raw string) model.ValidationResult {
	v := strings.TrimSpace(raw)
	if v == "" {
		return model.Invalid("Date of birth is required")
	}

	if yearPattern.MatchString(v) {
		year, _ := strconv.Atoi(v) //nolint:errcheck // four digits always parse
		if year < MinBirthYear || year > MaxBirthYear {
			return model.Invalid("Year must be between 1900 and 2024")
		}
		return model.Valid()
	}

	m := datePattern.FindStringSubmatch(v)
	if m == nil {
		return model.Invalid("Date must be in DD/MM/YYYY format")
	}
	day, _ := strconv.Atoi(m[1])   //nolint:errcheck // digits only
	month, _ := strconv.Atoi(m[2]) //nolint:errcheck // digits only
	year, _ := strconv.Atoi(m[3])  //nolint:errcheck // digits only

	if day < 1 || day > 31 {
		return model.Invalid("Day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return model.Invalid("Month must be between 1 and 12")
	}
	if year < MinBirthYear || year > MaxBirthYear {
		return model.Invalid("Year must be between 1900 and 2024")
	}
	if month == 2 && day == 29 && !IsLeapYear(year) {
		return model.Invalid("Not a leap year")
	}
	if day > DaysInMonth(month, year) {
		return model.Invalid("Invalid day for this month")
	}
	return model.Valid()
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month (1..12) of year.
func DaysInMonth(month, year int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}
