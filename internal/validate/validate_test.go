package validate

import (
	"testing"

	"github.com/nao1215/idscan/internal/model"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		fieldName string
		value     string
		valid     bool
		message   string
	}{
		{"aadhaar spaced", model.FieldAadhaarNumber, "1234 5678 9012", true, ""},
		{"aadhaar hyphenated", model.FieldAadhaarNumber, "1234-5678-9012", true, ""},
		{"aadhaar short", model.FieldAadhaarNumber, "1234 5678 901", false, "Aadhaar number must be 12 digits"},
		{"aadhaar letters", model.FieldAadhaarNumber, "1234 5678 90AB", false, "Aadhaar number must be 12 digits"},
		{"aadhaar empty", model.FieldAadhaarNumber, "  ", false, "Aadhaar number is required"},
		{"pan upper", model.FieldPANNumber, "ABCPE1234F", true, ""},
		{"pan lower", model.FieldPANNumber, "abcpe1234f", true, ""},
		{"pan bad shape", model.FieldPANNumber, "ABCP12345F", false, "Invalid PAN format"},
		{"pan short", model.FieldPANNumber, "ABCPE1234", false, "PAN number must be 10 characters"},
		{"mobile ok", model.FieldMobileNumber, "9876543210", true, ""},
		{"mobile starts with 5", model.FieldMobileNumber, "5876543210", false, "Mobile number must be 10 digits starting with 6-9"},
		{"mobile 11 digits", model.FieldMobileNumber, "98765432101", false, "Mobile number must be 10 digits starting with 6-9"},
		{"pin ok", model.FieldZip, "560001", true, ""},
		{"pin short", model.FieldZip, "56001", false, "PIN code must be 6 digits"},
		{"email ok", model.FieldEmailAddress, "test@example.com", true, ""},
		{"email subdomain", model.FieldEmailAddress, "a.b+c@mail.example.co.in", true, ""},
		{"email missing tld", model.FieldEmailAddress, "test@example", false, "Invalid email address"},
		{"name ok", model.FieldFirstName, "Rahul Kumar", true, ""},
		{"name punctuation", model.FieldFatherName, "D'Souza-Rao S.", true, ""},
		{"name digits", model.FieldFirstName, "Rahul 2", false, "Name may contain only letters, spaces, periods, hyphens and apostrophes"},
		{"name too short", model.FieldFirstName, "R", false, "Name must be between 2 and 100 characters"},
		{"name devanagari", model.FieldFirstName, "राहुल कुमार", true, ""},
		{"gender ok", model.FieldGender, "Female", true, ""},
		{"gender bad", model.FieldGender, "X", false, "Gender must be Male, Female, Transgender or Other"},
		{"unknown field", "custom", "anything", true, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Validate(tc.fieldName, tc.value)
			if got.IsValid != tc.valid {
				t.Fatalf("Validate(%q, %q).IsValid = %v, expected %v (%s)",
					tc.fieldName, tc.value, got.IsValid, tc.valid, got.ErrorMessage)
			}
			if got.ErrorMessage != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, got.ErrorMessage)
			}
		})
	}
}

func TestDateOfBirth(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		value   string
		valid   bool
		message string
	}{
		{"15/08/1990", true, ""},
		{"15-08-1990", true, ""},
		{"29/02/2020", true, ""},
		{"29/02/2000", true, ""},
		{"29/02/2021", false, "Not a leap year"},
		{"29/02/1900", false, "Not a leap year"},
		{"30/02/2020", false, "Invalid day for this month"},
		{"31/04/1990", false, "Invalid day for this month"},
		{"31/06/1990", false, "Invalid day for this month"},
		{"31/12/1990", true, ""},
		{"00/01/1990", false, "Day must be between 1 and 31"},
		{"32/01/1990", false, "Day must be between 1 and 31"},
		{"10/13/1990", false, "Month must be between 1 and 12"},
		{"10/12/1899", false, "Year must be between 1900 and 2024"},
		{"10/12/2025", false, "Year must be between 1900 and 2024"},
		{"1990", true, ""},
		{"1850", false, "Year must be between 1900 and 2024"},
		{"1990/08/15", false, "Date must be in DD/MM/YYYY format"},
		{"", false, "Date of birth is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			t.Parallel()
			got := DateOfBirth(tc.value)
			if got.IsValid != tc.valid {
				t.Fatalf("DateOfBirth(%q).IsValid = %v, expected %v (%s)", tc.value, got.IsValid, tc.valid, got.ErrorMessage)
			}
			if got.ErrorMessage != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, got.ErrorMessage)
			}
		})
	}
}

func TestIsLeapYear(t *testing.T) {
	t.Parallel()

	leap := map[int]bool{1900: false, 2000: true, 2020: true, 2021: false, 2024: true, 2100: false}
	for year, want := range leap {
		if got := IsLeapYear(year); got != want {
			t.Errorf("IsLeapYear(%d) = %v, expected %v", year, got, want)
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		fieldName string
		value     string
		expected  string
	}{
		{model.FieldAadhaarNumber, "123456789012", "1234 5678 9012"},
		{model.FieldAadhaarNumber, "1234-5678-9012", "1234 5678 9012"},
		{model.FieldAadhaarNumber, "12345", "12345"},
		{model.FieldPANNumber, " abcpe 1234f ", "ABCPE1234F"},
		{model.FieldMobileNumber, "+91 98765-43210", "919876543210"},
		{model.FieldMobileNumber, "98765 43210", "9876543210"},
		{model.FieldEmailAddress, " Test@Example.COM ", "test@example.com"},
		{model.FieldFirstName, "RAHUL   KUMAR", "Rahul Kumar"},
		{model.FieldFatherName, "suresh kumar sharma", "Suresh Kumar Sharma"},
		{model.FieldGender, "MALE", "Male"},
		{model.FieldBirthdate, "5-8-1990", "05/08/1990"},
		{model.FieldBirthdate, "1990", "1990"},
		{model.FieldZip, "560 001", "560001"},
		{"custom", "  keep  ", "keep"},
	}

	for _, tc := range testCases {
		t.Run(tc.fieldName+"/"+tc.value, func(t *testing.T) {
			t.Parallel()
			if got := Format(tc.fieldName, tc.value); got != tc.expected {
				t.Errorf("Format(%q, %q) = %q, expected %q", tc.fieldName, tc.value, got, tc.expected)
			}
		})
	}
}

func TestValidateFields(t *testing.T) {
	t.Parallel()

	fs := model.NewFieldSet(
		model.NewExtractedField(model.FieldFirstName, "Rahul Kumar", 80),
		model.NewExtractedField(model.FieldBirthdate, "29/02/2021", 90),
	)
	results := ValidateFields(fs)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[model.FieldFirstName].IsValid {
		t.Error("expected name to be valid")
	}
	if results[model.FieldBirthdate].ErrorMessage != "Not a leap year" {
		t.Errorf("unexpected birthdate result: %+v", results[model.FieldBirthdate])
	}
}
