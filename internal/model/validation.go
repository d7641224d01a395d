package model

// ValidationResult is the outcome of validating one field value.
// Invalid input is reported here, never as a Go error.
type ValidationResult struct {
	IsValid      bool   `json:"isValid"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Valid returns a passing result.
func Valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

// Invalid returns a failing result carrying msg.
func Invalid(msg string) ValidationResult {
	return ValidationResult{IsValid: false, ErrorMessage: msg}
}
