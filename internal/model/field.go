package model

// Field names. Persistence and form layers key off these exact strings.
const (
	FieldAadhaarNumber = "adharId"
	FieldPANNumber     = "panNumber"
	FieldFirstName     = "firstName"
	FieldFatherName    = "fatherName"
	FieldBirthdate     = "birthdate"
	FieldGender        = "gender"
	FieldMobileNumber  = "mobileNumber"
	FieldEmailAddress  = "emailAddress"
	FieldZip           = "zip"
)

// Display sections.
const (
	SectionIdentity = "identity"
	SectionPersonal = "personal"
	SectionContact  = "contact"
	SectionAddress  = "address"
)

// Confidence bounds.
const (
	MinConfidence = 0
	MaxConfidence = 100
)

// ExtractedField is a single labelled value read from a document.
//
// Confidence reflects how the value was found (label-anchored,
// positional, pattern-only), never what the value contains.
type ExtractedField struct {
	// FieldName is the stable machine key, one of the Field* constants.
	FieldName string `json:"fieldName"`

	// FieldLabel is the human-readable label.
	FieldLabel string `json:"fieldLabel"`

	// Value is the canonical form of the value.
	Value string `json:"value"`

	// Confidence is 0..100; higher means stronger evidence.
	Confidence int `json:"confidence"`

	// Section is a display grouping hint.
	Section string `json:"section,omitempty"`
}

// NewExtractedField builds a field with the standard label and section
// for name. Confidence is clamped into 0..100.
func NewExtractedField(name, value string, confidence int) ExtractedField {
	return ExtractedField{
		FieldName:  name,
		FieldLabel: LabelFor(name),
		Value:      value,
		Confidence: clampConfidence(confidence),
		Section:    SectionFor(name),
	}
}

func clampConfidence(c int) int {
	if c < MinConfidence {
		return MinConfidence
	}
	if c > MaxConfidence {
		return MaxConfidence
	}
	return c
}

type fieldInfo struct {
	label   string
	section string
}

var fieldInfoMapping = map[string]fieldInfo{
	FieldAadhaarNumber: {"Aadhaar Number", SectionIdentity},
	FieldPANNumber:     {"PAN Number", SectionIdentity},
	FieldFirstName:     {"Name", SectionPersonal},
	FieldFatherName:    {"Father's Name", SectionPersonal},
	FieldBirthdate:     {"Date of Birth", SectionPersonal},
	FieldGender:        {"Gender", SectionPersonal},
	FieldMobileNumber:  {"Mobile Number", SectionContact},
	FieldEmailAddress:  {"Email Address", SectionContact},
	FieldZip:           {"PIN Code", SectionAddress},
}

// KnownFieldNames returns every field name in display order.
func KnownFieldNames() []string {
	return []string{
		FieldFirstName,
		FieldFatherName,
		FieldBirthdate,
		FieldGender,
		FieldAadhaarNumber,
		FieldPANNumber,
		FieldMobileNumber,
		FieldEmailAddress,
		FieldZip,
	}
}

// IsKnownField reports whether name is part of the field vocabulary.
func IsKnownField(name string) bool {
	_, ok := fieldInfoMapping[name]
	return ok
}

// LabelFor returns the display label for a field name.
// Unknown names are returned unchanged.
func LabelFor(name string) string {
	if info, ok := fieldInfoMapping[name]; ok {
		return info.label
	}
	return name
}

// SectionFor returns the display section for a field name, or "" when unknown.
func SectionFor(name string) string {
	return fieldInfoMapping[name].section
}

// ConfidenceTier buckets confidence scores for reporting.
type ConfidenceTier int

const (
	// TierLow covers pattern-only matches (below 75).
	TierLow ConfidenceTier = iota
	// TierMedium covers positional matches (75 to 84).
	TierMedium
	// TierHigh covers label-anchored matches (85 and above).
	TierHigh
)

// String returns the tier name.
func (t ConfidenceTier) String() string {
	switch t {
	case TierHigh:
		return "HIGH"
	case TierMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// TierOf returns the tier a confidence score belongs to.
func TierOf(confidence int) ConfidenceTier {
	switch {
	case confidence >= 85:
		return TierHigh
	case confidence >= 75:
		return TierMedium
	default:
		return TierLow
	}
}

// Tier returns the confidence tier of the field.
func (f ExtractedField) Tier() ConfidenceTier {
	return TierOf(f.Confidence)
}
