package classify

import "maps"

// Rules is the classification policy table. Keyword weights are added to
// a document type's score when the lower-cased keyword occurs anywhere in
// the lower-cased text; pattern bonuses are added once when the ID number
// shape occurs.
type Rules struct {
	// AadhaarKeywords maps lower-case phrases to their Aadhaar weight.
	AadhaarKeywords map[string]int

	// PANKeywords maps lower-case phrases to their PAN weight.
	PANKeywords map[string]int

	// AadhaarPatternBonus is added when a 12-digit grouped number is found.
	AadhaarPatternBonus int

	// PANPatternBonus is added when a five letter, four digit, one letter
	// token is found.
	PANPatternBonus int

	// AadhaarThreshold is the minimum score for an Aadhaar verdict.
	AadhaarThreshold int

	// PANThreshold is the minimum score for a PAN verdict.
	PANThreshold int
}

// Default thresholds and pattern bonuses.
const (
	DefaultAadhaarThreshold    = 5
	DefaultPANThreshold        = 6
	DefaultAadhaarPatternBonus = 5
	DefaultPANPatternBonus     = 6
)

// DefaultRules returns the built-in policy table. Discriminative phrases
// ("uidai", "permanent account number") weigh more than generic ones
// ("government of india", "dob").
func DefaultRules() Rules {
	return Rules{
		AadhaarKeywords: map[string]int{
			"uidai":                           5,
			"unique identification authority": 5,
			"aadhaar":                         5,
			"aadhar":                          5,
			"आधार":                            5,
			"mera aadhaar":                    3,
			"meri pehchaan":                   3,
			"enrolment":                       3,
			"enrollment":                      3,
			"year of birth":                   2,
			"government of india":             2,
			"भारत सरकार":                      2,
			"जन्म तिथि":                       2,
			"dob":                             1,
			"male":                            1,
			"पुरुष":                           1,
			"महिला":                           1,
			"address":                         1,
		},
		PANKeywords: map[string]int{
			"permanent account number": 6,
			"income tax department":    6,
			"आयकर विभाग":               5,
			"स्थायी लेखा संख्या":       5,
			"income tax":     3,
			"govt. of india": 2,
			"govt of india":  2,
			"father's name":  2,
			"fathers name":   2,
			"father name":    2,
			"पिता का नाम":    2,
			"signature":      1,
			"date of birth":  1,
		},
		AadhaarPatternBonus: DefaultAadhaarPatternBonus,
		PANPatternBonus:     DefaultPANPatternBonus,
		AadhaarThreshold:    DefaultAadhaarThreshold,
		PANThreshold:        DefaultPANThreshold,
	}
}

// Clone returns a deep copy of the rules.
func (r Rules) Clone() Rules {
	out := r
	out.AadhaarKeywords = maps.Clone(r.AadhaarKeywords)
	out.PANKeywords = maps.Clone(r.PANKeywords)
	return out
}
