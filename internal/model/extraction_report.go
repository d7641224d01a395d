package model

import (
	"sort"
	"time"
)

// ExtractionReport is the output view of a scanning session: the merged
// fields plus what the latest passes changed.
type ExtractionReport struct {
	// SessionID identifies the session the fields belong to.
	SessionID string `json:"sessionId"`

	// DocumentType is the classification of the strongest pass so far.
	DocumentType DocumentType `json:"documentType"`

	// Strategy is the extraction strategy that produced the last pass.
	Strategy string `json:"strategy,omitempty"`

	// Sources names the inputs that were merged (file paths or "stdin").
	Sources []string `json:"sources,omitempty"`

	// Passes is the number of OCR passes merged into the session.
	Passes int `json:"passes"`

	// CreatedAt is when the session started.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the session last changed.
	UpdatedAt time.Time `json:"updatedAt"`

	// Fields is the merged field set.
	Fields *FieldSet `json:"fields"`

	// Added lists field names that were new in the reported passes.
	Added []string `json:"added,omitempty"`

	// Improved lists field names whose value was replaced by a
	// higher-confidence reading.
	Improved []string `json:"improved,omitempty"`

	// Validation holds per-field validation results, keyed by field name.
	// It is nil when validation was not requested.
	Validation map[string]ValidationResult `json:"validation,omitempty"`
}

// HasFields reports whether the report carries at least one field.
func (r *ExtractionReport) HasFields() bool {
	return r.Fields.Len() > 0
}

// TierCounts counts fields per confidence tier.
func (r *ExtractionReport) TierCounts() map[ConfidenceTier]int {
	counts := map[ConfidenceTier]int{TierHigh: 0, TierMedium: 0, TierLow: 0}
	for _, f := range r.Fields.Fields() {
		counts[f.Tier()]++
	}
	return counts
}

// InvalidFields returns the sorted names of fields that failed validation.
func (r *ExtractionReport) InvalidFields() []string {
	var names []string
	for name, res := range r.Validation {
		if !res.IsValid {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
