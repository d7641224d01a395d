package merge

import (
	"fmt"
	"slices"

	"github.com/nao1215/idscan/internal/model"
)

// Delta describes what a merge changed.
type Delta struct {
	// Added lists names that were not present before the merge.
	Added []string `json:"added,omitempty"`

	// Improved lists names whose field was replaced by a
	// higher-confidence reading.
	Improved []string `json:"improved,omitempty"`
}

// AddedCount returns the number of new fields.
func (d Delta) AddedCount() int {
	return len(d.Added)
}

// ImprovedCount returns the number of replaced fields.
func (d Delta) ImprovedCount() int {
	return len(d.Improved)
}

// Changed reports whether the merge changed anything.
func (d Delta) Changed() bool {
	return len(d.Added) > 0 || len(d.Improved) > 0
}

// String returns the progress line shown after a pass,
// e.g. "+2 new, 1 improved".
func (d Delta) String() string {
	return fmt.Sprintf("+%d new, %d improved", d.AddedCount(), d.ImprovedCount())
}

// Append returns d extended with other, keeping each name once. A name
// that was added stays reported as added.
func (d Delta) Append(other Delta) Delta {
	out := Delta{
		Added:    append([]string(nil), d.Added...),
		Improved: append([]string(nil), d.Improved...),
	}
	for _, name := range other.Added {
		if !slices.Contains(out.Added, name) {
			out.Added = append(out.Added, name)
		}
	}
	for _, name := range other.Improved {
		if !slices.Contains(out.Added, name) && !slices.Contains(out.Improved, name) {
			out.Improved = append(out.Improved, name)
		}
	}
	return out
}

// Merge folds incoming into a copy of current and returns the copy with
// the delta. current may be nil. Neither argument is modified.
//
// A name that appears twice in incoming is merged twice, so the stronger
// of the two readings wins. Merge panics if the result breaks the
// one-field-per-name invariant.
func Merge(current *model.FieldSet, incoming []model.ExtractedField) (*model.FieldSet, Delta) {
	merged := current.Clone()

	var delta Delta
	for _, f := range incoming {
		existing, ok := merged.Get(f.FieldName)
		switch {
		case !ok:
			merged.Put(f)
			delta.Added = append(delta.Added, f.FieldName)
		case f.Confidence > existing.Confidence:
			merged.Put(f)
			if !slices.Contains(delta.Added, f.FieldName) && !slices.Contains(delta.Improved, f.FieldName) {
				delta.Improved = append(delta.Improved, f.FieldName)
			}
		}
	}

	if err := merged.Check(); err != nil {
		panic(fmt.Sprintf("merge: %v", err))
	}
	return merged, delta
}

// MergeSets merges every field of incoming into current.
func MergeSets(current, incoming *model.FieldSet) (*model.FieldSet, Delta) {
	return Merge(current, incoming.Fields())
}
