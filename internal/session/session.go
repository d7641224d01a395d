// Package session holds the fields accumulated while one physical
// document is scanned repeatedly.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/idscan/internal/merge"
	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/idscan/internal/pipeline"
	"github.com/nao1215/idscan/internal/validate"
)

// Session owns the merged field set of one scanning session. All methods
// are safe for concurrent use; merges are serialised by a mutex.
type Session struct {
	// ID is the session identifier (a UUID).
	ID string

	// CreatedAt is when the session started.
	CreatedAt time.Time

	mu           sync.Mutex
	updatedAt    time.Time
	documentType model.DocumentType
	strategy     string
	passes       int
	fields       *model.FieldSet
	fingerprints map[string]struct{}
	sources      []string
	delta        merge.Delta

	now func() time.Time
}

// New starts an empty session.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		updatedAt:    now,
		fields:       model.NewFieldSet(),
		fingerprints: make(map[string]struct{}),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Restore rebuilds a stored session. fingerprints lists the passes that
// were already applied.
func Restore(id string, docType model.DocumentType, createdAt, updatedAt time.Time, passes int, fields *model.FieldSet, fingerprints []string) *Session {
	s := New()
	s.ID = id
	s.CreatedAt = createdAt
	s.updatedAt = updatedAt
	s.documentType = docType
	s.passes = passes
	s.fields = fields.Clone()
	for _, fp := range fingerprints {
		s.fingerprints[fp] = struct{}{}
	}
	return s
}

// Apply merges the fields of one pass and returns what changed. A pass
// whose fingerprint was already applied is skipped and reports an empty
// delta; an empty fingerprint is never skipped.
//
// The session's document type is the first recognised type seen; an
// unknown pass never overrides it.
func (s *Session) Apply(result pipeline.Result, fingerprint string) merge.Delta {
	s.mu.Lock()
	defer s.mu.Unlock()

	delta, _ := s.apply(result, fingerprint)
	return delta
}

// ApplyPass is Apply for a batch pass. The source of an applied pass is
// remembered for reports.
func (s *Session) ApplyPass(pass *pipeline.Pass) merge.Delta {
	s.mu.Lock()
	defer s.mu.Unlock()

	delta, applied := s.apply(pass.Result, pass.Fingerprint)
	if applied && pass.Source != "" {
		s.sources = append(s.sources, pass.Source)
	}
	return delta
}

// apply merges one pass. The caller holds mu.
func (s *Session) apply(result pipeline.Result, fingerprint string) (merge.Delta, bool) {
	if fingerprint != "" {
		if _, seen := s.fingerprints[fingerprint]; seen {
			return merge.Delta{}, false
		}
		s.fingerprints[fingerprint] = struct{}{}
	}

	merged, delta := merge.Merge(s.fields, result.Fields)
	s.fields = merged
	s.passes++
	s.updatedAt = s.now()
	s.delta = s.delta.Append(delta)

	if s.documentType == model.DocumentUnknown && result.DocumentType != model.DocumentUnknown {
		s.documentType = result.DocumentType
	}
	if result.Strategy != "" {
		s.strategy = result.Strategy
	}
	return delta, true
}

// Seen reports whether a pass with fingerprint was already applied.
func (s *Session) Seen(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.fingerprints[fingerprint]
	return ok
}

// Snapshot returns a copy of the merged fields.
func (s *Session) Snapshot() *model.FieldSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields.Clone()
}

// DocumentType returns the session's document type.
func (s *Session) DocumentType() model.DocumentType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentType
}

// Passes returns the number of applied passes.
func (s *Session) Passes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes
}

// UpdatedAt returns when the session last changed.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Fingerprints returns the applied pass fingerprints.
func (s *Session) Fingerprints() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.fingerprints))
	for fp := range s.fingerprints {
		out = append(out, fp)
	}
	return out
}

// Report builds an output view of the session. Added and Improved cover
// every pass applied through this Session value. withValidation adds
// per-field validation results.
func (s *Session) Report(withValidation bool) *model.ExtractionReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &model.ExtractionReport{
		SessionID:    s.ID,
		DocumentType: s.documentType,
		Strategy:     s.strategy,
		Sources:      append([]string(nil), s.sources...),
		Passes:       s.passes,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.updatedAt,
		Fields:       s.fields.Clone(),
		Added:        append([]string(nil), s.delta.Added...),
		Improved:     append([]string(nil), s.delta.Improved...),
	}
	if withValidation {
		r.Validation = validate.ValidateFields(r.Fields)
	}
	return r
}
