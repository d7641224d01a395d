package model

import (
	"encoding/json"
	"fmt"
)

// FieldSet maps field names to fields and remembers the order in which
// names were first added. A FieldSet never holds two fields with the
// same name.
//
// FieldSet is not safe for concurrent use. Callers that share one
// (a scanning session) must serialise access.
type FieldSet struct {
	fields map[string]ExtractedField
	order  []string
}

// NewFieldSet creates a FieldSet holding fields. When fields repeats a
// name, the later field wins.
func NewFieldSet(fields ...ExtractedField) *FieldSet {
	fs := &FieldSet{
		fields: make(map[string]ExtractedField, len(fields)),
		order:  make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		fs.Put(f)
	}
	return fs
}

// Put stores f, replacing any field with the same name. The display
// position of an existing name is kept.
func (fs *FieldSet) Put(f ExtractedField) {
	if fs.fields == nil {
		fs.fields = make(map[string]ExtractedField)
	}
	if _, ok := fs.fields[f.FieldName]; !ok {
		fs.order = append(fs.order, f.FieldName)
	}
	fs.fields[f.FieldName] = f
}

// Get returns the field stored under name.
func (fs *FieldSet) Get(name string) (ExtractedField, bool) {
	if fs == nil {
		return ExtractedField{}, false
	}
	f, ok := fs.fields[name]
	return f, ok
}

// Has reports whether a field with name is present.
func (fs *FieldSet) Has(name string) bool {
	_, ok := fs.Get(name)
	return ok
}

// Len returns the number of fields.
func (fs *FieldSet) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.fields)
}

// Names returns field names in discovery order.
func (fs *FieldSet) Names() []string {
	if fs == nil {
		return nil
	}
	names := make([]string, len(fs.order))
	copy(names, fs.order)
	return names
}

// Fields returns a copy of the fields in discovery order.
func (fs *FieldSet) Fields() []ExtractedField {
	if fs == nil {
		return nil
	}
	out := make([]ExtractedField, 0, len(fs.order))
	for _, name := range fs.order {
		out = append(out, fs.fields[name])
	}
	return out
}

// Clone returns an independent copy.
func (fs *FieldSet) Clone() *FieldSet {
	if fs == nil {
		return NewFieldSet()
	}
	return NewFieldSet(fs.Fields()...)
}

// Check verifies the internal invariants: the order list and the map
// describe the same names and no name appears twice.
func (fs *FieldSet) Check() error {
	if fs == nil {
		return nil
	}
	if len(fs.order) != len(fs.fields) {
		return fmt.Errorf("field set holds %d names for %d fields", len(fs.order), len(fs.fields))
	}
	seen := make(map[string]struct{}, len(fs.order))
	for _, name := range fs.order {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate field name %q", name)
		}
		seen[name] = struct{}{}
		f, ok := fs.fields[name]
		if !ok || f.FieldName != name {
			return fmt.Errorf("field %q is stored under the wrong key", name)
		}
	}
	return nil
}

// MarshalJSON encodes the set as an ordered array of fields.
func (fs *FieldSet) MarshalJSON() ([]byte, error) {
	fields := fs.Fields()
	if fields == nil {
		fields = []ExtractedField{}
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes an array of fields.
func (fs *FieldSet) UnmarshalJSON(data []byte) error {
	var fields []ExtractedField
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*fs = *NewFieldSet(fields...)
	return nil
}
