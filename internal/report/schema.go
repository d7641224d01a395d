package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/nao1215/idscan/internal/model"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/fieldset.schema.json
var fieldSetSchema []byte

// ErrInvalidFieldSet is returned when input does not describe a field set.
var ErrInvalidFieldSet = errors.New("invalid field set")

var compiledFieldSetSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("fieldset.schema.json", bytes.NewReader(fieldSetSchema)); err != nil {
		return nil, fmt.Errorf("failed to load field set schema: %w", err)
	}
	schema, err := compiler.Compile("fieldset.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile field set schema: %w", err)
	}
	return schema, nil
})

// ReadFieldSet reads a JSON field set: either an array of fields or an
// object with a "fields" array, as written by JSONWriter. The input is
// checked against the field set schema. Labels and sections are filled
// in from the field name and values are kept as written. A field name
// that appears twice is an error.
func ReadFieldSet(r io.Reader) (*model.FieldSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read field set: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFieldSet, err)
	}

	schema, err := compiledFieldSetSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFieldSet, err)
	}

	var fields []model.ExtractedField
	if _, isObject := doc.(map[string]any); isObject {
		var wrapped struct {
			Fields []model.ExtractedField `json:"fields"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFieldSet, err)
		}
		fields = wrapped.Fields
	} else if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFieldSet, err)
	}

	fs := model.NewFieldSet()
	for _, f := range fields {
		if fs.Has(f.FieldName) {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidFieldSet, f.FieldName)
		}
		fs.Put(model.NewExtractedField(f.FieldName, f.Value, f.Confidence))
	}
	return fs, nil
}
