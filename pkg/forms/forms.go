// Package forms validates form-shaped mutation payloads against field
// descriptors. A descriptor names a field kind from a closed enum; kinds map
// to validator functions through a registry, so form definitions stay plain
// data with no renderer or UI references inside them.
package forms

import (
	"errors"
	"fmt"

	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/utils/slices"
)

// Kind is the closed set of field kinds.
type Kind string

const (
	Text   Kind = "text"
	Number Kind = "number"
	Select Kind = "select"
	Secret Kind = "secret"
	Toggle Kind = "toggle"
)

var kinds = []Kind{Text, Number, Select, Secret, Toggle}

// Field describes one form field of a mutation payload.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// Options constrains Select fields to an allowed value set.
	Options []string
	// Min and Max bound Number fields inclusively when set.
	Min *float64
	Max *float64
}

// Validator checks one field's value. value is the decoded JSON value
// found under the field's name.
type Validator func(f Field, value any) error

var ErrUnknownKind = errors.New("forms: unknown field kind")

type Registry struct {
	validators map[Kind]Validator
}

// NewRegistry returns a registry with the default validator per kind.
func NewRegistry() *Registry {
	r := &Registry{validators: map[Kind]Validator{}}
	r.validators[Text] = validateText
	r.validators[Secret] = validateText
	r.validators[Number] = validateNumber
	r.validators[Select] = validateSelect
	r.validators[Toggle] = validateToggle
	return r
}

// Register replaces the validator for a kind. Kinds outside the enum are
// rejected; the set is closed on purpose.
func (r *Registry) Register(k Kind, v Validator) error {
	if !slices.Contains(kinds, k) {
		return fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	r.validators[k] = v
	return nil
}

// Validate checks payload against the field descriptors. Fields not
// described are ignored; described fields must satisfy their kind's
// validator, and Required fields must be present.
func (r *Registry) Validate(fields []Field, payload map[string]any) error {
	for _, f := range fields {
		v, ok := payload[f.Name]
		if !ok || v == nil {
			if f.Required {
				return fmt.Errorf("field %q is required", f.Name)
			}
			continue
		}
		validate, ok := r.validators[f.Kind]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
		}
		if err := validate(f, v); err != nil {
			return err
		}
	}
	return nil
}

func validateText(f Field, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %q must be a string", f.Name)
	}
	if f.Required && s == "" {
		return fmt.Errorf("field %q must not be empty", f.Name)
	}
	return nil
}

func validateNumber(f Field, value any) error {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	default:
		return fmt.Errorf("field %q must be a number", f.Name)
	}
	if f.Min != nil && n < *f.Min {
		return fmt.Errorf("field %q must be at least %v", f.Name, *f.Min)
	}
	if f.Max != nil && n > *f.Max {
		return fmt.Errorf("field %q must be at most %v", f.Name, *f.Max)
	}
	return nil
}

func validateSelect(f Field, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %q must be a string", f.Name)
	}
	if len(f.Options) != 0 && !slices.Contains(f.Options, s) {
		return fmt.Errorf("field %q must be one of %v", f.Name, f.Options)
	}
	return nil
}

func validateToggle(f Field, value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("field %q must be a boolean", f.Name)
	}
	return nil
}
