// Package schema holds the read-only description of a form: ordered fields,
// their validation rules and their conditional-visibility predicates.
package schema

import (
	"fmt"

	"github.com/bytedance/sonic"
)

type FieldType string

const (
	TypeText    FieldType = "text"
	TypeEmail   FieldType = "email"
	TypePhone   FieldType = "phone"
	TypeDate    FieldType = "date"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeSelect  FieldType = "select"
	TypeAddress FieldType = "address"
)

// Rules carries the optional numeric and length bounds for a field. Nil means
// the bound is unset.
type Rules struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
}

// Conditional makes a field applicable only when an earlier field's collected
// value satisfies the named operator.
type Conditional struct {
	DependsOn string `json:"depends_on"`
	Condition string `json:"condition"`
	Value     any    `json:"value"`
}

type Field struct {
	ID          string       `json:"id"`
	Type        FieldType    `json:"type"`
	Label       string       `json:"label"`
	Description string       `json:"description,omitempty"`
	Required    bool         `json:"required"`
	Options     []string     `json:"options,omitempty"`
	Validation  *Rules       `json:"validation,omitempty"`
	Conditional *Conditional `json:"conditional,omitempty"`
}

// Schema is an ordered sequence of field definitions. It is constructed once
// by a loader and never mutated during a session.
type Schema struct {
	ID     string  `json:"id"`
	Fields []Field `json:"fields"`
}

// Parse decodes and validates a schema document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := sonic.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate enforces the structural invariants: field ids unique, select
// fields carry options, and conditionals reference a strictly earlier field.
func (s *Schema) Validate() error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %q has no fields", s.ID)
	}
	seen := make(map[string]int, len(s.Fields))
	for i, f := range s.Fields {
		if f.ID == "" {
			return fmt.Errorf("schema %q: field %d has empty id", s.ID, i)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("schema %q: duplicate field id %q", s.ID, f.ID)
		}
		if f.Type == TypeSelect && len(f.Options) == 0 {
			return fmt.Errorf("schema %q: select field %q has no options", s.ID, f.ID)
		}
		if f.Conditional != nil {
			if _, ok := seen[f.Conditional.DependsOn]; !ok {
				return fmt.Errorf("schema %q: field %q depends on unknown or later field %q", s.ID, f.ID, f.Conditional.DependsOn)
			}
		}
		seen[f.ID] = i
	}
	return nil
}

// FieldByID returns the field definition, or false when the id is unknown.
func (s *Schema) FieldByID(id string) (Field, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// FieldIndex returns the position of the field in declared order, -1 when
// unknown.
func (s *Schema) FieldIndex(id string) int {
	for i, f := range s.Fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}
