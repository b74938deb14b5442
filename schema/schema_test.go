package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidSchema(t *testing.T) {
	doc := []byte(`{
		"id": "contact",
		"fields": [
			{"id": "name", "type": "text", "label": "name", "required": true},
			{"id": "email", "type": "email", "label": "email", "required": true},
			{"id": "channel", "type": "select", "label": "channel", "options": ["email", "phone"]}
		]
	}`)

	s, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, "contact", s.ID)
	require.Len(t, s.Fields, 3)
	assert.Equal(t, TypeEmail, s.Fields[1].Type)
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	s := &Schema{ID: "f", Fields: []Field{
		{ID: "a", Type: TypeText, Label: "a"},
		{ID: "a", Type: TypeText, Label: "a again"},
	}}
	assert.ErrorContains(t, s.Validate(), "duplicate field id")
}

func TestValidateRejectsSelectWithoutOptions(t *testing.T) {
	s := &Schema{ID: "f", Fields: []Field{
		{ID: "choice", Type: TypeSelect, Label: "choice"},
	}}
	assert.ErrorContains(t, s.Validate(), "no options")
}

func TestValidateRejectsForwardConditional(t *testing.T) {
	s := &Schema{ID: "f", Fields: []Field{
		{ID: "a", Type: TypeText, Label: "a", Conditional: &Conditional{DependsOn: "b", Condition: "equals", Value: "x"}},
		{ID: "b", Type: TypeText, Label: "b"},
	}}
	assert.ErrorContains(t, s.Validate(), "unknown or later field")
}

func TestValidateRejectsEmptySchema(t *testing.T) {
	s := &Schema{ID: "empty"}
	assert.ErrorContains(t, s.Validate(), "no fields")
}

func TestFieldLookup(t *testing.T) {
	s := &Schema{ID: "f", Fields: []Field{
		{ID: "a", Type: TypeText, Label: "a"},
		{ID: "b", Type: TypeText, Label: "b"},
	}}
	require.NoError(t, s.Validate())

	f, ok := s.FieldByID("b")
	require.True(t, ok)
	assert.Equal(t, "b", f.ID)
	assert.Equal(t, 1, s.FieldIndex("b"))

	_, ok = s.FieldByID("missing")
	assert.False(t, ok)
	assert.Equal(t, -1, s.FieldIndex("missing"))
}
