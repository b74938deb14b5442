package ask

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intakeflow/intakeflow/schema"
)

func askLocal(t *testing.T, field schema.Field) string {
	t.Helper()
	q, err := (&LocalQuestionGenerator{}).GenerateQuestion(context.Background(), &Request{Field: field})
	require.NoError(t, err)
	return q
}

func TestQuestionTemplates(t *testing.T) {
	cases := []struct {
		fieldType schema.FieldType
		label     string
		want      string
	}{
		{schema.TypeText, "full name", "What is your full name?"},
		{schema.TypeEmail, "work email", "What is your work email? (e.g., name@example.com)"},
		{schema.TypePhone, "phone number", "What is your phone number? Please include area code."},
		{schema.TypeDate, "start date", "What is your start date? (e.g., MM/DD/YYYY)"},
		{schema.TypeNumber, "monthly income", "What is your monthly income?"},
		{schema.TypeBoolean, "Do you have pets", "Do you have pets? (Yes/No)"},
		{schema.TypeAddress, "current address", "What is your current address? Please include full address."},
	}
	for _, tc := range cases {
		q := askLocal(t, schema.Field{ID: "f", Type: tc.fieldType, Label: tc.label})
		assert.Equal(t, tc.want, q)
	}
}

func TestSelectQuestionListsOptions(t *testing.T) {
	q := askLocal(t, schema.Field{
		ID: "status", Type: schema.TypeSelect, Label: "employment status",
		Options: []string{"employed", "unemployed"},
	})
	assert.Equal(t, "What is your employment status?\n- employed\n- unemployed", q)
}

func TestUnknownTypeFallsBackToGeneric(t *testing.T) {
	q := askLocal(t, schema.Field{ID: "f", Type: "mystery", Label: "thing"})
	assert.Equal(t, "What is your thing?", q)
}

type erroringGenerator struct{ err error }

func (g *erroringGenerator) GenerateQuestion(context.Context, *Request) (string, error) {
	return "", g.err
}

func TestFailbackQuestionGenerator(t *testing.T) {
	field := schema.Field{ID: "name", Type: schema.TypeText, Label: "name"}
	failing := &erroringGenerator{err: errors.New("model unavailable")}

	fb := NewFailbackQuestionGenerator(nil, failing, &LocalQuestionGenerator{})
	q, err := fb.GenerateQuestion(context.Background(), &Request{Field: field})
	require.NoError(t, err)
	assert.Equal(t, "What is your name?", q)

	fb = NewFailbackQuestionGenerator(nil, failing, failing)
	_, err = fb.GenerateQuestion(context.Background(), &Request{Field: field})
	assert.ErrorContains(t, err, "all question generators failed")
}
