package clarify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intakeflow/intakeflow/schema"
)

func clarifyLocal(t *testing.T, field schema.Field, errs []string) string {
	t.Helper()
	msg, err := (&LocalClarificationGenerator{}).GenerateClarification(context.Background(), &Request{
		Field:       field,
		Errors:      errs,
		Attempt:     1,
		MaxAttempts: 3,
	})
	require.NoError(t, err)
	return msg
}

func TestClarificationBank(t *testing.T) {
	email := schema.Field{ID: "email", Type: schema.TypeEmail, Label: "email"}
	msg := clarifyLocal(t, email, []string{"Please provide a valid email address"})
	assert.Contains(t, msg, "name@example.com")

	phone := schema.Field{ID: "phone", Type: schema.TypePhone, Label: "phone"}
	msg = clarifyLocal(t, phone, []string{"Please provide a 10-digit phone number"})
	assert.Contains(t, msg, "area code")

	date := schema.Field{ID: "dob", Type: schema.TypeDate, Label: "date of birth"}
	msg = clarifyLocal(t, date, []string{"Please provide a valid date"})
	assert.Contains(t, msg, "01/15/2024")

	name := schema.Field{ID: "name", Type: schema.TypeText, Label: "full name"}
	msg = clarifyLocal(t, name, []string{"This field is required"})
	assert.Equal(t, "The full name is required. Please provide a response.", msg)

	status := schema.Field{
		ID: "status", Type: schema.TypeSelect, Label: "status",
		Options: []string{"employed", "unemployed"},
	}
	msg = clarifyLocal(t, status, []string{"Please select one of: employed, unemployed"})
	assert.Equal(t, "Please choose from: employed, unemployed", msg)

	income := schema.Field{ID: "income", Type: schema.TypeNumber, Label: "income"}
	msg = clarifyLocal(t, income, []string{"Please provide a number"})
	assert.Equal(t, "Please provide a numeric value", msg)

	pets := schema.Field{ID: "pets", Type: schema.TypeBoolean, Label: "pets"}
	msg = clarifyLocal(t, pets, []string{"Must be yes or no"})
	assert.Equal(t, "Please answer yes or no", msg)
}

func TestClarificationLengthEchoesValidationError(t *testing.T) {
	bio := schema.Field{ID: "bio", Type: schema.TypeText, Label: "bio"}
	msg := clarifyLocal(t, bio, []string{"Text must be at least 5 characters"})
	assert.Equal(t, "Text must be at least 5 characters", msg)
}

func TestClarificationGenericFallback(t *testing.T) {
	field := schema.Field{ID: "misc", Type: schema.TypeText, Label: "favorite color"}
	msg := clarifyLocal(t, field, []string{"something unexpected went wrong"})
	assert.Equal(t, "Please provide a valid favorite color", msg)
}

type erroringGenerator struct{ err error }

func (g *erroringGenerator) GenerateClarification(context.Context, *Request) (string, error) {
	return "", g.err
}

func TestFailbackClarificationGenerator(t *testing.T) {
	field := schema.Field{ID: "email", Type: schema.TypeEmail, Label: "email"}
	failing := &erroringGenerator{err: errors.New("timeout")}

	fb := NewFailbackClarificationGenerator(nil, failing, &LocalClarificationGenerator{})
	msg, err := fb.GenerateClarification(context.Background(), &Request{
		Field:  field,
		Errors: []string{"Please provide a valid email address"},
	})
	require.NoError(t, err)
	assert.Contains(t, msg, "email")

	fb = NewFailbackClarificationGenerator(nil, failing)
	_, err = fb.GenerateClarification(context.Background(), &Request{Field: field})
	assert.ErrorContains(t, err, "all clarification generators failed")
}
