package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intakeflow/intakeflow/schema"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestRequiredField(t *testing.T) {
	field := schema.Field{ID: "name", Type: schema.TypeText, Label: "name", Required: true}

	for _, value := range []any{nil, "", "   "} {
		result := Check(value, field)
		require.False(t, result.Valid, "value %v should fail", value)
		require.Equal(t, []string{"This field is required"}, result.Errors)
	}
}

func TestOptionalEmptySkipsTypeChecks(t *testing.T) {
	field := schema.Field{ID: "nickname", Type: schema.TypeEmail, Label: "nickname"}

	result := Check("", field)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestEmail(t *testing.T) {
	field := schema.Field{ID: "email", Type: schema.TypeEmail, Label: "email", Required: true}

	cases := []struct {
		value any
		valid bool
	}{
		{"john@example.com", true},
		{"first.last+tag@sub.domain.org", true},
		{"nope", false},
		{"missing@tld.c", false},
		{"@example.com", false},
		{42.0, false},
	}
	for _, tc := range cases {
		result := Check(tc.value, field)
		assert.Equal(t, tc.valid, result.Valid, "value %v", tc.value)
		if !tc.valid {
			assert.Contains(t, result.Errors[0], "email")
		}
	}
}

func TestPhone(t *testing.T) {
	field := schema.Field{ID: "phone", Type: schema.TypePhone, Label: "phone", Required: true}

	assert.True(t, Check("(555) 123-4567", field).Valid)
	assert.True(t, Check("+1 555 123 4567", field).Valid)
	assert.False(t, Check("12345", field).Valid)
	assert.Contains(t, Check("12345", field).Errors[0], "phone")
}

func TestDate(t *testing.T) {
	field := schema.Field{ID: "dob", Type: schema.TypeDate, Label: "date of birth", Required: true}

	assert.True(t, Check("2024-01-15", field).Valid)
	assert.True(t, Check("01/15/2024", field).Valid)
	assert.True(t, Check("January 15, 2024", field).Valid)
	assert.False(t, Check("not a date", field).Valid)
	assert.False(t, Check("2024-02-30", field).Valid, "impossible calendar date")
}

func TestNumberBounds(t *testing.T) {
	field := schema.Field{
		ID: "age", Type: schema.TypeNumber, Label: "age", Required: true,
		Validation: &schema.Rules{Min: floatPtr(18), Max: floatPtr(100)},
	}

	assert.True(t, Check(30.0, field).Valid)
	assert.True(t, Check("42", field).Valid)

	low := Check(10.0, field)
	require.False(t, low.Valid)
	assert.Contains(t, low.Errors[0], "at least")

	high := Check(150.0, field)
	require.False(t, high.Valid)
	assert.Contains(t, high.Errors[0], "at most")

	assert.False(t, Check("many", field).Valid)
}

func TestSelectMembership(t *testing.T) {
	field := schema.Field{
		ID: "status", Type: schema.TypeSelect, Label: "status", Required: true,
		Options: []string{"employed", "unemployed"},
	}

	assert.True(t, Check("employed", field).Valid)

	result := Check("retired", field)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "select")
	assert.Contains(t, result.Errors[0], "employed, unemployed")
}

func TestBooleanStrictType(t *testing.T) {
	field := schema.Field{ID: "pets", Type: schema.TypeBoolean, Label: "pets", Required: true}

	assert.True(t, Check(true, field).Valid)
	assert.True(t, Check(false, field).Valid)
	assert.False(t, Check("yes", field).Valid)
	assert.Contains(t, Check("yes", field).Errors[0], "yes or no")
}

func TestTextLengthAccumulatesErrors(t *testing.T) {
	field := schema.Field{
		ID: "bio", Type: schema.TypeText, Label: "bio", Required: true,
		Validation: &schema.Rules{MinLength: intPtr(5), MaxLength: intPtr(10)},
	}

	assert.True(t, Check("hello", field).Valid)
	assert.False(t, Check("hi", field).Valid)
	assert.False(t, Check("way too long for this", field).Valid)
}

func TestAddressDefaultMinLength(t *testing.T) {
	field := schema.Field{ID: "addr", Type: schema.TypeAddress, Label: "address", Required: true}

	assert.False(t, Check("short", field).Valid)
	assert.True(t, Check("123 Main Street, Springfield", field).Valid)

	// An explicit min_length overrides the default.
	field.Validation = &schema.Rules{MinLength: intPtr(3)}
	assert.True(t, Check("abc", field).Valid)
}

func TestCheckIsIdempotent(t *testing.T) {
	field := schema.Field{
		ID: "age", Type: schema.TypeNumber, Label: "age", Required: true,
		Validation: &schema.Rules{Min: floatPtr(18)},
	}

	first := Check(10.0, field)
	second := Check(10.0, field)
	assert.Equal(t, first, second)
}

func TestParseDate(t *testing.T) {
	_, ok := ParseDate("2024-06-01")
	assert.True(t, ok)
	_, ok = ParseDate("June 1, 2024")
	assert.True(t, ok)
	_, ok = ParseDate("")
	assert.False(t, ok)
	_, ok = ParseDate("13/45/2024")
	assert.False(t, ok)
}
