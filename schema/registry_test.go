package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registryWithBase(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	base := &Schema{
		ID: "base_form",
		Fields: []Field{
			{ID: "name", Type: TypeText, Label: "name", Required: true},
			{ID: "email", Type: TypeEmail, Label: "email", Required: true},
		},
	}
	require.NoError(t, r.Register(base))
	return r
}

func TestRegistryLoad(t *testing.T) {
	r := registryWithBase(t)

	s, err := r.Load("base_form")
	require.NoError(t, err)
	assert.Equal(t, "base_form", s.ID)

	_, err = r.Load("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterRejectsInvalidSchema(t *testing.T) {
	r := NewRegistry()
	err := r.Register(&Schema{ID: "bad"})
	assert.Error(t, err)

	_, err = r.Load("bad")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterVariant(t *testing.T) {
	r := registryWithBase(t)

	patch := []byte(`{"fields": [{"id": "name", "type": "text", "label": "name", "required": true}]}`)
	require.NoError(t, r.RegisterVariant("short_form", "base_form", patch))

	variant, err := r.Load("short_form")
	require.NoError(t, err)
	assert.Equal(t, "short_form", variant.ID)
	require.Len(t, variant.Fields, 1)
	assert.Equal(t, "name", variant.Fields[0].ID)

	// The base is untouched.
	base, err := r.Load("base_form")
	require.NoError(t, err)
	assert.Len(t, base.Fields, 2)
}

func TestRegisterVariantUnknownBase(t *testing.T) {
	r := NewRegistry()
	err := r.RegisterVariant("v", "missing", []byte(`{}`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterVariantInvalidResult(t *testing.T) {
	r := registryWithBase(t)
	err := r.RegisterVariant("empty", "base_form", []byte(`{"fields": []}`))
	assert.Error(t, err)
}
