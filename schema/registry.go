package schema

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ErrNotFound is returned when a form id has no registered schema. Session
// creation treats it as fatal, not retryable.
var ErrNotFound = errors.New("schema: form not found")

// Source is the schema-loading contract consumed by session creation.
type Source interface {
	Load(formID string) (*Schema, error)
}

// Registry is an in-memory schema catalog. Schemas are registered once at
// startup; Load never mutates them.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]*Schema
}

func NewRegistry() *Registry {
	return &Registry{forms: map[string]*Schema{}}
}

func (r *Registry) Register(s *Schema) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.forms[s.ID] = s
	r.mu.Unlock()
	return nil
}

// RegisterVariant derives a new form from a registered base by applying an
// RFC7386 merge patch to the base document, then validates and registers the
// result under id. Variants let closely related forms share one base
// definition instead of copy-pasting it.
func (r *Registry) RegisterVariant(id, baseID string, mergePatch []byte) error {
	base, err := r.Load(baseID)
	if err != nil {
		return fmt.Errorf("variant %q: %w", id, err)
	}
	baseJSON, err := sonic.Marshal(base)
	if err != nil {
		return fmt.Errorf("variant %q: marshal base: %w", id, err)
	}
	merged, err := jsonpatch.MergePatch(baseJSON, mergePatch)
	if err != nil {
		return fmt.Errorf("variant %q: apply merge patch: %w", id, err)
	}
	variant, err := Parse(merged)
	if err != nil {
		return fmt.Errorf("variant %q: %w", id, err)
	}
	variant.ID = id
	return r.Register(variant)
}

func (r *Registry) Load(formID string) (*Schema, error) {
	r.mu.RLock()
	s, ok := r.forms[formID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, formID)
	}
	return s, nil
}

var _ Source = (*Registry)(nil)
