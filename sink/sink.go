// Package sink persists or forwards completed form submissions. Sinks sit
// outside the turn engine: the engine hands over a finished record exactly
// once and a sink failure never re-runs form logic.
package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/intakeflow/intakeflow/types"
)

// Metadata is caller-supplied submission context (form id, session mode,
// timestamps).
type Metadata map[string]string

// Sink saves one completed submission and returns an identifier for it.
type Sink interface {
	Save(ctx context.Context, fields map[string]*types.CollectedValue, meta Metadata) (string, error)
}

// Multi fans a submission out to several sinks. Every sink runs regardless
// of earlier failures; errors are collected per sink and joined.
type Multi struct {
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Save(ctx context.Context, fields map[string]*types.CollectedValue, meta Metadata) (string, error) {
	var (
		refs []string
		errs []error
	)
	for i, s := range m.sinks {
		ref, err := s.Save(ctx, fields, meta)
		if err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
			continue
		}
		refs = append(refs, ref)
	}
	return strings.Join(refs, "; "), errors.Join(errs...)
}

var _ Sink = (*Multi)(nil)
