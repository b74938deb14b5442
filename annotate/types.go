// Package annotate derives observation notes (uncertainty, hedging,
// time-sensitivity) from a collected value's raw text.
package annotate

import (
	"context"

	"github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/types"
)

type Request struct {
	Field schema.Field
	Value *types.CollectedValue
	// Prior answers, for cross-field inconsistency checks in the generative
	// strategy.
	Order     []string
	Collected map[string]*types.CollectedValue
}

type Annotator interface {
	Annotate(ctx context.Context, req *Request) ([]string, error)
}
