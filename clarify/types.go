// Package clarify phrases the re-prompt after a failed validation.
package clarify

import (
	"context"

	"github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/types"
)

type Request struct {
	Field  schema.Field
	Errors []string
	Value  *types.CollectedValue
	// Attempt is 1-based so generative phrasing can avoid repeating itself
	// across retries on the same field.
	Attempt     int
	MaxAttempts int
}

type Generator interface {
	GenerateClarification(ctx context.Context, req *Request) (string, error)
}
