// Package extract turns one free-text user reply into a typed collected
// value for the current field.
package extract

import (
	"context"

	"github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/types"
)

type Request struct {
	Field    schema.Field
	Question string
	UserText string
}

type Extractor interface {
	Extract(ctx context.Context, req *Request) (*types.CollectedValue, error)
}
