// Package ask produces the question that collects one field.
package ask

import (
	"context"

	"github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/types"
)

type Request struct {
	Field     schema.Field
	Order     []string
	Collected map[string]*types.CollectedValue
}

type Generator interface {
	GenerateQuestion(ctx context.Context, req *Request) (string, error)
}
