package clarify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// LocalClarificationGenerator maps validation-error keywords to a fixed
// message bank, falling back to a generic re-prompt when nothing matches.
type LocalClarificationGenerator struct{}

func (g *LocalClarificationGenerator) GenerateClarification(ctx context.Context, req *Request) (string, error) {
	f := req.Field
	bank := []struct {
		keyword string
		message string
	}{
		{"email", "Please provide a valid email address (e.g., name@example.com)"},
		{"phone", "Please provide your phone number with area code (e.g., 555-123-4567)"},
		{"date", "Please provide a valid date (e.g., 01/15/2024 or January 15, 2024)"},
		{"required", fmt.Sprintf("The %s is required. Please provide a response.", f.Label)},
		{"select", fmt.Sprintf("Please choose from: %s", strings.Join(f.Options, ", "))},
		{"number", "Please provide a numeric value"},
		{"yes or no", "Please answer yes or no"},
		{"characters", firstError(req.Errors)},
	}

	for _, entry := range bank {
		for _, err := range req.Errors {
			if strings.Contains(strings.ToLower(err), entry.keyword) {
				return entry.message, nil
			}
		}
	}
	return fmt.Sprintf("Please provide a valid %s", f.Label), nil
}

func firstError(errs []string) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0]
}

// FailbackClarificationGenerator tries generators in order, degrading on
// error.
type FailbackClarificationGenerator struct {
	logger     *zap.Logger
	generators []Generator
}

func NewFailbackClarificationGenerator(logger *zap.Logger, generators ...Generator) *FailbackClarificationGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FailbackClarificationGenerator{logger: logger, generators: generators}
}

func (g *FailbackClarificationGenerator) GenerateClarification(ctx context.Context, req *Request) (string, error) {
	var lastErr error
	for i, generator := range g.generators {
		message, err := generator.GenerateClarification(ctx, req)
		if err == nil {
			return message, nil
		}
		lastErr = err
		g.logger.Warn("clarification generator degraded",
			zap.Int("generator", i),
			zap.String("field", req.Field.ID),
			zap.Error(err))
	}
	return "", fmt.Errorf("all clarification generators failed: %w", lastErr)
}
