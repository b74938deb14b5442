package ask

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var questionTemplates = map[string]string{
	"text":    "What is your %s?",
	"email":   "What is your %s? (e.g., name@example.com)",
	"phone":   "What is your %s? Please include area code.",
	"date":    "What is your %s? (e.g., MM/DD/YYYY)",
	"number":  "What is your %s?",
	"boolean": "%s? (Yes/No)",
	"address": "What is your %s? Please include full address.",
}

// LocalQuestionGenerator phrases questions from fixed per-type templates.
// It is synchronous and never fails.
type LocalQuestionGenerator struct{}

func (g *LocalQuestionGenerator) GenerateQuestion(ctx context.Context, req *Request) (string, error) {
	f := req.Field
	if f.Type == "select" {
		return fmt.Sprintf("What is your %s?\n%s", f.Label, formatOptions(f.Options)), nil
	}
	template, ok := questionTemplates[string(f.Type)]
	if !ok {
		template = "What is your %s?"
	}
	return fmt.Sprintf(template, f.Label), nil
}

func formatOptions(options []string) string {
	lines := make([]string, 0, len(options))
	for _, opt := range options {
		lines = append(lines, "- "+opt)
	}
	return strings.Join(lines, "\n")
}

// FailbackQuestionGenerator tries generators in order and returns the first
// success, logging each degradation. With a generative generator first and a
// local one second it implements the fail-closed rule: a timed-out or failed
// model call degrades to the template for that single invocation.
type FailbackQuestionGenerator struct {
	logger     *zap.Logger
	generators []Generator
}

func NewFailbackQuestionGenerator(logger *zap.Logger, generators ...Generator) *FailbackQuestionGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FailbackQuestionGenerator{logger: logger, generators: generators}
}

func (g *FailbackQuestionGenerator) GenerateQuestion(ctx context.Context, req *Request) (string, error) {
	var lastErr error
	for i, generator := range g.generators {
		question, err := generator.GenerateQuestion(ctx, req)
		if err == nil {
			return question, nil
		}
		lastErr = err
		g.logger.Warn("question generator degraded",
			zap.Int("generator", i),
			zap.String("field", req.Field.ID),
			zap.Error(err))
	}
	return "", fmt.Errorf("all question generators failed: %w", lastErr)
}
