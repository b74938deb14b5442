package annotate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var uncertaintyMarkers = []struct {
	pattern *regexp.Regexp
	note    string
}{
	{regexp.MustCompile(`\bi think\b`), "Response contains uncertainty"},
	{regexp.MustCompile(`\bmaybe\b`), "Response contains uncertainty"},
	{regexp.MustCompile(`\bapprox`), "Approximate value provided"},
	{regexp.MustCompile(`\baround\b`), "Approximate value provided"},
	{regexp.MustCompile(`\bnot sure\b`), "Respondent expressed uncertainty"},
}

var (
	conditionalPattern = regexp.MustCompile(`\b(if|unless|depending|when)\b`)
	timePattern        = regexp.MustCompile(`\b(currently|right now|at the moment|as of)\b`)
	referencePattern   = regexp.MustCompile(`\b(attached|see |refer to|document)\b`)
)

// LocalAnnotator scans the raw reply for fixed marker sets. Each category
// contributes at most one note; uncertainty stops at the first match to
// avoid duplicates.
type LocalAnnotator struct{}

func (a *LocalAnnotator) Annotate(ctx context.Context, req *Request) ([]string, error) {
	if req.Value == nil {
		return nil, nil
	}
	text := strings.ToLower(req.Value.Raw)
	var notes []string

	for _, marker := range uncertaintyMarkers {
		if marker.pattern.MatchString(text) {
			notes = append(notes, marker.note)
			break
		}
	}
	if conditionalPattern.MatchString(text) {
		notes = append(notes, "Response contains conditional language")
	}
	if timePattern.MatchString(text) {
		notes = append(notes, "Response may be time-sensitive")
	}
	if referencePattern.MatchString(text) {
		notes = append(notes, "References external document")
	}
	return notes, nil
}

// FailbackAnnotator tries annotators in order, degrading on error.
type FailbackAnnotator struct {
	logger     *zap.Logger
	annotators []Annotator
}

func NewFailbackAnnotator(logger *zap.Logger, annotators ...Annotator) *FailbackAnnotator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FailbackAnnotator{logger: logger, annotators: annotators}
}

func (a *FailbackAnnotator) Annotate(ctx context.Context, req *Request) ([]string, error) {
	var lastErr error
	for i, annotator := range a.annotators {
		notes, err := annotator.Annotate(ctx, req)
		if err == nil {
			return notes, nil
		}
		lastErr = err
		a.logger.Warn("annotator degraded",
			zap.Int("annotator", i),
			zap.String("field", req.Field.ID),
			zap.Error(err))
	}
	return nil, fmt.Errorf("all annotators failed: %w", lastErr)
}
