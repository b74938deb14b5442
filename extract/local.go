package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/types"
	"github.com/intakeflow/intakeflow/validate"
)

var (
	emailPattern  = regexp.MustCompile(`[\w.+-]+@[\w.-]+\.\w+`)
	numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)
	nonDigits     = regexp.MustCompile(`\D`)

	affirmatives = map[string]bool{"yes": true, "y": true, "yeah": true, "yep": true, "true": true, "1": true, "correct": true}
	negatives    = map[string]bool{"no": true, "n": true, "nope": true, "false": true, "0": true, "incorrect": true}
)

// LocalExtractor parses replies with type-dispatched pattern matching.
// Confidence is 1.0 when the structured parse succeeds and 0.5 when the raw
// text passes through uninterpreted.
type LocalExtractor struct{}

func (e *LocalExtractor) Extract(ctx context.Context, req *Request) (*types.CollectedValue, error) {
	text := req.UserText
	cv := &types.CollectedValue{Raw: text, Method: types.MethodDeterministic}

	switch req.Field.Type {
	case schema.TypeEmail:
		if m := emailPattern.FindString(text); m != "" {
			cv.Value, cv.Confidence = m, 1.0
		} else {
			cv.Value, cv.Confidence = strings.TrimSpace(text), 0.5
		}
	case schema.TypePhone:
		cv.Value, cv.Confidence = extractPhone(text)
	case schema.TypeDate:
		if t, ok := validate.ParseDate(strings.TrimSpace(text)); ok {
			cv.Value, cv.Confidence = t.Format("2006-01-02"), 1.0
		} else {
			cv.Value, cv.Confidence = strings.TrimSpace(text), 0.5
		}
	case schema.TypeNumber:
		if m := numberPattern.FindString(text); m != "" {
			if n, err := strconv.ParseFloat(m, 64); err == nil {
				cv.Value, cv.Confidence = n, 1.0
				break
			}
		}
		// No number in the reply at all.
		cv.Value, cv.Confidence = nil, 0.3
	case schema.TypeBoolean:
		cv.Value, cv.Confidence = extractBoolean(text)
	case schema.TypeSelect:
		cv.Value, cv.Confidence = extractSelect(text, req.Field.Options)
	default: // text, address
		trimmed := strings.TrimSpace(text)
		cv.Value = trimmed
		if trimmed != "" {
			cv.Confidence = 1.0
		} else {
			cv.Confidence = 0.5
		}
	}
	return cv, nil
}

func extractPhone(text string) (any, float64) {
	digits := nonDigits.ReplaceAllString(text, "")
	if len(digits) == 10 {
		return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:]), 1.0
	}
	if len(digits) > 10 {
		return digits, 1.0
	}
	return strings.TrimSpace(text), 0.5
}

func extractBoolean(text string) (any, float64) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if affirmatives[normalized] {
		return true, 1.0
	}
	if negatives[normalized] {
		return false, 1.0
	}
	return nil, 0.5
}

// extractSelect matches case-insensitively: first exact match wins, then the
// first option where either string contains the other, else the raw text
// passes through uninterpreted.
func extractSelect(text string, options []string) (any, float64) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, opt := range options {
		if strings.ToLower(opt) == normalized {
			return opt, 1.0
		}
	}
	for _, opt := range options {
		lower := strings.ToLower(opt)
		if strings.Contains(lower, normalized) || strings.Contains(normalized, lower) {
			return opt, 1.0
		}
	}
	return strings.TrimSpace(text), 0.5
}

// FailbackExtractor tries extractors in order, degrading on error.
type FailbackExtractor struct {
	logger     *zap.Logger
	extractors []Extractor
}

func NewFailbackExtractor(logger *zap.Logger, extractors ...Extractor) *FailbackExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FailbackExtractor{logger: logger, extractors: extractors}
}

func (e *FailbackExtractor) Extract(ctx context.Context, req *Request) (*types.CollectedValue, error) {
	var lastErr error
	for i, extractor := range e.extractors {
		cv, err := extractor.Extract(ctx, req)
		if err == nil {
			return cv, nil
		}
		lastErr = err
		e.logger.Warn("extractor degraded",
			zap.Int("extractor", i),
			zap.String("field", req.Field.ID),
			zap.Error(err))
	}
	return nil, fmt.Errorf("all extractors failed: %w", lastErr)
}
