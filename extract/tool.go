package extract

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	intakeschema "github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/structured"
	"github.com/intakeflow/intakeflow/types"
	"github.com/intakeflow/intakeflow/validate"
)

const (
	extractToolName        = "extract_field_value"
	extractToolDescription = "Extract the typed value for the current form field from the user's reply."
)

type extractedValue struct {
	Value      string   `json:"value" jsonschema:"required,description=The extracted value as a string in the field's expected format; empty when nothing could be extracted"`
	Confidence float64  `json:"confidence" jsonschema:"required,description=Extraction confidence between 0.0 and 1.0"`
	Notes      []string `json:"notes,omitempty" jsonschema:"description=Observations about ambiguity or uncertainty in the reply"`
}

// ToolBasedExtractor delegates extraction to the chat model and coerces the
// returned string into the field's value type.
type ToolBasedExtractor struct {
	chain *structured.Chain[*Request, extractedValue]
}

func NewToolBasedExtractor(chatModel model.ToolCallingChatModel, timeout time.Duration) (*ToolBasedExtractor, error) {
	chain, err := structured.NewChain[*Request, extractedValue](
		chatModel,
		buildExtractPrompt,
		extractToolName,
		extractToolDescription,
		timeout,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedExtractor{chain: chain}, nil
}

func (e *ToolBasedExtractor) Extract(ctx context.Context, req *Request) (*types.CollectedValue, error) {
	result, err := e.chain.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	cv := &types.CollectedValue{
		Value:      coerceValue(req.Field, result.Value),
		Raw:        req.UserText,
		Confidence: clampConfidence(result.Confidence),
		Method:     types.MethodGenerative,
	}
	cv.AppendNotes(result.Notes...)
	return cv, nil
}

// coerceValue converts the model's string output into the type validation
// expects for the field.
func coerceValue(f intakeschema.Field, raw string) any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	switch f.Type {
	case intakeschema.TypeNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
		return nil
	case intakeschema.TypeBoolean:
		normalized := strings.ToLower(raw)
		if affirmatives[normalized] {
			return true
		}
		if negatives[normalized] {
			return false
		}
		return nil
	case intakeschema.TypeDate:
		if t, ok := validate.ParseDate(raw); ok {
			return t.Format("2006-01-02")
		}
		return raw
	default:
		return raw
	}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func buildExtractPrompt(ctx context.Context, req *Request) ([]*schema.Message, error) {
	f := req.Field
	systemPrompt := fmt.Sprintf(`You are an assistant for an intake-form robot. Extract the value for exactly one form field from the user's reply.

Rules:
- Only extract information the user explicitly provided; never invent values.
- Return the value in the field's expected format (dates as YYYY-MM-DD, numbers as plain digits, booleans as "yes" or "no").
- For select fields, return the matching option verbatim.
- Report lower confidence when the reply is ambiguous, hedged or indirect, and note why.

Call the '%s' tool with the result.`, extractToolName)

	sections := []string{
		fmt.Sprintf("# Field:\n- label: %s\n- type: %s", f.Label, f.Type),
	}
	if f.Description != "" {
		sections = append(sections, fmt.Sprintf("# Description:\n%s", f.Description))
	}
	if len(f.Options) > 0 {
		sections = append(sections, fmt.Sprintf("# Options:\n%s", strings.Join(f.Options, ", ")))
	}
	if req.Question != "" {
		sections = append(sections, fmt.Sprintf("# Assistant Question:\n%s", req.Question))
	}
	sections = append(sections, fmt.Sprintf("# User Answer:\n%s", req.UserText))

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(strings.Join(sections, "\n\n")),
	}, nil
}
