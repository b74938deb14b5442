package annotate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/intakeflow/intakeflow/structured"
	"github.com/intakeflow/intakeflow/types"
)

const (
	annotateToolName        = "record_observations"
	annotateToolDescription = "Record notable observations about the user's reply to one form field."
)

type observations struct {
	Notes []string `json:"notes" jsonschema:"description=Observations about the reply; empty when nothing is notable"`
}

// ToolBasedAnnotator asks the chat model for free-form notes, including
// cross-field inconsistency flags against prior answers.
type ToolBasedAnnotator struct {
	chain *structured.Chain[*Request, observations]
}

func NewToolBasedAnnotator(chatModel model.ToolCallingChatModel, timeout time.Duration) (*ToolBasedAnnotator, error) {
	chain, err := structured.NewChain[*Request, observations](
		chatModel,
		buildAnnotatePrompt,
		annotateToolName,
		annotateToolDescription,
		timeout,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedAnnotator{chain: chain}, nil
}

func (a *ToolBasedAnnotator) Annotate(ctx context.Context, req *Request) ([]string, error) {
	result, err := a.chain.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	return result.Notes, nil
}

func buildAnnotatePrompt(ctx context.Context, req *Request) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You review replies to an intake form. Flag any of the following if present:
- Uncertainty or hedging language
- Conditional statements
- Time-sensitive information
- References to external documents
- Inconsistencies with previous answers
- Anything that might need follow-up

Return an empty list when nothing is notable. Call the '%s' tool with the notes.`, annotateToolName)

	raw, value := "", ""
	if req.Value != nil {
		raw = req.Value.Raw
		value = types.FormatValue(req.Value.Value)
	}
	sections := []string{
		fmt.Sprintf("# Field:\n%s", req.Field.ID),
		fmt.Sprintf("# User said:\n%s", raw),
		fmt.Sprintf("# Extracted value:\n%s", value),
		types.FormatCollected(req.Order, req.Collected),
	}

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(strings.Join(sections, "\n\n")),
	}, nil
}
