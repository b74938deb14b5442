package ask

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
	askToolName        = "propose_question"
	askToolDescription = "Propose the next conversational question to collect one form field."
)

type questionPlan struct {
	Question string `json:"question" jsonschema:"required,description=Natural conversational question asking the user for this field"`
}

// ToolBasedQuestionGenerator asks the chat model for a context-aware
// question. Calls are bounded by the chain timeout; errors are returned so a
// failback wrapper can degrade to the template.
type ToolBasedQuestionGenerator struct {
	chain *structured.Chain[*Request, questionPlan]
}

func NewToolBasedQuestionGenerator(chatModel model.ToolCallingChatModel, timeout time.Duration) (*ToolBasedQuestionGenerator, error) {
	chain, err := structured.NewChain[*Request, questionPlan](
		chatModel,
		buildQuestionPrompt,
		askToolName,
		askToolDescription,
		timeout,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedQuestionGenerator{chain: chain}, nil
}

func (g *ToolBasedQuestionGenerator) GenerateQuestion(ctx context.Context, req *Request) (string, error) {
	plan, err := g.chain.Invoke(ctx, req)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if plan == nil || strings.TrimSpace(plan.Question) == "" {
		return "", fmt.Errorf("empty question returned by %s", askToolName)
	}
	return plan.Question, nil
}

func buildQuestionPrompt(ctx context.Context, req *Request) ([]*schema.Message, error) {
	f := req.Field
	systemPrompt := fmt.Sprintf(`You are a friendly intake assistant collecting one form field at a time.

Generate a natural, conversational question to collect the field below.
- Sound natural and friendly.
- Include format hints if helpful.
- Reference previous answers if relevant.
- Keep it concise (1-2 sentences).

Call the '%s' tool with the question.`, askToolName)

	sections := []string{
		fmt.Sprintf("# Field:\n- label: %s\n- type: %s", f.Label, f.Type),
	}
	if f.Description != "" {
		sections = append(sections, fmt.Sprintf("# Description:\n%s", f.Description))
	}
	if len(f.Options) > 0 {
		sections = append(sections, fmt.Sprintf("# Options:\n%s", formatOptions(f.Options)))
	}
	sections = append(sections, types.FormatCollected(req.Order, req.Collected))

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(strings.Join(sections, "\n\n")),
	}, nil
}
