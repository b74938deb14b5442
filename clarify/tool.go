package clarify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/intakeflow/intakeflow/structured"
)

const (
	clarifyToolName        = "propose_clarification"
	clarifyToolDescription = "Propose a clarification message after the user's reply failed validation."
)

type clarificationPlan struct {
	Message string `json:"message" jsonschema:"required,description=Friendly clarification explaining what was wrong and how to answer"`
}

// ToolBasedClarificationGenerator asks the chat model to rephrase the
// re-prompt; the attempt number is part of the prompt so repeated retries get
// different explanations.
type ToolBasedClarificationGenerator struct {
	chain *structured.Chain[*Request, clarificationPlan]
}

func NewToolBasedClarificationGenerator(chatModel model.ToolCallingChatModel, timeout time.Duration) (*ToolBasedClarificationGenerator, error) {
	chain, err := structured.NewChain[*Request, clarificationPlan](
		chatModel,
		buildClarifyPrompt,
		clarifyToolName,
		clarifyToolDescription,
		timeout,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedClarificationGenerator{chain: chain}, nil
}

func (g *ToolBasedClarificationGenerator) GenerateClarification(ctx context.Context, req *Request) (string, error) {
	plan, err := g.chain.Invoke(ctx, req)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if plan == nil || strings.TrimSpace(plan.Message) == "" {
		return "", fmt.Errorf("empty message returned by %s", clarifyToolName)
	}
	return plan.Message, nil
}

func buildClarifyPrompt(ctx context.Context, req *Request) ([]*schema.Message, error) {
	f := req.Field
	systemPrompt := fmt.Sprintf(`You are a friendly intake assistant. The user's last reply failed validation; ask them again.

Requirements:
- Be friendly and helpful, not robotic.
- Explain clearly what was wrong.
- Give a specific example of a correct answer.
- If this is not the first attempt, use a different explanation approach than before.
- Keep it concise.

Call the '%s' tool with the message.`, clarifyToolName)

	raw := ""
	if req.Value != nil {
		raw = req.Value.Raw
	}
	sections := []string{
		fmt.Sprintf("# Field:\n- label: %s\n- type: %s", f.Label, f.Type),
		fmt.Sprintf("# User said:\n%s", raw),
		fmt.Sprintf("# Validation errors:\n- %s", strings.Join(req.Errors, "\n- ")),
		fmt.Sprintf("# Attempt:\n%d of %d", req.Attempt, req.MaxAttempts),
	}
	if len(f.Options) > 0 {
		sections = append(sections, fmt.Sprintf("# Options:\n%s", strings.Join(f.Options, ", ")))
	}

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(strings.Join(sections, "\n\n")),
	}, nil
}
