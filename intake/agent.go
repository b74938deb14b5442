package intake

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/adk"
	einoschema "github.com/cloudwego/eino/schema"

	"github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/types"
)

var _ adk.Agent = (*Agent)(nil)

// Agent adapts a Flow to the eino adk agent contract: one user utterance in,
// one agent utterance out, with sessions resolved from the context key.
type Agent struct {
	name        string
	description string
	flow        *Flow
	store       SessionStore
	source      schema.Source
	formID      string
	mode        types.Mode
}

func NewAgent(name, description string, flow *Flow, store SessionStore, source schema.Source, formID string, mode types.Mode) *Agent {
	return &Agent{
		name:        name,
		description: description,
		flow:        flow,
		store:       store,
		source:      source,
		formID:      formID,
		mode:        mode,
	}
}

func (a *Agent) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent) Description(ctx context.Context) string {
	return a.description
}

func (a *Agent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			if e := recover(); e != nil {
				gen.Send(&adk.AgentEvent{Err: fmt.Errorf("recover from panic: %v", e)})
			}
			gen.Close()
		}()
		if len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{Err: fmt.Errorf("no messages in input")})
			return
		}
		message, err := a.handleTurn(ctx, input.Messages[len(input.Messages)-1].Content)
		if err != nil {
			gen.Send(&adk.AgentEvent{Err: err})
			return
		}
		gen.Send(&adk.AgentEvent{
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message: &einoschema.Message{
						Role:    einoschema.Assistant,
						Content: message,
					},
					Role: einoschema.Assistant,
				},
			},
		})
	}()
	return iter
}

// handleTurn opens a session on first contact (the triggering message is a
// greeting, not an answer) and submits every later message as the reply to
// the pending question.
func (a *Agent) handleTurn(ctx context.Context, userText string) (string, error) {
	session, ok, err := a.store.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	if !ok {
		form, lErr := a.source.Load(a.formID)
		if lErr != nil {
			return "", fmt.Errorf("load form: %w", lErr)
		}
		session, lErr = NewSession(form, a.mode)
		if lErr != nil {
			return "", lErr
		}
		question, lErr := a.flow.Open(ctx, session)
		if lErr != nil {
			return "", lErr
		}
		if wErr := a.store.Write(ctx, session); wErr != nil {
			return "", fmt.Errorf("write session: %w", wErr)
		}
		return question, nil
	}

	turn, err := a.flow.Submit(ctx, session, userText)
	if err != nil {
		return "", err
	}
	if turn.Done {
		if rErr := a.store.Remove(ctx); rErr != nil {
			return "", fmt.Errorf("remove session: %w", rErr)
		}
		return turn.Message, nil
	}
	if err := a.store.Write(ctx, session); err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}
	return turn.Message, nil
}
