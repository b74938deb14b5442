// Package intake drives the turn-by-turn state machine that fills a form
// from free-text user replies.
package intake

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/types"
)

// State names the controller's position inside one turn. The five
// operations plus Advance and Output are the entire contract; transitions
// are dispatched by an explicit switch, not a workflow runtime.
type State string

const (
	StateAsk      State = "ask"
	StateProcess  State = "process"
	StateValidate State = "validate"
	StateClarify  State = "clarify"
	StateAnnotate State = "annotate"
	StateAdvance  State = "advance"
	StateOutput   State = "output"
)

// Session is the mutable record threaded through every turn. Each session is
// owned by exactly one conversation; there is no cross-session sharing.
type Session struct {
	ID     string         `json:"id"`
	Schema *schema.Schema `json:"-"`
	FormID string         `json:"form_id"`
	Mode   types.Mode     `json:"mode"`
	State  State          `json:"state"`

	CurrentFieldID string                           `json:"current_field_id,omitempty"`
	Collected      map[string]*types.CollectedValue `json:"collected"`
	// Order preserves fill order for prompts and sinks.
	Order []string `json:"order"`

	// Validation is transient and only meaningful for the current field.
	Validation         *types.ValidationResult `json:"validation,omitempty"`
	ClarificationCount int                     `json:"clarification_count"`
	Complete           bool                    `json:"is_complete"`

	// LatestQuestion is the only conversation history the engine keeps; a
	// clarification retry re-prompts within the same question context.
	LatestQuestion string `json:"latest_question,omitempty"`
}

// NewSession starts a session positioned at the first applicable field.
// The schema must already be validated; a schema with no applicable first
// field is a caller error.
func NewSession(s *schema.Schema, mode types.Mode) (*Session, error) {
	if s == nil {
		return nil, fmt.Errorf("intake: nil schema")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if mode == "" {
		mode = types.ModeHybrid
	}
	sess := &Session{
		ID:        uuid.NewString(),
		Schema:    s,
		FormID:    s.ID,
		Mode:      mode,
		State:     StateAsk,
		Collected: map[string]*types.CollectedValue{},
	}
	for _, f := range s.Fields {
		if schema.Visible(f, sess.Collected) {
			sess.CurrentFieldID = f.ID
			return sess, nil
		}
	}
	return nil, fmt.Errorf("intake: schema %q has no applicable first field", s.ID)
}

func (s *Session) currentField() (schema.Field, bool) {
	if s.CurrentFieldID == "" {
		return schema.Field{}, false
	}
	return s.Schema.FieldByID(s.CurrentFieldID)
}

func (s *Session) store(id string, cv *types.CollectedValue) {
	if _, seen := s.Collected[id]; !seen {
		s.Order = append(s.Order, id)
	}
	s.Collected[id] = cv
}
