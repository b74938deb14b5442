// Package policy decides, per operation invocation, whether to run the cheap
// deterministic strategy or the higher-latency generative one.
package policy

import (
	"strings"

	"github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/types"
)

// Operation names the four strategy-backed steps of a turn.
type Operation string

const (
	OpAsk      Operation = "ask"
	OpExtract  Operation = "extract"
	OpClarify  Operation = "clarify"
	OpAnnotate Operation = "annotate"
)

// Config carries the hybrid-mode thresholds. Thresholds are configuration,
// never constants inside the selection logic.
type Config struct {
	// ConfidenceThreshold escalates extraction when the previous
	// deterministic pass scored below it.
	ConfidenceThreshold float64
	// DescriptionLength escalates ask/extract for fields whose description
	// is longer than this.
	DescriptionLength int
	// ComplexTypes always escalate ask/extract.
	ComplexTypes []schema.FieldType
	// ResponseLength and ResponseWords escalate annotation for long replies.
	ResponseLength int
	ResponseWords  int
}

// DefaultConfig mirrors the documented defaults.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.7,
		DescriptionLength:   50,
		ComplexTypes:        []schema.FieldType{schema.TypeAddress, schema.TypeText},
		ResponseLength:      100,
		ResponseWords:       20,
	}
}

// Input is everything the selector may consult for one invocation.
type Input struct {
	Mode  types.Mode
	Field schema.Field
	// LastConfidence is the confidence of the most recent deterministic
	// extraction for this field; negative when there was none.
	LastConfidence float64
	// Raw is the user's reply, consulted for annotation escalation.
	Raw string
}

type Selector struct {
	cfg Config
}

func NewSelector(cfg Config) *Selector {
	return &Selector{cfg: cfg}
}

// Select returns the strategy for one operation invocation. Speed and
// quality modes are unconditional; hybrid applies the per-operation rules.
func (s *Selector) Select(op Operation, in Input) types.Method {
	switch in.Mode {
	case types.ModeSpeed:
		return types.MethodDeterministic
	case types.ModeQuality:
		return types.MethodGenerative
	}

	switch op {
	case OpClarify:
		// Clarification quality materially affects retry success.
		return types.MethodGenerative
	case OpAsk:
		if s.complexField(in.Field) {
			return types.MethodGenerative
		}
	case OpExtract:
		if s.complexField(in.Field) {
			return types.MethodGenerative
		}
		if in.LastConfidence >= 0 && in.LastConfidence < s.cfg.ConfidenceThreshold {
			return types.MethodGenerative
		}
	case OpAnnotate:
		if len(in.Raw) > s.cfg.ResponseLength || len(strings.Fields(in.Raw)) > s.cfg.ResponseWords {
			return types.MethodGenerative
		}
	}
	return types.MethodDeterministic
}

func (s *Selector) complexField(f schema.Field) bool {
	if len(f.Description) > s.cfg.DescriptionLength {
		return true
	}
	for _, t := range s.cfg.ComplexTypes {
		if f.Type == t {
			return true
		}
	}
	return false
}
