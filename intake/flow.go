package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	"github.com/intakeflow/intakeflow/annotate"
	"github.com/intakeflow/intakeflow/ask"
	"github.com/intakeflow/intakeflow/clarify"
	"github.com/intakeflow/intakeflow/extract"
	"github.com/intakeflow/intakeflow/policy"
	"github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/sink"
	"github.com/intakeflow/intakeflow/types"
	"github.com/intakeflow/intakeflow/validate"
)

// DefaultMaxClarifications bounds retries per field before forced accept.
const DefaultMaxClarifications = 3

// forcedAcceptNote marks a value kept despite failed validation once the
// retry budget is exhausted.
const forcedAcceptNote = "accepted after maximum clarification attempts"

const completionMessage = "That's everything I needed. Thank you!"

// Strategies carries both implementations of every operation. Local
// strategies are mandatory; generative ones are optional and only reachable
// through the policy.
type Strategies struct {
	AskLocal      ask.Generator
	AskGenerative ask.Generator

	ExtractLocal      extract.Extractor
	ExtractGenerative extract.Extractor

	ClarifyLocal      clarify.Generator
	ClarifyGenerative clarify.Generator

	AnnotateLocal      annotate.Annotator
	AnnotateGenerative annotate.Annotator
}

type Option func(*Flow)

func WithLogger(logger *zap.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func WithSelector(selector *policy.Selector) Option {
	return func(f *Flow) { f.selector = selector }
}

func WithMaxClarifications(max int) Option {
	return func(f *Flow) {
		if max > 0 {
			f.maxClarifications = max
		}
	}
}

// WithSink hands every completed session to out exactly once. A sink
// failure is reported on the final turn and never unwinds the session.
func WithSink(out sink.Sink) Option {
	return func(f *Flow) { f.sink = out }
}

// Flow is the turn controller. It owns no session state: the caller passes
// the session record into every call, so many sessions can share one Flow.
type Flow struct {
	strategies        Strategies
	selector          *policy.Selector
	maxClarifications int
	sink              sink.Sink
	logger            *zap.Logger
}

func NewFlow(strategies Strategies, opts ...Option) (*Flow, error) {
	if strategies.AskLocal == nil {
		strategies.AskLocal = &ask.LocalQuestionGenerator{}
	}
	if strategies.ExtractLocal == nil {
		strategies.ExtractLocal = &extract.LocalExtractor{}
	}
	if strategies.ClarifyLocal == nil {
		strategies.ClarifyLocal = &clarify.LocalClarificationGenerator{}
	}
	if strategies.AnnotateLocal == nil {
		strategies.AnnotateLocal = &annotate.LocalAnnotator{}
	}
	f := &Flow{
		strategies:        strategies,
		selector:          policy.NewSelector(policy.DefaultConfig()),
		maxClarifications: DefaultMaxClarifications,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	// Generative strategies always fail closed to their local counterpart.
	if strategies.AskGenerative != nil {
		f.strategies.AskGenerative = ask.NewFailbackQuestionGenerator(f.logger, strategies.AskGenerative, f.strategies.AskLocal)
	}
	if strategies.ExtractGenerative != nil {
		f.strategies.ExtractGenerative = extract.NewFailbackExtractor(f.logger, strategies.ExtractGenerative, f.strategies.ExtractLocal)
	}
	if strategies.ClarifyGenerative != nil {
		f.strategies.ClarifyGenerative = clarify.NewFailbackClarificationGenerator(f.logger, strategies.ClarifyGenerative, f.strategies.ClarifyLocal)
	}
	if strategies.AnnotateGenerative != nil {
		f.strategies.AnnotateGenerative = annotate.NewFailbackAnnotator(f.logger, strategies.AnnotateGenerative, f.strategies.AnnotateLocal)
	}
	return f, nil
}

// NewToolBasedFlow wires every generative strategy to one chat model, with
// each call bounded by timeout.
func NewToolBasedFlow(chatModel model.ToolCallingChatModel, timeout time.Duration, opts ...Option) (*Flow, error) {
	askGen, err := ask.NewToolBasedQuestionGenerator(chatModel, timeout)
	if err != nil {
		return nil, fmt.Errorf("create question generator: %w", err)
	}
	extractGen, err := extract.NewToolBasedExtractor(chatModel, timeout)
	if err != nil {
		return nil, fmt.Errorf("create extractor: %w", err)
	}
	clarifyGen, err := clarify.NewToolBasedClarificationGenerator(chatModel, timeout)
	if err != nil {
		return nil, fmt.Errorf("create clarification generator: %w", err)
	}
	annotateGen, err := annotate.NewToolBasedAnnotator(chatModel, timeout)
	if err != nil {
		return nil, fmt.Errorf("create annotator: %w", err)
	}
	return NewFlow(Strategies{
		AskGenerative:      askGen,
		ExtractGenerative:  extractGen,
		ClarifyGenerative:  clarifyGen,
		AnnotateGenerative: annotateGen,
	}, opts...)
}

// Turn is one agent utterance produced by the controller.
type Turn struct {
	Message string
	Done    bool
	// SavedTo and SaveErr report the sink outcome on the final turn; a sink
	// failure does not invalidate the completed session.
	SavedTo string
	SaveErr error
}

// Open emits the opening question for the session's first field.
func (f *Flow) Open(ctx context.Context, s *Session) (string, error) {
	if s.Complete || s.State != StateAsk {
		return "", fmt.Errorf("intake: session %s is not awaiting its first question (state %s)", s.ID, s.State)
	}
	question, err := f.askQuestion(ctx, s)
	if err != nil {
		return "", err
	}
	s.LatestQuestion = question
	s.State = StateProcess
	return question, nil
}

// Submit consumes one user reply and runs the state machine until it needs
// the next user message: Process -> Validate -> (Clarify | Annotate ->
// Advance -> (Ask | Output)).
func (f *Flow) Submit(ctx context.Context, s *Session, userText string) (*Turn, error) {
	if s.Complete {
		return nil, fmt.Errorf("intake: session %s is already complete", s.ID)
	}
	if s.State != StateProcess {
		return nil, fmt.Errorf("intake: session %s is not awaiting a reply (state %s)", s.ID, s.State)
	}
	field, ok := s.currentField()
	if !ok {
		return nil, fmt.Errorf("intake: session %s has no current field", s.ID)
	}

	// Process
	cv, err := f.extractValue(ctx, s, field, userText)
	if err != nil {
		return nil, err
	}
	s.store(field.ID, cv)
	f.logger.Debug("processed reply",
		zap.String("session", s.ID),
		zap.String("field", field.ID),
		zap.String("method", string(cv.Method)),
		zap.Float64("confidence", cv.Confidence))

	// Validate
	s.State = StateValidate
	result := validate.Check(cv.Value, field)
	s.Validation = &result

	if !result.Valid {
		s.ClarificationCount++
		if s.ClarificationCount < f.maxClarifications {
			s.State = StateClarify
			message, cErr := f.clarifyValue(ctx, s, field, cv, result.Errors)
			if cErr != nil {
				return nil, cErr
			}
			// Loop back to Process within the same question context.
			s.State = StateProcess
			return &Turn{Message: message}, nil
		}
		// Retry budget exhausted: forced accept, never a stall.
		cv.AppendNotes(forcedAcceptNote)
		f.logger.Info("forced accept after max clarification attempts",
			zap.String("session", s.ID),
			zap.String("field", field.ID))
	}

	// Annotate
	s.State = StateAnnotate
	notes, err := f.annotateValue(ctx, s, field, cv)
	if err != nil {
		return nil, err
	}
	cv.AppendNotes(notes...)

	// Advance
	s.State = StateAdvance
	s.Validation = nil
	s.ClarificationCount = 0
	if next, found := f.nextField(s, field.ID); found {
		s.CurrentFieldID = next.ID
		s.State = StateAsk
		question, aErr := f.askQuestion(ctx, s)
		if aErr != nil {
			return nil, aErr
		}
		s.LatestQuestion = question
		s.State = StateProcess
		return &Turn{Message: question}, nil
	}

	// Output
	s.CurrentFieldID = ""
	s.Complete = true
	s.State = StateOutput
	f.logger.Info("session complete",
		zap.String("session", s.ID),
		zap.String("form", s.FormID),
		zap.Int("fields", len(s.Order)))

	turn := &Turn{Message: completionMessage, Done: true}
	if f.sink != nil {
		turn.SavedTo, turn.SaveErr = f.sink.Save(ctx, s.Collected, sink.Metadata{
			"form_id":      s.FormID,
			"session_id":   s.ID,
			"mode":         string(s.Mode),
			"completed_at": time.Now().UTC().Format(time.RFC3339),
		})
		if turn.SaveErr != nil {
			f.logger.Error("sink save failed", zap.String("session", s.ID), zap.Error(turn.SaveErr))
		}
	}
	return turn, nil
}

// nextField scans strictly after the current field in declared order and
// returns the first one visible against the values collected so far.
func (f *Flow) nextField(s *Session, currentID string) (schema.Field, bool) {
	idx := s.Schema.FieldIndex(currentID)
	for i := idx + 1; i < len(s.Schema.Fields); i++ {
		candidate := s.Schema.Fields[i]
		if schema.Visible(candidate, s.Collected) {
			return candidate, true
		}
	}
	return schema.Field{}, false
}

func (f *Flow) askQuestion(ctx context.Context, s *Session) (string, error) {
	field, ok := s.currentField()
	if !ok {
		return "", fmt.Errorf("intake: session %s has no current field", s.ID)
	}
	req := &ask.Request{Field: field, Order: s.Order, Collected: s.Collected}
	generator := f.strategies.AskLocal
	if f.method(policy.OpAsk, s, field) == types.MethodGenerative && f.strategies.AskGenerative != nil {
		generator = f.strategies.AskGenerative
	}
	return generator.GenerateQuestion(ctx, req)
}

func (f *Flow) extractValue(ctx context.Context, s *Session, field schema.Field, userText string) (*types.CollectedValue, error) {
	req := &extract.Request{Field: field, Question: s.LatestQuestion, UserText: userText}
	extractor := f.strategies.ExtractLocal
	if f.method(policy.OpExtract, s, field) == types.MethodGenerative && f.strategies.ExtractGenerative != nil {
		extractor = f.strategies.ExtractGenerative
	}
	return extractor.Extract(ctx, req)
}

func (f *Flow) clarifyValue(ctx context.Context, s *Session, field schema.Field, cv *types.CollectedValue, errs []string) (string, error) {
	req := &clarify.Request{
		Field:       field,
		Errors:      errs,
		Value:       cv,
		Attempt:     s.ClarificationCount,
		MaxAttempts: f.maxClarifications,
	}
	generator := f.strategies.ClarifyLocal
	if f.method(policy.OpClarify, s, field) == types.MethodGenerative && f.strategies.ClarifyGenerative != nil {
		generator = f.strategies.ClarifyGenerative
	}
	return generator.GenerateClarification(ctx, req)
}

func (f *Flow) annotateValue(ctx context.Context, s *Session, field schema.Field, cv *types.CollectedValue) ([]string, error) {
	req := &annotate.Request{Field: field, Value: cv, Order: s.Order, Collected: s.Collected}
	annotator := f.strategies.AnnotateLocal
	in := f.policyInput(s, field)
	in.Raw = cv.Raw
	if f.selector.Select(policy.OpAnnotate, in) == types.MethodGenerative && f.strategies.AnnotateGenerative != nil {
		annotator = f.strategies.AnnotateGenerative
	}
	return annotator.Annotate(ctx, req)
}

func (f *Flow) method(op policy.Operation, s *Session, field schema.Field) types.Method {
	return f.selector.Select(op, f.policyInput(s, field))
}

func (f *Flow) policyInput(s *Session, field schema.Field) policy.Input {
	in := policy.Input{Mode: s.Mode, Field: field, LastConfidence: -1}
	if prev, ok := s.Collected[field.ID]; ok && prev.Method == types.MethodDeterministic {
		in.LastConfidence = prev.Confidence
	}
	return in
}
