package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/types"
)

type stubChatModel struct {
	arguments string
	err       error
}

func (m *stubChatModel) Generate(ctx context.Context, in []*einoschema.Message, opts ...model.Option) (*einoschema.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &einoschema.Message{
		Role: einoschema.Assistant,
		ToolCalls: []einoschema.ToolCall{
			{Function: einoschema.FunctionCall{Name: extractToolName, Arguments: m.arguments}},
		},
	}, nil
}

func (m *stubChatModel) Stream(ctx context.Context, in []*einoschema.Message, opts ...model.Option) (*einoschema.StreamReader[*einoschema.Message], error) {
	return nil, errors.New("not implemented")
}

func (m *stubChatModel) WithTools(tools []*einoschema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func TestToolBasedExtractor(t *testing.T) {
	stub := &stubChatModel{arguments: `{"value": "john@example.com", "confidence": 0.9, "notes": ["reply was indirect"]}`}
	extractor, err := NewToolBasedExtractor(stub, time.Second)
	require.NoError(t, err)

	field := schema.Field{ID: "email", Type: schema.TypeEmail, Label: "email"}
	cv, err := extractor.Extract(context.Background(), &Request{Field: field, UserText: "it's john at example dot com"})
	require.NoError(t, err)

	assert.Equal(t, "john@example.com", cv.Value)
	assert.Equal(t, "it's john at example dot com", cv.Raw)
	assert.Equal(t, 0.9, cv.Confidence)
	assert.Equal(t, types.MethodGenerative, cv.Method)
	assert.Equal(t, []string{"reply was indirect"}, cv.Notes)
}

func TestToolBasedExtractorModelFailure(t *testing.T) {
	stub := &stubChatModel{err: errors.New("timeout")}
	extractor, err := NewToolBasedExtractor(stub, time.Second)
	require.NoError(t, err)

	field := schema.Field{ID: "email", Type: schema.TypeEmail, Label: "email"}
	_, err = extractor.Extract(context.Background(), &Request{Field: field, UserText: "x"})
	assert.ErrorContains(t, err, "LLM call failed")
}

func TestCoerceValue(t *testing.T) {
	number := schema.Field{ID: "n", Type: schema.TypeNumber, Label: "n"}
	assert.Equal(t, 4500.0, coerceValue(number, "4500"))
	assert.Nil(t, coerceValue(number, "many"))

	boolean := schema.Field{ID: "b", Type: schema.TypeBoolean, Label: "b"}
	assert.Equal(t, true, coerceValue(boolean, "yes"))
	assert.Equal(t, false, coerceValue(boolean, "No"))
	assert.Nil(t, coerceValue(boolean, "possibly"))

	date := schema.Field{ID: "d", Type: schema.TypeDate, Label: "d"}
	assert.Equal(t, "2024-01-15", coerceValue(date, "01/15/2024"))
	assert.Equal(t, "someday", coerceValue(date, "someday"))

	text := schema.Field{ID: "t", Type: schema.TypeText, Label: "t"}
	assert.Equal(t, "hello", coerceValue(text, " hello "))
	assert.Nil(t, coerceValue(text, "   "))
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.0, clampConfidence(-0.2))
	assert.Equal(t, 0.5, clampConfidence(0.5))
	assert.Equal(t, 1.0, clampConfidence(1.7))
}
