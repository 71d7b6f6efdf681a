package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"doc-intel-server/internal/llm"
	"doc-intel-server/internal/models"
	"doc-intel-server/internal/schemas"
)

// scriptedGenerator returns canned responses in order; an entry with err set
// simulates a transport failure.
type scriptedGenerator struct {
	responses []scriptedResponse
	calls     int
}

type scriptedResponse struct {
	text string
	err  error
}

func (g *scriptedGenerator) generate(_ context.Context, _, _ string, _ llm.GenerationParams) (string, llm.UsageInfo, error) {
	if g.calls >= len(g.responses) {
		g.calls++
		return "", llm.UsageInfo{}, errors.New("scripted generator called more times than expected")
	}
	r := g.responses[g.calls]
	g.calls++
	return r.text, llm.UsageInfo{}, r.err
}

func TestComplete_FirstValidatedSuccessWins(t *testing.T) {
	gen := &scriptedGenerator{responses: []scriptedResponse{
		{text: `{"translation": "hello"}`},
		{text: `{"translation": "never reached"}`},
	}}

	result, err := llm.Complete(context.Background(), gen.generate, zap.NewNop(), llm.Request{}, 3, schemas.ParseTranslation)

	require.NoError(t, err)
	assert.Equal(t, "hello", result.Translation)
	assert.Equal(t, 1, gen.calls, "loop must stop at the first validated success")
}

func TestComplete_MalformedThenValid(t *testing.T) {
	// Two malformed responses followed by a valid one, budget 5: success
	// after exactly three generator calls.
	gen := &scriptedGenerator{responses: []scriptedResponse{
		{text: `not json at all`},
		{text: `{"translation": }`},
		{text: `{"translation": "third time lucky"}`},
	}}

	result, err := llm.Complete(context.Background(), gen.generate, zap.NewNop(), llm.Request{}, 5, schemas.ParseTranslation)

	require.NoError(t, err)
	assert.Equal(t, "third time lucky", result.Translation)
	assert.Equal(t, 3, gen.calls)
}

func TestComplete_ExhaustionAfterBudget(t *testing.T) {
	gen := &scriptedGenerator{responses: []scriptedResponse{
		{text: `{}`},
		{text: `{}`},
		{text: `{}`},
	}}

	_, err := llm.Complete(context.Background(), gen.generate, zap.NewNop(), llm.Request{}, 3, schemas.ParseTranslation)

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAttemptsExhausted)
	assert.Equal(t, 3, gen.calls, "every attempt in the budget must be consumed, none beyond")
}

func TestComplete_TransportErrorConsumesAttempt(t *testing.T) {
	gen := &scriptedGenerator{responses: []scriptedResponse{
		{err: errors.New("connection refused")},
		{text: `{"translation": "recovered"}`},
	}}

	result, err := llm.Complete(context.Background(), gen.generate, zap.NewNop(), llm.Request{}, 3, schemas.ParseTranslation)

	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Translation)
	assert.Equal(t, 2, gen.calls)
}

func TestComplete_EmptyObjectIsValidationFailure(t *testing.T) {
	gen := &scriptedGenerator{responses: []scriptedResponse{
		{text: `{}`},
		{text: `{}`},
	}}

	_, err := llm.Complete(context.Background(), gen.generate, zap.NewNop(), llm.Request{}, 2, schemas.ParseTranslation)

	assert.ErrorIs(t, err, models.ErrAttemptsExhausted)
	assert.ErrorContains(t, err, "after 2 attempts")
}

func TestComplete_BudgetFloorIsOne(t *testing.T) {
	gen := &scriptedGenerator{responses: []scriptedResponse{
		{text: `{"translation": "once"}`},
	}}

	result, err := llm.Complete(context.Background(), gen.generate, zap.NewNop(), llm.Request{}, 0, schemas.ParseTranslation)

	require.NoError(t, err)
	assert.Equal(t, "once", result.Translation)
	assert.Equal(t, 1, gen.calls)
}

func TestComplete_CancelledContextStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &scriptedGenerator{responses: []scriptedResponse{
		{text: `{"translation": "unreachable"}`},
	}}

	_, err := llm.Complete(ctx, gen.generate, zap.NewNop(), llm.Request{}, 3, schemas.ParseTranslation)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, gen.calls)
}

func TestComplete_ExtraFieldsTolerated(t *testing.T) {
	gen := &scriptedGenerator{responses: []scriptedResponse{
		{text: `{"translation": "ok", "confidence": 0.9, "note": "extra"}`},
	}}

	result, err := llm.Complete(context.Background(), gen.generate, zap.NewNop(), llm.Request{}, 3, schemas.ParseTranslation)

	require.NoError(t, err)
	assert.Equal(t, "ok", result.Translation)
}

func TestCleanResponse(t *testing.T) {
	t.Run("strips fenced json", func(t *testing.T) {
		raw := "```json\n{\"translation\": \"x\"}\n```"
		assert.Equal(t, `{"translation": "x"}`, llm.CleanResponse(raw))
	})

	t.Run("strips bare fences", func(t *testing.T) {
		raw := "```\n{\"a\": 1}\n```"
		assert.Equal(t, `{"a": 1}`, llm.CleanResponse(raw))
	})

	t.Run("leaves plain json untouched", func(t *testing.T) {
		raw := `  {"a": 1}  `
		assert.Equal(t, `{"a": 1}`, llm.CleanResponse(raw))
	})
}
