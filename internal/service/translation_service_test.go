package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"doc-intel-server/internal/llm"
	"doc-intel-server/internal/mocks"
	"doc-intel-server/internal/models"
	"doc-intel-server/internal/service"
)

func translateRequest(count int) models.TranslateRequest {
	return models.TranslateRequest{
		SourceLanguage:    "English",
		TargetLanguage:    "Polish",
		Original:          "good morning",
		AlternativesCount: count,
	}
}

func TestTranslate_AllAlternativesProduced(t *testing.T) {
	mockAI := mocks.NewMockAIClient(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"translation": "dzien dobry"}`, llm.UsageInfo{}, nil).Once()
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"translation": "witam"}`, llm.UsageInfo{}, nil).Once()

	svc := service.NewTranslationService(mockAI, nil, zap.NewNop(), 3, 5)

	results, err := svc.Translate(context.Background(), translateRequest(2))

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "dzien dobry", results[0].Translation)
	assert.Equal(t, "witam", results[1].Translation)
	mockAI.AssertNumberOfCalls(t, "GenerateText", 2)
}

func TestTranslate_AbandonedAlternativeDoesNotAbort(t *testing.T) {
	// Four alternatives requested with budget 3. The third alternative's
	// three attempts all fail validation; the loop drops it and continues,
	// so the returned set has length 3 in original order.
	mockAI := mocks.NewMockAIClient(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"translation": "first"}`, llm.UsageInfo{}, nil).Once()
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"translation": "second"}`, llm.UsageInfo{}, nil).Once()
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{}`, llm.UsageInfo{}, nil).Times(3)
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"translation": "fourth"}`, llm.UsageInfo{}, nil).Once()

	svc := service.NewTranslationService(mockAI, nil, zap.NewNop(), 3, 5)

	results, err := svc.Translate(context.Background(), translateRequest(4))

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Translation)
	assert.Equal(t, "second", results[1].Translation)
	assert.Equal(t, "fourth", results[2].Translation)
	mockAI.AssertNumberOfCalls(t, "GenerateText", 6)
}

func TestTranslate_ZeroAlternativesIsExhaustion(t *testing.T) {
	mockAI := mocks.NewMockAIClient(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`garbage`, llm.UsageInfo{}, nil).Times(3)

	svc := service.NewTranslationService(mockAI, nil, zap.NewNop(), 3, 5)

	_, err := svc.Translate(context.Background(), translateRequest(1))

	assert.ErrorIs(t, err, models.ErrAttemptsExhausted)
}

func TestTranslate_PersistsEachSuccess(t *testing.T) {
	mockAI := mocks.NewMockAIClient(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"translation": "dzien dobry"}`, llm.UsageInfo{}, nil).Once()

	mockRepo := mocks.NewMockTranslationRepository(t)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.Translation")).
		Return(nil).Once().Run(func(args mock.Arguments) {
		saved := args.Get(1).(*models.Translation)
		assert.Equal(t, "good morning", saved.Original)
		assert.Equal(t, "dzien dobry", saved.Translated)
	})

	svc := service.NewTranslationService(mockAI, mockRepo, zap.NewNop(), 3, 5)

	_, err := svc.Translate(context.Background(), translateRequest(1))

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestVerify(t *testing.T) {
	mockAI := mocks.NewMockAIClient(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"isValid": true, "score": 92, "issues": [], "suggestions": []}`, llm.UsageInfo{}, nil).Once()

	svc := service.NewTranslationService(mockAI, nil, zap.NewNop(), 3, 5)

	req := translateRequest(1)
	req.Translation = "dzien dobry"
	verification, err := svc.Verify(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, verification.IsValid)
	assert.Equal(t, float64(92), verification.Score)
}

func streamReturn(text string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		handler := args.Get(4).(func(string) error)
		// Deliver the response in two ordered chunks.
		_ = handler(text[:len(text)/2])
		_ = handler(text[len(text)/2:])
	}
}

func TestRegenerate_StreamIsLazy(t *testing.T) {
	mockAI := mocks.NewMockAIClient(t)
	mockAI.On("GenerateTextStream", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(llm.UsageInfo{}, nil).Once().Run(streamReturn(`{"translation": "witam"}`))

	svc := service.NewTranslationService(mockAI, nil, zap.NewNop(), 3, 5)

	req := translateRequest(3)
	req.Translation = "dzien dobry"
	stream := svc.Regenerate(context.Background(), req)

	// Creating the stream triggers nothing.
	mockAI.AssertNumberOfCalls(t, "GenerateTextStream", 0)

	result, err := stream.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "witam", result.Translation)
	mockAI.AssertNumberOfCalls(t, "GenerateTextStream", 1)

	// Abandoning consumption here: no further generator calls happen.
}

func TestRegenerate_StreamFinishes(t *testing.T) {
	mockAI := mocks.NewMockAIClient(t)
	mockAI.On("GenerateTextStream", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(llm.UsageInfo{}, nil).Once().Run(streamReturn(`{"translation": "pierwszy"}`))
	mockAI.On("GenerateTextStream", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(llm.UsageInfo{}, nil).Once().Run(streamReturn(`{"translation": "drugi"}`))

	svc := service.NewTranslationService(mockAI, nil, zap.NewNop(), 3, 5)

	stream := svc.Regenerate(context.Background(), translateRequest(2))

	first, err := stream.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := stream.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first.Translation, second.Translation)

	done, err := stream.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, done, "a finished stream yields (nil, nil)")
	mockAI.AssertNumberOfCalls(t, "GenerateTextStream", 2)
}

func TestRegenerate_CancelledContextStopsStream(t *testing.T) {
	mockAI := mocks.NewMockAIClient(t)

	svc := service.NewTranslationService(mockAI, nil, zap.NewNop(), 3, 5)
	stream := svc.Regenerate(context.Background(), translateRequest(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stream.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	mockAI.AssertNumberOfCalls(t, "GenerateTextStream", 0)
}
