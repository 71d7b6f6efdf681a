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

func TestBatchTranslate_AllChunksSucceed(t *testing.T) {
	mockAI := mocks.NewMockAIClient(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`["ta", "tb"]`, llm.UsageInfo{}, nil).Once()
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`["tc", "td"]`, llm.UsageInfo{}, nil).Once()

	pipeline := service.NewBatchTranslationPipeline(mockAI, nil, zap.NewNop(), 2, 3)

	items, partial, err := pipeline.Translate(context.Background(), "English", "Polish", "", []string{"a", "b", "c", "d"})

	require.NoError(t, err)
	assert.False(t, partial)
	require.Len(t, items, 4)
	assert.Equal(t, service.BatchItem{Original: "a", Translated: "ta"}, items[0])
	assert.Equal(t, service.BatchItem{Original: "d", Translated: "td"}, items[3])
}

func TestBatchTranslate_DroppedChunkPreservesOrder(t *testing.T) {
	// ["a","b","c","d"] with chunk size 2: chunk 1 succeeds, chunk 2
	// exhausts its budget. Result is exactly the translations of a and b,
	// in order, with the partial flag set.
	mockAI := mocks.NewMockAIClient(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`["ta", "tb"]`, llm.UsageInfo{}, nil).Once()
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`not json`, llm.UsageInfo{}, nil).Times(3)

	pipeline := service.NewBatchTranslationPipeline(mockAI, nil, zap.NewNop(), 2, 3)

	items, partial, err := pipeline.Translate(context.Background(), "English", "Polish", "", []string{"a", "b", "c", "d"})

	require.NoError(t, err)
	assert.True(t, partial)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Original)
	assert.Equal(t, "ta", items[0].Translated)
	assert.Equal(t, "b", items[1].Original)
	assert.Equal(t, "tb", items[1].Translated)
	mockAI.AssertNumberOfCalls(t, "GenerateText", 4)
}

func TestBatchTranslate_LengthMismatchConsumesRetry(t *testing.T) {
	// A response array of the wrong length is a validation failure: the
	// loop retries and the second attempt succeeds.
	mockAI := mocks.NewMockAIClient(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`["only one"]`, llm.UsageInfo{}, nil).Once()
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`["ta", "tb"]`, llm.UsageInfo{}, nil).Once()

	pipeline := service.NewBatchTranslationPipeline(mockAI, nil, zap.NewNop(), 2, 3)

	items, partial, err := pipeline.Translate(context.Background(), "English", "Polish", "", []string{"a", "b"})

	require.NoError(t, err)
	assert.False(t, partial)
	assert.Len(t, items, 2)
	mockAI.AssertNumberOfCalls(t, "GenerateText", 2)
}

func TestBatchTranslate_PersistsSuccesses(t *testing.T) {
	mockAI := mocks.NewMockAIClient(t)
	mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`["ta"]`, llm.UsageInfo{}, nil).Once()

	mockRepo := mocks.NewMockTranslationRepository(t)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.Translation")).
		Return(nil).Once().Run(func(args mock.Arguments) {
		saved := args.Get(1).(*models.Translation)
		assert.Equal(t, "a", saved.Original)
		assert.Equal(t, "ta", saved.Translated)
	})

	pipeline := service.NewBatchTranslationPipeline(mockAI, mockRepo, zap.NewNop(), 2, 3)

	_, _, err := pipeline.Translate(context.Background(), "English", "Polish", "", []string{"a"})

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestBatchTranslate_EmptyInput(t *testing.T) {
	mockAI := mocks.NewMockAIClient(t)

	pipeline := service.NewBatchTranslationPipeline(mockAI, nil, zap.NewNop(), 2, 3)

	items, partial, err := pipeline.Translate(context.Background(), "English", "Polish", "", nil)

	require.NoError(t, err)
	assert.False(t, partial)
	assert.Empty(t, items)
	mockAI.AssertNumberOfCalls(t, "GenerateText", 0)
}
