package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"doc-intel-server/internal/llm"
)

// MockAIClient is a mock type for the AIClient type
type MockAIClient struct {
	mock.Mock
}

// Prepare provides a mock function with given fields: ctx, model
func (_m *MockAIClient) Prepare(ctx context.Context, model string) {
	_m.Called(ctx, model)
}

// GenerateText provides a mock function with given fields: ctx, systemPrompt, userInput, params
func (_m *MockAIClient) GenerateText(ctx context.Context, systemPrompt string, userInput string, params llm.GenerationParams) (string, llm.UsageInfo, error) {
	ret := _m.Called(ctx, systemPrompt, userInput, params)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string, string, llm.GenerationParams) string); ok {
		r0 = rf(ctx, systemPrompt, userInput, params)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(string)
		}
	}

	var r1 llm.UsageInfo
	if rf, ok := ret.Get(1).(func(context.Context, string, string, llm.GenerationParams) llm.UsageInfo); ok {
		r1 = rf(ctx, systemPrompt, userInput, params)
	} else {
		if ret.Get(1) != nil {
			r1 = ret.Get(1).(llm.UsageInfo)
		}
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string, string, llm.GenerationParams) error); ok {
		r2 = rf(ctx, systemPrompt, userInput, params)
	} else {
		err := ret.Error(2)
		if err != nil {
			r2 = err
		}
	}

	return r0, r1, r2
}

// GenerateTextStream provides a mock function with given fields: ctx, systemPrompt, userInput, params, chunkHandler
func (_m *MockAIClient) GenerateTextStream(ctx context.Context, systemPrompt string, userInput string, params llm.GenerationParams, chunkHandler func(string) error) (llm.UsageInfo, error) {
	ret := _m.Called(ctx, systemPrompt, userInput, params, chunkHandler)

	var r0 llm.UsageInfo
	if rf, ok := ret.Get(0).(func(context.Context, string, string, llm.GenerationParams, func(string) error) llm.UsageInfo); ok {
		r0 = rf(ctx, systemPrompt, userInput, params, chunkHandler)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(llm.UsageInfo)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string, llm.GenerationParams, func(string) error) error); ok {
		r1 = rf(ctx, systemPrompt, userInput, params, chunkHandler)
	} else {
		err := ret.Error(1)
		if err != nil {
			r1 = err
		}
	}

	return r0, r1
}

// NewMockAIClient creates a new instance of MockAIClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockAIClient(t interface {
	mock.TestingT
	Helper()
}) *MockAIClient {
	m := &MockAIClient{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ llm.AIClient = (*MockAIClient)(nil)
