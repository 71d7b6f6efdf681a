package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"doc-intel-server/internal/models"
	"doc-intel-server/internal/repository"
)

// MockTranslationRepository is a mock type for the TranslationRepository type
type MockTranslationRepository struct {
	mock.Mock
}

// Save provides a mock function with given fields: ctx, t
func (_m *MockTranslationRepository) Save(ctx context.Context, t *models.Translation) error {
	ret := _m.Called(ctx, t)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *models.Translation) error); ok {
		r0 = rf(ctx, t)
	} else {
		err := ret.Error(0)
		if err != nil {
			r0 = err
		}
	}

	return r0
}

// List provides a mock function with given fields: ctx, limit, offset
func (_m *MockTranslationRepository) List(ctx context.Context, limit int, offset int) ([]models.Translation, error) {
	ret := _m.Called(ctx, limit, offset)

	var r0 []models.Translation
	if rf, ok := ret.Get(0).(func(context.Context, int, int) []models.Translation); ok {
		r0 = rf(ctx, limit, offset)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]models.Translation)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int, int) error); ok {
		r1 = rf(ctx, limit, offset)
	} else {
		err := ret.Error(1)
		if err != nil {
			r1 = err
		}
	}

	return r0, r1
}

// NewMockTranslationRepository creates a new instance of MockTranslationRepository.
// The first argument is typically a *testing.T value.
func NewMockTranslationRepository(t interface {
	mock.TestingT
	Helper()
}) *MockTranslationRepository {
	m := &MockTranslationRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.TranslationRepository = (*MockTranslationRepository)(nil)
