package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"slide-generator/internal/model"
	"slide-generator/internal/repository"
)

// MockPresentationRepository is a mock type for the PresentationRepository type
type MockPresentationRepository struct {
	mock.Mock
}

func (_m *MockPresentationRepository) Put(ctx context.Context, p *model.Presentation) error {
	ret := _m.Called(ctx, p)
	return ret.Error(0)
}

func (_m *MockPresentationRepository) Get(ctx context.Context, id string) (*model.Presentation, error) {
	ret := _m.Called(ctx, id)
	var r0 *model.Presentation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Presentation).Clone()
	}
	return r0, ret.Error(1)
}

func (_m *MockPresentationRepository) Update(ctx context.Context, p *model.Presentation) error {
	ret := _m.Called(ctx, p)
	return ret.Error(0)
}

func (_m *MockPresentationRepository) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *MockPresentationRepository) ListExpired(ctx context.Context, before time.Time) ([]string, error) {
	ret := _m.Called(ctx, before)
	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

func (_m *MockPresentationRepository) Oldest(ctx context.Context, n int) ([]string, error) {
	ret := _m.Called(ctx, n)
	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

func (_m *MockPresentationRepository) Count(ctx context.Context) (int, error) {
	ret := _m.Called(ctx)
	return ret.Int(0), ret.Error(1)
}

// NewMockPresentationRepository creates a new instance of MockPresentationRepository.
func NewMockPresentationRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPresentationRepository {
	m := &MockPresentationRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ repository.PresentationRepository = (*MockPresentationRepository)(nil)
