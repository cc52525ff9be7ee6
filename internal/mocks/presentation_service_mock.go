package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"slide-generator/internal/model"
	"slide-generator/internal/service"
)

// MockPresentationService is a mock type for the PresentationService type
type MockPresentationService struct {
	mock.Mock
}

func (_m *MockPresentationService) Create(ctx context.Context, topic string, cfg model.PresentationConfig) (*model.Presentation, error) {
	ret := _m.Called(ctx, topic, cfg)
	var r0 *model.Presentation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Presentation)
	}
	return r0, ret.Error(1)
}

func (_m *MockPresentationService) Get(ctx context.Context, id string) (*model.Presentation, error) {
	ret := _m.Called(ctx, id)
	var r0 *model.Presentation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Presentation)
	}
	return r0, ret.Error(1)
}

func (_m *MockPresentationService) Download(ctx context.Context, id string) (*service.Document, error) {
	ret := _m.Called(ctx, id)
	var r0 *service.Document
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*service.Document)
	}
	return r0, ret.Error(1)
}

func (_m *MockPresentationService) Configure(ctx context.Context, id string, patch map[string]json.RawMessage) (*model.Presentation, error) {
	ret := _m.Called(ctx, id, patch)
	var r0 *model.Presentation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Presentation)
	}
	return r0, ret.Error(1)
}

func (_m *MockPresentationService) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *MockPresentationService) Sweep(ctx context.Context) (int, error) {
	ret := _m.Called(ctx)
	return ret.Int(0), ret.Error(1)
}

// NewMockPresentationService creates a new instance of MockPresentationService.
func NewMockPresentationService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPresentationService {
	m := &MockPresentationService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ service.PresentationService = (*MockPresentationService)(nil)
