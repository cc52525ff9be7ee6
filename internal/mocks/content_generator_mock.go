package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"slide-generator/internal/generator"
	"slide-generator/internal/model"
)

// MockContentGenerator is a mock type for the ContentGenerator type
type MockContentGenerator struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, topic, n
func (_m *MockContentGenerator) Generate(ctx context.Context, topic string, n int) ([]model.SlideRecord, error) {
	ret := _m.Called(ctx, topic, n)

	var r0 []model.SlideRecord
	if rf, ok := ret.Get(0).(func(context.Context, string, int) []model.SlideRecord); ok {
		r0 = rf(ctx, topic, n)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.SlideRecord)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, int) error); ok {
		r1 = rf(ctx, topic, n)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockContentGenerator creates a new instance of MockContentGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockContentGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockContentGenerator {
	m := &MockContentGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ generator.ContentGenerator = (*MockContentGenerator)(nil)
