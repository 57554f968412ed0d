package provider

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of the Provider interface for testing.
type MockProvider struct {
	mock.Mock
}

// NewMockProvider creates a new MockProvider instance.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// ListInstances mocks listing all instances.
func (m *MockProvider) ListInstances(ctx context.Context) ([]Instance, error) {
	args := m.Called(ctx)

	result, ok := args.Get(0).([]Instance)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// DescribeInstances mocks describing a set of instances.
func (m *MockProvider) DescribeInstances(ctx context.Context, ids []string) ([]Instance, error) {
	args := m.Called(ctx, ids)

	result, ok := args.Get(0).([]Instance)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// StartInstance mocks a start request.
func (m *MockProvider) StartInstance(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}

// StopInstance mocks a stop request.
func (m *MockProvider) StopInstance(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}
