package storage

import (
	"context"

	coremocks "github.com/amirhossein-jamali/staff-registry/mocks/port/core"
	"github.com/stretchr/testify/mock"
)

// MockSequenceTracker is a testify mock of storage.SequenceTracker
type MockSequenceTracker struct {
	mock.Mock
}

// NewMockSequenceTracker creates a mock and asserts its expectations on cleanup
func NewMockSequenceTracker(t coremocks.TestingT) *MockSequenceTracker {
	m := &MockSequenceTracker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSequenceTracker) Claim(ctx context.Context, sessionID string, index int) error {
	return m.Called(ctx, sessionID, index).Error(0)
}

func (m *MockSequenceTracker) Forget(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}
