package persistence

import (
	"context"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/persistence"
	coremocks "github.com/amirhossein-jamali/staff-registry/mocks/port/core"
	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a testify mock of persistence.UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

// NewMockUnitOfWork creates a mock and asserts its expectations on cleanup
func NewMockUnitOfWork(t coremocks.TestingT) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if fn, ok := args.Get(0).(func(context.Context) context.Context); ok {
		return fn(ctx), args.Error(1)
	}
	txCtx, _ := args.Get(0).(context.Context)
	return txCtx, args.Error(1)
}

func (m *MockUnitOfWork) BeginSnapshot(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if fn, ok := args.Get(0).(func(context.Context) context.Context); ok {
		return fn(ctx), args.Error(1)
	}
	txCtx, _ := args.Get(0).(context.Context)
	return txCtx, args.Error(1)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) GetRecordRepository(ctx context.Context) persistence.RecordRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.RecordRepository)
}
