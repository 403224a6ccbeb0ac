package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	coremocks "github.com/amirhossein-jamali/staff-registry/mocks/port/core"
	"github.com/stretchr/testify/mock"
)

// MockUploadLockRepository is a testify mock of persistence.UploadLockRepository
type MockUploadLockRepository struct {
	mock.Mock
}

// NewMockUploadLockRepository creates a mock and asserts its expectations on cleanup
func NewMockUploadLockRepository(t coremocks.TestingT) *MockUploadLockRepository {
	m := &MockUploadLockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUploadLockRepository) TryAcquire(ctx context.Context, owner string, now, staleBefore time.Time) (bool, error) {
	args := m.Called(ctx, owner, now, staleBefore)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadLockRepository) Release(ctx context.Context, now time.Time) error {
	return m.Called(ctx, now).Error(0)
}

func (m *MockUploadLockRepository) Get(ctx context.Context) (*entity.LockState, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*entity.LockState)
	return s, args.Error(1)
}

func (m *MockUploadLockRepository) Seed(ctx context.Context, now time.Time) error {
	return m.Called(ctx, now).Error(0)
}
