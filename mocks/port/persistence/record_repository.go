package persistence

import (
	"context"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	coremocks "github.com/amirhossein-jamali/staff-registry/mocks/port/core"
	"github.com/stretchr/testify/mock"
)

// MockRecordRepository is a testify mock of persistence.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

// NewMockRecordRepository creates a mock and asserts its expectations on cleanup
func NewMockRecordRepository(t coremocks.TestingT) *MockRecordRepository {
	m := &MockRecordRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRecordRepository) FindByID(ctx context.Context, id string) (*entity.Record, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*entity.Record)
	return r, args.Error(1)
}

func (m *MockRecordRepository) Create(ctx context.Context, record *entity.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepository) Update(ctx context.Context, record *entity.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecordRepository) Count(ctx context.Context, query entity.RecordQuery) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) List(ctx context.Context, query entity.RecordQuery) ([]entity.Record, error) {
	args := m.Called(ctx, query)
	records, _ := args.Get(0).([]entity.Record)
	return records, args.Error(1)
}
