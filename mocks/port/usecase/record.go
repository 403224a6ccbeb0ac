package usecase

import (
	"context"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/usecase"
	coremocks "github.com/amirhossein-jamali/staff-registry/mocks/port/core"
	"github.com/stretchr/testify/mock"
)

// MockRecordService is a testify mock of usecase.RecordService
type MockRecordService struct {
	mock.Mock
}

// NewMockRecordService creates a mock and asserts its expectations on cleanup
func NewMockRecordService(t coremocks.TestingT) *MockRecordService {
	m := &MockRecordService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRecordService) List(ctx context.Context, query entity.RecordQuery) (*usecase.RecordPage, error) {
	args := m.Called(ctx, query)
	p, _ := args.Get(0).(*usecase.RecordPage)
	return p, args.Error(1)
}

func (m *MockRecordService) Get(ctx context.Context, id string) (*entity.Record, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*entity.Record)
	return r, args.Error(1)
}

func (m *MockRecordService) Create(ctx context.Context, input usecase.RecordInput) (*entity.Record, error) {
	args := m.Called(ctx, input)
	r, _ := args.Get(0).(*entity.Record)
	return r, args.Error(1)
}

func (m *MockRecordService) Update(ctx context.Context, id string, patch entity.RecordPatch) (*entity.Record, error) {
	args := m.Called(ctx, id, patch)
	r, _ := args.Get(0).(*entity.Record)
	return r, args.Error(1)
}

func (m *MockRecordService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
