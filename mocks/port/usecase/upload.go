package usecase

import (
	"context"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/usecase"
	coremocks "github.com/amirhossein-jamali/staff-registry/mocks/port/core"
	"github.com/stretchr/testify/mock"
)

// MockUploadLock is a testify mock of usecase.UploadLock
type MockUploadLock struct {
	mock.Mock
}

// NewMockUploadLock creates a mock and asserts its expectations on cleanup
func NewMockUploadLock(t coremocks.TestingT) *MockUploadLock {
	m := &MockUploadLock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUploadLock) Acquire(ctx context.Context, owner string) bool {
	return m.Called(ctx, owner).Bool(0)
}

func (m *MockUploadLock) Release(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockUploadLock) State(ctx context.Context) (*entity.LockState, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*entity.LockState)
	return s, args.Error(1)
}

// MockChunkUploader is a testify mock of usecase.ChunkUploader
type MockChunkUploader struct {
	mock.Mock
}

// NewMockChunkUploader creates a mock and asserts its expectations on cleanup
func NewMockChunkUploader(t coremocks.TestingT) *MockChunkUploader {
	m := &MockChunkUploader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockChunkUploader) UploadChunk(ctx context.Context, chunk entity.Chunk) (*usecase.ChunkResult, error) {
	args := m.Called(ctx, chunk)
	r, _ := args.Get(0).(*usecase.ChunkResult)
	return r, args.Error(1)
}
