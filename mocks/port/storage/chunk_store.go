package storage

import (
	"context"
	"io"

	coremocks "github.com/amirhossein-jamali/staff-registry/mocks/port/core"
	"github.com/stretchr/testify/mock"
)

// MockChunkStore is a testify mock of storage.ChunkStore
type MockChunkStore struct {
	mock.Mock
}

// NewMockChunkStore creates a mock and asserts its expectations on cleanup
func NewMockChunkStore(t coremocks.TestingT) *MockChunkStore {
	m := &MockChunkStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockChunkStore) TempKey(fileName, clientID string) string {
	return m.Called(fileName, clientID).String(0)
}

func (m *MockChunkStore) Reset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockChunkStore) Append(ctx context.Context, key string, data []byte) error {
	return m.Called(ctx, key, data).Error(0)
}

func (m *MockChunkStore) Promote(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockChunkStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	args := m.Called(ctx, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}
