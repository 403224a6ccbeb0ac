package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/usecase"
	coremocks "github.com/amirhossein-jamali/staff-registry/mocks/port/core"
	"github.com/stretchr/testify/mock"
)

// MockIngester is a testify mock of usecase.Ingester
type MockIngester struct {
	mock.Mock
}

// NewMockIngester creates a mock and asserts its expectations on cleanup
func NewMockIngester(t coremocks.TestingT) *MockIngester {
	m := &MockIngester{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockIngester) Ingest(ctx context.Context, fileName string, at time.Time) (*usecase.IngestResult, error) {
	args := m.Called(ctx, fileName, at)
	r, _ := args.Get(0).(*usecase.IngestResult)
	return r, args.Error(1)
}
