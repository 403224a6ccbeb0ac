package core

import (
	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/stretchr/testify/mock"
)

// TestingT is the subset of *testing.T the mocks need
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockLogger is a testify mock of coreport.Logger
type MockLogger struct {
	mock.Mock
}

// NewMockLogger creates a mock and asserts its expectations on cleanup
func NewMockLogger(t TestingT) *MockLogger {
	m := &MockLogger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLogger) SetLevel(level coreport.LogLevel) {
	m.Called(level)
}

func (m *MockLogger) GetLevel() coreport.LogLevel {
	args := m.Called()
	return args.Get(0).(coreport.LogLevel)
}

func (m *MockLogger) Debug(message string, fields map[string]any) {
	m.Called(message, fields)
}

func (m *MockLogger) Info(message string, fields map[string]any) {
	m.Called(message, fields)
}

func (m *MockLogger) Warn(message string, fields map[string]any) {
	m.Called(message, fields)
}

func (m *MockLogger) Error(message string, fields map[string]any) {
	m.Called(message, fields)
}

// With returns the mock itself so expectations keep applying to child loggers
func (m *MockLogger) With(fields map[string]any) coreport.Logger {
	return m
}

func (m *MockLogger) Flush() error {
	args := m.Called()
	return args.Error(0)
}

// AllowAll accepts any log call without asserting on it
func (m *MockLogger) AllowAll() *MockLogger {
	for _, method := range []string{"Debug", "Info", "Warn", "Error"} {
		m.On(method, mock.Anything, mock.Anything).Maybe()
	}
	return m
}
