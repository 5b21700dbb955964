package core

import (
	"github.com/stretchr/testify/mock"

	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockLogger is a testify mock of core.Logger
type MockLogger struct {
	mock.Mock
}

// NewMockLogger creates a MockLogger and asserts its expectations on cleanup
func NewMockLogger(t testingT) *MockLogger {
	m := &MockLogger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewPermissiveLogger returns a MockLogger that accepts any log call
func NewPermissiveLogger(t testingT) *MockLogger {
	m := NewMockLogger(t)
	for _, method := range []string{"Debug", "Info", "Warn", "Error"} {
		m.On(method, mock.Anything, mock.Anything).Maybe()
	}
	m.On("With", mock.Anything).Return(nil).Maybe()
	return m
}

func (m *MockLogger) SetLevel(level coreport.LogLevel) {
	m.Called(level)
}

func (m *MockLogger) GetLevel() coreport.LogLevel {
	args := m.Called()
	return args.Get(0).(coreport.LogLevel)
}

func (m *MockLogger) With(fields map[string]any) coreport.Logger {
	args := m.Called(fields)
	if l, ok := args.Get(0).(coreport.Logger); ok {
		return l
	}
	return m
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

func (m *MockLogger) Flush() error {
	args := m.Called()
	return args.Error(0)
}
