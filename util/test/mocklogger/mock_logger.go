// Package mocklogger provides a call-counting logger for tests that need to
// assert something was (or was not) logged.
package mocklogger

import (
	"fmt"
	"sync"

	"github.com/florin-chain/florind/ulogger"
)

type MockLogger struct {
	mu sync.Mutex

	DebugCalls int
	InfoCalls  int
	WarnCalls  int
	ErrorCalls int
	FatalCalls int

	Messages []string

	level string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{level: "INFO"}
}

func (m *MockLogger) record(format string, args ...interface{}) {
	m.Messages = append(m.Messages, fmt.Sprintf(format, args...))
}

func (m *MockLogger) LogLevel() int {
	return 0
}

func (m *MockLogger) SetLogLevel(level string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.level = level
}

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DebugCalls++
	m.record(format, args...)
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InfoCalls++
	m.record(format, args...)
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WarnCalls++
	m.record(format, args...)
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ErrorCalls++
	m.record(format, args...)
}

func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FatalCalls++
	m.record(format, args...)
}

func (m *MockLogger) New(service string, _ ...ulogger.Option) ulogger.Logger {
	return m
}

func (m *MockLogger) Duplicate(_ ...ulogger.Option) ulogger.Logger {
	return m
}
