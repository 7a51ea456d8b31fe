package internal

import (
	"sync"

	"github.com/velkstack/velk/core"
)

// CaptureLogger is a core.Logger that records every message so
// tests can assert on what was logged.
type CaptureLogger struct {
	mu       sync.Mutex
	messages []CapturedMessage
}

// CapturedMessage is one recorded log call.
type CapturedMessage struct {
	Level   string
	Message string
	Fields  []core.LogField
}

// NewCaptureLogger creates a logger that records messages in
// memory.
func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{}
}

func (l *CaptureLogger) record(level, message string, fields []core.LogField) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, CapturedMessage{
		Level:   level,
		Message: message,
		Fields:  fields,
	})
}

func (l *CaptureLogger) Debug(message string, fields ...core.LogField) {
	l.record("debug", message, fields)
}

func (l *CaptureLogger) Info(message string, fields ...core.LogField) {
	l.record("info", message, fields)
}

func (l *CaptureLogger) Warn(message string, fields ...core.LogField) {
	l.record("warn", message, fields)
}

func (l *CaptureLogger) Error(message string, fields ...core.LogField) {
	l.record("error", message, fields)
}

func (l *CaptureLogger) WithFields(fields ...core.LogField) core.Logger {
	return l
}

func (l *CaptureLogger) Named(name string) core.Logger {
	return l
}

// Messages returns a snapshot of the recorded messages.
func (l *CaptureLogger) Messages() []CapturedMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]CapturedMessage{}, l.messages...)
}

// CountLevel returns the number of recorded messages at a level.
func (l *CaptureLogger) CountLevel(level string) int {
	count := 0
	for _, message := range l.Messages() {
		if message.Level == level {
			count++
		}
	}
	return count
}
