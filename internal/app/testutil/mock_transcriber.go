// Package testutil holds the shared fakes and fixtures the package tests use.
package testutil

import (
	"sync"
	"time"

	"rapidscribe/internal/app/api"
)

// MockTranscriber is a configurable in-memory Transcriber.
type MockTranscriber struct {
	mu              sync.Mutex
	defaultResponse string
	latency         time.Duration
	responses       map[string]string
	errs            map[string]error
	calls           []string
}

func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		defaultResponse: "mock transcription result",
		responses:       make(map[string]string),
		errs:            make(map[string]error),
	}
}

// WithDefaultResponse sets the text returned for paths without a specific
// response or error.
func (m *MockTranscriber) WithDefaultResponse(text string) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResponse = text
	return m
}

// WithLatency makes every call sleep, for exercising parallel paths.
func (m *MockTranscriber) WithLatency(d time.Duration) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency = d
	return m
}

// WithResponse pins the text returned for one path.
func (m *MockTranscriber) WithResponse(inputFilePath, text string) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[inputFilePath] = text
	return m
}

// WithError makes one path fail.
func (m *MockTranscriber) WithError(inputFilePath string, err error) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[inputFilePath] = err
	return m
}

func (m *MockTranscriber) Transcript(inputFilePath string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, inputFilePath)
	latency := m.latency
	err := m.errs[inputFilePath]
	text, ok := m.responses[inputFilePath]
	if !ok {
		text = m.defaultResponse
	}
	m.mu.Unlock()

	if latency > 0 {
		time.Sleep(latency)
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (m *MockTranscriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *MockTranscriber) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockTranscriber) WasCalledWith(inputFilePath string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.calls {
		if call == inputFilePath {
			return true
		}
	}
	return false
}

// Reset clears recorded calls and configured behavior.
func (m *MockTranscriber) Reset() *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.responses = make(map[string]string)
	m.errs = make(map[string]error)
	m.latency = 0
	m.defaultResponse = "mock transcription result"
	return m
}

var _ api.Transcriber = (*MockTranscriber)(nil)
