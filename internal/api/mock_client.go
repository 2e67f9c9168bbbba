package api

import (
	"context"

	"github.com/lucas/huechat/internal/chat"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	// Mock return values
	CompleteVal string
	CompleteErr error
	Model       string
	IsClosedVal bool

	// Call counters/recorders
	CompleteCalled int
	CloseCalled    bool
	LastAPIKey     string
	LastPrompt     string
	LastHistory    []chat.Turn
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) Complete(ctx context.Context, apiKey, prompt string, history []chat.Turn) (string, error) {
	m.CompleteCalled++
	m.LastAPIKey = apiKey
	m.LastPrompt = prompt
	m.LastHistory = history
	return m.CompleteVal, m.CompleteErr
}

func (m *MockClient) GetModel() string {
	return m.Model
}

func (m *MockClient) SetModel(model string) {
	m.Model = model
}

func (m *MockClient) Close() {
	m.CloseCalled = true
}

func (m *MockClient) IsClosed() bool {
	return m.IsClosedVal
}
