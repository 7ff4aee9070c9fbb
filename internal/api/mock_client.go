package api

import (
	"context"
	"sync"

	"github.com/diogo/faqchat/internal/models"
)

// MockBackend is a mock implementation of BackendInterface for testing
type MockBackend struct {
	mu sync.Mutex

	// Mock return values
	ExchangeFunc func(ctx context.Context, message string) (*models.Reply, error)
	ExchangeVal  *models.Reply
	ExchangeErr  error
	PingErr      error
	PendingVal   []models.PendingQuestion
	PendingErr   error
	AnswerErr    error
	GenerateVal  string
	GenerateErr  error
	BaseURLVal   string

	// Call recorders
	Messages      []string
	AnsweredPairs [][2]string
	Generated     []string
	PingCalled    bool
}

// Ensure MockBackend implements BackendInterface
var _ BackendInterface = (*MockBackend)(nil)

func (m *MockBackend) Exchange(ctx context.Context, message string) (*models.Reply, error) {
	m.mu.Lock()
	m.Messages = append(m.Messages, message)
	fn := m.ExchangeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, message)
	}
	if m.ExchangeErr != nil {
		return nil, m.ExchangeErr
	}
	if m.ExchangeVal == nil {
		return &models.Reply{Text: models.ReplyFallback}, nil
	}
	return m.ExchangeVal, nil
}

func (m *MockBackend) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PingCalled = true
	return m.PingErr
}

func (m *MockBackend) Pending(ctx context.Context) ([]models.PendingQuestion, error) {
	return m.PendingVal, m.PendingErr
}

func (m *MockBackend) Answer(ctx context.Context, question, answer string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnsweredPairs = append(m.AnsweredPairs, [2]string{question, answer})
	return m.AnswerErr
}

func (m *MockBackend) Generate(ctx context.Context, question string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Generated = append(m.Generated, question)
	return m.GenerateVal, m.GenerateErr
}

func (m *MockBackend) BaseURL() string {
	if m.BaseURLVal == "" {
		return models.DefaultBaseURL
	}
	return m.BaseURLVal
}

// SentMessages returns a copy of the messages passed to Exchange
func (m *MockBackend) SentMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Messages))
	copy(out, m.Messages)
	return out
}
