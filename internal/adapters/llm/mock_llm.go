package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/PabloGalante/lumen-console/internal/domain"
)

// MockClient is an offline stand-in for the generative backend. It records
// the requests it receives so tests can assert on what went out, and can be
// scripted to return a fixed reply or a fixed error.
type MockClient struct {
	mu       sync.Mutex
	Reply    string
	Err      error
	Requests []domain.GenerateRequest
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateResponse, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	reply, err := m.Reply, m.Err
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if reply == "" {
		reply = fmt.Sprintf("I heard you. You said %q — tell me more.", req.Prompt)
	}
	return &domain.GenerateResponse{Text: reply, Raw: reply}, nil
}

// Calls returns how many requests reached the mock.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// LastRequest returns the most recent request, or nil when none was made.
func (m *MockClient) LastRequest() *domain.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil
	}
	req := m.Requests[len(m.Requests)-1]
	return &req
}
