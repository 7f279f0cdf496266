package providers

import (
	"context"
	"sync"
)

// MockCompleter is a test implementation of Completer that returns scripted
// completions without touching any external service.
//
// Behavior per call, in order of precedence:
//  1. If Reply is set, it decides the outcome for each request.
//  2. Otherwise Text is returned with zero token usage.
//
// MockCompleter records every request it receives and is safe for concurrent
// use, making it suitable for exercising the fan-out stages.
type MockCompleter struct {
	// Reply, when non-nil, scripts the outcome for each request.
	Reply func(req Request) (Completion, error)

	// Text is the canned completion text used when Reply is nil.
	Text string

	mu       sync.Mutex
	requests []Request
}

// Complete implements Completer. It respects context cancellation and
// records the request before producing the scripted reply.
func (m *MockCompleter) Complete(ctx context.Context, req Request) (Completion, error) {
	select {
	case <-ctx.Done():
		return Completion{}, ctx.Err()
	default:
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Reply != nil {
		return m.Reply(req)
	}
	return Completion{Text: m.Text, Model: req.Model}, nil
}

// Name returns "mock" as the provider identifier.
func (m *MockCompleter) Name() string {
	return "mock"
}

// Calls returns how many completion requests the mock has received.
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every recorded request, in arrival order.
func (m *MockCompleter) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}
