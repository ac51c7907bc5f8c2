package remotefields

import (
	"context"
	"sync"
)

// MockCall records one Fetch invocation on a MockEndpoint.
type MockCall struct {
	Keys []any
}

// MockEndpoint implements Endpoint with canned records and a call log. It is
// safe for concurrent use and intended for tests of schemas that declare
// remote fields.
type MockEndpoint struct {
	mu      sync.Mutex
	name    string
	records []Record
	err     error
	calls   []MockCall
}

// NewMockEndpoint creates a mock endpoint returning records for every call.
// Records are returned as-is regardless of the requested keys; the resolver
// matches them by key like it would with a real endpoint.
func NewMockEndpoint(name string, records ...Record) *MockEndpoint {
	return &MockEndpoint{name: name, records: records}
}

// FailWith makes every subsequent Fetch return err. Returns the endpoint for
// chaining.
func (m *MockEndpoint) FailWith(err error) *MockEndpoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Fetch logs the call and returns the canned records or the configured error.
// It respects ctx cancellation.
func (m *MockEndpoint) Fetch(ctx context.Context, keys []any) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Keys: append([]any(nil), keys...)})
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

// Calls returns a copy of the recorded invocations.
func (m *MockEndpoint) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// CallCount returns how many times Fetch was invoked.
func (m *MockEndpoint) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *MockEndpoint) String() string { return m.name }
