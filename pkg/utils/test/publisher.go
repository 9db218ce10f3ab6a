package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/switchboard/pkg/eventstream"
)

// MockPublisher is a test event publisher that records every published event.
type MockPublisher struct {
	mu     sync.Mutex
	events []*eventstream.ChatCompletedEvent
	closed bool

	// FailPublish causes PublishChat to return this error.
	FailPublish error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishChat(_ context.Context, event *eventstream.ChatCompletedEvent) error {
	if m.FailPublish != nil {
		return m.FailPublish
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of the events published so far.
func (m *MockPublisher) Events() []*eventstream.ChatCompletedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*eventstream.ChatCompletedEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockPublisher) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
