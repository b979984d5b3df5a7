package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/user/kitsune/pkg/ports"
)

// RefreshSource is a mock implementation of ports.RefreshSource.
// Tests push timestamps with Emit.
type RefreshSource struct {
	mu      sync.Mutex
	ch      chan time.Duration
	stopped bool

	StartErr    error
	StartCalled bool
	StopCalled  bool
}

// NewRefreshSource creates a new mock RefreshSource.
func NewRefreshSource() *RefreshSource {
	return &RefreshSource{ch: make(chan time.Duration)}
}

func (m *RefreshSource) Start(ctx context.Context) (<-chan time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalled = true
	if m.StartErr != nil {
		return nil, m.StartErr
	}
	return m.ch, nil
}

// Emit sends one timestamp; it blocks until the pump receives it.
func (m *RefreshSource) Emit(ts time.Duration) {
	m.ch <- ts
}

func (m *RefreshSource) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCalled = true
	if !m.stopped {
		m.stopped = true
		close(m.ch)
	}
}

var _ ports.RefreshSource = (*RefreshSource)(nil)
