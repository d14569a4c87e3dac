package concurrency

import (
	"context"
	"sync"
)

// Manager serializes work per key. Callers sharing a key queue behind
// one another; unrelated keys proceed in parallel. The runner keys on
// the repository checkout path so two runs never mutate the same
// working tree at once.
type Manager struct {
	locks sync.Map // map[string]chan struct{}
}

// NewManager creates a new concurrency manager.
func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) lock(key string) chan struct{} {
	// Create or load a buffered channel of size 1 (semaphore pattern)
	actual, _ := m.locks.LoadOrStore(key, make(chan struct{}, 1))
	return actual.(chan struct{})
}

// Acquire blocks until the lock for key is free, then takes it.
// Returns ctx.Err() when the context ends before the lock frees.
func (m *Manager) Acquire(ctx context.Context, key string) error {
	select {
	case m.lock(key) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release releases the lock for the given key.
// Safe to call even if lock was never acquired or already released.
func (m *Manager) Release(key string) {
	if actual, ok := m.locks.Load(key); ok {
		select {
		case <-actual.(chan struct{}):
		default:
		}
	}
}
