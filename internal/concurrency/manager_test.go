package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestManager_AcquireAndRelease(t *testing.T) {
	m := NewManager()
	key := "/srv/checkouts/widgets"

	if err := m.Acquire(context.Background(), key); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}

	// A second acquisition must wait. Give it a short deadline so the
	// test fails fast instead of hanging.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := m.Acquire(ctx, key); err == nil {
		t.Error("second Acquire should block while the lock is held")
	}

	m.Release(key)
	if err := m.Acquire(context.Background(), key); err != nil {
		t.Errorf("Acquire after Release failed: %v", err)
	}
	m.Release(key)
}

func TestManager_AcquireQueues(t *testing.T) {
	m := NewManager()
	key := "/srv/checkouts/widgets"

	if err := m.Acquire(context.Background(), key); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		if err := m.Acquire(context.Background(), key); err != nil {
			t.Errorf("queued Acquire failed: %v", err)
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("queued Acquire should not proceed while the lock is held")
	case <-time.After(50 * time.Millisecond):
	}

	m.Release(key)

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("queued Acquire should proceed after Release")
	}
	m.Release(key)
}

func TestManager_AcquireCanceledContext(t *testing.T) {
	m := NewManager()
	key := "/srv/checkouts/widgets"

	if err := m.Acquire(context.Background(), key); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer m.Release(key)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Acquire(ctx, key); err != context.Canceled {
		t.Errorf("Acquire with canceled context = %v, want context.Canceled", err)
	}
}

func TestManager_Release_Idempotent(t *testing.T) {
	m := NewManager()
	key := "/srv/checkouts/widgets"

	// Release without acquiring should not panic
	m.Release(key)
	m.Release(key)

	// Acquire, release multiple times
	if err := m.Acquire(context.Background(), key); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	m.Release(key)
	m.Release(key) // Should be safe
	m.Release(key) // Should be safe

	// Should be able to acquire again
	if err := m.Acquire(context.Background(), key); err != nil {
		t.Errorf("Acquire after multiple releases failed: %v", err)
	}
	m.Release(key)
}

func TestManager_SerializesSameKey(t *testing.T) {
	m := NewManager()
	key := "/srv/checkouts/widgets"

	var inCritical int32
	var wg sync.WaitGroup

	const numGoroutines = 10
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			if err := m.Acquire(context.Background(), key); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			if n := atomic.AddInt32(&inCritical, 1); n != 1 {
				t.Errorf("lock admitted %d holders at once", n)
			}
			time.Sleep(time.Millisecond) // Simulate work
			atomic.AddInt32(&inCritical, -1)
			m.Release(key)
		}()
	}

	wg.Wait()
}

func TestManager_DifferentKeys(t *testing.T) {
	m := NewManager()

	// Both should succeed immediately - different keys, independent locks
	if err := m.Acquire(context.Background(), "/srv/checkouts/api"); err != nil {
		t.Errorf("Acquire for first key failed: %v", err)
	}
	if err := m.Acquire(context.Background(), "/srv/checkouts/web"); err != nil {
		t.Errorf("Acquire for second key failed: %v", err)
	}

	m.Release("/srv/checkouts/api")
	m.Release("/srv/checkouts/web")
}
