package watcher

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recordingEnqueuer struct {
	mu    sync.Mutex
	paths []string
	ch    chan string
	err   error
}

func newRecordingEnqueuer() *recordingEnqueuer {
	return &recordingEnqueuer{ch: make(chan string, 8)}
}

func (e *recordingEnqueuer) EnqueuePlan(planPath string) error {
	e.mu.Lock()
	e.paths = append(e.paths, planPath)
	e.mu.Unlock()
	e.ch <- planPath
	return e.err
}

func (e *recordingEnqueuer) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.paths)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func fastSettle(t *testing.T) {
	t.Helper()
	orig := settleDelay
	settleDelay = 10 * time.Millisecond
	t.Cleanup(func() { settleDelay = orig })
}

func startWatcher(t *testing.T, dir string, enq Enqueuer) *Watcher {
	t.Helper()
	w, err := New(dir, enq, quietLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(w.Stop)
	w.Start()
	return w
}

func TestWatcher_QueuesNewPlan(t *testing.T) {
	fastSettle(t)
	dir := t.TempDir()
	enq := newRecordingEnqueuer()
	startWatcher(t, dir, enq)

	planPath := filepath.Join(dir, "add-auth.md")
	if err := os.WriteFile(planPath, []byte("# Plan"), 0o644); err != nil {
		t.Fatalf("writing plan: %v", err)
	}

	select {
	case got := <-enq.ch:
		if got != planPath {
			t.Errorf("queued path = %q, want %q", got, planPath)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("plan was never queued")
	}
}

func TestWatcher_IgnoresNonMarkdown(t *testing.T) {
	fastSettle(t)
	dir := t.TempDir()
	enq := newRecordingEnqueuer()
	startWatcher(t, dir, enq)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.md"), 0o755); err != nil {
		t.Fatalf("creating directory: %v", err)
	}

	select {
	case got := <-enq.ch:
		t.Fatalf("unexpectedly queued %q", got)
	case <-time.After(200 * time.Millisecond):
	}
	if enq.count() != 0 {
		t.Errorf("%d plans queued, want 0", enq.count())
	}
}

func TestWatcher_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plans")
	w, err := New(dir, newRecordingEnqueuer(), quietLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Stop()

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("plans directory was not created: %v", err)
	}
}

func TestWatcher_StopEndsWatch(t *testing.T) {
	fastSettle(t)
	dir := t.TempDir()
	enq := newRecordingEnqueuer()
	w := startWatcher(t, dir, enq)

	w.Stop()
	w.Stop() // idempotent

	if err := os.WriteFile(filepath.Join(dir, "late.md"), []byte("# Plan"), 0o644); err != nil {
		t.Fatalf("writing plan: %v", err)
	}

	select {
	case got := <-enq.ch:
		t.Fatalf("queued %q after Stop", got)
	case <-time.After(200 * time.Millisecond):
	}
}
