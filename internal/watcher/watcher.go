package watcher

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a newly created plan file gets to finish
// being written before it is queued.
var settleDelay = time.Second

// Enqueuer accepts discovered plans. *dispatcher.Dispatcher satisfies
// it.
type Enqueuer interface {
	EnqueuePlan(planPath string) error
}

// Watcher watches the plans directory and queues every new markdown
// file exactly once. The watch is not recursive; plans live directly
// in the directory.
type Watcher struct {
	dir      string
	enqueuer Enqueuer
	logger   *log.Logger

	fsWatcher *fsnotify.Watcher

	stopCh chan struct{}
	once   sync.Once
}

// New creates a Watcher on dir, creating the directory if it does not
// exist yet.
func New(dir string, enqueuer Enqueuer, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plans directory %s: %w", dir, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:       dir,
		enqueuer:  enqueuer,
		logger:    logger,
		fsWatcher: fsWatcher,
		stopCh:    make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	w.logger.Printf("[Watcher] Watching %s for new plans", w.dir)
	go w.loop()
}

// Stop ends the watch. Safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.stopCh)
		_ = w.fsWatcher.Close()
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			w.handleCreate(event.Name)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("[Watcher] Watch error: %v", err)
		}
	}
}

func (w *Watcher) handleCreate(path string) {
	if filepath.Ext(path) != ".md" {
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return
	}

	// Editors and sync tools write files incrementally. Give the
	// writer a moment to finish before the plan is read.
	select {
	case <-time.After(settleDelay):
	case <-w.stopCh:
		return
	}

	w.logger.Printf("[Watcher] New plan detected: %s", path)
	if err := w.enqueuer.EnqueuePlan(path); err != nil {
		w.logger.Printf("[Watcher] Could not queue %s: %v", path, err)
	}
}
