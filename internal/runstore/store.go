package runstore

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status tracks a run through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one recorded agent run.
type Run struct {
	ID        string     `json:"id"`
	TaskName  string     `json:"task_name"`
	Branch    string     `json:"branch"`
	Mode      string     `json:"mode"`
	Status    Status     `json:"status"`
	Outcome   string     `json:"outcome,omitempty"`
	PRURL     string     `json:"pr_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Logs      []LogEntry `json:"logs,omitempty"`
}

// LogEntry is one timestamped run log line.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Store is an in-memory run registry. Runs vanish on restart; nothing
// persists across processes.
type Store struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		runs: make(map[string]*Run),
	}
}

// Create registers a new pending run and returns its ID.
func (s *Store) Create(taskName, branch, mode string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	now := time.Now()
	s.runs[id] = &Run{
		ID:        id,
		TaskName:  taskName,
		Branch:    branch,
		Mode:      mode,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id
}

// Get returns a copy of one run.
func (s *Store) Get(id string) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return Run{}, false
	}
	return snapshot(run), true
}

// List returns copies of all runs, newest first.
func (s *Store) List() []Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, snapshot(run))
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs
}

// UpdateStatus moves a run to a new lifecycle status.
func (s *Store) UpdateStatus(id string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run, ok := s.runs[id]; ok {
		run.Status = status
		run.UpdatedAt = time.Now()
	}
}

// SetResult records how a finished run ended.
func (s *Store) SetResult(id, outcome, prURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run, ok := s.runs[id]; ok {
		run.Outcome = outcome
		run.PRURL = prURL
		run.UpdatedAt = time.Now()
	}
}

// AddLog appends one log line to a run.
func (s *Store) AddLog(id, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run, ok := s.runs[id]; ok {
		run.Logs = append(run.Logs, LogEntry{
			Timestamp: time.Now(),
			Message:   message,
		})
		run.UpdatedAt = time.Now()
	}
}

// snapshot copies a run so callers never share memory with the store.
func snapshot(run *Run) Run {
	copied := *run
	copied.Logs = append([]LogEntry(nil), run.Logs...)
	return copied
}
