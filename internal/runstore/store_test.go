package runstore

import (
	"testing"
)

func TestStore_CreateAndGet(t *testing.T) {
	s := NewStore()

	id := s.Create("add-auth", "devbot/add-auth-1700000000", "new_task")
	if id == "" {
		t.Fatal("Create() returned empty ID")
	}

	run, ok := s.Get(id)
	if !ok {
		t.Fatal("Get() did not find the run")
	}
	if run.TaskName != "add-auth" {
		t.Errorf("task = %q, want add-auth", run.TaskName)
	}
	if run.Branch != "devbot/add-auth-1700000000" {
		t.Errorf("branch = %q", run.Branch)
	}
	if run.Mode != "new_task" {
		t.Errorf("mode = %q, want new_task", run.Mode)
	}
	if run.Status != StatusPending {
		t.Errorf("status = %q, want pending", run.Status)
	}
	if run.CreatedAt.IsZero() || run.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}

	if _, ok := s.Get("unknown"); ok {
		t.Error("Get() found a run that does not exist")
	}
}

func TestStore_UpdateStatusAndResult(t *testing.T) {
	s := NewStore()
	id := s.Create("fix", "devbot/fix-1", "new_task")

	s.UpdateStatus(id, StatusRunning)
	if run, _ := s.Get(id); run.Status != StatusRunning {
		t.Errorf("status = %q, want running", run.Status)
	}

	s.SetResult(id, "completed", "https://github.com/owner/repo/pull/3")
	s.UpdateStatus(id, StatusCompleted)

	run, _ := s.Get(id)
	if run.Outcome != "completed" {
		t.Errorf("outcome = %q, want completed", run.Outcome)
	}
	if run.PRURL != "https://github.com/owner/repo/pull/3" {
		t.Errorf("pr url = %q", run.PRURL)
	}

	// Updates on unknown IDs are ignored.
	s.UpdateStatus("unknown", StatusFailed)
	s.SetResult("unknown", "errored", "")
}

func TestStore_AddLog(t *testing.T) {
	s := NewStore()
	id := s.Create("fix", "devbot/fix-1", "feedback")

	s.AddLog(id, "run started")
	s.AddLog(id, "turn 1/15")

	run, _ := s.Get(id)
	if len(run.Logs) != 2 {
		t.Fatalf("logs = %d entries, want 2", len(run.Logs))
	}
	if run.Logs[0].Message != "run started" || run.Logs[1].Message != "turn 1/15" {
		t.Errorf("log messages = %v", run.Logs)
	}
	if run.Logs[0].Timestamp.IsZero() {
		t.Error("log timestamps must be set")
	}
}

func TestStore_GetReturnsCopies(t *testing.T) {
	s := NewStore()
	id := s.Create("fix", "devbot/fix-1", "new_task")
	s.AddLog(id, "first")

	run, _ := s.Get(id)
	run.TaskName = "mutated"
	run.Logs[0].Message = "mutated"

	fresh, _ := s.Get(id)
	if fresh.TaskName != "fix" {
		t.Error("mutating a returned run must not touch the store")
	}
	if fresh.Logs[0].Message != "first" {
		t.Error("mutating returned logs must not touch the store")
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := NewStore()
	ids := []string{
		s.Create("a", "devbot/a-1", "new_task"),
		s.Create("b", "devbot/b-1", "new_task"),
		s.Create("c", "devbot/c-1", "feedback"),
	}

	runs := s.List()
	if len(runs) != 3 {
		t.Fatalf("List() = %d runs, want 3", len(runs))
	}

	for i := 0; i+1 < len(runs); i++ {
		if runs[i].CreatedAt.Before(runs[i+1].CreatedAt) {
			t.Errorf("runs out of order at %d: %v before %v", i, runs[i].CreatedAt, runs[i+1].CreatedAt)
		}
	}

	seen := make(map[string]bool)
	for _, run := range runs {
		seen[run.ID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Errorf("run %s missing from List()", id)
		}
	}
}
