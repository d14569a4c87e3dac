package agent

import (
	"strings"
	"testing"

	"github.com/cexll/devbot/internal/provider"
)

func TestNewTaskContext(t *testing.T) {
	rc := NewTaskContext("devbot/add-auth-1700000000", "add-auth", "ai-docs/add-auth.md", "Add a login page", 15)

	if rc.Mode != ModeNewTask {
		t.Errorf("mode = %v, want new task", rc.Mode)
	}
	if rc.Budget != 15 || rc.Turn != 0 {
		t.Errorf("budget/turn = %d/%d, want 15/0", rc.Budget, rc.Turn)
	}
	if rc.Changes == nil {
		t.Fatal("change set must be initialized")
	}

	if len(rc.History) != 1 {
		t.Fatalf("history length = %d, want just the seed", len(rc.History))
	}
	seed := rc.History[0]
	if seed.Role != provider.RoleUser {
		t.Errorf("seed role = %q, want user", seed.Role)
	}
	if !strings.Contains(seed.Content, "Here is the plan:\nAdd a login page") {
		t.Errorf("seed = %q, want the plan text embedded", seed.Content)
	}
	if !strings.Contains(seed.Content, "List the files to understand the repo structure first.") {
		t.Errorf("seed = %q, want the opening instruction", seed.Content)
	}
}

func TestFeedbackContext(t *testing.T) {
	rc := FeedbackContext("devbot/add-auth-1700000000", "Tests fail on CI", 15)

	if rc.Mode != ModeFeedback {
		t.Errorf("mode = %v, want feedback", rc.Mode)
	}
	if rc.Plan != "" {
		t.Errorf("plan = %q, want empty in feedback mode", rc.Plan)
	}

	if len(rc.History) != 1 {
		t.Fatalf("history length = %d, want just the seed", len(rc.History))
	}
	want := "We submitted a PR but received feedback. Fix the code.\nFeedback: Tests fail on CI"
	if rc.History[0].Content != want {
		t.Errorf("seed = %q, want %q", rc.History[0].Content, want)
	}
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeNewTask, "new_task"},
		{ModeFeedback, "feedback"},
		{Mode(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
