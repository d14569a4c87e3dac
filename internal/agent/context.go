package agent

import (
	"github.com/cexll/devbot/internal/changeset"
	"github.com/cexll/devbot/internal/prompt"
	"github.com/cexll/devbot/internal/provider"
)

// Mode selects how a run is seeded and finalized.
type Mode int

const (
	// ModeNewTask implements a plan on a fresh branch and opens a PR.
	ModeNewTask Mode = iota

	// ModeFeedback revises an existing branch after review feedback.
	ModeFeedback
)

func (m Mode) String() string {
	switch m {
	case ModeNewTask:
		return "new_task"
	case ModeFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}

// RunContext carries the state of one run: the conversation, the change
// bookkeeping, and the branch the run commits to. Nothing in it
// survives across runs.
type RunContext struct {
	Mode     Mode
	Branch   string
	TaskName string
	PlanPath string
	Plan     string

	Turn   int
	Budget int

	History []provider.Message
	Changes *changeset.ChangeSet
}

// NewTaskContext builds the context for a fresh plan run, seeded with
// the plan text.
func NewTaskContext(branch, taskName, planPath, plan string, budget int) *RunContext {
	rc := &RunContext{
		Mode:     ModeNewTask,
		Branch:   branch,
		TaskName: taskName,
		PlanPath: planPath,
		Plan:     plan,
		Budget:   budget,
		Changes:  changeset.New(),
	}
	rc.appendUser(prompt.NewTaskSeed(plan))
	return rc
}

// FeedbackContext builds the context for a review-feedback run against
// an existing branch.
func FeedbackContext(branch, feedback string, budget int) *RunContext {
	rc := &RunContext{
		Mode:    ModeFeedback,
		Branch:  branch,
		Budget:  budget,
		Changes: changeset.New(),
	}
	rc.appendUser(prompt.FeedbackSeed(feedback))
	return rc
}

func (rc *RunContext) appendUser(content string) {
	rc.History = append(rc.History, provider.Message{Role: provider.RoleUser, Content: content})
}

func (rc *RunContext) appendAssistant(content string) {
	rc.History = append(rc.History, provider.Message{Role: provider.RoleAssistant, Content: content})
}
