package agent

import (
	"context"
	"log"

	"github.com/cexll/devbot/internal/protocol"
)

// GitOps is the version-control surface finalize needs.
type GitOps interface {
	CommitAll(message string) error
	Push(branch string) error
}

// PRCreator opens pull requests.
type PRCreator interface {
	CreatePR(ctx context.Context, head, title, body string) (string, error)
}

// Coordinator finalizes completed runs: committing, pushing, and (for
// fresh tasks) opening a pull request. A feedback run updates its
// existing PR branch, so it only commits and pushes.
type Coordinator struct {
	git    GitOps
	github PRCreator
	logger *log.Logger
}

// NewCoordinator builds a Coordinator. A nil logger falls back to the
// default logger.
func NewCoordinator(git GitOps, github PRCreator, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		git:    git,
		github: github,
		logger: logger,
	}
}

// Finalize lands the run's changes according to its mode and returns
// the PR URL when one was created. Failures are logged and swallowed:
// the run already completed and nothing here retries, but a failed step
// stops the steps after it.
func (c *Coordinator) Finalize(ctx context.Context, rc *RunContext, done protocol.Done) string {
	switch rc.Mode {
	case ModeNewTask:
		return c.finalizeNewTask(ctx, rc, done)
	case ModeFeedback:
		c.finalizeFeedback(rc, done)
	}
	return ""
}

func (c *Coordinator) finalizeNewTask(ctx context.Context, rc *RunContext, done protocol.Done) string {
	body := rc.Plan
	if done.HasBody {
		body = done.Body
	}

	if err := c.git.CommitAll("Implemented: " + done.Title); err != nil {
		c.logger.Printf("[Agent] Error finishing task: %v", err)
		return ""
	}
	if err := c.git.Push(rc.Branch); err != nil {
		c.logger.Printf("[Agent] Error finishing task: %v", err)
		return ""
	}

	prURL, err := c.github.CreatePR(ctx, rc.Branch, done.Title, body)
	if err != nil {
		c.logger.Printf("[Agent] Error finishing task: %v", err)
		return ""
	}

	c.logger.Printf("[Agent] PR created: %s", prURL)
	return prURL
}

func (c *Coordinator) finalizeFeedback(rc *RunContext, done protocol.Done) {
	message := done.Title
	if message == "" {
		message = "Address review feedback"
	}

	if err := c.git.CommitAll(message); err != nil {
		c.logger.Printf("[Agent] Error finishing task: %v", err)
		return
	}
	if err := c.git.Push(rc.Branch); err != nil {
		c.logger.Printf("[Agent] Error finishing task: %v", err)
	}
}
