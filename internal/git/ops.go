package git

import (
	"fmt"
	"strings"
)

const (
	committerName  = "devbot"
	committerEmail = "devbot@users.noreply.github.com"
)

// Ops performs git operations inside a repository checkout.
type Ops struct {
	runner CommandRunner
	dir    string
	base   string
}

// NewOps creates git operations for the checkout at dir, branching
// off baseBranch.
func NewOps(runner CommandRunner, dir, baseBranch string) *Ops {
	return &Ops{
		runner: runner,
		dir:    dir,
		base:   baseBranch,
	}
}

// CreateBranch updates the base branch and creates a new branch from it.
func (o *Ops) CreateBranch(name string) error {
	if err := o.git("checkout", o.base); err != nil {
		return err
	}
	if err := o.git("pull"); err != nil {
		return err
	}
	return o.git("checkout", "-b", name)
}

// CheckoutBranch switches to an existing branch and updates it.
func (o *Ops) CheckoutBranch(name string) error {
	if err := o.git("checkout", name); err != nil {
		return err
	}
	return o.git("pull")
}

// CommitAll stages every change and commits with the given message.
func (o *Ops) CommitAll(message string) error {
	if err := o.ensureIdentity(); err != nil {
		return err
	}
	if err := o.git("add", "-A"); err != nil {
		return err
	}
	return o.git("commit", "-m", message)
}

// Push publishes the branch to origin and sets its upstream.
func (o *Ops) Push(branch string) error {
	return o.git("push", "--set-upstream", "origin", branch)
}

// ensureIdentity sets a local committer identity when none is configured.
// Commits fail outright in CI containers otherwise.
func (o *Ops) ensureIdentity() error {
	output, err := o.runner.RunInDir(o.dir, "git", "config", "user.email")
	if err == nil && strings.TrimSpace(string(output)) != "" {
		return nil
	}

	if err := o.git("config", "user.name", committerName); err != nil {
		return err
	}
	return o.git("config", "user.email", committerEmail)
}

func (o *Ops) git(args ...string) error {
	output, err := o.runner.RunInDir(o.dir, "git", args...)
	if err != nil {
		return fmt.Errorf("git %s failed: %w\nOutput: %s", strings.Join(args, " "), err, string(output))
	}
	return nil
}
