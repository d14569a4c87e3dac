package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cexll/devbot/internal/agent"
	"github.com/cexll/devbot/internal/concurrency"
	"github.com/cexll/devbot/internal/config"
	"github.com/cexll/devbot/internal/git"
	"github.com/cexll/devbot/internal/github"
	"github.com/cexll/devbot/internal/plan"
	"github.com/cexll/devbot/internal/provider"
	"github.com/cexll/devbot/internal/report"
	"github.com/cexll/devbot/internal/runstore"
	"github.com/cexll/devbot/internal/tools"
)

var nowFunc = time.Now

// GitOps is the version-control surface a full run needs.
type GitOps interface {
	agent.GitOps
	CreateBranch(name string) error
	CheckoutBranch(name string) error
}

// RunResult summarizes a finished run.
type RunResult struct {
	ID      string
	Branch  string
	Outcome agent.Outcome
	PRURL   string
}

// Deps are the collaborators a Runner drives. Tests inject fakes;
// NewFromConfig wires the real ones.
type Deps struct {
	Provider provider.Provider
	FS       agent.FileSystem
	Shell    agent.Shell
	Git      GitOps
	PR       agent.PRCreator
	Store    *runstore.Store
	Logger   *log.Logger
}

// Runner executes runs end to end: branch setup, the agent loop,
// finalization, and the implementation report. Runs against the same
// checkout queue behind a keyed lock so they never interleave.
type Runner struct {
	cfg         *config.Config
	git         GitOps
	store       *runstore.Store
	locks       *concurrency.Manager
	loop        *agent.Loop
	coordinator *agent.Coordinator
	emitter     *report.Emitter
	logger      *log.Logger
}

// New builds a Runner from explicit collaborators. A nil logger falls
// back to the default logger.
func New(cfg *config.Config, deps Deps) *Runner {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	dispatcher := agent.NewDispatcher(deps.FS, deps.Shell)
	return &Runner{
		cfg:         cfg,
		git:         deps.Git,
		store:       deps.Store,
		locks:       concurrency.NewManager(),
		loop:        agent.NewLoop(deps.Provider, dispatcher, cfg.MaxTokens, logger),
		coordinator: agent.NewCoordinator(deps.Git, deps.PR, logger),
		emitter:     report.NewEmitter(deps.FS, cfg.ReportsDir, cfg.RepoName, logger),
		logger:      logger,
	}
}

// NewFromConfig wires a Runner with real collaborators: the configured
// model provider, the local checkout, and the GitHub API.
func NewFromConfig(ctx context.Context, cfg *config.Config, store *runstore.Store, logger *log.Logger) (*Runner, error) {
	prov, err := provider.NewProvider(ctx, &provider.Config{
		Name:             cfg.Provider,
		AnthropicAPIKey:  cfg.AnthropicAPIKey,
		AnthropicBaseURL: cfg.AnthropicBaseURL,
		GeminiAPIKey:     cfg.GeminiAPIKey,
		Model:            cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	return New(cfg, Deps{
		Provider: prov,
		FS:       tools.NewFS(cfg.RepoPath),
		Shell:    tools.NewShell(cfg.RepoPath, cfg.ShellTimeout),
		Git:      git.NewOps(&git.RealCommandRunner{}, cfg.RepoPath, cfg.BaseBranch),
		PR:       &githubPR{cfg: cfg},
		Store:    store,
		Logger:   logger,
	}), nil
}

// githubPR opens pull requests with a token resolved per call. App
// installation tokens expire after an hour, so a long-lived process
// resolves late instead of minting once at startup. The static-token
// path short-circuits without a network call.
type githubPR struct {
	cfg *config.Config
}

func (p *githubPR) CreatePR(ctx context.Context, head, title, body string) (string, error) {
	token, err := github.ResolveToken(p.cfg.GitHubToken, &github.AppAuth{
		AppID:          p.cfg.GitHubAppID,
		PrivateKey:     p.cfg.GitHubPrivateKey,
		InstallationID: p.cfg.GitHubInstallationID,
	})
	if err != nil {
		return "", err
	}

	client := github.NewClient(token, p.cfg.Owner(), p.cfg.Repo(), p.cfg.BaseBranch)
	return client.CreatePR(ctx, head, title, body)
}

// RunPlan executes the plan at planPath as a fresh task: new branch,
// agent loop, then commit, push, pull request, and report.
func (r *Runner) RunPlan(ctx context.Context, planPath string) (RunResult, error) {
	p, err := plan.Load(planPath)
	if err != nil {
		return RunResult{Outcome: agent.OutcomeErrored}, err
	}

	branch := p.Branch
	if branch == "" {
		branch = fmt.Sprintf("%s/%s-%d", r.cfg.BranchPrefix, p.TaskName, nowFunc().Unix())
	}

	id := r.store.Create(p.TaskName, branch, agent.ModeNewTask.String())

	if err := r.locks.Acquire(ctx, r.cfg.RepoPath); err != nil {
		r.fail(id, err)
		return RunResult{ID: id, Branch: branch, Outcome: agent.OutcomeErrored}, err
	}
	defer r.locks.Release(r.cfg.RepoPath)

	r.store.UpdateStatus(id, runstore.StatusRunning)
	r.logTo(id, fmt.Sprintf("Starting task %s on branch %s", p.TaskName, branch))

	if err := r.git.CreateBranch(branch); err != nil {
		err = fmt.Errorf("failed to prepare branch %s: %w", branch, err)
		r.fail(id, err)
		return RunResult{ID: id, Branch: branch, Outcome: agent.OutcomeErrored}, err
	}

	rc := agent.NewTaskContext(branch, p.TaskName, p.Path, p.Text, r.cfg.TurnBudget)
	return r.finish(ctx, id, rc, r.loop.Run(ctx, rc))
}

// RunFeedback revises an existing branch after a review requested
// changes: checkout, agent loop, then commit and push to the same
// branch. The PR already exists, so none is opened.
func (r *Runner) RunFeedback(ctx context.Context, branch, feedback string) (RunResult, error) {
	id := r.store.Create(branch, branch, agent.ModeFeedback.String())

	if err := r.locks.Acquire(ctx, r.cfg.RepoPath); err != nil {
		r.fail(id, err)
		return RunResult{ID: id, Branch: branch, Outcome: agent.OutcomeErrored}, err
	}
	defer r.locks.Release(r.cfg.RepoPath)

	r.store.UpdateStatus(id, runstore.StatusRunning)
	r.logTo(id, "Revising branch "+branch)

	if err := r.git.CheckoutBranch(branch); err != nil {
		err = fmt.Errorf("failed to check out branch %s: %w", branch, err)
		r.fail(id, err)
		return RunResult{ID: id, Branch: branch, Outcome: agent.OutcomeErrored}, err
	}

	rc := agent.FeedbackContext(branch, feedback, r.cfg.TurnBudget)
	return r.finish(ctx, id, rc, r.loop.Run(ctx, rc))
}

// finish records how the loop ended and, on completion, lands the
// changes. Finalize failures are logged by the coordinator and leave
// the run completed; only loop-level errors fail it.
func (r *Runner) finish(ctx context.Context, id string, rc *agent.RunContext, result agent.Result) (RunResult, error) {
	res := RunResult{ID: id, Branch: rc.Branch, Outcome: result.Outcome}

	switch result.Outcome {
	case agent.OutcomeCompleted:
		res.PRURL = r.coordinator.Finalize(ctx, rc, result.Done)
		if rc.Mode == agent.ModeNewTask {
			if path, err := r.emitter.Emit(rc.TaskName, rc.PlanPath, rc.Changes); err != nil {
				r.logTo(id, fmt.Sprintf("Warning: report not written: %v", err))
			} else {
				r.logTo(id, "Report written to "+path)
			}
		}
		r.logTo(id, fmt.Sprintf("Completed in %d turns", rc.Turn))
		if res.PRURL != "" {
			r.logTo(id, "PR created: "+res.PRURL)
		}
		r.store.SetResult(id, result.Outcome.String(), res.PRURL)
		r.store.UpdateStatus(id, runstore.StatusCompleted)
		return res, nil

	case agent.OutcomeBudgetExhausted:
		r.logTo(id, fmt.Sprintf("Turn budget (%d) exhausted without completion", rc.Budget))
		r.store.SetResult(id, result.Outcome.String(), "")
		r.store.UpdateStatus(id, runstore.StatusFailed)
		return res, nil

	default:
		r.fail(id, result.Err)
		return res, result.Err
	}
}

func (r *Runner) fail(id string, err error) {
	r.logTo(id, fmt.Sprintf("Run failed: %v", err))
	r.store.SetResult(id, agent.OutcomeErrored.String(), "")
	r.store.UpdateStatus(id, runstore.StatusFailed)
}

// logTo writes one line to both the process log and the run's log in
// the store, where the dashboard reads it.
func (r *Runner) logTo(id, message string) {
	r.logger.Printf("[Runner] %s", message)
	r.store.AddLog(id, message)
}
