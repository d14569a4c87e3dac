package dispatcher

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/cexll/devbot/internal/runner"
)

// Queue intake errors. The webhook layer maps these onto HTTP status
// codes.
var (
	ErrQueueFull   = errors.New("dispatcher: queue full")
	ErrQueueClosed = errors.New("dispatcher: queue closed")
)

// Job is one queued unit of work: a plan to execute, or review
// feedback to apply to an existing branch. Exactly one of PlanPath and
// Branch is set.
type Job struct {
	PlanPath string
	Branch   string
	Feedback string
}

// JobRunner executes queued jobs. *runner.Runner satisfies it.
type JobRunner interface {
	RunPlan(ctx context.Context, planPath string) (runner.RunResult, error)
	RunFeedback(ctx context.Context, branch, feedback string) (runner.RunResult, error)
}

// Config controls dispatcher behaviour.
type Config struct {
	Workers   int
	QueueSize int
	Logger    *log.Logger
}

// Dispatcher feeds queued jobs to the runner from a fixed pool of
// workers. Intake never blocks: a full queue rejects the job and the
// caller decides what to tell its trigger. Failed runs are not
// retried; the review cycle is the retry mechanism.
type Dispatcher struct {
	runner JobRunner
	cfg    Config
	logger *log.Logger

	queue chan Job

	stopCh chan struct{}
	wg     sync.WaitGroup

	once sync.Once
}

// New creates a dispatcher with the provided configuration and starts
// its workers.
func New(jobRunner JobRunner, cfg Config) *Dispatcher {
	normalized := normalizeConfig(cfg)
	d := &Dispatcher{
		runner: jobRunner,
		cfg:    normalized,
		logger: normalized.Logger,
		queue:  make(chan Job, normalized.QueueSize),
		stopCh: make(chan struct{}),
	}
	d.startWorkers()
	return d
}

func normalizeConfig(cfg Config) Config {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return cfg
}

func (d *Dispatcher) startWorkers() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// EnqueuePlan queues the plan at planPath for execution.
func (d *Dispatcher) EnqueuePlan(planPath string) error {
	if planPath == "" {
		return errors.New("dispatcher enqueue: plan path is empty")
	}
	return d.enqueue(Job{PlanPath: planPath})
}

// EnqueueFeedback queues review feedback against an existing branch.
func (d *Dispatcher) EnqueueFeedback(branch, feedback string) error {
	if branch == "" {
		return errors.New("dispatcher enqueue: branch is empty")
	}
	return d.enqueue(Job{Branch: branch, Feedback: feedback})
}

func (d *Dispatcher) enqueue(job Job) error {
	select {
	case <-d.stopCh:
		return ErrQueueClosed
	default:
	}

	select {
	case d.queue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopCh:
			return
		case job, ok := <-d.queue:
			if !ok {
				return
			}
			d.process(job)
		}
	}
}

func (d *Dispatcher) process(job Job) {
	ctx := context.Background()

	var res runner.RunResult
	var err error
	if job.PlanPath != "" {
		d.logger.Printf("[Dispatcher] Running plan %s", job.PlanPath)
		res, err = d.runner.RunPlan(ctx, job.PlanPath)
	} else {
		d.logger.Printf("[Dispatcher] Running feedback for %s", job.Branch)
		res, err = d.runner.RunFeedback(ctx, job.Branch, job.Feedback)
	}

	if err != nil {
		d.logger.Printf("[Dispatcher] Run failed: %v", err)
		return
	}
	d.logger.Printf("[Dispatcher] Run %s finished: %s", res.ID, res.Outcome)
}

// Shutdown stops intake and waits for in-flight runs to finish, or
// for ctx to end, whichever comes first. Jobs still queued are
// abandoned; their plan files remain on disk for a manual rerun.
func (d *Dispatcher) Shutdown(ctx context.Context) {
	d.once.Do(func() {
		close(d.stopCh)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return
	case <-done:
		return
	}
}
