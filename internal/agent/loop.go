package agent

import (
	"context"
	"log"

	"github.com/cexll/devbot/internal/prompt"
	"github.com/cexll/devbot/internal/protocol"
	"github.com/cexll/devbot/internal/provider"
)

// State tracks where the loop is within a turn.
type State int

const (
	// StateRunning means the loop is between model calls.
	StateRunning State = iota

	// StateAwaitingReply means a model call is in flight.
	StateAwaitingReply

	// StateTerminated means the run ended; the Result says why.
	StateTerminated
)

// Outcome is the reason a run terminated.
type Outcome int

const (
	// OutcomeCompleted means the model signaled completion.
	OutcomeCompleted Outcome = iota

	// OutcomeBudgetExhausted means the turn budget ran out first.
	OutcomeBudgetExhausted

	// OutcomeErrored means the model service failed mid-run.
	OutcomeErrored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeBudgetExhausted:
		return "budget_exhausted"
	case OutcomeErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ExitCode maps the outcome to a process exit code.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeCompleted:
		return 0
	case OutcomeBudgetExhausted:
		return 2
	default:
		return 1
	}
}

// Result is how a run ended. Done is populated on OutcomeCompleted,
// Err on OutcomeErrored.
type Result struct {
	Outcome Outcome
	Done    protocol.Done
	Err     error
}

// Loop drives the bounded conversation between the model and the tools.
type Loop struct {
	provider   provider.Provider
	dispatcher *Dispatcher
	maxTokens  int
	logger     *log.Logger
	state      State
}

// NewLoop builds a Loop. A nil logger falls back to the default logger.
func NewLoop(p provider.Provider, d *Dispatcher, maxTokens int, logger *log.Logger) *Loop {
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{
		provider:   p,
		dispatcher: d,
		maxTokens:  maxTokens,
		logger:     logger,
	}
}

// Run executes turns until the model signals completion, the turn
// budget runs out, or the model service fails. Tool failures never end
// the run; they are fed back to the model as tool output.
func (l *Loop) Run(ctx context.Context, rc *RunContext) Result {
	l.state = StateRunning

	for rc.Turn < rc.Budget {
		rc.Turn++

		l.state = StateAwaitingReply
		reply, err := l.provider.Complete(ctx, &provider.Request{
			System:    prompt.System,
			Messages:  rc.History,
			MaxTokens: l.maxTokens,
		})
		if err != nil {
			l.state = StateTerminated
			l.logger.Printf("[Agent] Turn %d/%d: model call failed: %v", rc.Turn, rc.Budget, err)
			return Result{Outcome: OutcomeErrored, Err: err}
		}

		l.state = StateRunning
		rc.appendAssistant(reply)
		l.logger.Printf("[Agent] Turn %d/%d: %.100s", rc.Turn, rc.Budget, reply)

		// The completion keyword terminates wherever it appears in the
		// reply, not only as the first-line command. Replies that
		// explain themselves before finishing still end the run.
		if protocol.SignalsCompletion(reply) {
			l.state = StateTerminated
			return Result{Outcome: OutcomeCompleted, Done: protocol.DoneFromReply(reply)}
		}

		output := l.dispatcher.Execute(ctx, protocol.Parse(reply), rc.Changes)
		rc.appendUser(prompt.ToolOutput(output))
	}

	l.state = StateTerminated
	l.logger.Printf("[Agent] Turn budget (%d) exhausted without completion", rc.Budget)
	return Result{Outcome: OutcomeBudgetExhausted}
}
