package runtime

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// Engine runs one machine over its own tape, one step per call.
// It holds the whole machine state (table, state, head, tape); nothing else is shared.
// An Engine is not safe for concurrent use.
type Engine struct {
	table   *domain.Table
	initial domain.State
	halt    domain.State

	state domain.State
	head  int64
	step  uint64
	tape  *tape.Tape

	status  domain.Status
	outcome domain.Outcome

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithHaltState sets the state name reserved as Halt (default "H").
// An empty name disables the reservation: the machine then stops only when no
// transition applies.
func WithHaltState(state domain.State) EngineOption {
	return func(e *Engine) {
		e.halt = state
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a structured logger. Steps are logged at Debug level.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine at step 0: the tape is seeded with input from
// position 0 and the head is at position 0.
func NewEngine(table *domain.Table, initial domain.State, input []domain.Symbol, opts ...EngineOption) *Engine {
	e := newEngine(table, initial, opts)
	e.state = initial
	e.tape = tape.New(input)
	return e
}

// Restore recreates an engine from a snapshot taken with Snapshot.
func Restore(table *domain.Table, snap domain.Snapshot, opts ...EngineOption) (*Engine, error) {
	if snap.State == "" {
		return nil, fmt.Errorf("snapshot has no state")
	}
	e := newEngine(table, snap.Initial, opts)
	e.state = snap.State
	e.head = snap.Head
	e.step = snap.Step
	e.tape = tape.FromCells(snap.Cells)

	switch snap.Status {
	case domain.StatusRunning, "":
	case domain.StatusHalted:
		if snap.Reason != domain.ReachedHaltState && snap.Reason != domain.NoTransition {
			return nil, fmt.Errorf("snapshot halted with unknown reason %q", snap.Reason)
		}
		e.status = domain.StatusHalted
		e.outcome = domain.Outcome{Reason: snap.Reason, Configuration: e.Current()}
	default:
		return nil, fmt.Errorf("snapshot has unknown status %q", snap.Status)
	}
	return e, nil
}

func newEngine(table *domain.Table, initial domain.State, opts []EngineOption) *Engine {
	if table == nil {
		table = domain.NewTableBuilder().Build()
	}
	e := &Engine{
		table:   table,
		initial: initial,
		halt:    domain.DefaultHaltState,
		status:  domain.StatusRunning,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Step advances the machine by exactly one transition.
// Once halted, every call returns the same halt outcome without touching the tape.
// ctx is handed to the lifecycle hooks; Step itself never blocks.
func (e *Engine) Step(ctx context.Context) domain.Outcome {
	if e.status == domain.StatusHalted {
		return e.outcome
	}

	if e.halt != "" && e.state == e.halt {
		return e.stop(ctx, domain.ReachedHaltState)
	}

	symbol := e.tape.Read(e.head)
	tr, ok := e.table.Lookup(e.state, symbol)
	if !ok {
		return e.stop(ctx, domain.NoTransition)
	}

	e.tape.Write(e.head, tr.Write)
	e.head += tr.Move.Offset()
	e.state = tr.To
	e.step++

	if e.logger.Enabled(ctx, slog.LevelDebug) {
		e.logger.DebugContext(ctx, "step", "step", e.step, "transition", tr.String(), "head", e.head)
	}
	if e.hooks.OnStep != nil {
		e.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep},
			Step:       e.step,
			Transition: tr,
			Head:       e.head,
		})
	}

	return domain.Outcome{Advanced: true, Configuration: e.Current()}
}

// Next returns the transition the following Step would apply, without applying
// it. ok is false when that Step would halt instead.
func (e *Engine) Next() (tr domain.Transition, ok bool) {
	if e.status == domain.StatusHalted || (e.halt != "" && e.state == e.halt) {
		return domain.Transition{}, false
	}
	return e.table.Lookup(e.state, e.tape.Read(e.head))
}

func (e *Engine) stop(ctx context.Context, reason domain.HaltReason) domain.Outcome {
	e.status = domain.StatusHalted
	e.outcome = domain.Outcome{Reason: reason, Configuration: e.Current()}

	e.logger.InfoContext(ctx, "machine halted",
		"reason", reason,
		"steps", e.step,
		"state", e.state,
		"head", e.head,
		"cells", e.tape.Len(),
	)
	if e.hooks.OnHalt != nil {
		e.hooks.OnHalt(ctx, &domain.HaltEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventHalt},
			Step:      e.step,
			State:     e.state,
			Reason:    reason,
			TapeCells: e.tape.Len(),
		})
	}
	return e.outcome
}

// Current returns the configuration after the latest step (step 0 before any step).
func (e *Engine) Current() domain.Configuration {
	return domain.Configuration{
		Step:  e.step,
		State: e.state,
		Head:  e.head,
		Tape:  e.tape,
	}
}

// Steps returns a lazy sequence of configurations: the current one first, then
// one per step until the machine halts, ctx is done, or the consumer stops.
func (e *Engine) Steps(ctx context.Context) iter.Seq[domain.Configuration] {
	return func(yield func(domain.Configuration) bool) {
		if !yield(e.Current()) {
			return
		}
		for ctx.Err() == nil {
			out := e.Step(ctx)
			if out.Halted() || !yield(out.Configuration) {
				return
			}
		}
	}
}

// Status reports whether the engine is running or halted.
func (e *Engine) Status() domain.Status {
	return e.status
}

// Halted reports whether the engine reached a terminal outcome.
func (e *Engine) Halted() bool {
	return e.status == domain.StatusHalted
}

// Outcome returns the halt outcome, or false while the engine is running.
func (e *Engine) Outcome() (domain.Outcome, bool) {
	return e.outcome, e.Halted()
}

// Tape returns the engine's tape. Callers must not write to it.
func (e *Engine) Tape() *tape.Tape {
	return e.tape
}

// Table returns the transition table the engine runs.
func (e *Engine) Table() *domain.Table {
	return e.table
}

// Result summarizes the run so far.
func (e *Engine) Result() domain.Result {
	return domain.Result{
		Status: e.status,
		Reason: e.outcome.Reason,
		Steps:  e.step,
		State:  e.state,
		Head:   e.head,
	}
}

// Snapshot captures the run so it can be persisted and restored.
func (e *Engine) Snapshot() domain.Snapshot {
	cells := e.tape.Cells()
	if cells == nil {
		cells = []domain.Cell{}
	}
	return domain.Snapshot{
		Initial: e.initial,
		State:   e.state,
		Head:    e.head,
		Step:    e.step,
		Status:  e.status,
		Reason:  e.outcome.Reason,
		Cells:   cells,
	}
}
