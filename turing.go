package turing

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// Engine is the high-level entry point of the library.
// It wraps the internal runtime and ties it to the Definition it runs.
type Engine struct {
	runtime *runtime.Engine
	def     *domain.Definition
	halt    domain.State
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHaltState reserves a state name as Halt (default "H"); "" disables it.
func WithHaltState(state domain.State) Option {
	return func(e *Engine) {
		e.halt = state
	}
}

// Parse parses definition text. Failures are *domain.ParseError values.
func Parse(text string) (*domain.Definition, error) {
	return compiler.NewParser().Parse(text)
}

// Load reads and parses a definition file.
func Load(path string) (*domain.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	return Parse(string(data))
}

// ParseInput converts an input string into symbols of the definition's alphabet.
// Failures are *domain.InputError values.
func ParseInput(def *domain.Definition, input string) ([]domain.Symbol, error) {
	return compiler.ParseInput(input, def.Table.Alphabet())
}

// New creates an engine for def with its tape seeded from input.
func New(def *domain.Definition, input string, opts ...Option) (*Engine, error) {
	symbols, err := ParseInput(def, input)
	if err != nil {
		return nil, err
	}
	eng := configure(def, opts)
	eng.runtime = runtime.NewEngine(def.Table, def.Initial, symbols, eng.runtimeOptions()...)
	return eng, nil
}

// Resume recreates an engine for def from a checkpoint.
func Resume(def *domain.Definition, snap domain.Snapshot, opts ...Option) (*Engine, error) {
	eng := configure(def, opts)
	rt, err := runtime.Restore(def.Table, snap, eng.runtimeOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to restore snapshot: %w", err)
	}
	eng.runtime = rt
	return eng, nil
}

func configure(def *domain.Definition, opts []Option) *Engine {
	eng := &Engine{def: def, halt: domain.DefaultHaltState}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

func (e *Engine) runtimeOptions() []runtime.EngineOption {
	return []runtime.EngineOption{
		runtime.WithHaltState(e.halt),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
	}
}

// Step advances the machine by one transition, or reports why it halted.
func (e *Engine) Step(ctx context.Context) domain.Outcome {
	return e.runtime.Step(ctx)
}

// Next returns the transition the following Step would apply; ok is false when
// the machine would halt instead.
func (e *Engine) Next() (domain.Transition, bool) {
	return e.runtime.Next()
}

// Current returns the configuration after the latest step.
func (e *Engine) Current() domain.Configuration {
	return e.runtime.Current()
}

// Steps returns a lazy sequence of configurations, see runtime.Engine.Steps.
func (e *Engine) Steps(ctx context.Context) iter.Seq[domain.Configuration] {
	return e.runtime.Steps(ctx)
}

// Halted reports whether the machine has stopped.
func (e *Engine) Halted() bool {
	return e.runtime.Halted()
}

// Result summarizes the run so far.
func (e *Engine) Result() domain.Result {
	return e.runtime.Result()
}

// Snapshot captures the run for persistence.
func (e *Engine) Snapshot() domain.Snapshot {
	return e.runtime.Snapshot()
}

// Tape returns the live tape. Callers must not write to it.
func (e *Engine) Tape() *tape.Tape {
	return e.runtime.Tape()
}

// Definition returns the machine being run.
func (e *Engine) Definition() *domain.Definition {
	return e.def
}

// HaltState returns the reserved Halt state name ("" when none is reserved).
func (e *Engine) HaltState() domain.State {
	return e.halt
}
