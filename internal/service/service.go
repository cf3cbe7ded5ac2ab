// Package service implements the stateless simulate and validate operations
// shared by the HTTP and MCP adapters.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
)

// DefaultMaxSteps caps a single remote simulation.
const DefaultMaxSteps uint64 = 1_000_000

// Run statuses reported by Simulate.
const (
	StatusHalted  = "halted"
	StatusLimited = "limited"
)

// SimulateRequest asks for a complete run of a definition.
type SimulateRequest struct {
	Definition string `json:"definition" jsonschema_description:"Machine definition text"`
	Input      string `json:"input" jsonschema_description:"Initial tape contents written from position 0"`
	MaxSteps   uint64 `json:"max_steps,omitempty" jsonschema_description:"Stop after this many steps (0 uses the server limit)"`
	// HaltState overrides the reserved halt state; an empty string disables it.
	HaltState *string `json:"halt_state,omitempty" jsonschema_description:"Reserved halt state name (default H, empty disables)"`
}

// SimulateResponse is the final configuration of a run.
type SimulateResponse struct {
	Status string            `json:"status" jsonschema_description:"halted or limited"`
	Reason domain.HaltReason `json:"reason,omitempty" jsonschema_description:"reached_halt_state or no_transition when halted"`
	Steps  uint64            `json:"steps"`
	State  domain.State      `json:"state"`
	Head   int64             `json:"head"`
	Tape   string            `json:"tape" jsonschema_description:"Written span of the tape, including position 0"`
	Cells  []domain.Cell     `json:"cells" jsonschema_description:"Non-blank cells in position order"`
}

// ValidateResponse describes a definition that parsed.
type ValidateResponse struct {
	InitialState domain.State        `json:"initial_state"`
	Transitions  []domain.Transition `json:"transitions"`
	States       []domain.State      `json:"states"`
	Alphabet     []domain.Symbol     `json:"alphabet"`
	Issues       []validator.Issue   `json:"issues"`
}

// ErrorBody is the client-facing shape of a rejected request.
type ErrorBody struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Line   int    `json:"line,omitempty"`
	Column *int   `json:"column,omitempty"`
}

// Service runs machines on behalf of remote callers.
type Service struct {
	MaxSteps uint64
	Hooks    domain.LifecycleHooks
	Logger   *slog.Logger
}

// New creates a Service with the default step cap.
func New(logger *slog.Logger, hooks domain.LifecycleHooks) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{MaxSteps: DefaultMaxSteps, Hooks: hooks, Logger: logger}
}

// Simulate parses and runs a definition to completion or to the step cap.
// Parse and input failures are returned as *domain.ParseError and *domain.InputError.
func (s *Service) Simulate(ctx context.Context, req SimulateRequest) (SimulateResponse, error) {
	def, err := turing.Parse(req.Definition)
	if err != nil {
		return SimulateResponse{}, err
	}

	halt := domain.DefaultHaltState
	if req.HaltState != nil {
		halt = domain.State(*req.HaltState)
	}

	eng, err := turing.New(def, req.Input,
		turing.WithHaltState(halt),
		turing.WithLifecycleHooks(s.Hooks),
		turing.WithLogger(s.Logger),
	)
	if err != nil {
		return SimulateResponse{}, err
	}

	limit := s.MaxSteps
	if req.MaxSteps > 0 && (limit == 0 || req.MaxSteps < limit) {
		limit = req.MaxSteps
	}

	res, err := runner.Run(ctx, eng, runner.WithMaxSteps(limit), runner.WithLogger(s.Logger))
	status := StatusHalted
	switch {
	case errors.Is(err, runner.ErrStepLimit):
		status = StatusLimited
	case err != nil:
		return SimulateResponse{}, err
	}

	cells := eng.Tape().Cells()
	if cells == nil {
		cells = []domain.Cell{}
	}
	return SimulateResponse{
		Status: status,
		Reason: res.Reason,
		Steps:  res.Steps,
		State:  res.State,
		Head:   res.Head,
		Tape:   eng.Tape().String(),
		Cells:  cells,
	}, nil
}

// Validate parses a definition and reports its structure and lint issues.
func (s *Service) Validate(text string, halt domain.State) (ValidateResponse, error) {
	def, err := turing.Parse(text)
	if err != nil {
		return ValidateResponse{}, err
	}
	issues := validator.Validate(def, halt)
	if issues == nil {
		issues = []validator.Issue{}
	}
	return ValidateResponse{
		InitialState: def.Initial,
		Transitions:  def.Table.Transitions(),
		States:       def.Table.States(),
		Alphabet:     def.Table.Alphabet(),
		Issues:       issues,
	}, nil
}

// ClientError converts the errors caused by the request itself into an
// ErrorBody. ok is false for every other error.
func ClientError(err error) (body ErrorBody, ok bool) {
	if perr, isParse := domain.AsParseError(err); isParse {
		return ErrorBody{Error: perr.Error(), Kind: string(perr.Kind), Line: perr.Line}, true
	}
	var ierr *domain.InputError
	if errors.As(err, &ierr) {
		col := ierr.Column
		return ErrorBody{Error: ierr.Error(), Kind: "invalid_input", Column: &col}, true
	}
	return ErrorBody{}, false
}
