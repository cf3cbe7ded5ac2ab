package cli

import (
	"context"
	"errors"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
)

// Process exit codes of the turing command.
const (
	ExitHalted       = 0
	ExitError        = 1
	ExitParse        = 2
	ExitNoTransition = 3
	ExitInput        = 4
	ExitStepLimit    = 5
	ExitInterrupted  = 130
)

// ExitCode maps the outcome of a command to a process exit code.
func ExitCode(res domain.Result, err error) int {
	switch {
	case err == nil:
		if res.Status == domain.StatusHalted && res.Reason == domain.NoTransition {
			return ExitNoTransition
		}
		return ExitHalted
	case errors.Is(err, runner.ErrStepLimit):
		return ExitStepLimit
	case errors.Is(err, context.Canceled), errors.Is(err, ErrInterrupted):
		return ExitInterrupted
	}
	if _, ok := domain.AsParseError(err); ok {
		return ExitParse
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return ExitInput
	}
	return ExitError
}

// ErrInterrupted reports a run stopped by a signal or the quit key.
var ErrInterrupted = errors.New("interrupted")
