package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	halted := func(reason domain.HaltReason) domain.Result {
		return domain.Result{Status: domain.StatusHalted, Reason: reason}
	}

	tests := []struct {
		name string
		res  domain.Result
		err  error
		want int
	}{
		{"Reached halt state", halted(domain.ReachedHaltState), nil, ExitHalted},
		{"No transition", halted(domain.NoTransition), nil, ExitNoTransition},
		{"Parse error", domain.Result{}, &domain.ParseError{Kind: domain.Malformed, Line: 3}, ExitParse},
		{"Wrapped parse error", domain.Result{}, fmt.Errorf("load: %w", &domain.ParseError{Kind: domain.EmptyDefinition}), ExitParse},
		{"Input error", domain.Result{}, &domain.InputError{Column: 2, Symbol: 'x'}, ExitInput},
		{"Step limit", domain.Result{Status: domain.StatusRunning}, runner.ErrStepLimit, ExitStepLimit},
		{"Interrupted", domain.Result{}, fmt.Errorf("%w at step 4", ErrInterrupted), ExitInterrupted},
		{"Cancelled", domain.Result{}, context.Canceled, ExitInterrupted},
		{"Other", domain.Result{}, errors.New("disk on fire"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.res, tt.err))
		})
	}
}
