package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// ErrStepLimit is returned when the run reaches the configured maximum number of
// steps without halting.
var ErrStepLimit = errors.New("step limit reached")

// Renderer receives the configuration after every step, starting with step 0.
type Renderer func(cfg domain.Configuration)

// Runner handles the execution loop of a turing.Engine.
// A Runner may be reused for several runs but drives one at a time.
type Runner struct {
	interval atomic.Int64
	maxSteps uint64
	renderer Renderer
	logger   *slog.Logger

	store     ports.SnapshotStore
	locker    ports.Locker
	sessionID string
	every     uint64
}

// New creates a Runner. Without options it runs at full speed with no limit.
func New(opts ...Option) *Runner {
	r := &Runner{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run is a shorthand for New(opts...).Run(ctx, eng).
func Run(ctx context.Context, eng *turing.Engine, opts ...Option) (domain.Result, error) {
	return New(opts...).Run(ctx, eng)
}

// Interval returns the current pause between steps.
func (r *Runner) Interval() time.Duration {
	return time.Duration(r.interval.Load())
}

// SetInterval changes the pause between steps. It is safe to call while Run is
// in progress; the new value applies from the next pause.
func (r *Runner) SetInterval(d time.Duration) {
	r.interval.Store(int64(max(d, 0)))
}

// Run steps eng until it halts, the step limit is reached or ctx is done.
// It returns the Result at that point together with ErrStepLimit, ctx.Err() or a
// checkpoint error. A halted machine returns a nil error whatever the HaltReason.
func (r *Runner) Run(ctx context.Context, eng *turing.Engine) (domain.Result, error) {
	unlock, err := r.lock(ctx)
	if err != nil {
		return eng.Result(), err
	}
	defer unlock()

	r.render(eng.Current())

	for !eng.Halted() {
		if r.maxSteps > 0 && eng.Current().Step >= r.maxSteps {
			if _, ok := eng.Next(); !ok {
				eng.Step(ctx)
				break
			}
			r.logger.Info("step limit reached", "steps", r.maxSteps, "state", eng.Current().State)
			return r.finish(ctx, eng, ErrStepLimit)
		}

		if err := r.wait(ctx); err != nil {
			return r.finish(ctx, eng, err)
		}

		out := eng.Step(ctx)
		if out.Halted() {
			break
		}
		r.render(out.Configuration)

		if r.every > 0 && out.Configuration.Step%r.every == 0 {
			if err := r.checkpoint(ctx, eng); err != nil {
				return eng.Result(), err
			}
		}
	}

	return r.finish(ctx, eng, nil)
}

func (r *Runner) finish(ctx context.Context, eng *turing.Engine, cause error) (domain.Result, error) {
	if err := r.checkpoint(context.WithoutCancel(ctx), eng); err != nil {
		return eng.Result(), errors.Join(cause, err)
	}
	return eng.Result(), cause
}

func (r *Runner) wait(ctx context.Context) error {
	d := r.Interval()
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Runner) render(cfg domain.Configuration) {
	if r.renderer != nil {
		r.renderer(cfg)
	}
}

func (r *Runner) checkpoint(ctx context.Context, eng *turing.Engine) error {
	if r.store == nil || r.sessionID == "" {
		return nil
	}
	snap := eng.Snapshot()
	if err := r.store.Save(ctx, r.sessionID, snap); err != nil {
		return fmt.Errorf("failed to checkpoint session %s: %w", r.sessionID, err)
	}
	r.logger.Debug("checkpoint saved", "session_id", r.sessionID, "step", snap.Step)
	return nil
}

func (r *Runner) lock(ctx context.Context) (func(), error) {
	if r.locker == nil || r.store == nil || r.sessionID == "" {
		return func() {}, nil
	}
	unlock, err := r.locker.Lock(ctx, r.sessionID, DefaultLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to lock session %s: %w", r.sessionID, err)
	}
	return func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			r.logger.Warn("failed to unlock session", "session_id", r.sessionID, "error", err)
		}
	}, nil
}
