package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/turing/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed runner keeps a session locked.
const DefaultLockTTL = 30 * time.Second

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInterval sets the pause between two steps. Zero runs at full speed.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.SetInterval(d)
	}
}

// WithMaxSteps stops the run with ErrStepLimit once the step counter reaches n.
// Zero means unlimited.
func WithMaxSteps(n uint64) Option {
	return func(r *Runner) {
		r.maxSteps = n
	}
}

// WithRenderer configures the callback receiving every configuration.
func WithRenderer(renderer Renderer) Option {
	return func(r *Runner) {
		r.renderer = renderer
	}
}

// WithCheckpoint saves a snapshot of the run to store under sessionID every
// `every` steps and once more when the loop ends. every == 0 only saves at the end.
func WithCheckpoint(store ports.SnapshotStore, sessionID string, every uint64) Option {
	return func(r *Runner) {
		r.store = store
		r.sessionID = sessionID
		r.every = every
	}
}

// WithLocker guards the checkpoint session so two runners cannot write it at once.
func WithLocker(locker ports.Locker) Option {
	return func(r *Runner) {
		r.locker = locker
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
