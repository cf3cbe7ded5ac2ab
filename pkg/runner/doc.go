/*
Package runner drives a turing.Engine from the outside.

The engine itself never sleeps, never limits and never persists. The runner adds
those concerns around it: a pause between steps that can be changed while the run
is in progress, an optional step limit, a renderer called with every
configuration, and periodic checkpoints to a ports.SnapshotStore.

# Usage

	r := runner.New(
		runner.WithInterval(300*time.Millisecond),
		runner.WithMaxSteps(10_000),
		runner.WithRenderer(runner.TextRenderer(os.Stdout)),
		runner.WithCheckpoint(store, "bb3", 100),
	)

	res, err := r.Run(ctx, eng)
	if errors.Is(err, runner.ErrStepLimit) {
		// the machine was still running after 10 000 steps
	}

Cancelling ctx stops the loop after the current step; the final checkpoint is
still written.
*/
package runner
