package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
)

// RunOptions configures a single run of a machine from the command line.
type RunOptions struct {
	DefinitionPath  string
	Input           string
	Interval        time.Duration
	MaxSteps        uint64
	HaltState       domain.State
	Headless        bool
	JSON            bool
	SessionID       string
	CheckpointEvery uint64

	Store  ports.SnapshotStore
	Locker ports.Locker
	Hooks  domain.LifecycleHooks
	Logger *slog.Logger

	Stdin  *os.File
	Stdout io.Writer
}

// RunSession executes a single run of a machine and prints its configurations.
// Interactive runs draw the tape in place and accept the s/a/q keys; headless
// runs print only the final configuration; JSON runs print one line per step.
func RunSession(ctx context.Context, opts RunOptions) (domain.Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}

	def, err := turing.Load(opts.DefinitionPath)
	if err != nil {
		return domain.Result{}, err
	}

	engineOpts := []turing.Option{
		turing.WithHaltState(opts.HaltState),
		turing.WithLogger(logger),
		turing.WithLifecycleHooks(opts.Hooks),
	}

	sessions := runner.NewSessionManager(nil)
	if opts.SessionID != "" {
		sessions.Store = opts.Store
	}
	eng, resumed, err := sessions.LoadOrStart(ctx, def, opts.SessionID, opts.Input, engineOpts...)
	if err != nil {
		return domain.Result{}, err
	}
	if opts.SessionID != "" {
		logger.Info("session ready", "session_id", opts.SessionID, "resumed", resumed, "step", eng.Current().Step)
	}

	signals := runner.NewSignalManager(ctx)
	defer signals.Stop()

	runnerOpts := []runner.Option{
		runner.WithMaxSteps(opts.MaxSteps),
		runner.WithLogger(logger),
	}
	if opts.SessionID != "" && opts.Store != nil {
		runnerOpts = append(runnerOpts,
			runner.WithCheckpoint(opts.Store, opts.SessionID, opts.CheckpointEvery),
			runner.WithLocker(opts.Locker),
		)
	}

	var tape *tui.TapeRenderer
	interactive := !opts.Headless && !opts.JSON
	switch {
	case opts.JSON:
		runnerOpts = append(runnerOpts, runner.WithRenderer(runner.JSONRenderer(opts.Stdout)))
	case interactive:
		tui.PrintBanner(opts.Stdout)
		tape = tui.NewTapeRenderer(opts.Stdout)
		runnerOpts = append(runnerOpts,
			runner.WithInterval(opts.Interval),
			runner.WithRenderer(tape.Render),
		)
	}

	r := runner.New(runnerOpts...)

	if interactive {
		tape.Interval = r.Interval
		stop, err := listenKeys(signals, r, opts.Stdin)
		if err != nil {
			logger.Warn("keyboard controls unavailable", "error", err)
		}
		defer stop()
	}

	res, runErr := r.Run(signals.Context(), eng)
	if signals.Interrupted() && errors.Is(runErr, context.Canceled) {
		runErr = fmt.Errorf("%w at step %d", ErrInterrupted, res.Steps)
	}

	switch {
	case opts.JSON:
		writeResultJSON(opts.Stdout, res, runErr)
	case interactive:
		if runErr == nil {
			tape.Done(res)
		}
	default:
		fmt.Fprintf(opts.Stdout, "%s steps=%d state=%s head=%d tape=%s\n",
			describe(res, runErr), res.Steps, res.State, res.Head, eng.Tape())
	}

	logger.Debug("run finished", "definition", filepath.Base(opts.DefinitionPath), "steps", res.Steps, "reason", res.Reason)
	return res, runErr
}

// listenKeys wires the keyboard to the runner when stdin is a terminal.
func listenKeys(signals *runner.SignalManager, r *runner.Runner, stdin *os.File) (func(), error) {
	restore, ok, err := tui.RawMode(stdin)
	if err != nil || !ok {
		return func() {}, err
	}
	controls := &tui.Controls{Pacer: r, Quit: signals.Interrupt}
	go controls.Listen(signals.Context(), stdin)
	return restore, nil
}

func describe(res domain.Result, err error) string {
	switch {
	case errors.Is(err, runner.ErrStepLimit):
		return "step_limit"
	case err != nil:
		return "interrupted"
	}
	return string(res.Reason)
}
