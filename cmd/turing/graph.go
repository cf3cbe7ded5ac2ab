package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph MACHINE",
	Short: "Export the state diagram of a machine",
	Long: `Outputs a Mermaid flowchart of the transition table of MACHINE.
With --input the machine is run first and the visited states are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := turing.Load(args[0])
		if err != nil {
			return &exitError{code: cli.ExitParse, err: err}
		}

		var overlay *graph.GraphOverlay
		if cmd.Flags().Changed("input") {
			input, _ := cmd.Flags().GetString("input")
			overlay, err = trace(cmd.Context(), def, input)
			if err != nil {
				return err
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(def, cfg.HaltState, overlay))
		return nil
	},
}

// trace runs def on input (bounded by the configured step limit) and records the
// states it went through.
func trace(ctx context.Context, def *domain.Definition, input string) (*graph.GraphOverlay, error) {
	overlay := &graph.GraphOverlay{VisitedStates: []domain.State{def.Initial}}
	eng, err := turing.New(def, input,
		turing.WithHaltState(cfg.HaltState),
		turing.WithLogger(logger),
		turing.WithLifecycleHooks(domain.LifecycleHooks{
			OnStep: func(_ context.Context, e *domain.StepEvent) {
				overlay.VisitedStates = append(overlay.VisitedStates, e.Transition.To)
			},
		}),
	)
	if err != nil {
		return nil, &exitError{code: cli.ExitInput, err: err}
	}

	limit := cfg.MaxSteps
	if limit == 0 {
		limit = 10_000
	}
	res, err := runner.Run(ctx, eng, runner.WithMaxSteps(limit))
	if err != nil && !errors.Is(err, runner.ErrStepLimit) {
		return nil, err
	}
	overlay.CurrentState = res.State
	return overlay, nil
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("input", "", "Run the machine on this input and highlight the visited states")
}
