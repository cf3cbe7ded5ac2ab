package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run -m MACHINE [INPUT]",
	Short: "Run a machine on an input",
	Long: `Runs the machine defined in MACHINE with INPUT written on the tape from position 0.

Interactive runs redraw the tape after every step. Keys:
  s  slower (+100ms)
  a  faster (down to 100ms)
  q  quit

Exit status: 0 halt state reached, 2 invalid definition, 3 no transition,
4 invalid input, 5 step limit reached, 130 interrupted, 1 any other error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		machine, _ := flags.GetString("machine")
		headless, _ := flags.GetBool("headless")
		jsonMode, _ := flags.GetBool("json")
		sessionID, _ := flags.GetString("session")

		if flags.Changed("interval") {
			cfg.Interval, _ = flags.GetDuration("interval")
		}
		if flags.Changed("max-steps") {
			cfg.MaxSteps, _ = flags.GetUint64("max-steps")
		}
		if flags.Changed("halt-state") {
			halt, _ := flags.GetString("halt-state")
			cfg.HaltState = domain.State(halt)
		}
		if flags.Changed("store") {
			cfg.Store, _ = flags.GetString("store")
		}
		if flags.Changed("checkpoint-every") {
			cfg.CheckpointEvery, _ = flags.GetUint64("checkpoint-every")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		var input string
		if len(args) > 0 {
			input = args[0]
		}

		opts := cli.RunOptions{
			DefinitionPath:  machine,
			Input:           input,
			Interval:        cfg.Interval,
			MaxSteps:        cfg.MaxSteps,
			HaltState:       cfg.HaltState,
			Headless:        headless,
			JSON:            jsonMode,
			SessionID:       sessionID,
			CheckpointEvery: cfg.CheckpointEvery,
			Logger:          logger,
			Stdin:           os.Stdin,
			Stdout:          cmd.OutOrStdout(),
		}

		if sessionID != "" {
			persistence, err := cli.OpenPersistence(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer persistence.Close()
			opts.Store = persistence.Store
			opts.Locker = persistence.Locker
		}

		res, err := cli.RunSession(cmd.Context(), opts)
		if code := cli.ExitCode(res, err); code != cli.ExitHalted {
			return &exitError{code: code, err: err}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("machine", "m", "", "Machine definition file")
	runCmd.Flags().DurationP("interval", "i", 0, "Pause between steps in interactive mode (default from config, 300ms)")
	runCmd.Flags().Uint64("max-steps", 0, "Stop after this many steps (0 = unlimited)")
	runCmd.Flags().String("halt-state", "", "Reserved halt state name (default H; empty disables)")
	runCmd.Flags().Bool("headless", false, "Print only the final configuration")
	runCmd.Flags().Bool("json", false, "Print one JSON line per configuration")
	runCmd.Flags().String("session", "", "Checkpoint the run under this ID and resume it if it exists")
	runCmd.Flags().String("store", "", "Snapshot store for --session: memory or redis (default from config)")
	runCmd.Flags().Uint64("checkpoint-every", 0, "Save a checkpoint every N steps (default from config)")
	_ = runCmd.MarkFlagRequired("machine")
}
