package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/service"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate MACHINE",
	Short: "Check a machine definition",
	Long: `Parses MACHINE and reports structural issues: unreachable states, states without
outgoing transitions, transitions leaving the halt state, a halt state that is never
reached. Issues are warnings; only parse errors fail (exit status 2).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		resp, err := service.New(logger, domain.LifecycleHooks{}).Validate(string(data), cfg.HaltState)
		if err != nil {
			return &exitError{code: cli.ExitCode(domain.Result{}, err), err: fmt.Errorf("%s: %w", args[0], err)}
		}

		out := cmd.OutOrStdout()
		if jsonMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		fmt.Fprintf(out, "%s: %d states, %d transitions, alphabet %d symbols, initial state %s\n",
			filepath.Base(args[0]), len(resp.States), len(resp.Transitions), len(resp.Alphabet), resp.InitialState)
		for _, issue := range resp.Issues {
			fmt.Fprintf(out, "  %s\n", issue)
		}
		if len(resp.Issues) == 0 {
			fmt.Fprintln(out, "Definition is valid! ✅")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("json", false, "Print the parsed definition as JSON")
}
