package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect MACHINE",
	Short: "Describe a machine in the terminal",
	Long:  `Renders a summary of MACHINE (states, alphabet, transition table, issues) as styled markdown.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, _ := cmd.Flags().GetString("style")
		raw, _ := cmd.Flags().GetBool("markdown")

		def, err := turing.Load(args[0])
		if err != nil {
			return &exitError{code: cli.ExitCode(domain.Result{}, err), err: err}
		}

		md := tui.Summary(filepath.Base(args[0]), def, cfg.HaltState, validator.Validate(def, cfg.HaltState))
		if raw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		render, err := tui.NewRenderer(style, tui.Width(os.Stdout))
		if err != nil {
			return err
		}
		out, err := render(md)
		if err != nil {
			return fmt.Errorf("failed to render summary: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("style", "", "Glamour style: dark, light, notty (default: detect)")
	inspectCmd.Flags().Bool("markdown", false, "Print the raw markdown")
}
