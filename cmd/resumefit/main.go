package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-fit/internal/shared/telemetry"
)

const app = "resumefit"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:           app,
		Short:         "resumefit extracts resume text and scores it against a job description",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			telemetry.SetOutput(cmd.ErrOrStderr())
			if debug {
				telemetry.SetLevel("debug")
			} else {
				telemetry.SetLevel("warn")
			}
		},
	}
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output on stderr")

	root.AddCommand(newExtractCmd(), newAnalyzeCmd())
	return root
}
