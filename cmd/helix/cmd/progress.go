package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/helixcode/pkg/pipeline"
)

// progressPrinter renders pipeline progress on a single terminal line
func progressPrinter(w io.Writer, label string) pipeline.ProgressFunc {
	return func(done, total int64) {
		fmt.Fprintf(w, "\r%s: %5.1f%% (%d/%d units)", label, pipeline.Percent(done, total), done, total)
		if done >= total {
			fmt.Fprintln(w)
		}
	}
}

// progressOutput returns where progress goes, or nil when --quiet is set
func progressOutput(cmd *cobra.Command) io.Writer {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return nil
	}
	return cmd.ErrOrStderr()
}
