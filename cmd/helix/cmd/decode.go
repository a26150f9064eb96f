/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/helixcode/pkg/alphabet"
	"github.com/ssargent/helixcode/pkg/di"
	"github.com/ssargent/helixcode/pkg/frame"
	"github.com/ssargent/helixcode/pkg/pipeline"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <input> [output]",
	Short: "Decode a nucleotide record back into the original file",
	Long: `Decode a record written by 'helix encode'.

Single flipped bits are repaired silently. Bytes with two or more flipped bits
cannot be recovered: they are written as --placeholder and reported. Groups
containing a symbol other than A, C, G or T abort the run unless
--policy=substitute is given.

Examples:
  helix decode notes.txt.fa
  helix decode damaged.fa restored.bin --policy substitute --placeholder "#"
  helix decode notes.txt.fa --strict`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		output := defaultDecodeOutput(input)
		if len(args) == 2 {
			output = args[1]
		}

		header, report, err := decodeFile(cmd.Context(), container, input, output, progressOutput(cmd))
		if err != nil {
			return err
		}

		cmd.Printf("Decoded %s (%q, %d bytes) -> %s\n", input, header.Descriptor, report.Units, output)
		printReport(cmd, report)

		if err := container.FlushMetrics(); err != nil {
			return err
		}

		if strict, _ := cmd.Flags().GetBool("strict"); strict && !report.Clean() {
			return fmt.Errorf("%d of %d bytes could not be recovered", len(report.Uncorrectable)+len(report.Unrecognized), report.Units)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().String("policy", string(pipeline.SymbolPolicyAbort), "unrecognized symbol policy: abort or substitute")
	decodeCmd.Flags().String("placeholder", string(pipeline.DefaultPlaceholder), "byte written for units that cannot be recovered")
	decodeCmd.Flags().Bool("strict", false, "exit with an error when any byte could not be recovered")
	decodeCmd.Flags().String("metrics-file", "", "write Prometheus metrics to this textfile")
}

// decodeFile reads the record at input, decodes it and writes the bytes to
// output
func decodeFile(ctx context.Context, c *di.Container, input, output string, progress io.Writer) (*frame.Header, *pipeline.Report, error) {
	f, err := os.Open(input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	rec, err := frame.Read(f)
	if err != nil {
		return nil, nil, err
	}
	if err := rec.Verify(alphabet.GroupLength); err != nil {
		return nil, nil, err
	}

	opts := c.PipelineOptions()
	if progress != nil {
		opts.OnProgress = progressPrinter(progress, "decoding")
	}

	raw, report, err := pipeline.DecodeStream(ctx, rec.Body, opts)
	if err != nil {
		return nil, nil, err
	}

	if err := os.WriteFile(output, raw, 0644); err != nil {
		return nil, nil, fmt.Errorf("failed to write output: %w", err)
	}

	return &rec.Header, report, nil
}

func printReport(cmd *cobra.Command, r *pipeline.Report) {
	if r.Corrected > 0 {
		cmd.Printf("  corrected:             %d\n", r.Corrected)
	}
	if n := len(r.Uncorrectable); n > 0 {
		cmd.Printf("  uncorrectable:         %d (first at byte %d)\n", n, r.Uncorrectable[0])
	}
	if n := len(r.Unrecognized); n > 0 {
		cmd.Printf("  unrecognized symbols:  %d (first at byte %d)\n", n, r.Unrecognized[0])
	}
	if n := len(r.AlternationViolations); n > 0 {
		cmd.Printf("  alternation warnings:  %d (first at byte %d)\n", n, r.AlternationViolations[0])
	}
}

func defaultDecodeOutput(input string) string {
	out := strings.TrimSuffix(input, ".zst")
	out = strings.TrimSuffix(out, ".fa")
	if out == input || out == "" {
		return input + ".decoded"
	}
	return out
}
