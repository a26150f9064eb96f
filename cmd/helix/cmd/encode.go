/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/helixcode/pkg/di"
	"github.com/ssargent/helixcode/pkg/frame"
	"github.com/ssargent/helixcode/pkg/pipeline"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <input> [output]",
	Short: "Encode a file as a nucleotide record",
	Long: `Encode any file into a single nucleotide record.

The output starts with a header line holding a descriptor and the number of
encoded bytes, followed by the symbols wrapped at --line-width. When no output
is given it is written next to the input with a .fa suffix (.fa.zst when
compressed).

Examples:
  helix encode notes.txt
  helix encode photo.jpg photo.fa --workers 8 --line-width 80
  helix encode archive.tar --compress --descriptor "backup 2025-06"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		output := defaultEncodeOutput(input, container.GetConfig().Compress)
		if len(args) == 2 {
			output = args[1]
		}

		descriptor, _ := cmd.Flags().GetString("descriptor")
		if descriptor == "" {
			descriptor = filepath.Base(input)
		}

		units, err := encodeFile(cmd.Context(), container, input, output, descriptor, progressOutput(cmd))
		if err != nil {
			return err
		}

		cmd.Printf("Encoded %s (%d bytes) -> %s\n", input, units, output)
		return container.FlushMetrics()
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().String("descriptor", "", "header descriptor (default: input file name)")
	encodeCmd.Flags().Int("line-width", frame.DefaultLineWidth, "symbols per output line")
	encodeCmd.Flags().Bool("compress", false, "zstd-compress the output record")
	encodeCmd.Flags().String("metrics-file", "", "write Prometheus metrics to this textfile")
}

// encodeFile encodes input into a framed record at output and returns the
// number of encoded units
func encodeFile(ctx context.Context, c *di.Container, input, output, descriptor string, progress io.Writer) (int, error) {
	raw, err := os.ReadFile(input)
	if err != nil {
		return 0, fmt.Errorf("failed to read input: %w", err)
	}

	opts := c.PipelineOptions()
	if progress != nil {
		opts.OnProgress = progressPrinter(progress, "encoding")
	}

	body, err := pipeline.EncodeStream(ctx, raw, opts)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output: %w", err)
	}

	header := frame.Header{Descriptor: descriptor, Count: len(raw)}
	if err := frame.Write(f, header, body, c.FrameOptions()); err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to write record: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output: %w", err)
	}

	return len(raw), nil
}

func defaultEncodeOutput(input string, compress bool) string {
	if compress {
		return input + ".fa.zst"
	}
	return input + ".fa"
}
