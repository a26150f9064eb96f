package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/helixcode/pkg/alphabet"
	"github.com/ssargent/helixcode/pkg/hamming"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <char|0xNN|symbols>",
	Short: "Show how a byte is encoded, or check a symbol group",
	Long: `Show the codeword and symbol group for a single byte, or validate a
13-symbol group and show what it decodes to.

Examples:
  helix inspect A
  helix inspect 0x0a
  helix inspect GACATCAGCACTA
  helix inspect GAGATCAGCACTA`,
	Args: cobra.ExactArgs(1),
	Annotations: map[string]string{
		skipConfigAnnotation: "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := args[0]
		if len(arg) == alphabet.GroupLength {
			return describeGroup(cmd.OutOrStdout(), []byte(arg))
		}

		unit, err := parseUnit(arg)
		if err != nil {
			return err
		}
		return describeUnit(cmd.OutOrStdout(), unit)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// parseUnit accepts a single character or a 0x-prefixed hex byte
func parseUnit(s string) (byte, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid hex byte %q: %w", s, err)
		}
		return byte(v), nil
	}
	return 0, fmt.Errorf("expected a single character, a 0xNN byte or %d symbols, got %q", alphabet.GroupLength, s)
}

func describeUnit(out io.Writer, unit byte) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	cw := hamming.Encode(unit)
	symbols := alphabet.ToSymbols(cw)
	layout := hamming.StandardLayout()

	fmt.Fprintf(w, "Unit:\t%s\n", formatUnit(unit))
	fmt.Fprintf(w, "Bits:\t%08b\n", unit)
	fmt.Fprintf(w, "Parity slots:\t%s (overall %d)\n", joinInts(layout.Parity), layout.Overall)
	fmt.Fprintf(w, "Codeword:\t%s\n", cw)
	fmt.Fprintf(w, "Symbols:\t%s\n", symbols[:])

	return nil
}

func describeGroup(out io.Writer, group []byte) error {
	cw, err := alphabet.FromSymbols(group)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	chk := hamming.Validate(cw)
	fmt.Fprintf(w, "Symbols:\t%s\n", group)
	fmt.Fprintf(w, "Codeword:\t%s\n", cw)
	fmt.Fprintf(w, "Failing slots:\t%s\n", joinInts(chk.Failing))
	fmt.Fprintf(w, "Overall mismatch:\t%t\n", chk.OverallMismatch)
	fmt.Fprintf(w, "Alternation:\t%t\n", alphabet.CheckAlternation(group))

	unit, outcome, err := hamming.DecodeUnit(cw)
	fmt.Fprintf(w, "Outcome:\t%s\n", outcome)
	if errors.Is(err, hamming.ErrUncorrectable) {
		fmt.Fprintf(w, "Unit:\t-\n")
		return nil
	}
	fmt.Fprintf(w, "Unit:\t%s\n", formatUnit(unit))

	return nil
}

func formatUnit(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return fmt.Sprintf("0x%02x %q", b, rune(b))
	}
	return fmt.Sprintf("0x%02x", b)
}

func joinInts(v []int) string {
	if len(v) == 0 {
		return "none"
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
