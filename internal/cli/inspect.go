package cli

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
	"github.com/LeJamon/goAnchorSVM/internal/logger"
	"github.com/LeJamon/goAnchorSVM/internal/logs"
)

var inspectIDL string

// inspectCmd prints the call tree of a transaction log
var inspectCmd = &cobra.Command{
	Use:   "inspect <log-file>",
	Short: "Print the invocation tree of a transaction log",
	Long: `Attribute every line of a transaction log to the program invocation it was
logged under and print the result as an indented call tree, followed by the
compute units and return data of each top-level program.

With an IDL, event emissions are labelled with their event names.

Examples:
    anchorsvm inspect tx.log
    anchorsvm inspect --idl target/idl/escrow.json tx.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectIDL, "idl", "", "IDL file used to name events (default program.idl)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	doc, err := resolveIDL(inspectIDL)
	if err != nil {
		return err
	}
	registry, err := registryFor(doc)
	if err != nil {
		return err
	}
	lines, err := readLogFile(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	frames, traceErr := logs.Trace(lines)

	logger.Title(out, fmt.Sprintf("Trace of %s (%d lines)", args[0], len(lines)))
	for _, f := range frames {
		fmt.Fprintln(out, formatFrame(f, registry))
	}

	writeSummary(out, frames, lines)

	if traceErr != nil {
		color.New(color.FgRed).Fprintf(out, "\n%v\n", traceErr)
		return traceErr
	}
	if logs.Truncated(lines) {
		color.New(color.FgYellow).Fprintln(out, "\nlog truncated by the runtime")
	}
	return nil
}

func formatFrame(f logs.Frame, registry *discriminator.Registry) string {
	depth := f.Depth
	// Open and close lines sit at the caller's indentation.
	switch f.Line.Kind {
	case logs.KindInvoke, logs.KindSuccess, logs.KindFailure:
		depth--
	}
	if depth < 0 {
		depth = 0
	}
	indent := strings.Repeat("  ", depth)
	prefix := fmt.Sprintf("%4d %s", f.Index, indent)

	switch f.Line.Kind {
	case logs.KindInvoke:
		return prefix + color.New(color.FgCyan).Sprintf("> %s [%d]", f.Line.Program, f.Line.Depth)
	case logs.KindSuccess:
		return prefix + color.New(color.FgGreen).Sprintf("< %s ok", f.Line.Program)
	case logs.KindFailure:
		return prefix + color.New(color.FgRed).Sprintf("< %s failed: %s", f.Line.Program, f.Line.Message)
	case logs.KindConsumed:
		return prefix + fmt.Sprintf("  %d of %d CU", f.Line.Consumed, f.Line.Budget)
	case logs.KindData:
		return prefix + color.New(color.FgMagenta).Sprintf("  event %s (%d bytes)", eventLabel(registry, f.Line.Payload), len(f.Line.Payload))
	case logs.KindReturn:
		return prefix + fmt.Sprintf("  return %s", base64.StdEncoding.EncodeToString(f.Line.Payload))
	case logs.KindLog:
		return prefix + "  " + f.Line.Message
	default:
		return prefix + "  " + f.Line.Raw
	}
}

// writeSummary prints compute units and return data per top-level program,
// in order of first invocation.
func writeSummary(w io.Writer, frames []logs.Frame, lines []string) {
	var programs []solana.PublicKey
	seen := make(map[solana.PublicKey]bool)
	for _, f := range frames {
		if f.Line.Kind == logs.KindInvoke && f.Line.Depth == 1 && !seen[f.Line.Program] {
			seen[f.Line.Program] = true
			programs = append(programs, f.Line.Program)
		}
	}
	if len(programs) == 0 {
		return
	}

	fmt.Fprintln(w)
	table := newTable(w, "PROGRAM", "COMPUTE UNITS", "RETURN DATA")
	for _, p := range programs {
		units := "-"
		if n, ok := logs.Consumed(lines, p); ok {
			units = fmt.Sprint(n)
		}
		ret := "-"
		if data, ok, err := logs.ReturnData(lines, p); err == nil && ok {
			ret = base64.StdEncoding.EncodeToString(data)
		}
		table.Append([]string{p.String(), units, ret})
	}
	table.Render()
}
