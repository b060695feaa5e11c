package cli

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
	"github.com/LeJamon/goAnchorSVM/internal/logger"
	"github.com/LeJamon/goAnchorSVM/internal/logs"
)

var (
	scrapeProgram string
	scrapeIDL     string
	scrapeEvent   string
	scrapeFormat  string
)

// scrapeCmd extracts event emissions from transaction logs
var scrapeCmd = &cobra.Command{
	Use:   "scrape <log-file>...",
	Short: "Extract a program's event emissions from transaction logs",
	Long: `Scan transaction logs for the "Program data:" emissions of one program.
Only emissions made while that program is the innermost running invocation
count; data logged by programs it calls, or by programs that call it, is skipped.

Each file holds one log line per line, or a JSON array of log lines. Use "-"
for stdin. Files are scraped concurrently and reported in argument order.

With an IDL, emissions are labelled with their event names.

Examples:
    anchorsvm scrape --program Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS tx1.log tx2.log
    anchorsvm scrape --idl target/idl/escrow.json --event TransferEvent tx.json
    solana confirm -v <sig> | anchorsvm scrape --format plain -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&scrapeProgram, "program", "p", "", "program address (default program.id or the IDL address)")
	scrapeCmd.Flags().StringVar(&scrapeIDL, "idl", "", "IDL file used to name events (default program.idl)")
	scrapeCmd.Flags().StringVarP(&scrapeEvent, "event", "e", "", "only report events with this name")
	scrapeCmd.Flags().StringVarP(&scrapeFormat, "format", "f", "", "output format: table, plain or json (default scrape.format)")
}

// emission is one scraped event payload.
type emission struct {
	File    string `json:"file"`
	Index   int    `json:"index"`
	Event   string `json:"event"`
	Size    int    `json:"size"`
	Payload string `json:"payload"`
}

// scrapeResult is the outcome for one file.
type scrapeResult struct {
	file      string
	payloads  [][]byte
	truncated bool
	corrupt   error
}

func runScrape(cmd *cobra.Command, args []string) error {
	log := logger.FromContext(cmd.Context())

	doc, err := resolveIDL(scrapeIDL)
	if err != nil {
		return err
	}
	program, err := resolveProgram(scrapeProgram, doc)
	if err != nil {
		return err
	}
	registry, err := registryFor(doc)
	if err != nil {
		return err
	}

	format := scrapeFormat
	workers := 4
	if cfg != nil {
		workers = cfg.Scrape.Workers
		if format == "" {
			format = cfg.Scrape.Format
		}
	}
	if format == "" {
		format = "table"
	}

	results, err := scrapeFiles(cmd.Context(), args, program, workers, cmd.InOrStdin())
	if err != nil {
		return err
	}

	var filter *discriminator.Discriminator
	if scrapeEvent != "" {
		d := discriminator.Derive(discriminator.Event, scrapeEvent)
		filter = &d
	}

	var (
		out     []emission
		corrupt int
	)
	for _, r := range results {
		if r.corrupt != nil {
			corrupt++
			log.Warn("Log stream corrupt, reporting emissions before the break",
				zap.String("file", r.file), zap.Error(r.corrupt))
		}
		if r.truncated {
			log.Warn("Log stream truncated by the runtime", zap.String("file", r.file))
		}
		for i, p := range r.payloads {
			if filter != nil && !discriminator.Matches(p, *filter) {
				continue
			}
			out = append(out, emission{
				File:    r.file,
				Index:   i,
				Event:   eventLabel(registry, p),
				Size:    len(p),
				Payload: base64.StdEncoding.EncodeToString(p),
			})
		}
	}
	log.Debug("Scrape finished",
		zap.Stringer("program", program),
		zap.Int("files", len(results)),
		zap.Int("emissions", len(out)),
		zap.Int("corrupt", corrupt))

	if err := writeEmissions(cmd.OutOrStdout(), format, out); err != nil {
		return err
	}
	if corrupt > 0 {
		return fmt.Errorf("%d of %d log files are corrupt: %w", corrupt, len(results), logs.ErrLogStreamCorrupt)
	}
	return nil
}

// scrapeFiles scrapes every file with at most workers files in flight.
// Results keep the order of paths.
func scrapeFiles(ctx context.Context, paths []string, program solana.PublicKey, workers int, stdin io.Reader) ([]scrapeResult, error) {
	results := make([]scrapeResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lines, err := readLogFile(path, stdin)
			if err != nil {
				return err
			}
			payloads, err := logs.Collect(lines, program)
			if err != nil && !errors.Is(err, logs.ErrLogStreamCorrupt) {
				return fmt.Errorf("scrape %s: %w", path, err)
			}
			results[i] = scrapeResult{
				file:      path,
				payloads:  payloads,
				truncated: logs.Truncated(lines),
				corrupt:   err,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func eventLabel(registry *discriminator.Registry, payload []byte) string {
	if e, ok := registry.Identify(payload); ok {
		return e.Name
	}
	if d, ok := discriminator.FromBytes(payload); ok {
		return d.String()
	}
	return "(short)"
}

func writeEmissions(w io.Writer, format string, out []emission) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if out == nil {
			out = []emission{}
		}
		return enc.Encode(out)
	case "plain":
		for _, e := range out {
			fmt.Fprintf(w, "%s:%d %s %s\n", e.File, e.Index, e.Event, e.Payload)
		}
		return nil
	case "table":
		table := newTable(w, "FILE", "#", "EVENT", "BYTES", "PAYLOAD")
		for _, e := range out {
			table.Append([]string{e.File, strconv.Itoa(e.Index), e.Event, strconv.Itoa(e.Size), e.Payload})
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unknown format %q (table, plain, json)", format)
	}
}
