package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/olekukonko/tablewriter"

	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
	"github.com/LeJamon/goAnchorSVM/internal/idl"
)

var errNoProgram = errors.New("no program: pass --program, or set program.id or program.idl in the config")

// readLogFile reads a transaction log. The file holds either one log line per
// line or a JSON array of strings, as found in a transaction's logMessages.
// "-" reads from stdin.
func readLogFile(path string, stdin io.Reader) ([]string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}
	return splitLog(data)
}

func splitLog(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []string{}, nil
	}
	if trimmed[0] == '[' {
		var lines []string
		if err := json.Unmarshal(trimmed, &lines); err != nil {
			return nil, fmt.Errorf("parse log array: %w", err)
		}
		return lines, nil
	}

	raw := strings.Split(string(trimmed), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimRight(l, "\r"))
	}
	return lines, nil
}

// resolveIDL loads the IDL named by flag, falling back to program.idl.
// It returns nil when neither is set.
func resolveIDL(flag string) (*idl.IDL, error) {
	path := flag
	if path == "" && cfg != nil {
		path = cfg.Program.IDL
	}
	if path == "" {
		return nil, nil
	}
	return idl.Load(path)
}

// resolveProgram picks the program address from the flag, the config, or the IDL.
func resolveProgram(flag string, doc *idl.IDL) (solana.PublicKey, error) {
	if flag != "" {
		pk, err := solana.PublicKeyFromBase58(flag)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("invalid --program %q: %w", flag, err)
		}
		return pk, nil
	}
	if cfg != nil {
		pk, ok, err := cfg.ProgramID()
		if err != nil {
			return solana.PublicKey{}, err
		}
		if ok {
			return pk, nil
		}
	}
	if doc != nil {
		return doc.ProgramID()
	}
	return solana.PublicKey{}, errNoProgram
}

// registryFor returns the IDL's registry, or an empty one.
func registryFor(doc *idl.IDL) (*discriminator.Registry, error) {
	if doc == nil {
		return discriminator.NewRegistry(), nil
	}
	return doc.Registry()
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}
