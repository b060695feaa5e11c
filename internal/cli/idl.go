package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LeJamon/goAnchorSVM/internal/idl"
	"github.com/LeJamon/goAnchorSVM/internal/logger"
)

// idlCmd summarises an IDL file
var idlCmd = &cobra.Command{
	Use:   "idl [file]",
	Short: "Summarise an Anchor IDL",
	Long: `Print the instructions, accounts, events and errors declared in an Anchor
IDL file, with their discriminators and account roles. Both the current and
the legacy IDL formats are accepted.

Without an argument the configured program.idl is used.

Examples:
    anchorsvm idl target/idl/escrow.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIDL,
}

func init() {
	rootCmd.AddCommand(idlCmd)
}

func runIDL(cmd *cobra.Command, args []string) error {
	log := logger.FromContext(cmd.Context())

	flag := ""
	if len(args) == 1 {
		flag = args[0]
	}
	doc, err := resolveIDL(flag)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("no IDL: pass a file or set program.idl in the config")
	}
	if _, err := doc.Registry(); err != nil {
		log.Warn("IDL discriminators collide", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	title := doc.Name
	if doc.Version != "" {
		title += " " + doc.Version
	}
	if doc.Address != "" {
		title += " (" + doc.Address + ")"
	}
	logger.Title(out, title)

	fmt.Fprintln(out, "Instructions")
	table := newTable(out, "NAME", "DISCRIMINATOR", "ACCOUNTS", "ARGS")
	for _, ix := range doc.Instructions {
		table.Append([]string{ix.Name, ix.Discriminator.String(), formatRoles(ix.Accounts), formatArgs(ix.Args)})
	}
	table.Render()

	if len(doc.Accounts) > 0 || len(doc.Events) > 0 {
		fmt.Fprintln(out, "\nTypes")
		table = newTable(out, "KIND", "NAME", "DISCRIMINATOR")
		for _, a := range doc.Accounts {
			table.Append([]string{"account", a.Name, a.Discriminator.String()})
		}
		for _, e := range doc.Events {
			table.Append([]string{"event", e.Name, e.Discriminator.String()})
		}
		table.Render()
	}

	if len(doc.Errors) > 0 {
		fmt.Fprintln(out, "\nErrors")
		table = newTable(out, "CODE", "HEX", "NAME", "MESSAGE")
		for _, e := range doc.Errors {
			table.Append([]string{fmt.Sprint(e.Code), fmt.Sprintf("0x%x", e.Code), e.Name, e.Msg})
		}
		table.Render()
	}
	return nil
}

// formatRoles renders roles as name plus flags, e.g. "maker(ws) escrow(w)".
func formatRoles(roles []idl.AccountRole) string {
	parts := make([]string, 0, len(roles))
	for _, r := range roles {
		var flags string
		if r.Writable {
			flags += "w"
		}
		if r.Signer {
			flags += "s"
		}
		if r.Optional {
			flags += "?"
		}
		if r.Address != nil {
			flags += "="
		}
		if flags != "" {
			parts = append(parts, r.Name+"("+flags+")")
		} else {
			parts = append(parts, r.Name)
		}
	}
	return strings.Join(parts, " ")
}

func formatArgs(args []idl.Field) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, a.Name+": "+a.Type)
	}
	return strings.Join(parts, ", ")
}
