package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
)

var discriminatorNamespace string

// discriminatorCmd derives Anchor discriminators
var discriminatorCmd = &cobra.Command{
	Use:     "discriminator <name>...",
	Aliases: []string{"disc"},
	Short:   "Derive Anchor discriminators",
	Long: `Derive the 8-byte discriminator Anchor prefixes to instruction data,
account data and event payloads: the first 8 bytes of sha256("<namespace>:<name>").

A name may carry its own namespace ("account:Escrow"); otherwise --namespace applies.

Examples:
    anchorsvm discriminator initialize
    anchorsvm discriminator -n account Escrow Vault
    anchorsvm discriminator event:TransferEvent global:make`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiscriminator,
}

func init() {
	rootCmd.AddCommand(discriminatorCmd)

	discriminatorCmd.Flags().StringVarP(&discriminatorNamespace, "namespace", "n", string(discriminator.Global),
		"namespace for names without one (global, account, event)")
}

func runDiscriminator(cmd *cobra.Command, args []string) error {
	table := newTable(cmd.OutOrStdout(), "PREIMAGE", "HEX", "BYTES")
	for _, arg := range args {
		ns, name := splitPreimage(arg, discriminator.Namespace(discriminatorNamespace))
		if name == "" {
			return fmt.Errorf("empty name in %q", arg)
		}
		d := discriminator.Derive(ns, name)
		table.Append([]string{string(ns) + ":" + name, d.String(), formatBytes(d.Bytes())})
	}
	table.Render()
	return nil
}

// splitPreimage splits "ns:name"; a name without a colon gets the fallback namespace.
func splitPreimage(arg string, fallback discriminator.Namespace) (discriminator.Namespace, string) {
	if ns, name, ok := strings.Cut(arg, ":"); ok {
		return discriminator.Namespace(ns), name
	}
	return fallback, arg
}

func formatBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
