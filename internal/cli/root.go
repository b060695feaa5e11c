package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LeJamon/goAnchorSVM/internal/config"
	"github.com/LeJamon/goAnchorSVM/internal/logger"
)

var (
	// Global flags
	configFile string
	verbose    bool
	noColor    bool

	// cfg is loaded before every subcommand runs
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "anchorsvm",
	Short: "anchorsvm - tooling for testing Anchor programs",
	Long: `anchorsvm works with the artifacts of Anchor program tests: it derives
discriminators, reads IDL files, and scrapes events and call traces out of
transaction logs captured from a local VM or a cluster.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file path (default ./anchorsvm.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// initConfig loads the configuration and attaches a logger to the command context.
func initConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if noColor {
		loaded.Log.NoColor = true
	}
	color.NoColor = color.NoColor || loaded.Log.NoColor

	log, err := logger.New(logger.Options{
		Level:   loaded.Log.Level,
		Verbose: verbose,
		NoColor: loaded.Log.NoColor,
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	cfg = loaded
	cmd.SetContext(logger.WithLogger(cmd.Context(), log))
	log.Debug("Configuration loaded", zap.String("path", loaded.GetConfigPath()))
	return nil
}
