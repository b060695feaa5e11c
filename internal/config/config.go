package config

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// DefaultConfigFile is the file name searched for in the working directory.
const DefaultConfigFile = "anchorsvm.yaml"

// Config represents the complete anchorsvm tool configuration
type Config struct {
	// Logging
	Log LogConfig `mapstructure:"log"`

	// Default program for commands that take a program address
	Program ProgramConfig `mapstructure:"program"`

	// Log scraping
	Scrape ScrapeConfig `mapstructure:"scrape"`

	// Internal fields for configuration management
	configPath string `mapstructure:"-"`
}

// LogConfig controls the CLI logger
type LogConfig struct {
	Level   string `mapstructure:"level"`
	NoColor bool   `mapstructure:"no_color"`
}

// ProgramConfig names the program under test
type ProgramConfig struct {
	// ID is the base58 program address
	ID string `mapstructure:"id"`
	// IDL is the path to the program's IDL JSON
	IDL string `mapstructure:"idl"`
	// Binary is the path to the compiled program
	Binary string `mapstructure:"binary"`
}

// ScrapeConfig holds settings for the scrape command
type ScrapeConfig struct {
	// Workers bounds how many log files are scraped at once
	Workers int `mapstructure:"workers"`
	// Format is one of table, plain or json
	Format string `mapstructure:"format"`
}

// GetConfigPath returns the path of the file the config was read from,
// or "" when only defaults and environment were used.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// ProgramID parses the configured program address.
// The second return value is false when no program is configured.
func (c *Config) ProgramID() (solana.PublicKey, bool, error) {
	if c.Program.ID == "" {
		return solana.PublicKey{}, false, nil
	}
	pk, err := solana.PublicKeyFromBase58(c.Program.ID)
	if err != nil {
		return solana.PublicKey{}, false, fmt.Errorf("invalid program.id %q: %w", c.Program.ID, err)
	}
	return pk, true, nil
}
