package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ANCHORSVM_SCRAPE_WORKERS.
const EnvPrefix = "ANCHORSVM"

// LoadConfig loads configuration from multiple sources in priority order:
// 1. Default values
// 2. Configuration file (path, or anchorsvm.yaml in the working directory)
// 3. Environment variables (ANCHORSVM_ prefix)
//
// An explicit path must exist; the implicit file is optional.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults first
	setDefaults(v)

	// 2. Load configuration file
	used, err := loadConfigFile(v, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. Set up environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Unmarshal into struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.configPath = used

	// 5. Validate
	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// loadConfigFile reads the config file and returns the path it used.
func loadConfigFile(v *viper.Viper, path string) (string, error) {
	if path == "" {
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return "", nil
			}
			return "", fmt.Errorf("failed to read config file: %w", err)
		}
		return v.ConfigFileUsed(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("config file does not exist: %s", path)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return path, nil
}

// SaveExampleConfig writes an example configuration file
func SaveExampleConfig(configPath string) error {
	v := viper.New()
	for key, value := range generateExampleConfig() {
		v.Set(key, value)
	}

	v.SetConfigFile(configPath)
	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}
	return nil
}

// generateExampleConfig generates example configuration values
func generateExampleConfig() map[string]interface{} {
	return map[string]interface{}{
		"log.level":    "info",
		"log.no_color": false,

		"program.id":     "Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS",
		"program.idl":    "target/idl/escrow.json",
		"program.binary": "target/deploy/escrow.so",

		"scrape.workers": 4,
		"scrape.format":  "table",
	}
}
