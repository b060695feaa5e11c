package config

import (
	"fmt"
	"strings"
)

// MaxScrapeWorkers caps scrape.workers
const MaxScrapeWorkers = 64

var (
	validLogLevels    = []string{"debug", "info", "warn", "error"}
	validScrapeFormat = []string{"table", "plain", "json"}
)

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	if err := config.Scrape.Validate(); err != nil {
		return fmt.Errorf("scrape validation failed: %w", err)
	}
	if _, _, err := config.ProgramID(); err != nil {
		return fmt.Errorf("program validation failed: %w", err)
	}
	return nil
}

// Validate checks the log level
func (c *LogConfig) Validate() error {
	if !oneOf(c.Level, validLogLevels) {
		return fmt.Errorf("level must be one of %s, got %q", strings.Join(validLogLevels, ", "), c.Level)
	}
	return nil
}

// Validate checks the scrape settings
func (c *ScrapeConfig) Validate() error {
	if c.Workers < 1 || c.Workers > MaxScrapeWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got %d", MaxScrapeWorkers, c.Workers)
	}
	if !oneOf(c.Format, validScrapeFormat) {
		return fmt.Errorf("format must be one of %s, got %q", strings.Join(validScrapeFormat, ", "), c.Format)
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}
