package config

import "github.com/spf13/viper"

// setDefaults registers every key so environment overrides apply even
// without a config file.
func setDefaults(v *viper.Viper) {
	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.no_color", false)

	// Program defaults
	v.SetDefault("program.id", "")
	v.SetDefault("program.idl", "")
	v.SetDefault("program.binary", "")

	// Scrape defaults
	v.SetDefault("scrape.workers", 4)
	v.SetDefault("scrape.format", "table")
}
