// Package config wires file, environment and default configuration for
// the diagnostic commands.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes configuration from an optional file plus PLATDIAG_*
// environment variables. Missing files are not an error; every setting
// has a default.
func Load(cfgFile string) {
	// explicit .env loading, ignored when absent
	godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(".platdiag")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("PLATDIAG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("history.path", ".platdiag/history.db")
	viper.SetDefault("history.threshold", 10.0)
	viper.SetDefault("monitor.interval", "5m")
	viper.SetDefault("monitor.listen", ":2112")
	viper.SetDefault("hackbench.fds_per_group", 20)
	viper.SetDefault("hackbench.datasize", 100)
	viper.SetDefault("glbench.width", 512)
	viper.SetDefault("glbench.height", 512)

	// Best effort; defaults and env cover the no-file case.
	viper.ReadInConfig()
}
