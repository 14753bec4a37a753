// Package config loads the toolchain configuration from strata.yml.
// Everything the toolchain touches is explicit configuration; nothing
// is derived from ambient process state.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the strata toolchain configuration.
type Config struct {
	Declarations string       `mapstructure:"declarations"`
	Model        string       `mapstructure:"model"`
	Output       OutputConfig `mapstructure:"output"`
	Store        StoreConfig  `mapstructure:"store"`
}

// OutputConfig represents code generation output configuration.
type OutputConfig struct {
	Dir     string `mapstructure:"dir"`
	Package string `mapstructure:"package"`
}

// StoreConfig represents the reference store configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads the configuration from strata.yml or strata.yaml in the
// working directory, falling back to defaults when no file exists.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("declarations", "entities.yaml")
	v.SetDefault("model", "strata-model.json")
	v.SetDefault("output.dir", "model")
	v.SetDefault("output.package", "model")
	v.SetDefault("store.path", "strata.db")

	v.SetConfigName("strata")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STRATA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}
