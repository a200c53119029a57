package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// DisplayConfig holds the rendering knobs for the diff table.
type DisplayConfig struct {
	// Width is the function column width of the diff table, in display
	// cells.
	Width int `mapstructure:"width"`
}

// ToolsConfig names the external binaries the analyzer shells out to.
type ToolsConfig struct {
	Gocovmerge string `mapstructure:"gocovmerge"`
}

// Config is the tool configuration. Every field has a default, so
// running without a config file works.
type Config struct {
	// ExcludePatterns are regexps removing lines from the filtered
	// coverage profile (test scaffolding, generated code).
	ExcludePatterns []string      `mapstructure:"exclude_patterns"`
	Display         DisplayConfig `mapstructure:"display"`
	Tools           ToolsConfig   `mapstructure:"tools"`
}

// DefaultExcludePatterns removes test helpers, protobuf-generated code,
// and command entry points from filtered profiles.
var DefaultExcludePatterns = []string{`/test/`, `pb\.go`, `/cmd/`}

// DefaultDisplayWidth is the default function column width of the diff
// table.
const DefaultDisplayWidth = 110

// Load reads covreport.yaml from the working directory, a configs/
// subdirectory, or ~/.config/covreport. A missing file yields the
// defaults; a present but unreadable file is an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("covreport")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("configs")
	v.AddConfigPath("$HOME/.config/covreport")

	v.SetDefault("exclude_patterns", DefaultExcludePatterns)
	v.SetDefault("display.width", DefaultDisplayWidth)
	v.SetDefault("tools.gocovmerge", "gocovmerge")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	return &cfg, nil
}
