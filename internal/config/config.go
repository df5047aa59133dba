// Package config loads tableparse settings from file, environment and
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the tool-wide configuration.
// Precedence: flags > env (TABLEPARSE_*) > config file > defaults.
type Config struct {
	OutputFormat      string `mapstructure:"output_format" yaml:"output_format"`
	ChunkRows         int    `mapstructure:"chunk_rows" yaml:"chunk_rows"`
	CleanIllegalChars bool   `mapstructure:"clean_illegal_chars" yaml:"clean_illegal_chars"`
	PreserveStyles    bool   `mapstructure:"preserve_styles" yaml:"preserve_styles"`
	ImagesDir         string `mapstructure:"images_dir" yaml:"images_dir"`

	// Scoring heuristics.
	HeaderScanRows   int     `mapstructure:"header_scan_rows" yaml:"header_scan_rows"`
	HeaderFillRatio  float64 `mapstructure:"header_fill_ratio" yaml:"header_fill_ratio"`
	SimpleMax        float64 `mapstructure:"simple_max" yaml:"simple_max"`
	MediumMax        float64 `mapstructure:"medium_max" yaml:"medium_max"`
	RichnessOverride float64 `mapstructure:"richness_override" yaml:"richness_override"`

	// Highlight hue range.
	HighlightMinRed   int `mapstructure:"highlight_min_red" yaml:"highlight_min_red"`
	HighlightMinGreen int `mapstructure:"highlight_min_green" yaml:"highlight_min_green"`
	HighlightMaxBlue  int `mapstructure:"highlight_max_blue" yaml:"highlight_max_blue"`

	// Batch processing.
	MaxWorkers int    `mapstructure:"max_workers" yaml:"max_workers"`
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Load reads configuration. cfgFile empty means ~/.tableparse/config.yaml,
// which is optional.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TABLEPARSE")
	v.AutomaticEnv()

	v.SetDefault("output_format", "auto")
	v.SetDefault("chunk_rows", 256)
	v.SetDefault("clean_illegal_chars", true)
	v.SetDefault("preserve_styles", false)
	v.SetDefault("images_dir", "images")
	v.SetDefault("header_scan_rows", 5)
	v.SetDefault("header_fill_ratio", 0.6)
	v.SetDefault("simple_max", 30.0)
	v.SetDefault("medium_max", 60.0)
	v.SetDefault("richness_override", 40.0)
	v.SetDefault("highlight_min_red", 200)
	v.SetDefault("highlight_min_green", 200)
	v.SetDefault("highlight_max_blue", 150)
	v.SetDefault("max_workers", 4)
	v.SetDefault("output_dir", "output")
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".tableparse"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// The config file is optional.
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Save writes the configuration to cfgFile, or to
// ~/.tableparse/config.yaml when empty.
func Save(c *Config, cfgFile string) error {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".tableparse")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
