package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the matkit configuration file (~/.config/matkit/config.yaml).
// Numeric fields are pointers so we can distinguish "not set" from zero values.
type Config struct {
	// Serve defaults
	ServerAddress string `yaml:"server_address"`
	ServeDir      string `yaml:"serve_dir"`
	CacheSize     *int64 `yaml:"cache_size"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "matkit", "config.yaml")
}

// applyServeConfig applies config file defaults to serve command variables
// when the corresponding CLI flag was not explicitly set.
func applyServeConfig(c *cli.Command, cfg Config, addr, dir *string, cacheSize *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.ServeDir != "" && !c.IsSet("dir") {
		*dir = cfg.ServeDir
	}
	if cfg.CacheSize != nil && !c.IsSet("cache") {
		*cacheSize = *cfg.CacheSize
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
