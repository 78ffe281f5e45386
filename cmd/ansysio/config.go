package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the ansysio configuration file
// (~/.config/ansysio/config.yaml). Empty strings and nil pointers mean
// "not set".
type Config struct {
	DataDir string `yaml:"data_dir"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Plotting
	PlotBackend string `yaml:"plot_backend"`

	// Server
	ServerAddress   string `yaml:"server_address"`
	HandleCacheSize *int   `yaml:"handle_cache_size"`
}

const envConfigPath = "ANSYSIO_CONFIG"

func configPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ansysio", "config.yaml")
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	cfg, err := readConfig(path)
	if err != nil {
		return Config{}
	}
	return cfg
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyDataDirConfig(c *cli.Command, cfg Config, dataDir *string) {
	if cfg.DataDir != "" && !c.IsSet("data-dir") {
		*dataDir = cfg.DataDir
	}
}

func applyPlotConfig(c *cli.Command, cfg Config, backend *string) {
	if cfg.PlotBackend != "" && !c.IsSet("backend") {
		*backend = cfg.PlotBackend
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr, dataDir *string, cacheSize *int) {
	applyDataDirConfig(c, cfg, dataDir)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.HandleCacheSize != nil && !c.IsSet("cache-size") {
		*cacheSize = *cfg.HandleCacheSize
	}
}
