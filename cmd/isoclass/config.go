package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the TOML configuration of the tool.
type Config struct {
	// Database is the path of the class database.
	Database string
	// Verbosity selects the log level: "debug", "info" or "quiet".
	Verbosity string
}

func defaultConfig() Config {
	return Config{
		Database:  "classes.db",
		Verbosity: "quiet",
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	switch cfg.Verbosity {
	case "debug", "info", "quiet":
	default:
		return cfg, fmt.Errorf("invalid verbosity %q", cfg.Verbosity)
	}
	return cfg, nil
}
