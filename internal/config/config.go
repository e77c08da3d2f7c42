// Package config loads runtime settings from the environment, with an
// optional .env file for development.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds everything the app reads from the environment.
type Config struct {
	// APIURL is the base URL of the storefront API.
	APIURL string
	// DataDir holds the on-device database and the log file.
	DataDir string
	// Debug switches the log level to debug.
	Debug bool
}

const defaultAPIURL = "https://api.kolichka.bg"

// Load reads the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	godotenv.Load() //nolint:errcheck

	cfg := Config{
		APIURL:  os.Getenv("KOLICHKA_API_URL"),
		DataDir: os.Getenv("KOLICHKA_DATA_DIR"),
		Debug:   os.Getenv("KOLICHKA_DEBUG") != "",
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("config: get home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".kolichka")
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return Config{}, fmt.Errorf("config: create data dir: %w", err)
	}
	return cfg, nil
}

// DBPath returns the path of the on-device key-value database.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "kolichka.db")
}

// LogPath returns the path of the log file.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "kolichka.log")
}
