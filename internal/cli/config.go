package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFile is the config file name searched for in the working directory
// and the XDG config directory.
const configFile = "planarkit.toml"

// Config holds optional CLI defaults read from planarkit.toml.
// Flags always win over config values.
type Config struct {
	// CacheDir overrides the default cache directory (~/.cache/planarkit).
	CacheDir string `toml:"cache_dir"`

	// NoCache disables the check result cache entirely.
	NoCache bool `toml:"no_cache"`

	// RedisAddr switches the cache backend to redis (e.g. "localhost:6379").
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`

	// Serve configures the HTTP API server.
	Serve ServeConfig `toml:"serve"`
}

// ServeConfig holds defaults for the serve command.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `toml:"addr"`

	// MongoURI enables report archival (e.g. "mongodb://localhost:27017").
	MongoURI string `toml:"mongo_uri"`

	// MongoDB is the database name for archived reports (default "planarkit").
	MongoDB string `toml:"mongo_db"`
}

// loadConfig reads the first config file found. Search order: working
// directory, $XDG_CONFIG_HOME/planarkit/, ~/.config/planarkit/. A missing
// file yields the zero config without error.
func loadConfig() (Config, error) {
	var cfg Config
	path, ok := findConfig()
	if !ok {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func findConfig() (string, bool) {
	candidates := []string{configFile}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		candidates = append(candidates, filepath.Join(configHome, appName, configFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", appName, configFile))
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
