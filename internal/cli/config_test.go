package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissing(t *testing.T) {
	// Point XDG_CONFIG_HOME at an empty dir so no real config is found.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("Missing config should not error: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("Missing config should yield zero config, got %+v", cfg)
	}
}

func TestLoadConfigFromXDG(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `
cache_dir = "/tmp/pk-cache"
redis_addr = "localhost:6379"

[serve]
addr = ":9090"
mongo_uri = "mongodb://localhost:27017"
`
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.CacheDir != "/tmp/pk-cache" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.Serve.Addr != ":9090" || cfg.Serve.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("Serve = %+v", cfg.Serve)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte("cache_dir = ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(); err == nil {
		t.Error("Malformed config should error")
	}
}
