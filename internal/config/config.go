// Package config assembles runtime settings from defaults, an optional YAML
// file, a .env file and WELLNESS_* environment variables. Command-line flags
// are applied on top by main.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"wellness/internal/util"
)

// Config is the full set of runtime settings.
type Config struct {
	Addr            string        `yaml:"addr"`
	DBPath          string        `yaml:"db_path"`
	StaticDir       string        `yaml:"static_dir"`
	UpstreamURL     string        `yaml:"upstream_url"`
	Organization    string        `yaml:"organization"`
	PageSize        int           `yaml:"page_size"`
	Seed            int64         `yaml:"seed"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	SeedDemoTasks   bool          `yaml:"seed_demo_tasks"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:            ":8080",
		DBPath:          "data/wellness.db",
		StaticDir:       "web/dist",
		UpstreamURL:     "https://opensoft-backend.onrender.com",
		Organization:    "66",
		PageSize:        8,
		ShutdownTimeout: 5 * time.Second,
		UpstreamTimeout: 30 * time.Second,
		SeedDemoTasks:   true,
	}
}

// Load layers the YAML file at path (skipped when empty or missing), the
// .env file at envFile (same rule) and the process environment over the
// defaults.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if envFile != "" {
		// godotenv.Load never overrides variables already set.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg.Addr = util.EnvOrDefault("WELLNESS_ADDR", cfg.Addr)
	cfg.DBPath = util.EnvOrDefault("WELLNESS_DB_PATH", cfg.DBPath)
	cfg.StaticDir = util.EnvOrDefault("WELLNESS_STATIC_DIR", cfg.StaticDir)
	cfg.UpstreamURL = util.EnvOrDefault("WELLNESS_UPSTREAM_URL", cfg.UpstreamURL)
	cfg.Organization = util.EnvOrDefault("WELLNESS_ORGANIZATION", cfg.Organization)
	cfg.PageSize = util.EnvInt("WELLNESS_PAGE_SIZE", cfg.PageSize)
	cfg.Seed = util.EnvInt64("WELLNESS_SEED", cfg.Seed)
	cfg.ShutdownTimeout = util.EnvDuration("WELLNESS_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.UpstreamTimeout = util.EnvDuration("WELLNESS_UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	cfg.SeedDemoTasks = util.EnvBool("WELLNESS_SEED_DEMO_TASKS", cfg.SeedDemoTasks)

	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("listen address must not be empty")
	case c.DBPath == "":
		return errors.New("database path must not be empty")
	case c.UpstreamURL == "":
		return errors.New("upstream url must not be empty")
	case c.PageSize <= 0:
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	return nil
}
