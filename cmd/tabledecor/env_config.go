package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-tabledecor/internal/config"
)

// envPrefix namespaces every environment variable the CLI reads.
const envPrefix = "TABLEDECOR_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // TABLEDECOR_CONFIG: config file name or path
	HoverMode  string        // TABLEDECOR_HOVER_MODE: inline, script, none
	Style      string        // TABLEDECOR_STYLE: CSS style name or path
	OutputDir  string        // TABLEDECOR_OUTPUT_DIR: default output directory
	Workers    int           // TABLEDECOR_WORKERS: parallel workers
	Timeout    time.Duration // TABLEDECOR_TIMEOUT: verify timeout
}

// knownEnvVars lists valid TABLEDECOR_* environment variables.
var knownEnvVars = map[string]bool{
	"TABLEDECOR_CONFIG":     true,
	"TABLEDECOR_HOVER_MODE": true,
	"TABLEDECOR_STYLE":      true,
	"TABLEDECOR_OUTPUT_DIR": true,
	"TABLEDECOR_WORKERS":    true,
	"TABLEDECOR_TIMEOUT":    true,
	"TABLEDECOR_CONTAINER":  true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable or non-positive numbers are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("TABLEDECOR_CONFIG"),
		HoverMode:  os.Getenv("TABLEDECOR_HOVER_MODE"),
		Style:      os.Getenv("TABLEDECOR_STYLE"),
		OutputDir:  os.Getenv("TABLEDECOR_OUTPUT_DIR"),
	}

	if workers := os.Getenv("TABLEDECOR_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	if timeout := os.Getenv("TABLEDECOR_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs a warning for each unrecognized TABLEDECOR_*
// variable, catching typos like TABLEDECOR_HOVERMODE.
func warnUnknownEnvVars(log logrus.FieldLogger) {
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			log.WithField("variable", name).Warn("unknown environment variable (typo?)")
		}
	}
}

// applyEnvConfig fills config gaps from the environment.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags, defaults via FillDefaults).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.HoverMode != "" && cfg.Ruler.Mode == "" {
		cfg.Ruler.Mode = env.HoverMode
	}
	if env.Style != "" && cfg.CSS.Style == "" {
		cfg.CSS.Style = env.Style
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
}

// loadLayeredConfig resolves the config file (flag, then TABLEDECOR_CONFIG),
// applies env gaps, and returns a config still missing defaults so flags can
// be merged before FillDefaults.
func loadLayeredConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	cfg := &config.Config{}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// configSearchPaths names the user-level config location for hints.
func configSearchPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "go-tabledecor", "tabledecor.yaml")}
}
