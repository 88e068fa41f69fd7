package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-docshot/internal/config"
)

// envPrefix marks the variables read by docshot.
const envPrefix = "DOCSHOT_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath    string        // DOCSHOT_CONFIG: config file name or path
	Endpoint      string        // DOCSHOT_ENDPOINT: content service base URL
	Timeout       time.Duration // DOCSHOT_TIMEOUT: deadline for the whole command
	Workers       int           // DOCSHOT_WORKERS: browser pool size
	ViewportWidth int           // DOCSHOT_VIEWPORT_WIDTH: capture width in CSS pixels
	Style         string        // DOCSHOT_STYLE: stylesheet name
	Math          string        // DOCSHOT_MATH: client, static, off
}

// knownEnvVars lists valid DOCSHOT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOCSHOT_CONFIG":         true,
	"DOCSHOT_ENDPOINT":       true,
	"DOCSHOT_TIMEOUT":        true,
	"DOCSHOT_WORKERS":        true,
	"DOCSHOT_VIEWPORT_WIDTH": true,
	"DOCSHOT_STYLE":          true,
	"DOCSHOT_MATH":           true,
	"DOCSHOT_CONTAINER":      true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("DOCSHOT_CONFIG"),
		Endpoint:   getenv("DOCSHOT_ENDPOINT"),
		Style:      getenv("DOCSHOT_STYLE"),
		Math:       getenv("DOCSHOT_MATH"),
	}

	if timeout := getenv("DOCSHOT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	cfg.Workers = positiveInt(getenv("DOCSHOT_WORKERS"))
	cfg.ViewportWidth = positiveInt(getenv("DOCSHOT_VIEWPORT_WIDTH"))

	return cfg
}

func positiveInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// warnUnknownEnvVars logs warnings for unrecognized DOCSHOT_* variables.
// Helps catch typos like DOCSHOT_ENDPIONT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeCommonFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Endpoint != "" && cfg.Service.Endpoint == "" {
		cfg.Service.Endpoint = env.Endpoint
	}
	if env.Workers > 0 && cfg.Render.Workers == 0 {
		cfg.Render.Workers = env.Workers
	}
	if env.ViewportWidth > 0 && cfg.Render.ViewportWidth == 0 {
		cfg.Render.ViewportWidth = env.ViewportWidth
	}
	if env.Style != "" && cfg.Render.Style == "" {
		cfg.Render.Style = env.Style
	}
	if env.Math != "" && cfg.Render.Math == "" {
		cfg.Render.Math = env.Math
	}
}
