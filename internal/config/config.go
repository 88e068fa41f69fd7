package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docshot/internal/dateutil"
	"github.com/alnah/go-docshot/internal/pipeline"
	"github.com/alnah/go-docshot/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength         = 2048 // Browser limit
	MaxHeaderNameLength  = 100
	MaxHeaderValueLength = 500
	MaxNameLength        = 64 // style and template names
	MaxPathLength        = 4096
	MaxDateFormatLength  = dateutil.MaxDateFormatLength
	MaxFonts             = 16
)

// Numeric limits.
const (
	MaxWorkers       = 8
	MinViewportWidth = 320
	MaxViewportWidth = 4096
)

// DirName is the directory under the user config dir searched for config names.
const DirName = "docshot"

// Config holds all configuration for fetching and capturing documents.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Render  RenderConfig  `yaml:"render"`
	Assets  AssetsConfig  `yaml:"assets"`
}

// ServiceConfig defines how the content service is reached.
type ServiceConfig struct {
	Endpoint  string            `yaml:"endpoint"`
	Header    HeaderConfig      `yaml:"header"`
	Timeout   yamlutil.Duration `yaml:"timeout"`   // 0 = client default
	RateLimit float64           `yaml:"rateLimit"` // requests per second, 0 = unlimited
}

// HeaderConfig is the identifying header sent with every request.
type HeaderConfig struct {
	Name  string `yaml:"name"`  // default "User-Agent"
	Value string `yaml:"value"` // default "docshot/<version>"
}

// RenderConfig defines snapshot and capture options.
type RenderConfig struct {
	Workers        int               `yaml:"workers"`       // 0 = auto
	ViewportWidth  int               `yaml:"viewportWidth"` // 0 = 960
	Style          string            `yaml:"style"`         // empty = "default"
	Template       string            `yaml:"template"`      // empty = "snapshot"
	Math           string            `yaml:"math"`          // client, static, off
	TeXCommand     string            `yaml:"texCommand"`    // static mode only
	DateFormat     string            `yaml:"dateFormat"`    // subtitle date, preset or tokens
	Fonts          []string          `yaml:"fonts"`         // stylesheet URLs
	AcquireTimeout yamlutil.Duration `yaml:"acquireTimeout"`
	Timeouts       TimeoutsConfig    `yaml:"timeouts"`
}

// TimeoutsConfig holds the per-stage ceilings. Zero keeps the default.
type TimeoutsConfig struct {
	Navigation yamlutil.Duration `yaml:"navigation"`
	Fonts      yamlutil.Duration `yaml:"fonts"`
	Images     yamlutil.Duration `yaml:"images"`
	Typeset    yamlutil.Duration `yaml:"typeset"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := c.Service.validate(); err != nil {
		return err
	}
	if err := c.Render.validate(); err != nil {
		return err
	}
	return validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength)
}

func (s *ServiceConfig) validate() error {
	if err := validateFieldLength("service.endpoint", s.Endpoint, MaxURLLength); err != nil {
		return err
	}
	if s.Endpoint != "" {
		u, err := url.Parse(s.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: service.endpoint %q (must be an http or https URL)", ErrInvalidValue, s.Endpoint)
		}
	}
	if err := validateFieldLength("service.header.name", s.Header.Name, MaxHeaderNameLength); err != nil {
		return err
	}
	if strings.ContainsAny(s.Header.Name, " :\r\n") {
		return fmt.Errorf("%w: service.header.name %q", ErrInvalidValue, s.Header.Name)
	}
	if err := validateFieldLength("service.header.value", s.Header.Value, MaxHeaderValueLength); err != nil {
		return err
	}
	if strings.ContainsAny(s.Header.Value, "\r\n") {
		return fmt.Errorf("%w: service.header.value contains a line break", ErrInvalidValue)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("%w: service.timeout must not be negative", ErrInvalidValue)
	}
	if s.RateLimit < 0 {
		return fmt.Errorf("%w: service.rateLimit must not be negative, got %.2f", ErrInvalidValue, s.RateLimit)
	}
	return nil
}

func (r *RenderConfig) validate() error {
	if r.Workers < 0 || r.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, r.Workers)
	}
	if r.ViewportWidth != 0 && (r.ViewportWidth < MinViewportWidth || r.ViewportWidth > MaxViewportWidth) {
		return fmt.Errorf("%w: render.viewportWidth must be 0 or between %d and %d, got %d",
			ErrInvalidValue, MinViewportWidth, MaxViewportWidth, r.ViewportWidth)
	}
	if err := validateFieldLength("render.style", r.Style, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.template", r.Template, MaxNameLength); err != nil {
		return err
	}
	if _, err := pipeline.ParseMathMode(r.Math); err != nil {
		return fmt.Errorf("render.math: %w", err)
	}
	if err := validateFieldLength("render.texCommand", r.TeXCommand, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.dateFormat", r.DateFormat, MaxDateFormatLength); err != nil {
		return err
	}
	if err := dateutil.Validate(r.DateFormat); err != nil {
		return fmt.Errorf("render.dateFormat: %w", err)
	}
	if len(r.Fonts) > MaxFonts {
		return fmt.Errorf("%w: render.fonts has %d entries (max %d)", ErrInvalidValue, len(r.Fonts), MaxFonts)
	}
	for i, f := range r.Fonts {
		if err := validateFieldLength(fmt.Sprintf("render.fonts[%d]", i), f, MaxURLLength); err != nil {
			return err
		}
	}

	durations := []struct {
		field string
		value yamlutil.Duration
	}{
		{"render.acquireTimeout", r.AcquireTimeout},
		{"render.timeouts.navigation", r.Timeouts.Navigation},
		{"render.timeouts.fonts", r.Timeouts.Fonts},
		{"render.timeouts.images", r.Timeouts.Images},
		{"render.timeouts.typeset", r.Timeouts.Typeset},
	}
	for _, d := range durations {
		if d.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidValue, d.field)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration where every value selects the
// library default.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths returns the locations tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, DirName, name+ext))
		}
	}
	return paths
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations:
// the current directory, then the user config directory.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
