package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-docshot/internal/dateutil"
	"github.com/alnah/go-docshot/internal/pipeline"
	"github.com/alnah/go-docshot/internal/yamlutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Service.Endpoint != "" {
		t.Errorf("Service.Endpoint = %q, want empty", cfg.Service.Endpoint)
	}
	if cfg.Render.Workers != 0 {
		t.Errorf("Render.Workers = %d, want 0", cfg.Render.Workers)
	}
	if cfg.Assets.BasePath != "" {
		t.Errorf("Assets.BasePath = %q, want empty", cfg.Assets.BasePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", fieldName: "test", value: "", maxLength: 10},
		{name: "value at limit is valid", fieldName: "test", value: "1234567890", maxLength: 10},
		{name: "value over limit returns error", fieldName: "test.field", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength(tt.fieldName, tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Fatalf("error = %v, want ErrFieldTooLong", err)
				}
				if !strings.Contains(err.Error(), tt.fieldName) {
					t.Errorf("error %q should mention field %q", err, tt.fieldName)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate_Service(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		service ServiceConfig
		wantErr error
	}{
		{name: "empty is valid", service: ServiceConfig{}},
		{name: "https endpoint", service: ServiceConfig{Endpoint: "https://api.example.com/v1/"}},
		{name: "http endpoint with port", service: ServiceConfig{Endpoint: "http://localhost:8080"}},
		{name: "endpoint without scheme", service: ServiceConfig{Endpoint: "api.example.com"}, wantErr: ErrInvalidValue},
		{name: "ftp endpoint", service: ServiceConfig{Endpoint: "ftp://example.com"}, wantErr: ErrInvalidValue},
		{name: "endpoint too long", service: ServiceConfig{Endpoint: "https://x.io/" + strings.Repeat("a", MaxURLLength)}, wantErr: ErrFieldTooLong},
		{name: "custom header", service: ServiceConfig{Header: HeaderConfig{Name: "X-Client", Value: "docshot-ci"}}},
		{name: "header name with colon", service: ServiceConfig{Header: HeaderConfig{Name: "X:Client"}}, wantErr: ErrInvalidValue},
		{name: "header value with newline", service: ServiceConfig{Header: HeaderConfig{Name: "X-Client", Value: "a\r\nInjected: 1"}}, wantErr: ErrInvalidValue},
		{name: "negative timeout", service: ServiceConfig{Timeout: yamlutil.Duration(-time.Second)}, wantErr: ErrInvalidValue},
		{name: "negative rate limit", service: ServiceConfig{RateLimit: -1}, wantErr: ErrInvalidValue},
		{name: "fractional rate limit", service: ServiceConfig{RateLimit: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{Service: tt.service}
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		render  RenderConfig
		wantErr error
	}{
		{name: "empty is valid", render: RenderConfig{}},
		{name: "max workers", render: RenderConfig{Workers: MaxWorkers}},
		{name: "too many workers", render: RenderConfig{Workers: MaxWorkers + 1}, wantErr: ErrInvalidValue},
		{name: "negative workers", render: RenderConfig{Workers: -1}, wantErr: ErrInvalidValue},
		{name: "viewport at minimum", render: RenderConfig{ViewportWidth: MinViewportWidth}},
		{name: "viewport below minimum", render: RenderConfig{ViewportWidth: 100}, wantErr: ErrInvalidValue},
		{name: "viewport above maximum", render: RenderConfig{ViewportWidth: MaxViewportWidth + 1}, wantErr: ErrInvalidValue},
		{name: "math static", render: RenderConfig{Math: "static", TeXCommand: "/usr/local/bin/katex"}},
		{name: "math uppercase", render: RenderConfig{Math: "OFF"}},
		{name: "unknown math mode", render: RenderConfig{Math: "mathjax"}, wantErr: pipeline.ErrInvalidMathMode},
		{name: "date preset", render: RenderConfig{DateFormat: "long"}},
		{name: "broken date format", render: RenderConfig{DateFormat: "[YYYY"}, wantErr: dateutil.ErrInvalidDateFormat},
		{name: "style too long", render: RenderConfig{Style: strings.Repeat("s", MaxNameLength+1)}, wantErr: ErrFieldTooLong},
		{name: "fonts", render: RenderConfig{Fonts: []string{"https://fonts.googleapis.com/css2?family=Inter"}}},
		{name: "too many fonts", render: RenderConfig{Fonts: make([]string, MaxFonts+1)}, wantErr: ErrInvalidValue},
		{name: "negative acquire timeout", render: RenderConfig{AcquireTimeout: yamlutil.Duration(-1)}, wantErr: ErrInvalidValue},
		{name: "negative typeset timeout", render: RenderConfig{Timeouts: TimeoutsConfig{Typeset: yamlutil.Duration(-time.Second)}}, wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{Render: tt.render}
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_Assets(t *testing.T) {
	t.Parallel()

	cfg := &Config{Assets: AssetsConfig{BasePath: strings.Repeat("p", MaxPathLength+1)}}
	if err := cfg.Validate(); !errors.Is(err, ErrFieldTooLong) {
		t.Errorf("Validate() error = %v, want ErrFieldTooLong", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "test.yaml")
		content := `service:
  endpoint: "https://archive.example.com/api/"
  header:
    name: "X-Client"
    value: "docshot-test"
  timeout: 5s
  rateLimit: 2
render:
  workers: 2
  viewportWidth: 1200
  style: "dark"
  math: "static"
  texCommand: "katex"
  dateFormat: "long"
  fonts:
    - "https://fonts.example.com/inter.css"
  acquireTimeout: 45s
  timeouts:
    navigation: 10s
    typeset: 30s
assets:
  basePath: "/srv/docshot/assets"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Service.Endpoint != "https://archive.example.com/api/" {
			t.Errorf("Service.Endpoint = %q", cfg.Service.Endpoint)
		}
		if cfg.Service.Header.Name != "X-Client" || cfg.Service.Header.Value != "docshot-test" {
			t.Errorf("Service.Header = %+v", cfg.Service.Header)
		}
		if cfg.Service.Timeout.Std() != 5*time.Second {
			t.Errorf("Service.Timeout = %v, want 5s", cfg.Service.Timeout.Std())
		}
		if cfg.Service.RateLimit != 2 {
			t.Errorf("Service.RateLimit = %v, want 2", cfg.Service.RateLimit)
		}
		if cfg.Render.Workers != 2 || cfg.Render.ViewportWidth != 1200 {
			t.Errorf("Render workers/viewport = %d/%d", cfg.Render.Workers, cfg.Render.ViewportWidth)
		}
		if cfg.Render.Style != "dark" || cfg.Render.Math != "static" || cfg.Render.DateFormat != "long" {
			t.Errorf("Render = %+v", cfg.Render)
		}
		if len(cfg.Render.Fonts) != 1 {
			t.Errorf("Render.Fonts = %v, want one entry", cfg.Render.Fonts)
		}
		if cfg.Render.AcquireTimeout.Std() != 45*time.Second {
			t.Errorf("Render.AcquireTimeout = %v, want 45s", cfg.Render.AcquireTimeout.Std())
		}
		if cfg.Render.Timeouts.Navigation.Std() != 10*time.Second {
			t.Errorf("Timeouts.Navigation = %v, want 10s", cfg.Render.Timeouts.Navigation.Std())
		}
		if cfg.Render.Timeouts.Typeset.Std() != 30*time.Second {
			t.Errorf("Timeouts.Typeset = %v, want 30s", cfg.Render.Timeouts.Typeset.Std())
		}
		if cfg.Render.Timeouts.Fonts != 0 {
			t.Errorf("Timeouts.Fonts = %v, want 0", cfg.Render.Timeouts.Fonts.Std())
		}
		if cfg.Assets.BasePath != "/srv/docshot/assets" {
			t.Errorf("Assets.BasePath = %q", cfg.Assets.BasePath)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("render: [unclosed"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "unknown.yaml")
		if err := os.WriteFile(configPath, []byte("render:\n  pageSize: a4\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid duration returns ErrConfigParse", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "duration.yaml")
		if err := os.WriteFile(configPath, []byte("service:\n  timeout: forever\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("validation error is returned", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "workers.yaml")
		if err := os.WriteFile(configPath, []byte("render:\n  workers: 99\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("unknown config name lists searched paths", func(t *testing.T) {
		_, err := LoadConfig("docshot-missing-config-name")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "docshot-missing-config-name.yml") {
			t.Errorf("error %q should list tried paths", err)
		}
	})
}

func TestLoadConfig_ByNameInCurrentDir(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if err := os.WriteFile(filepath.Join(dir, "team.yml"), []byte("render:\n  style: dark\n"), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, err := LoadConfig("team")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Render.Style != "dark" {
		t.Errorf("Render.Style = %q, want %q", cfg.Render.Style, "dark")
	}
}

func TestSearchPaths(t *testing.T) {
	paths := SearchPaths("docshot")

	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least the local paths", paths)
	}
	if paths[0] != "docshot.yaml" || paths[1] != "docshot.yml" {
		t.Errorf("local paths = %v, want docshot.yaml then docshot.yml", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, filepath.Join(DirName, "docshot")) {
			t.Errorf("user path %q should live under %s", p, DirName)
		}
	}
}
