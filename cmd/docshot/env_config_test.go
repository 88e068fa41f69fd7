package main

import (
	"testing"
	"time"

	"github.com/alnah/go-docshot/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
		want envConfig
	}{
		{
			name: "empty environment",
			vars: nil,
			want: envConfig{},
		},
		{
			name: "all variables",
			vars: map[string]string{
				"DOCSHOT_CONFIG":         "work",
				"DOCSHOT_ENDPOINT":       "https://content.example.com",
				"DOCSHOT_TIMEOUT":        "45s",
				"DOCSHOT_WORKERS":        "3",
				"DOCSHOT_VIEWPORT_WIDTH": "1280",
				"DOCSHOT_STYLE":          "dark",
				"DOCSHOT_MATH":           "off",
			},
			want: envConfig{
				ConfigPath:    "work",
				Endpoint:      "https://content.example.com",
				Timeout:       45 * time.Second,
				Workers:       3,
				ViewportWidth: 1280,
				Style:         "dark",
				Math:          "off",
			},
		},
		{
			name: "malformed numbers and durations are ignored",
			vars: map[string]string{
				"DOCSHOT_TIMEOUT":        "soon",
				"DOCSHOT_WORKERS":        "-2",
				"DOCSHOT_VIEWPORT_WIDTH": "wide",
			},
			want: envConfig{},
		},
		{
			name: "non-positive timeout is ignored",
			vars: map[string]string{"DOCSHOT_TIMEOUT": "0s"},
			want: envConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := loadEnvConfig(func(k string) string { return tt.vars[k] })
			if *got != tt.want {
				t.Errorf("loadEnvConfig() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestApplyEnvConfig_FileValuesWin(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		Endpoint:      "https://env.example.com",
		Workers:       2,
		ViewportWidth: 1024,
		Style:         "dark",
		Math:          "off",
	}

	cfg := config.DefaultConfig()
	cfg.Service.Endpoint = "https://file.example.com"
	cfg.Render.Style = "default"

	applyEnvConfig(env, cfg)

	if cfg.Service.Endpoint != "https://file.example.com" {
		t.Errorf("Endpoint = %q, want config file value", cfg.Service.Endpoint)
	}
	if cfg.Render.Style != "default" {
		t.Errorf("Style = %q, want config file value", cfg.Render.Style)
	}
	if cfg.Render.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Render.Workers)
	}
	if cfg.Render.ViewportWidth != 1024 {
		t.Errorf("ViewportWidth = %d, want 1024", cfg.Render.ViewportWidth)
	}
	if cfg.Render.Math != "off" {
		t.Errorf("Math = %q, want off", cfg.Render.Math)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Parallel()

	env, _, _ := newTestEnv(map[string]string{
		"DOCSHOT_ENDPOINT": "https://env.example.com",
		"DOCSHOT_TIMEOUT":  "10s",
	})

	tests := []struct {
		name         string
		flags        commonFlags
		wantEndpoint string
		wantTimeout  time.Duration
	}{
		{
			name:         "env fills in",
			wantEndpoint: "https://env.example.com",
			wantTimeout:  10 * time.Second,
		},
		{
			name:         "flags override env",
			flags:        commonFlags{endpoint: "https://flag.example.com", timeout: time.Minute},
			wantEndpoint: "https://flag.example.com",
			wantTimeout:  time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, timeout, err := loadConfig(&tt.flags, env)
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			if cfg.Service.Endpoint != tt.wantEndpoint {
				t.Errorf("Endpoint = %q, want %q", cfg.Service.Endpoint, tt.wantEndpoint)
			}
			if timeout != tt.wantTimeout {
				t.Errorf("timeout = %v, want %v", timeout, tt.wantTimeout)
			}
		})
	}
}
