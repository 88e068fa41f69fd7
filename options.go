package docshot

import (
	"log/slog"

	"github.com/alnah/go-docshot/internal/pipeline"
)

// DefaultViewportWidth is the surface width when none is requested.
const DefaultViewportWidth = 960

// Fixed surface geometry. Height only sizes the initial viewport: captures
// always cover the full document.
const (
	viewportHeight    = 720
	deviceScaleFactor = 2
)

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeouts      Timeouts
	viewportWidth int
	style         string
	template      string
	assetPath     string
	math          pipeline.MathMode
	tex           pipeline.TeXRenderer
	texCommand    string
	fonts         []string
	dateFormat    string
	baseURL       string
}

// WithTimeouts sets the navigation and readiness ceilings.
// Zero fields keep their defaults.
func WithTimeouts(t Timeouts) Option {
	return func(r *Renderer) {
		r.cfg.timeouts = t
	}
}

// WithViewportWidth sets the width used when a request passes width <= 0.
// Panics if width <= 0 (programmer error, similar to time.NewTicker).
func WithViewportWidth(width int) Option {
	if width <= 0 {
		panic("docshot: WithViewportWidth width must be positive")
	}
	return func(r *Renderer) {
		r.cfg.viewportWidth = width
	}
}

// WithStyle selects a stylesheet by name (e.g., "default", "dark").
func WithStyle(name string) Option {
	return func(r *Renderer) {
		r.cfg.style = name
	}
}

// WithTemplate selects the snapshot page template by name.
func WithTemplate(name string) Option {
	return func(r *Renderer) {
		r.cfg.template = name
	}
}

// WithAssetPath sets a directory whose styles/, templates/ and scripts/
// override the embedded assets.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// WithMathMode selects how math is rendered: client, static or off.
func WithMathMode(mode pipeline.MathMode) Option {
	return func(r *Renderer) {
		r.cfg.math = mode
	}
}

// WithTeXRenderer sets the renderer used in static math mode.
func WithTeXRenderer(tex pipeline.TeXRenderer) Option {
	return func(r *Renderer) {
		r.cfg.tex = tex
	}
}

// WithTeXCommand sets the KaTeX-compatible CLI used in static math mode
// when no TeXRenderer is given.
func WithTeXCommand(path string) Option {
	return func(r *Renderer) {
		r.cfg.texCommand = path
	}
}

// WithFonts adds external font stylesheet URLs to every snapshot.
func WithFonts(urls ...string) Option {
	return func(r *Renderer) {
		r.cfg.fonts = append(r.cfg.fonts, urls...)
	}
}

// WithDateFormat sets the subtitle date format (preset name or tokens).
func WithDateFormat(format string) Option {
	return func(r *Renderer) {
		r.cfg.dateFormat = format
	}
}

// WithBaseURL sets the base for relative image and link URLs. By default the
// content service endpoint is used.
func WithBaseURL(u string) Option {
	return func(r *Renderer) {
		r.cfg.baseURL = u
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMarkup replaces the snapshot renderer. Style, template, asset, math,
// font and base URL options are then ignored.
func WithMarkup(m MarkupRenderer) Option {
	return func(r *Renderer) {
		r.markup = m
	}
}
