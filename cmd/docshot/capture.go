package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	docshot "github.com/alnah/go-docshot"
	"github.com/alnah/go-docshot/internal/config"
	"github.com/alnah/go-docshot/internal/contentapi"
	"github.com/alnah/go-docshot/internal/fileutil"
	"github.com/alnah/go-docshot/internal/pipeline"
)

// runCapture fetches one document and writes its PNG capture.
func runCapture(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseCaptureFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return fmt.Errorf("%w: capture needs <article|paste> <id>", ErrUsage)
	}
	kind, err := contentapi.ParseKind(positional[0])
	if err != nil {
		return err
	}
	id := positional[1]

	s, ctx, cancel, err := openSession(ctx, &f.common, env, func(cfg *config.Config) {
		mergeRenderFlags(&f.render, cfg)
	})
	if err != nil {
		return err
	}
	defer cancel()

	pool := docshot.NewSurfacePool(docshot.ResolvePoolSize(s.cfg.Render.Workers), poolOptions(s)...)
	defer func() {
		if err := pool.Close(); err != nil {
			s.logger.Debug("closing browsers", "error", err)
		}
	}()

	r, err := docshot.NewRenderer(s.client, pool, rendererOptions(s)...)
	if err != nil {
		return err
	}

	output := f.output
	if output == "" {
		output = defaultOutputName(kind, id)
	}

	var art *docshot.CaptureArtifact
	if f.html {
		art, err = captureWithHTML(ctx, s, r, kind, id, output)
	} else {
		art, err = r.RenderAndCapture(ctx, kind, id, s.cfg.Render.ViewportWidth)
	}
	if err != nil {
		return err
	}

	if err := fileutil.WriteFileAtomic(output, art.Data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	if art.Degraded {
		s.logger.Warn("capture is degraded, some content may be missing", "readiness", art.Readiness)
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", output)
	}
	return nil
}

// captureWithHTML writes the HTML snapshot next to output before capturing.
func captureWithHTML(ctx context.Context, s *session, r *docshot.Renderer, kind contentapi.Kind, id, output string) (*docshot.CaptureArtifact, error) {
	doc, err := s.client.Document(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	snap, err := r.Snapshot(ctx, doc)
	if err != nil {
		return nil, err
	}
	htmlPath := strings.TrimSuffix(output, filepath.Ext(output)) + ".html"
	if err := fileutil.WriteFileAtomic(htmlPath, []byte(snap.HTML)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if !s.quiet {
		fmt.Fprintf(s.env.Stdout, "Created %s\n", htmlPath)
	}

	return r.CaptureSnapshot(ctx, snap, s.cfg.Render.ViewportWidth)
}

// defaultOutputName derives "<kind>-<id>.png" with path separators removed.
func defaultOutputName(kind contentapi.Kind, id string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, id)
	return string(kind) + "-" + safe + ".png"
}

// mergeRenderFlags applies capture flags over the resolved config (CLI wins).
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	if f.workers > 0 {
		cfg.Render.Workers = f.workers
	}
	if f.width > 0 {
		cfg.Render.ViewportWidth = f.width
	}
	if f.style != "" {
		cfg.Render.Style = f.style
	}
	if f.template != "" {
		cfg.Render.Template = f.template
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.math != "" {
		cfg.Render.Math = f.math
	}
	if f.date != "" {
		cfg.Render.DateFormat = f.date
	}
}

// poolOptions maps the render section onto pool options.
func poolOptions(s *session) []docshot.PoolOption {
	opts := []docshot.PoolOption{docshot.WithPoolLogger(s.logger)}
	if d := s.cfg.Render.AcquireTimeout.Std(); d > 0 {
		opts = append(opts, docshot.WithAcquireTimeout(d))
	}
	return opts
}

// rendererOptions maps the render and assets sections onto renderer options.
func rendererOptions(s *session) []docshot.Option {
	rc := s.cfg.Render
	opts := []docshot.Option{
		docshot.WithLogger(s.logger),
		docshot.WithTimeouts(docshot.Timeouts{
			Navigation: rc.Timeouts.Navigation.Std(),
			Fonts:      rc.Timeouts.Fonts.Std(),
			Images:     rc.Timeouts.Images.Std(),
			Typeset:    rc.Timeouts.Typeset.Std(),
		}),
		docshot.WithStyle(rc.Style),
		docshot.WithTemplate(rc.Template),
		docshot.WithAssetPath(s.cfg.Assets.BasePath),
		docshot.WithMathMode(pipeline.MathMode(rc.Math)),
		docshot.WithTeXCommand(rc.TeXCommand),
		docshot.WithFonts(rc.Fonts...),
		docshot.WithDateFormat(rc.DateFormat),
	}
	if rc.ViewportWidth > 0 {
		opts = append(opts, docshot.WithViewportWidth(rc.ViewportWidth))
	}
	return opts
}
