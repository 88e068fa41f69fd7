package docshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-docshot/internal/assets"
	"github.com/alnah/go-docshot/internal/contentapi"
	"github.com/alnah/go-docshot/internal/dateutil"
	"github.com/alnah/go-docshot/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ DocumentSource = (*contentapi.Client)(nil)
	_ MarkupRenderer = (*pipeline.SnapshotRenderer)(nil)
)

// PNGContentType tags every artifact.
const PNGContentType = "image/png"

// DocumentSource fetches documents by kind and identifier.
// *contentapi.Client implements it.
type DocumentSource interface {
	Document(ctx context.Context, kind contentapi.Kind, id string) (*contentapi.Document, error)
}

// MarkupRenderer turns document markup into a self-contained HTML snapshot.
// *pipeline.SnapshotRenderer implements it.
type MarkupRenderer interface {
	Render(ctx context.Context, title, subtitle, raw string) (*pipeline.Snapshot, error)
	RenderHTML(ctx context.Context, title, subtitle, body string) (*pipeline.Snapshot, error)
}

// endpointer is implemented by sources that know their service endpoint.
type endpointer interface {
	Endpoint() string
}

// CaptureArtifact is the image produced for one request.
type CaptureArtifact struct {
	Data        []byte
	ContentType string
	Readiness   ReadinessState
	Degraded    bool // some readiness stage timed out or failed
}

// Renderer runs the fetch, render, prepare and capture pipeline.
// Create with NewRenderer. Safe for concurrent use; parallelism is bounded
// by the surface pool.
type Renderer struct {
	cfg    rendererConfig
	source DocumentSource
	markup MarkupRenderer
	pool   *SurfacePool
	logger *slog.Logger
}

// NewRenderer creates a Renderer that fetches from source and captures on
// surfaces leased from pool. The pool is owned by the caller.
// Returns error if asset loading or template parsing fails.
func NewRenderer(source DocumentSource, pool *SurfacePool, opts ...Option) (*Renderer, error) {
	if source == nil {
		return nil, errors.New("docshot: nil document source")
	}
	if pool == nil {
		return nil, errors.New("docshot: nil surface pool")
	}

	r := &Renderer{
		cfg: rendererConfig{
			timeouts:      DefaultTimeouts(),
			viewportWidth: DefaultViewportWidth,
		},
		source: source,
		pool:   pool,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}
	r.cfg.timeouts = r.cfg.timeouts.withDefaults()

	if err := dateutil.Validate(r.cfg.dateFormat); err != nil {
		return nil, err
	}

	if r.markup == nil {
		markup, err := r.newSnapshotRenderer()
		if err != nil {
			return nil, err
		}
		r.markup = markup
	}

	return r, nil
}

// newSnapshotRenderer builds the default markup renderer from the options.
func (r *Renderer) newSnapshotRenderer() (*pipeline.SnapshotRenderer, error) {
	var loader assets.AssetLoader = assets.NewEmbeddedLoader()
	if r.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		loader = resolver
	}

	mode, err := pipeline.ParseMathMode(string(r.cfg.math))
	if err != nil {
		return nil, err
	}

	tex := r.cfg.tex
	if mode == pipeline.MathStatic && tex == nil {
		tex = pipeline.NewCommandTeX(r.cfg.texCommand)
	}

	baseURL := r.cfg.baseURL
	if baseURL == "" {
		if e, ok := r.source.(endpointer); ok {
			baseURL = e.Endpoint()
		}
	}

	return pipeline.NewSnapshotRenderer(pipeline.RendererConfig{
		Assets:   loader,
		Style:    r.cfg.style,
		Template: r.cfg.template,
		Math:     mode,
		TeX:      tex,
		Fonts:    r.cfg.fonts,
		BaseURL:  baseURL,
		Logger:   r.logger,
	})
}

// RenderAndCapture fetches a document and returns its PNG capture.
// The context is used for cancellation; once a surface is leased the
// readiness ceilings still run to completion before it is released.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) RenderAndCapture(ctx context.Context, kind contentapi.Kind, id string, viewportWidth int) (art *CaptureArtifact, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			art = nil
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	logger := r.logger.With("request", uuid.NewString(), "kind", string(kind), "id", id)

	doc, err := r.source.Document(ctx, kind, id)
	if err != nil {
		logger.Info("fetch failed", "error", err)
		return nil, err
	}

	return r.captureDocument(ctx, doc, viewportWidth, logger)
}

// CaptureDocument captures an already fetched document.
func (r *Renderer) CaptureDocument(ctx context.Context, doc *contentapi.Document, viewportWidth int) (*CaptureArtifact, error) {
	logger := r.logger.With("request", uuid.NewString())
	if doc != nil {
		logger = logger.With("id", doc.ID)
	}
	return r.captureDocument(ctx, doc, viewportWidth, logger)
}

func (r *Renderer) captureDocument(ctx context.Context, doc *contentapi.Document, viewportWidth int, logger *slog.Logger) (*CaptureArtifact, error) {
	snap, err := r.Snapshot(ctx, doc)
	if err != nil {
		return nil, err
	}
	return r.captureSnapshot(ctx, snap, viewportWidth, logger)
}

// CaptureSnapshot captures an already rendered snapshot. The surface loads
// snap.HTML as-is, so callers that keep the snapshot see exactly what was
// captured.
func (r *Renderer) CaptureSnapshot(ctx context.Context, snap *pipeline.Snapshot, viewportWidth int) (*CaptureArtifact, error) {
	return r.captureSnapshot(ctx, snap, viewportWidth, r.logger.With("request", uuid.NewString()))
}

func (r *Renderer) captureSnapshot(ctx context.Context, snap *pipeline.Snapshot, viewportWidth int, logger *slog.Logger) (*CaptureArtifact, error) {
	rs, _, err := r.prepare(ctx, snap, viewportWidth, logger)
	if err != nil {
		logger.Warn("prepare failed", "error", err)
		return nil, err
	}

	art, err := r.Capture(ctx, rs)
	if err != nil {
		logger.Error("capture failed", "surface", rs.ID, "error", err)
		return nil, err
	}

	logger.Info("captured", "bytes", len(art.Data), "degraded", art.Degraded)
	return art, nil
}

// Snapshot renders a document into an HTML snapshot. Deleted documents are
// reported as ErrNotFound. A document with no markup but a pre-rendered body
// uses that body as-is.
func (r *Renderer) Snapshot(ctx context.Context, doc *contentapi.Document) (*pipeline.Snapshot, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document", ErrNotFound)
	}
	if doc.Deleted {
		reason := doc.DeleteReason
		if reason == "" {
			reason = "no reason given"
		}
		return nil, fmt.Errorf("%w: document %s was deleted: %s", ErrNotFound, doc.ID, reason)
	}

	title := doc.Title
	if strings.TrimSpace(title) == "" {
		title = doc.ID
	}
	subtitle := r.subtitle(doc)

	if strings.TrimSpace(doc.Content) == "" && doc.Rendered != "" {
		return r.markup.RenderHTML(ctx, title, subtitle, doc.Rendered)
	}
	return r.markup.Render(ctx, title, subtitle, doc.Content)
}

// subtitle joins the author and the last modification date.
func (r *Renderer) subtitle(doc *contentapi.Document) string {
	var parts []string
	if doc.AuthorID != 0 {
		parts = append(parts, "author #"+strconv.FormatInt(doc.AuthorID, 10))
	}

	ts := doc.UpdatedAt
	if ts.IsZero() {
		ts = doc.CreatedAt
	}
	// Format was validated by NewRenderer.
	if date, err := dateutil.Format(r.cfg.dateFormat, ts); err == nil && date != "" {
		parts = append(parts, date)
	}
	return strings.Join(parts, " · ")
}

// Prepare leases a surface, loads the snapshot and waits for readiness.
//
// The surface is sized to viewportWidth (DefaultViewportWidth when <= 0),
// a fixed height and a 2x scale factor. A navigation that exceeds its
// ceiling degrades the render instead of failing it; any other navigation
// error is ErrPageLoad. Readiness outcomes are reported in the returned
// state and never as errors.
//
// On success the caller owns the surface and must pass it to Capture or
// call Release. On error no surface is held.
func (r *Renderer) Prepare(ctx context.Context, snap *pipeline.Snapshot, viewportWidth int) (*RenderSurface, ReadinessState, error) {
	return r.prepare(ctx, snap, viewportWidth, r.logger)
}

func (r *Renderer) prepare(ctx context.Context, snap *pipeline.Snapshot, viewportWidth int, logger *slog.Logger) (*RenderSurface, ReadinessState, error) {
	if snap == nil {
		return nil, ReadinessState{}, errors.New("docshot: nil snapshot")
	}

	rs, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, ReadinessState{}, err
	}
	logger = logger.With("surface", rs.ID)

	// From here on the caller may go away, but the ceilings still elapse
	// before the surface is released.
	detached := context.WithoutCancel(ctx)
	t := r.cfg.timeouts

	if viewportWidth <= 0 {
		viewportWidth = r.cfg.viewportWidth
	}
	// Viewport setup and page load share one navigation ceiling.
	nctx, cancel := context.WithTimeout(detached, t.Navigation)
	err = rs.surface.SetViewport(nctx, Viewport{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: deviceScaleFactor,
	})
	if err != nil {
		cancel()
		rs.Release()
		return nil, ReadinessState{}, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	var state ReadinessState
	state.Navigation, err = r.navigate(nctx, rs, snap, t.Navigation, logger)
	cancel()
	if err != nil {
		rs.Release()
		return nil, state, err
	}

	ready := awaitReadiness(detached, rs.surface, snap, t, logger)
	state.Fonts, state.Images, state.Typeset = ready.Fonts, ready.Images, ready.Typeset
	rs.readiness = state

	if state.Degraded() {
		logger.Warn("render degraded", "readiness", state)
	} else {
		logger.Debug("surface ready", "readiness", state)
	}

	if err := ctx.Err(); err != nil {
		rs.Release()
		return nil, state, err
	}
	return rs, state, nil
}

// navigate loads the snapshot. ctx carries the navigation deadline; timeout
// is only reported.
func (r *Renderer) navigate(ctx context.Context, rs *RenderSurface, snap *pipeline.Snapshot, timeout time.Duration, logger *slog.Logger) (Outcome, error) {
	err := rs.surface.Load(ctx, snap.HTML)
	switch {
	case err == nil:
		return OutcomeReady, nil
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("navigation degraded",
			"timeout", timeout,
			"error", fmt.Errorf("%w: navigation: %v", ErrRenderDegraded, err))
		return OutcomeTimedOut, nil
	case errors.Is(err, ErrPageLoad):
		return OutcomeFailed, err
	default:
		return OutcomeFailed, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
}

// Capture takes a full-page PNG of a prepared surface and releases it,
// whatever the outcome. Surface faults are reported as ErrCaptureFailed.
func (r *Renderer) Capture(ctx context.Context, rs *RenderSurface) (*CaptureArtifact, error) {
	if rs == nil {
		return nil, fmt.Errorf("%w: no surface", ErrCaptureFailed)
	}
	defer rs.Release()

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), captureTimeout)
	defer cancel()

	data, err := rs.surface.Capture(cctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrCaptureFailed)
	}

	return &CaptureArtifact{
		Data:        data,
		ContentType: PNGContentType,
		Readiness:   rs.readiness,
		Degraded:    rs.readiness.Degraded(),
	}, nil
}
