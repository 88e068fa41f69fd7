package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"regexp"
	"strings"

	"github.com/alnah/go-docshot/internal/assets"
)

// KaTeX distribution used for client-side typesetting and for styling
// statically rendered expressions.
const katexBaseURL = "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist"

// Snapshot is a self-contained HTML document plus what a render surface
// needs to know to decide when it is ready.
type Snapshot struct {
	HTML         string
	Images       []string // src of every <img> in document order
	NeedsTypeset bool     // the page sets window.docshotTypesetDone when done
}

// RendererConfig configures a SnapshotRenderer.
type RendererConfig struct {
	Assets   assets.AssetLoader // nil uses the embedded assets
	Style    string             // style name, default assets.DefaultStyleName
	Template string             // template name, default assets.DefaultTemplateName
	Math     MathMode           // default DefaultMathMode
	TeX      TeXRenderer        // required for MathStatic
	Fonts    []string           // external font stylesheet URLs
	BaseURL  string             // base for relative image and link URLs
	Logger   *slog.Logger
}

// SnapshotRenderer converts document markup into snapshots.
// Safe for concurrent use.
type SnapshotRenderer struct {
	converter HTMLConverter
	tmpl      *template.Template
	style     string
	script    string
	mode      MathMode
	fonts     []string
	baseURL   string
	logger    *slog.Logger
}

// NewSnapshotRenderer loads assets and builds a renderer.
func NewSnapshotRenderer(cfg RendererConfig) (*SnapshotRenderer, error) {
	mode := cfg.Math
	if mode == "" {
		mode = DefaultMathMode
	}
	if _, err := ParseMathMode(string(mode)); err != nil {
		return nil, err
	}
	if mode == MathStatic && cfg.TeX == nil {
		return nil, ErrNoTeXRenderer
	}

	loader := cfg.Assets
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	bundle, err := assets.LoadBundle(loader, cfg.Style, cfg.Template)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("snapshot").Parse(bundle.Template)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing template: %v", ErrSnapshotTemplate, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SnapshotRenderer{
		converter: NewGoldmarkConverter(mode, cfg.TeX),
		tmpl:      tmpl,
		style:     bundle.Style,
		script:    bundle.TypesetScript,
		mode:      mode,
		fonts:     append([]string(nil), cfg.Fonts...),
		baseURL:   cfg.BaseURL,
		logger:    logger,
	}, nil
}

// MathMode returns the configured math mode.
func (r *SnapshotRenderer) MathMode() MathMode {
	return r.mode
}

// Render converts raw markup into a snapshot titled with title and subtitle.
// It fails only when ctx ends or the template itself is broken: markup that
// goldmark cannot handle is shown as preformatted source instead.
func (r *SnapshotRenderer) Render(ctx context.Context, title, subtitle, raw string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	converted, err := r.converter.ToHTML(ctx, preprocess(raw))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.logger.Warn("markup conversion failed, rendering source as text", "error", err)
		converted = Converted{HTML: sourceBlock(raw)}
	}

	body := ConvertMarkPlaceholders(converted.HTML)
	return r.assemble(title, subtitle, body, r.mode == MathClient && converted.MathCount > 0)
}

// clientMathMarker matches math left for in-page typesetting in HTML that
// was rendered elsewhere.
var clientMathMarker = regexp.MustCompile(`class="[^"]*\bmath\b|\\\(|\\\[|\$\$`)

// RenderHTML wraps already-rendered body HTML into a snapshot.
// The body is trusted as-is.
func (r *SnapshotRenderer) RenderHTML(ctx context.Context, title, subtitle, body string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needs := r.mode == MathClient && clientMathMarker.MatchString(body)
	return r.assemble(title, subtitle, body, needs)
}

// snapshotData is the template input. Only Title and Subtitle are escaped;
// the remaining fields are trusted content.
type snapshotData struct {
	Title         string
	Subtitle      string
	Body          template.HTML
	Style         template.CSS
	TypesetScript template.JS
	Stylesheets   []string
	Scripts       []string
}

func (r *SnapshotRenderer) assemble(title, subtitle, body string, needsTypeset bool) (*Snapshot, error) {
	resolved, images, err := resolveBodyURLs(body, r.baseURL)
	if err != nil {
		r.logger.Warn("resolving body URLs failed, keeping body unchanged", "error", err)
	} else {
		body = resolved
	}

	data := snapshotData{
		Title:         title,
		Subtitle:      subtitle,
		Body:          template.HTML(body), // #nosec G203 -- author HTML is rendered unescaped
		Style:         template.CSS(sanitizeCSS(r.style)),
		TypesetScript: template.JS(r.script), // #nosec G203 -- embedded asset
		Stylesheets:   r.stylesheets(),
		Scripts:       r.scripts(),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotTemplate, err)
	}

	return &Snapshot{
		HTML:         buf.String(),
		Images:       images,
		NeedsTypeset: needsTypeset,
	}, nil
}

func (r *SnapshotRenderer) stylesheets() []string {
	links := append([]string(nil), r.fonts...)
	if r.mode != MathOff {
		links = append(links, katexBaseURL+"/katex.min.css")
	}
	return links
}

func (r *SnapshotRenderer) scripts() []string {
	if r.mode != MathClient {
		return nil
	}
	return []string{
		katexBaseURL + "/katex.min.js",
		katexBaseURL + "/contrib/auto-render.min.js",
	}
}

// sourceBlock shows raw markup as escaped preformatted text.
func sourceBlock(raw string) string {
	return `<pre class="docshot-source">` + html.EscapeString(raw) + `</pre>`
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
