package pipeline

import (
	"bytes"
	"context"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Converted is the HTML fragment produced from one markup body.
type Converted struct {
	HTML      string
	MathCount int // number of math expressions found
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (Converted, error)
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions,
// syntax highlighting and, unless mode is MathOff, the math extension.
// tex is only consulted in MathStatic mode.
func NewGoldmarkConverter(mode MathMode, tex TeXRenderer) *GoldmarkConverter {
	extensions := []goldmark.Extender{
		extension.GFM,
		extension.Footnote,
		highlighting.NewHighlighting(
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		),
	}
	if mode != MathOff {
		extensions = append(extensions, newMathExtension(mode, tex))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			html.WithUnsafe(), // inline HTML in the body is kept as-is
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Goldmark has no context support, so conversion runs in a goroutine and the
// caller stops waiting when ctx ends. A panic during conversion is reported
// as ErrHTMLConversion.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (Converted, error) {
	if err := ctx.Err(); err != nil {
		return Converted{}, err
	}

	type result struct {
		out Converted
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrHTMLConversion, r)}
			}
		}()

		src := []byte(content)
		doc := c.md.Parser().Parse(text.NewReader(src))

		var buf bytes.Buffer
		if err := c.md.Renderer().Render(&buf, src, doc); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{out: Converted{HTML: buf.String(), MathCount: countMath(doc)}}
	}()

	select {
	case <-ctx.Done():
		return Converted{}, ctx.Err()
	case r := <-done:
		return r.out, r.err
	}
}
