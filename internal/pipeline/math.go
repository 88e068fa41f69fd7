package pipeline

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MathMode selects how $...$ and $$...$$ expressions are rendered.
type MathMode string

const (
	// MathClient tags expressions for in-page typesetting after load.
	MathClient MathMode = "client"
	// MathStatic renders expressions at build time through a TeXRenderer.
	MathStatic MathMode = "static"
	// MathOff leaves dollar delimiters as literal text.
	MathOff MathMode = "off"
)

// DefaultMathMode is used when no mode is configured.
const DefaultMathMode = MathClient

// ParseMathMode converts a configuration value to a MathMode.
// An empty string yields DefaultMathMode.
func ParseMathMode(s string) (MathMode, error) {
	switch m := MathMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return DefaultMathMode, nil
	case MathClient, MathStatic, MathOff:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (must be client, static or off)", ErrInvalidMathMode, s)
}

// TeXRenderer renders a single TeX expression to HTML.
type TeXRenderer interface {
	RenderTeX(expr string, display bool) (string, error)
}

// KindMath is the AST node kind of a math expression.
var KindMath = ast.NewNodeKind("Math")

// Math is an inline AST node holding one TeX expression.
type Math struct {
	ast.BaseInline
	Display bool
	Expr    []byte
}

// Kind implements ast.Node.
func (n *Math) Kind() ast.NodeKind {
	return KindMath
}

// Dump implements ast.Node.
func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": strconv.FormatBool(n.Display),
		"Expr":    string(n.Expr),
	}, nil)
}

type mathParser struct{}

func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *mathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	expr, consumed, display := scanMath(line)
	if consumed == 0 {
		return nil
	}
	block.Advance(consumed)
	return &Math{Display: display, Expr: expr}
}

// scanMath finds a math expression at the start of line, which begins with '$'.
// It returns the expression, the number of bytes consumed including both
// delimiters, and whether the expression is display math. A zero count means
// the delimiter is literal text.
//
// Inline rules: the opening '$' must be followed by a non-space, the closing
// '$' must follow a non-space and must not be followed by a digit. This keeps
// prices like "$5 and $10" as text.
func scanMath(line []byte) ([]byte, int, bool) {
	if len(line) < 2 || line[0] != '$' {
		return nil, 0, false
	}

	if line[1] == '$' {
		rest := line[2:]
		end := bytes.Index(rest, []byte("$$"))
		if end < 0 {
			return nil, 0, false
		}
		expr := bytes.TrimSpace(rest[:end])
		if len(expr) == 0 {
			return nil, 0, false
		}
		return expr, end + 4, true
	}

	rest := line[1:]
	if isMathSpace(rest[0]) {
		return nil, 0, false
	}
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			i++
		case '$':
			if isMathSpace(rest[i-1]) {
				continue
			}
			if i+1 < len(rest) && rest[i+1] >= '0' && rest[i+1] <= '9' {
				continue
			}
			return rest[:i], i + 2, false
		}
	}
	return nil, 0, false
}

func isMathSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

type mathRenderer struct {
	mode MathMode
	tex  TeXRenderer
}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMath, r.renderMath)
}

func (r *mathRenderer) renderMath(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Math)

	if r.mode == MathStatic {
		out, err := r.tex.RenderTeX(string(n.Expr), n.Display)
		if err != nil {
			writeLiteralMath(w, n)
			return ast.WalkSkipChildren, nil
		}
		_, _ = w.WriteString(out)
		return ast.WalkSkipChildren, nil
	}

	class, open, closing := "math math-inline", `\(`, `\)`
	if n.Display {
		class, open, closing = "math math-display", `\[`, `\]`
	}
	_, _ = w.WriteString(`<span class="` + class + `">`)
	_, _ = w.WriteString(open)
	_, _ = w.Write(util.EscapeHTML(n.Expr))
	_, _ = w.WriteString(closing)
	_, _ = w.WriteString(`</span>`)
	return ast.WalkSkipChildren, nil
}

// writeLiteralMath writes the expression back with its original delimiters.
func writeLiteralMath(w util.BufWriter, n *Math) {
	delim := "$"
	if n.Display {
		delim = "$$"
	}
	_, _ = w.WriteString(delim)
	_, _ = w.Write(util.EscapeHTML(n.Expr))
	_, _ = w.WriteString(delim)
}

// mathExtension registers the math parser and renderer with goldmark.
type mathExtension struct {
	renderer *mathRenderer
}

func newMathExtension(mode MathMode, tex TeXRenderer) goldmark.Extender {
	return &mathExtension{renderer: &mathRenderer{mode: mode, tex: tex}}
}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&mathParser{}, 150),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(e.renderer, 150),
	))
}

// countMath returns the number of math nodes under doc.
func countMath(doc ast.Node) int {
	count := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == KindMath {
			count++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return count
}
