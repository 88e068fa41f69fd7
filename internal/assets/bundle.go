package assets

import "fmt"

// Built-in asset names.
const (
	DefaultStyleName    = "default"
	DefaultTemplateName = "snapshot"
	TypesetScriptName   = "typeset"
)

// Bundle holds everything needed to assemble one snapshot page.
type Bundle struct {
	Style         string // CSS source
	Template      string // html/template source
	TypesetScript string // JavaScript source
}

// LoadBundle loads a style, a template and the typesetting script from loader.
// Empty names select the built-in defaults.
func LoadBundle(loader AssetLoader, style, template string) (*Bundle, error) {
	if style == "" {
		style = DefaultStyleName
	}
	if template == "" {
		template = DefaultTemplateName
	}

	css, err := loader.LoadStyle(style)
	if err != nil {
		return nil, fmt.Errorf("loading style: %w", err)
	}
	tmpl, err := loader.LoadTemplate(template)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	script, err := loader.LoadScript(TypesetScriptName)
	if err != nil {
		return nil, fmt.Errorf("loading typeset script: %w", err)
	}

	return &Bundle{Style: css, Template: tmpl, TypesetScript: script}, nil
}
