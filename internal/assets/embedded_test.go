package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestEmbeddedLoader(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		load        func(string) (string, error)
		assetName   string
		wantErr     error
		wantContain string
	}{
		{
			name:        "default style",
			load:        loader.LoadStyle,
			assetName:   DefaultStyleName,
			wantContain: "font-family",
		},
		{
			name:        "dark style",
			load:        loader.LoadStyle,
			assetName:   "dark",
			wantContain: "--text",
		},
		{
			name:        "snapshot template",
			load:        loader.LoadTemplate,
			assetName:   DefaultTemplateName,
			wantContain: "{{.Body}}",
		},
		{
			name:        "typeset script sets the completion flag",
			load:        loader.LoadScript,
			assetName:   TypesetScriptName,
			wantContain: "window.docshotTypesetDone = true",
		},
		{
			name:      "missing style",
			load:      loader.LoadStyle,
			assetName: "nonexistent-style-xyz",
			wantErr:   ErrStyleNotFound,
		},
		{
			name:      "missing template",
			load:      loader.LoadTemplate,
			assetName: "nonexistent",
			wantErr:   ErrTemplateNotFound,
		},
		{
			name:      "missing script",
			load:      loader.LoadScript,
			assetName: "nonexistent",
			wantErr:   ErrScriptNotFound,
		},
		{
			name:      "traversal rejected before lookup",
			load:      loader.LoadStyle,
			assetName: "../secret",
			wantErr:   ErrInvalidAssetName,
		},
		{
			name:      "empty name rejected",
			load:      loader.LoadScript,
			assetName: "",
			wantErr:   ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.load(tt.assetName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("load(%q) error = %v, want %v", tt.assetName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("load(%q) unexpected error: %v", tt.assetName, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("load(%q) content should contain %q", tt.assetName, tt.wantContain)
			}
		})
	}
}

func TestPackageLevelLoaders(t *testing.T) {
	t.Parallel()

	if _, err := LoadStyle(DefaultStyleName); err != nil {
		t.Errorf("LoadStyle() error = %v", err)
	}
	if _, err := LoadTemplate(DefaultTemplateName); err != nil {
		t.Errorf("LoadTemplate() error = %v", err)
	}
	if _, err := LoadScript(TypesetScriptName); err != nil {
		t.Errorf("LoadScript() error = %v", err)
	}
}
