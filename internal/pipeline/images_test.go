package pipeline

// Notes:
// - resolveBodyURLs re-renders through golang.org/x/net/html, so assertions
//   check attribute values rather than exact serialization

import (
	"reflect"
	"strings"
	"testing"
)

func TestResolveBodyURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		base         string
		wantImages   []string
		wantContains []string
	}{
		{
			name:       "no images",
			html:       "<p>Hello</p>",
			base:       "https://svc.example/api",
			wantImages: nil,
		},
		{
			name:         "root-relative image resolved against host",
			html:         `<img src="/uploads/a.png">`,
			base:         "https://svc.example/api",
			wantImages:   []string{"https://svc.example/uploads/a.png"},
			wantContains: []string{`src="https://svc.example/uploads/a.png"`},
		},
		{
			name:       "relative image resolved under base path",
			html:       `<img src="img/a.png">`,
			base:       "https://svc.example/api/",
			wantImages: []string{"https://svc.example/api/img/a.png"},
		},
		{
			name:       "absolute URL unchanged",
			html:       `<img src="https://cdn.example/b.png">`,
			base:       "https://svc.example",
			wantImages: []string{"https://cdn.example/b.png"},
		},
		{
			name:       "data URL unchanged",
			html:       `<img src="data:image/png;base64,AAAA">`,
			base:       "https://svc.example",
			wantImages: []string{"data:image/png;base64,AAAA"},
		},
		{
			name:       "duplicates kept in document order",
			html:       `<p><img src="/a.png"><img src="https://x/b.png"></p><img src="/a.png">`,
			base:       "https://svc.example",
			wantImages: []string{"https://svc.example/a.png", "https://x/b.png", "https://svc.example/a.png"},
		},
		{
			name:       "image without src counts",
			html:       `<img alt="broken">`,
			base:       "",
			wantImages: []string{""},
		},
		{
			name:       "empty base leaves relative paths",
			html:       `<img src="/a.png">`,
			base:       "",
			wantImages: []string{"/a.png"},
		},
		{
			name:       "empty base fixes protocol-relative",
			html:       `<img src="//cdn.example/c.png">`,
			base:       "",
			wantImages: []string{"https://cdn.example/c.png"},
		},
		{
			name:         "links resolved, anchors kept",
			html:         `<a href="/article/query/2">next</a><a href="#top">top</a>`,
			base:         "https://svc.example",
			wantContains: []string{`href="https://svc.example/article/query/2"`, `href="#top"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, images, err := resolveBodyURLs(tt.html, tt.base)
			if err != nil {
				t.Fatalf("resolveBodyURLs() error = %v", err)
			}
			if !reflect.DeepEqual(images, tt.wantImages) {
				t.Errorf("images = %#v, want %#v", images, tt.wantImages)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("resolveBodyURLs() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

func TestResolveBodyURLs_InvalidBase(t *testing.T) {
	t.Parallel()

	if _, _, err := resolveBodyURLs("<p>x</p>", "http://[::1"); err == nil {
		t.Error("resolveBodyURLs() expected error for unparsable base")
	}
}
