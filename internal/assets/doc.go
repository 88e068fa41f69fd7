// Package assets provides the style sheets, HTML template and typesetting
// bootstrap script that make up a document snapshot.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver tries the custom FilesystemLoader first and falls back to
// EmbeddedLoader when the asset is not found there, so a custom directory
// can override a single style while keeping the default template.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	├── templates/
//	│   └── {name}.html          # html/template source for the snapshot page
//	└── scripts/
//	    └── {name}.js            # typesetting bootstrap
//
// A snapshot template receives Title, Subtitle, Body, Style, TypesetScript,
// Stylesheets and Scripts. The bootstrap script must set
// window.docshotTypesetDone to true once math typesetting has finished or
// been abandoned.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
