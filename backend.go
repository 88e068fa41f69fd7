package docshot

import "context"

// Signal names an asynchronous readiness event inside a loaded page.
type Signal string

// Readiness signals.
const (
	// SignalFonts fires when the page's font loading has settled.
	SignalFonts Signal = "fonts"
	// SignalImages fires when every <img> has either loaded or errored.
	SignalImages Signal = "images"
	// SignalTypeset fires when the page sets window.docshotTypesetDone.
	SignalTypeset Signal = "typeset"
)

// Viewport sizes a surface in CSS pixels.
type Viewport struct {
	Width             int
	Height            int
	DeviceScaleFactor float64
}

// Backend is a headless rendering engine able to open isolated surfaces.
// Implementations must be safe for concurrent NewSurface calls.
type Backend interface {
	NewSurface(ctx context.Context) (Surface, error)
	Close() error
}

// Surface is one isolated page. A surface loads at most one document and is
// closed after use.
type Surface interface {
	SetViewport(ctx context.Context, vp Viewport) error
	// Load navigates to the HTML document and waits for the page load event
	// and network idle. When ctx expires first, Load returns ctx's error and
	// the page keeps whatever it managed to load.
	Load(ctx context.Context, html string) error
	// WaitSignal blocks until sig fires or ctx ends.
	WaitSignal(ctx context.Context, sig Signal) error
	// Capture returns a full-page PNG, not clipped to the viewport.
	Capture(ctx context.Context) ([]byte, error)
	Close() error
}
