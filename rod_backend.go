package docshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-docshot/internal/fileutil"
	"github.com/alnah/go-docshot/internal/process"
)

// Compile-time interface checks
var (
	_ Backend = (*RodBackend)(nil)
	_ Surface = (*rodSurface)(nil)
)

// requestIdleWindow is how long the network must stay quiet after load
// before the page counts as settled.
const requestIdleWindow = 300 * time.Millisecond

// Readiness probes evaluated inside the page.
const (
	fontsReadyJS = `() => document.fonts.ready.then(() => document.fonts.status)`

	// An image counts once it has either loaded or failed.
	imagesReadyJS = `() => Promise.all(Array.from(document.images, (img) => img.complete
		? true
		: new Promise((resolve) => {
			img.addEventListener("load", () => resolve(true), { once: true });
			img.addEventListener("error", () => resolve(false), { once: true });
		})))`

	typesetDoneJS = `() => window.docshotTypesetDone === true`
)

// RodBackend drives one headless Chrome through go-rod.
// Rod automatically downloads Chromium on first run if not found.
// The browser is launched lazily on the first NewSurface call.
type RodBackend struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	logger   *slog.Logger
}

// NewRodBackend creates a backend. A nil logger uses slog.Default().
func NewRodBackend(logger *slog.Logger) *RodBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &RodBackend{logger: logger}
}

// ensureBrowser lazily launches and connects to the browser.
// Callers hold b.mu.
func (b *RodBackend) ensureBrowser() error {
	if b.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b.launcher = l
	b.browser = browser
	b.logger.Debug("browser launched", "pid", l.PID())
	return nil
}

// NewSurface opens a blank page in a fresh incognito context so that no
// cookies, cache or storage leak between documents.
func (b *RodBackend) NewSurface(ctx context.Context) (Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureBrowser(); err != nil {
		return nil, err
	}

	incognito, err := b.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("%w: incognito context: %v", ErrPageCreate, err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = incognito.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	return &rodSurface{context: incognito, page: page}, nil
}

// Close shuts the browser down and kills its process group so no Chrome
// helper processes outlive the backend.
func (b *RodBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}

	err := b.browser.Close()
	b.browser = nil

	if b.launcher != nil {
		if pid := b.launcher.PID(); pid > 0 {
			if killErr := process.KillProcessGroup(pid); killErr != nil {
				b.logger.Debug("killing browser process group", "pid", pid, "error", killErr)
			}
		}
		b.launcher.Kill()
		b.launcher.Cleanup()
		b.launcher = nil
	}
	return err
}

// rodSurface is one page inside its own incognito browser context.
type rodSurface struct {
	context *rod.Browser
	page    *rod.Page
	cleanup func() // removes the snapshot temp file
}

func (s *rodSurface) SetViewport(ctx context.Context, vp Viewport) error {
	return s.page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: vp.DeviceScaleFactor,
		Mobile:            false,
	})
}

// Load writes the snapshot to a temp file and navigates to it, so the page
// has a real origin instead of about:blank.
func (s *rodSurface) Load(ctx context.Context, html string) error {
	if s.cleanup != nil {
		return fmt.Errorf("%w: surface already holds a document", ErrPageLoad)
	}

	path, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	s.cleanup = cleanup

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	page := s.page.Context(ctx)
	waitIdle := page.WaitRequestIdle(requestIdleWindow, nil, nil, nil)

	if err := page.Navigate(fileutil.FileURL(abs)); err != nil {
		return loadError(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return loadError(ctx, err)
	}
	waitIdle()
	return ctx.Err()
}

// loadError prefers the context error so callers can tell a navigation
// ceiling from a broken page.
func loadError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", ErrPageLoad, err)
}

func (s *rodSurface) WaitSignal(ctx context.Context, sig Signal) error {
	page := s.page.Context(ctx)

	var err error
	switch sig {
	case SignalFonts:
		_, err = page.Evaluate(rod.Eval(fontsReadyJS).ByPromise())
	case SignalImages:
		_, err = page.Evaluate(rod.Eval(imagesReadyJS).ByPromise())
	case SignalTypeset:
		err = page.Wait(rod.Eval(typesetDoneJS))
	default:
		return fmt.Errorf("unknown readiness signal %q", sig)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func (s *rodSurface) Capture(ctx context.Context) ([]byte, error) {
	return s.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// Close closes the page and disposes of its incognito context.
func (s *rodSurface) Close() error {
	if s.cleanup != nil {
		defer s.cleanup()
	}
	pageErr := s.page.Close()
	if err := s.context.Close(); err != nil {
		return err
	}
	return pageErr
}
