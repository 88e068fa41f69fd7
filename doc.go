// Package docshot turns documents held by a remote content service into
// PNG snapshots using headless Chrome.
//
// # Quick Start
//
// Build a content client, a surface pool and a renderer, then capture:
//
//	client := contentapi.New("https://archive.example.com/api")
//	pool := docshot.NewSurfacePool(docshot.ResolvePoolSize(0))
//	defer pool.Close()
//
//	r, err := docshot.NewRenderer(client, pool)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	art, err := r.RenderAndCapture(ctx, contentapi.KindArticle, "42", 960)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("article-42.png", art.Data, 0644)
//
// # Render Pipeline
//
// Every request runs these stages in order, stopping at the first error:
//
//  1. Fetch the document (ErrNotFound, ErrUnavailable)
//  2. Render markup into a self-contained HTML snapshot (never fails on author content)
//  3. Prepare: lease a surface, set the viewport, load the snapshot and wait
//     for fonts, images and math typesetting, each under its own ceiling
//  4. Capture a full-page PNG (ErrCaptureFailed) and release the surface
//
// A readiness signal that times out is logged with ErrRenderDegraded and
// recorded in CaptureArtifact.Readiness; it never fails the request.
//
// # Surface Pool
//
// SurfacePool bounds the number of browsers. Browsers are launched lazily
// on first use and a request waits up to the acquire timeout for a free one
// before failing with ErrPoolExhausted. Every RenderSurface must be released
// exactly once; Renderer.Capture does so on every path.
//
// # Tasks
//
// TaskPoller submits background work items (save, refresh) and reports
// their state. It performs no retries and keeps no cache.
//
// # Browser Requirements
//
// Capturing requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package docshot
