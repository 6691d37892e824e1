package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// RenderSurface is an off-screen, non-interactive rendering surface:
// acquire one, fill it with a document, rasterize it, and always
// release it — even when the render is abandoned mid-flight.
type RenderSurface interface {
	Fill(ctx context.Context, html string) error
	Rasterize(ctx context.Context) ([]byte, error)
	Release()
}

// SurfaceFactory acquires a new render surface.
type SurfaceFactory func(ctx context.Context) (RenderSurface, error)

// surfaceMu serializes use of the shared off-screen surface: only one
// render may hold a ChromeSurface at a time.
var surfaceMu sync.Mutex

// Viewport of the surface: 210mm wide at 96 DPI. Height grows with the
// document; the rasterized image is paginated afterwards.
const (
	surfaceWidth  = 794
	surfaceHeight = 1123
)

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ChromeSurface implements RenderSurface on a headless Chrome tab.
type ChromeSurface struct {
	ctx         context.Context
	allocCancel context.CancelFunc
	tabCancel   context.CancelFunc
	releaseOnce sync.Once
	filled      bool
}

// Ensure ChromeSurface implements RenderSurface
var _ RenderSurface = (*ChromeSurface)(nil)

// NewChromeSurface acquires the shared off-screen surface. Blocks while
// another render holds it. The caller must Release the surface.
func NewChromeSurface(ctx context.Context) (RenderSurface, error) {
	surfaceMu.Lock()

	ctx, timeoutCancel := context.WithTimeout(ctx, 60*time.Second)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &ChromeSurface{
		ctx:       tabCtx,
		tabCancel: tabCancel,
		allocCancel: func() {
			allocCancel()
			timeoutCancel()
		},
	}
	return s, nil
}

// Fill injects the document into the surface and waits for layout to
// finish before returning.
func (s *ChromeSurface) Fill(ctx context.Context, html string) error {
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	err := chromedp.Run(s.ctx,
		chromedp.EmulateViewport(surfaceWidth, surfaceHeight),
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		// Wait for fonts to load before considering layout done.
		chromedp.Evaluate(`document.fonts.ready.then(() => true)`, nil),
		chromedp.Sleep(300*time.Millisecond),
	)
	if err != nil {
		return fmt.Errorf("failed to fill render surface: %w", err)
	}
	s.filled = true
	return nil
}

// Rasterize captures the filled surface as a PNG image covering the
// full document height, beyond the viewport.
func (s *ChromeSurface) Rasterize(ctx context.Context) ([]byte, error) {
	if !s.filled {
		return nil, fmt.Errorf("render surface not filled")
	}

	var buf []byte
	err := chromedp.Run(s.ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().
				WithCaptureBeyondViewport(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("empty screenshot from render surface")
	}
	return buf, nil
}

// Release tears the surface down and frees it for the next render.
// Safe to call more than once.
func (s *ChromeSurface) Release() {
	s.releaseOnce.Do(func() {
		s.tabCancel()
		s.allocCancel()
		surfaceMu.Unlock()
	})
}
