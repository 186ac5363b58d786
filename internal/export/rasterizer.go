package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Rasterizer captures one rendered page as a PNG of the physical page size.
type Rasterizer interface {
	Rasterize(ctx context.Context, markup string) ([]byte, error)
}

// ChromeRasterizer captures pages in a headless Chrome tab.
//
// All captures share one tab, so Rasterize holds a lock for the whole
// capture and concurrent callers run one after another.
type ChromeRasterizer struct {
	cfg           rasterizerConfig
	allocCancel   context.CancelFunc
	tabCtx        context.Context
	tabCancel     context.CancelFunc
	width, height int

	mu     sync.Mutex
	closed bool
}

// NewChromeRasterizer starts a headless browser. The caller must call
// [ChromeRasterizer.Close] when finished.
func NewChromeRasterizer(opts ...Option) (*ChromeRasterizer, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.chromePath == "" && cfg.autoDownload {
		path, err := resolveBrowser()
		if err != nil {
			return nil, err
		}
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", cfg.headless),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("export: starting browser: %w", err)
	}

	w, h := cfg.size.Pixels(PreviewDPI)
	cfg.log.Info("browser started",
		zap.String("chrome_path", cfg.chromePath),
		zap.Int("width_px", w),
		zap.Int("height_px", h),
		zap.Float64("scale", cfg.scale),
	)

	return &ChromeRasterizer{
		cfg:         cfg,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		width:       w,
		height:      h,
	}, nil
}

// Close releases the browser. Close is idempotent.
func (c *ChromeRasterizer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.tabCancel()
	c.allocCancel()
	return nil
}

// Rasterize loads markup into the shared tab, replaces unsupported colors,
// and captures the page at the configured size.
func (c *ChromeRasterizer) Rasterize(ctx context.Context, markup string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	normalized, err := NormalizeHTML(markup)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	target, cleanup, err := writeTemp(normalized)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	runCtx := c.tabCtx
	var cancel context.CancelFunc
	if c.cfg.timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, c.cfg.timeout)
	} else {
		runCtx, cancel = context.WithCancel(runCtx)
	}
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var fixed int
	var buf []byte
	if err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(int64(c.width), int64(c.height), chromedp.EmulateScale(c.cfg.scale)),
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(normalizeScript, &fixed),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithClip(&page.Viewport{
					X:      0,
					Y:      0,
					Width:  float64(c.width),
					Height: float64(c.height),
					Scale:  1,
				}).
				WithCaptureBeyondViewport(true).
				Do(ctx)
			return err
		}),
	); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("export: capture canceled: %w", ctxErr)
		}
		return nil, fmt.Errorf("export: capture failed: %w", err)
	}

	if fixed > 0 {
		c.cfg.log.Debug("replaced unsupported colors in computed styles", zap.Int("count", fixed))
	}
	return buf, nil
}

func writeTemp(markup string) (string, func(), error) {
	f, err := os.CreateTemp("", "quotedoc-page-*.html")
	if err != nil {
		return "", nil, fmt.Errorf("export: creating temp file: %w", err)
	}
	name := f.Name()
	cleanup := func() { os.Remove(name) }

	if _, err := f.WriteString(markup); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("export: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("export: closing temp file: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("export: resolving path: %w", err)
	}
	return "file://" + abs, cleanup, nil
}
