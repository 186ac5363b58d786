package export

import (
	"time"

	"go.uber.org/zap"
)

// rasterizerConfig holds internal configuration for a ChromeRasterizer.
type rasterizerConfig struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	autoDownload bool
	headless     string
	scale        float64
	size         PageSize
	log          *zap.Logger
}

func defaultConfig() rasterizerConfig {
	return rasterizerConfig{
		timeout:  30 * time.Second,
		headless: "new",
		scale:    2,
		size:     A4,
		log:      zap.NewNop(),
	}
}

// Option configures a [ChromeRasterizer].
type Option func(*rasterizerConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
func WithChromePath(path string) Option {
	return func(c *rasterizerConfig) {
		c.chromePath = path
	}
}

// WithTimeout bounds a single page capture. Defaults to 30 seconds. A zero
// or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *rasterizerConfig) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox, which is required when running
// as root inside containers.
func WithNoSandbox() Option {
	return func(c *rasterizerConfig) {
		c.noSandbox = true
	}
}

// WithAutoDownload fetches a compatible Chromium when no executable path is
// configured.
func WithAutoDownload() Option {
	return func(c *rasterizerConfig) {
		c.autoDownload = true
	}
}

// WithScale sets the device scale factor of the capture. Defaults to 2.
func WithScale(scale float64) Option {
	return func(c *rasterizerConfig) {
		if scale > 0 {
			c.scale = scale
		}
	}
}

// WithPageSize sets the physical sheet size. Defaults to A4.
func WithPageSize(size PageSize) Option {
	return func(c *rasterizerConfig) {
		c.size = size
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *rasterizerConfig) {
		if log != nil {
			c.log = log
		}
	}
}
