package export

import "errors"

// Sentinel errors returned by the exporter.
var (
	// ErrClosed is returned when using a closed [ChromeRasterizer].
	ErrClosed = errors.New("export: rasterizer is closed")

	// ErrNoPages is returned when Export is called without pages.
	ErrNoPages = errors.New("export: no pages to export")
)
