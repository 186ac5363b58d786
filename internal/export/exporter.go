package export

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Exporter captures rendered pages and composes them into one PDF.
type Exporter struct {
	r    Rasterizer
	size PageSize
	log  *zap.Logger
	now  func() time.Time
}

// NewExporter returns an Exporter for A4 pages. A nil logger disables logging.
func NewExporter(r Rasterizer, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{r: r, size: A4, log: log, now: time.Now}
}

// Export rasterizes pages strictly in order, waiting for each capture before
// starting the next, and composes the results into a PDF titled title. The
// first failure aborts the whole export.
func (e *Exporter) Export(ctx context.Context, pages []string, title string) (*Result, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	start := e.now()
	rasters := make([][]byte, 0, len(pages))
	for i, markup := range pages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("export: page %d: %w", i+1, err)
		}
		png, err := e.r.Rasterize(ctx, markup)
		if err != nil {
			e.log.Error("page capture failed", zap.Int("page", i+1), zap.Error(err))
			return nil, fmt.Errorf("export: rasterize page %d: %w", i+1, err)
		}
		rasters = append(rasters, png)
	}

	res, err := Compose(rasters, e.size, title, start)
	if err != nil {
		return nil, err
	}

	e.log.Info("document exported",
		zap.Int("pages", res.Pages()),
		zap.Int("bytes", res.Len()),
		zap.Duration("elapsed", e.now().Sub(start)),
	)
	return res, nil
}
