// Package generator runs the quotation workflow shared by the server and the
// CLI: load settings, compose and paginate, render, export, store.
package generator

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Simplici0/quotedoc/internal/document"
	"github.com/Simplici0/quotedoc/internal/export"
	"github.com/Simplici0/quotedoc/internal/history"
	"github.com/Simplici0/quotedoc/internal/pricing"
	"github.com/Simplici0/quotedoc/internal/render"
	"github.com/Simplici0/quotedoc/internal/settings"
	"github.com/Simplici0/quotedoc/internal/storage"
)

// ErrNoExporter is returned by Export when no rasterizer was configured.
var ErrNoExporter = errors.New("generator: export is not configured")

const (
	pdfContentType = "application/pdf"
	discardTimeout = 10 * time.Second
)

// Generator wires the pipeline stages. Sink and History are optional.
type Generator struct {
	Settings settings.Provider
	Exporter *export.Exporter
	Sink     storage.Sink
	History  *history.Repo
	Prefix   string
	Options  document.Options
	Log      *zap.Logger
}

// Artifact is a finished export.
type Artifact struct {
	Record   history.Record
	Document document.Document
	Result   *export.Result
}

func (g *Generator) logger() *zap.Logger {
	if g.Log == nil {
		return zap.NewNop()
	}
	return g.Log
}

func (g *Generator) resolve(ctx context.Context, draft *settings.Settings) (settings.Settings, error) {
	if draft != nil {
		if err := draft.Validate(); err != nil {
			return settings.Settings{}, err
		}
		return draft.Clone(), nil
	}
	s, err := g.Settings.Get(ctx)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load pricing settings: %w", err)
	}
	return s, nil
}

// Estimate returns the overall price range for p. A non-nil draft is used
// instead of the stored settings.
func (g *Generator) Estimate(ctx context.Context, p pricing.ProjectParameters, draft *settings.Settings) (pricing.Range, error) {
	s, err := g.resolve(ctx, draft)
	if err != nil {
		return pricing.Range{}, err
	}
	return pricing.TotalEstimate(p, s), nil
}

// Layout assembles and paginates req without exporting it.
func (g *Generator) Layout(ctx context.Context, req document.Request, draft *settings.Settings) (document.Document, error) {
	s, err := g.resolve(ctx, draft)
	if err != nil {
		return document.Document{}, err
	}
	opts := g.Options
	if opts.Budget.First == 0 {
		log := opts.Log
		opts = document.DefaultOptions()
		opts.Log = log
	}
	if opts.Log == nil {
		opts.Log = g.logger()
	}
	return document.Compose(req, s, opts), nil
}

// Export lays out req with the stored settings, renders and exports every
// page, then stores the PDF and records it. Nothing is stored when any page
// fails.
func (g *Generator) Export(ctx context.Context, req document.Request) (Artifact, error) {
	if g.Exporter == nil {
		return Artifact{}, ErrNoExporter
	}

	doc, err := g.Layout(ctx, req, nil)
	if err != nil {
		return Artifact{}, err
	}

	pages, err := render.Pages(doc)
	if err != nil {
		return Artifact{}, err
	}

	res, err := g.Exporter.Export(ctx, pages, doc.Title)
	if err != nil {
		return Artifact{}, err
	}

	rec := history.Record{
		PublicID:        uuid.NewString(),
		CreatedAt:       doc.IssuedAt,
		ClientName:      doc.ClientName,
		Title:           doc.Title,
		FileName:        export.FileName(g.prefix(), doc.ClientName, doc.IssuedAt, "pdf"),
		PageCount:       res.Pages(),
		SettingsVersion: doc.SettingsVersion,
		Params:          req.Params,
		Totals:          doc.Totals,
	}

	// FileName repeats for the same client on the same day; the key does not.
	key := path.Join(rec.PublicID, rec.FileName)
	if g.Sink != nil {
		loc, err := g.Sink.Put(ctx, key, res.Bytes(), pdfContentType)
		if err != nil {
			return Artifact{}, fmt.Errorf("store %s: %w", key, err)
		}
		rec.Location = loc
	}

	if g.History != nil {
		saved, err := g.History.Save(ctx, rec)
		if err != nil {
			g.discard(key)
			return Artifact{}, err
		}
		rec = saved
	}

	g.logger().Info("quote exported",
		zap.String("file", rec.FileName),
		zap.String("location", rec.Location),
		zap.Int("pages", rec.PageCount),
		zap.Int("settings_version", rec.SettingsVersion),
	)
	return Artifact{Record: rec, Document: doc, Result: res}, nil
}

// discard removes a stored artifact whose history record could not be
// written. It runs on a fresh context since ctx may be the reason Save failed.
func (g *Generator) discard(key string) {
	if g.Sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), discardTimeout)
	defer cancel()
	if err := g.Sink.Delete(ctx, key); err != nil {
		g.logger().Warn("orphaned artifact", zap.String("key", key), zap.Error(err))
	}
}

func (g *Generator) prefix() string {
	if g.Prefix == "" {
		return "quote"
	}
	return g.Prefix
}
