package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/quotedoc/internal/config"
	"github.com/Simplici0/quotedoc/internal/db"
	"github.com/Simplici0/quotedoc/internal/document"
	"github.com/Simplici0/quotedoc/internal/export"
	"github.com/Simplici0/quotedoc/internal/generator"
	"github.com/Simplici0/quotedoc/internal/history"
	"github.com/Simplici0/quotedoc/internal/logging"
	"github.com/Simplici0/quotedoc/internal/migrations"
	"github.com/Simplici0/quotedoc/internal/seed"
	"github.com/Simplici0/quotedoc/internal/settings"
	"github.com/Simplici0/quotedoc/internal/storage"
)

type server struct {
	auth          *authService
	db            *sql.DB
	settings      settings.Provider
	gen           *generator.Generator
	log           *zap.Logger
	exportTimeout time.Duration
}

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	for _, w := range cfg.Warnings {
		log.Warn("config: " + w)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	}

	stats, err := seed.Run(database, seed.Config{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword})
	if err != nil {
		log.Fatal("failed to seed database", zap.Error(err))
	}
	log.Info("seed complete", zap.Int("inserts", stats.Inserts), zap.Int("updates", stats.Updates))

	store := settings.NewStore(database, log.Named("settings"))
	gen := &generator.Generator{
		Settings: store,
		History:  history.NewRepo(database),
		Prefix:   cfg.Export.Prefix,
		Options:  document.DefaultOptions(),
		Log:      log.Named("generator"),
	}

	rasterizer, err := newRasterizer(cfg, log.Named("export"))
	if err != nil {
		log.Warn("export disabled: browser unavailable", zap.Error(err))
	} else {
		defer rasterizer.Close()
		gen.Exporter = export.NewExporter(rasterizer, log.Named("export"))
	}

	sink, err := newSink(cfg, log.Named("storage"))
	if err != nil {
		log.Fatal("failed to set up export storage", zap.Error(err))
	}
	gen.Sink = sink

	srv := &server{
		auth:          newAuthService(database, cfg.SessionSecret),
		db:            database,
		settings:      store,
		gen:           gen,
		log:           log,
		exportTimeout: cfg.Export.Timeout,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("listening", zap.String("addr", httpServer.Addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.authMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Post("/login", s.handleLoginSubmit)
	r.Post("/logout", s.handleLogout)
	r.Get("/admin/settings", s.handleSettingsGet)
	r.Put("/admin/settings", s.handleSettingsPut)
	r.Post("/quotes/estimate", s.handleEstimate)
	r.Post("/quotes/layout", s.handleLayout)
	r.Post("/quotes/export", s.handleExport)
	r.Get("/quotes", s.handleQuotesList)
	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func newRasterizer(cfg config.Config, log *zap.Logger) (*export.ChromeRasterizer, error) {
	opts := []export.Option{
		export.WithLogger(log),
		export.WithTimeout(cfg.Export.Timeout),
	}
	if cfg.Chrome.Path != "" {
		opts = append(opts, export.WithChromePath(cfg.Chrome.Path))
	}
	if cfg.Chrome.NoSandbox {
		opts = append(opts, export.WithNoSandbox())
	}
	if cfg.Chrome.AutoDownload {
		opts = append(opts, export.WithAutoDownload())
	}
	return export.NewChromeRasterizer(opts...)
}

func newSink(cfg config.Config, log *zap.Logger) (storage.Sink, error) {
	if cfg.MinIOEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return storage.NewMinIOSink(ctx, cfg.MinIO, log)
	}
	return storage.NewLocalSink(cfg.Export.Dir)
}
