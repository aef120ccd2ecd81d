// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/quire/internal/api"
	"github.com/starford/quire/internal/docservice"
	"github.com/starford/quire/internal/index"
	"github.com/starford/quire/internal/mcpserver"
	"github.com/starford/quire/internal/sse"
	"github.com/starford/quire/internal/storage"
)

// backend bundles the vault, index and service shared by every runtime mode.
type backend struct {
	logger *slog.Logger
	store  *storage.FS
	db     *index.DB
	svc    *docservice.Service
	opts   index.Options
}

func (b *backend) Close() error {
	return b.db.Close()
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// newLogger builds the JSON logger used by every mode.
func newLogger(cfg *Config, app *application) *slog.Logger {
	return slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}

// openBackend prepares storage and the index and runs the initial sync.
func openBackend(ctx context.Context, cfg *Config, logger *slog.Logger, notify docservice.Notifier) (*backend, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	iopts := index.Options{
		Strict:  cfg.Render.Strict,
		Workers: cfg.Render.Workers,
		Logger:  logger,
	}
	start := time.Now()
	rep, err := index.Sync(ctx, db, store, iopts)
	if err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	} else {
		logger.Info("initial sync complete",
			slog.Int("compiled", rep.Compiled),
			slog.Int("removed", rep.Removed),
			slog.Int("failed", rep.Failed),
			slog.Duration("took", time.Since(start)))
	}

	svcOpts := []docservice.Option{
		docservice.WithStrict(cfg.Render.Strict),
		docservice.WithLogger(logger),
	}
	if notify != nil {
		svcOpts = append(svcOpts, docservice.WithNotifier(notify))
	}
	return &backend{
		logger: logger,
		store:  store,
		db:     db,
		svc:    docservice.NewService(store, db, svcOpts...),
		opts:   iopts,
	}, nil
}

// Run starts the HTTP server and the vault watcher.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(cfg, app)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("render_format", cfg.Render.Format),
		slog.Bool("strict", cfg.Render.Strict),
		slog.String("log_level", cfg.App.LogLevel.String()))

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	be, err := openBackend(ctx, cfg, logger, broker.PublishDocumentEvent)
	if err != nil {
		return err
	}
	defer be.Close()

	apiRouter := api.NewRouter(be.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Watcher-driven changes reach SSE clients the same way API writes do.
	g.Go(func() error {
		if err := index.Watch(gCtx, be.db, be.store, be.store.Root(), be.opts, broker.PublishDocumentEvent); err != nil {
			logger.Error("watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		// Returning an error cancels gCtx and stops the watcher.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout while watching the vault.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	logger := newLogger(app.config, app)
	slog.SetDefault(logger)

	be, err := openBackend(ctx, app.config, logger, nil)
	if err != nil {
		return err
	}
	defer be.Close()

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := index.Watch(wctx, be.db, be.store, be.store.Root(), be.opts, nil); err != nil {
			logger.Error("watcher failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("MCP server starting", slog.String("version", app.version))
	return mcpserver.New(be.svc, app.version).ServeStdio()
}
