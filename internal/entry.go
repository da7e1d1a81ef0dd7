// Package internal provides the application entry points: a one-shot build
// and a preview server over the built output.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/preview"
	"github.com/starford/folio/internal/site"
	"github.com/starford/folio/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{root: "."}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: app.config.LogLevel,
		}))
	}
	return app, nil
}

// Build runs the full pipeline once.
func Build(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	return app.build(ctx)
}

func (a *application) build(ctx context.Context) error {
	start := time.Now()
	a.logger.Info("Build starting",
		slog.String("root", a.root),
		slog.String("artifacts_dir", a.config.ArtifactsDir),
		slog.String("converter", a.config.Converter))

	repo, err := site.Open(a.root, a.config.Settings(), site.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	if err := repo.Generate(ctx); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	a.logger.Info("Build complete", slog.Duration("elapsed", time.Since(start)))
	return nil
}

// Serve starts the preview server over the artifacts directory. With
// WithWatch it builds first and rebuilds on every source change.
func Serve(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger
	artifacts := filepath.Join(app.root, cfg.ArtifactsDir)

	broker := preview.NewBroker()
	defer broker.Close()

	// Builds are serialized; a change arriving mid-build waits its turn.
	var buildMu sync.Mutex
	rebuild := func(ctx context.Context) {
		buildMu.Lock()
		defer buildMu.Unlock()
		if err := app.build(ctx); err != nil {
			logger.Error("rebuild failed", slog.String("error", err.Error()))
			broker.Publish(preview.Event{Type: "site.failed", Data: map[string]string{"error": err.Error()}})
			return
		}
		broker.Publish(preview.Event{Type: "site.rebuilt", Data: map[string]string{}})
	}

	if app.watch {
		rebuild(ctx)
	}
	store, err := storage.NewFS(artifacts)
	if err != nil {
		return fmt.Errorf("%w; run build first", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Serve.Address(),
		Handler:           preview.NewRouter(store.Root(), broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if app.watch {
		g.Go(func() error {
			dirs := []string{
				filepath.Join(app.root, site.DocumentsDir),
				filepath.Join(app.root, site.TemplatesDir),
				filepath.Join(app.root, site.StaticDir),
			}
			return preview.Watch(gCtx, dirs, logger, func() { rebuild(gCtx) })
		})
	}

	g.Go(func() error {
		logger.Info("Starting preview server",
			slog.String("address", cfg.Serve.Address()),
			slog.String("dir", artifacts))
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
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Preview server error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Preview server stopped")
	return nil
}

// errShutdown cancels the group once the server has been asked to stop, so
// the watcher exits too.
var errShutdown = errors.New("shutdown")
