package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"swissgeo/internal/config"
	"swissgeo/internal/dataset"
	"swissgeo/internal/formatter"
	"swissgeo/internal/handlers"
	"swissgeo/internal/parser"
	"swissgeo/internal/query"
	"swissgeo/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return err
	}

	sources, err := cfg.Sources()
	if err != nil {
		return err
	}
	collation, err := cfg.Collation()
	if err != nil {
		return err
	}

	store, err := storage.NewPocketBaseStore(cfg.DataDir, cfg.PocketBaseHTTP, logger)
	if err != nil {
		return err
	}
	seeded, err := store.SeedDataSources(sources)
	if err != nil {
		return err
	}
	if seeded > 0 {
		logger.Info("seeded data source registry", "count", seeded)
	}

	manager, err := parser.NewParserManager(parser.Options{
		Timeout: cfg.DownloadTimeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer manager.Cleanup()

	holder := &query.Holder{}
	loader := dataset.NewLoader(manager, logger)
	sourceHandler := handlers.NewSourceHandler(store, loader, holder, logger)
	geoHandler := handlers.NewGeoHandler(holder, formatter.NewWithLanguage(collation), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A failed initial load leaves the API up; queries answer 503 until a
	// successful POST /api/reload.
	if err := sourceHandler.Reload(ctx); err != nil {
		logger.Warn("initial model load failed", "error", err)
	}

	mux := http.NewServeMux()
	geoHandler.Register(mux)
	sourceHandler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
