package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "wellness_tracker/docs"
	"wellness_tracker/internal/config"
	"wellness_tracker/internal/handlers"
	"wellness_tracker/internal/logger"
	"wellness_tracker/internal/metrics"
	"wellness_tracker/internal/repository"
	"wellness_tracker/internal/repository/db"
	"wellness_tracker/internal/server"
	"wellness_tracker/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	metricsNamespace = "wellness"
	metricsSubsystem = "api"
	shutdownTimeout  = 10 * time.Second
)

func runServe(parent context.Context) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := setupLogger(cfg)
	defer func() { _ = log.Sync() }()

	if cfg.Auth.SigningKey == "" {
		log.Warnw("auth.signing_key is empty; sign-in and protected routes will fail")
	}

	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("init sqlite: %w", err)
	}
	defer closeDB(conn, log)

	catalog, err := service.LoadTemplates(cfg.Templates)
	if err != nil {
		// the catalog is optional; the API runs with an empty one
		log.Warnw("templates_not_loaded", "path", cfg.Templates, "err", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewManager(metricsNamespace, metricsSubsystem, reg)

	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Options{
		Log:           log,
		Metrics:       m,
		SigningKey:    cfg.Auth.SigningKey,
		TokenTTL:      cfg.Auth.TokenTTL,
		Tick:          cfg.Timer.Tick,
		HistoryBuffer: cfg.History.Buffer,
		Catalog:       catalog,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.WithMetrics(m, reg))

	// history writer lives until the sessions are gone
	writerCtx, stopWriter := context.WithCancel(context.WithoutCancel(parent))
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		services.HistoryWriter.Run(writerCtx)
	}()

	srv := &server.Server{}
	serveErr := make(chan error, 1)
	go func() {
		log.Infow("http_server_starting", "port", cfg.Port, "db", cfg.DB.Path, "templates", len(catalog))
		serveErr <- srv.Run(cfg.Port, apiHandler.InitRoutes())
	}()

	runErr := waitForShutdown(parent, serveErr, log)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}

	// no more completions after this; queued entries are still written
	services.Close()
	stopWriter()
	<-writerDone

	log.Infow("shutdown_complete")
	return runErr
}

func setupLogger(cfg *config.Config) *logger.Logger {
	return logger.Setup(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// waitForShutdown blocks until a termination signal arrives or the server stops on its own.
func waitForShutdown(parent context.Context, serveErr <-chan error, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Infow("shutting down server...")
		return nil
	case err := <-serveErr:
		if err != nil {
			log.Errorw("http_server_failed", "err", err)
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}
