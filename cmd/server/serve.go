package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/studydesk/backend/internal/cache"
	"github.com/studydesk/backend/internal/database"
	"github.com/studydesk/backend/internal/generator"
	"github.com/studydesk/backend/internal/jobs"
	"github.com/studydesk/backend/internal/logger"
	"github.com/studydesk/backend/internal/monitoring"
	"github.com/studydesk/backend/internal/server"
	"github.com/studydesk/backend/internal/tracing"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Server.Mode, cfg.Log.File)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}
	dashCache := cache.New(rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("studydesk", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	svc := server.NewServices(db, dashCache, generator.NewGenerator(cfg.Generator, log), log)

	scheduler := jobs.NewScheduler(log)
	maxAge := time.Duration(cfg.Jobs.SessionExpiryHours) * time.Hour
	if err := scheduler.ScheduleSessionExpiry(ctx, cfg.Jobs.ExpirySchedule, svc.Quiz, maxAge); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.NewRouter(ctx, cfg, svc, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server exiting")
	return nil
}
