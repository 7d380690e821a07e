package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/nautilusmedia/dedupe/internal/catalog/jellyfin"
	"github.com/nautilusmedia/dedupe/internal/dedupe/domain"
	"github.com/nautilusmedia/dedupe/internal/dedupe/handler"
	"github.com/nautilusmedia/dedupe/internal/dedupe/repository"
	"github.com/nautilusmedia/dedupe/internal/dedupe/service"
	"github.com/nautilusmedia/dedupe/pkg/config"
	"github.com/nautilusmedia/dedupe/pkg/database"
	"github.com/nautilusmedia/dedupe/pkg/events"
	"github.com/nautilusmedia/dedupe/pkg/interfaces"
	"github.com/nautilusmedia/dedupe/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New()

	log.Info("Duplicate detection service starting",
		interfaces.String("environment", cfg.Service.Environment),
		interfaces.Int("port", cfg.Service.Port))

	// Connect to database
	log.Info("Connecting to database...")
	db, err := database.NewGormDB(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", interfaces.Error(err))
	}

	// Run migrations
	log.Info("Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations", interfaces.Error(err))
	}

	// Initialize components
	repo := repository.NewGormRepository(db)

	auditLog, err := repository.NewFileAuditLog(cfg.Scan.AuditLogDir)
	if err != nil {
		log.Fatal("Failed to initialize audit log", interfaces.Error(err))
	}

	catalog := jellyfin.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.Timeout)
	eventBus := events.NewInMemoryEventBus(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", interfaces.Error(err))
	}

	scans := service.NewScanService(catalog, repo, eventBus, log,
		cfg.Scan.Collections, cfg.Scan.Workers)

	// HTTP server
	if cfg.Service.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler.NewHTTPHandler(scans, repo, auditLog, log).Register(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Service.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", interfaces.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", interfaces.Error(err))
		}
	}()

	// Scheduled scans
	scheduler := cron.New()
	if cfg.Scan.Schedule != "" {
		_, err := scheduler.AddFunc(cfg.Scan.Schedule, func() {
			if err := scans.ScanAll(ctx); err != nil {
				if errors.Is(err, domain.ErrScanInProgress) {
					log.Info("Skipping scheduled scan, another scan is running")
					return
				}
				log.Error("Scheduled scan failed", interfaces.Error(err))
			}
		})
		if err != nil {
			log.Fatal("Invalid scan schedule", interfaces.Error(err))
		}
		scheduler.Start()
		log.Info("Scheduled scans enabled", interfaces.String("schedule", cfg.Scan.Schedule))
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("Shutting down", interfaces.String("signal", sig.String()))

	cancel()
	<-scheduler.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", interfaces.Error(err))
	}

	if err := eventBus.Stop(); err != nil {
		log.Error("Event bus shutdown failed", interfaces.Error(err))
	}

	log.Info("Shutdown complete")
}
