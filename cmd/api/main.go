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

	_ "github.com/lib/pq"

	"github.com/Dan9191/credit-engine/internal/config"
	"github.com/Dan9191/credit-engine/internal/handler"
	"github.com/Dan9191/credit-engine/internal/integrations/stats"
	"github.com/Dan9191/credit-engine/internal/integrations/storage"
	"github.com/Dan9191/credit-engine/internal/logger"
	"github.com/Dan9191/credit-engine/internal/messaging"
	"github.com/Dan9191/credit-engine/internal/metrics"
	"github.com/Dan9191/credit-engine/internal/repository"
	"github.com/Dan9191/credit-engine/internal/scoring"
	"github.com/Dan9191/credit-engine/internal/service"
	"github.com/Dan9191/credit-engine/internal/utils/email"
)

func main() {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.New(logger.Options{Level: os.Getenv("LOG_LEVEL")}).Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	log := logger.New(logger.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})

	ctx := context.Background()
	m := metrics.New()
	deps := service.Deps{Metrics: m}

	// Initialize database
	if cfg.DBConn != "" {
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		repo := repository.NewRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare schema: %v", err)
		}
		deps.Audit = repo
	} else {
		log.Warn("DB_CONN empty, assessments will not be audited")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		pub := messaging.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer pub.Close()
		deps.Events = pub
	}

	if cfg.S3.Bucket != "" {
		store, err := storage.NewS3Store(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("Failed to init document storage: %v", err)
		}
		deps.Documents = store
	}

	if cfg.SMTPHost != "" {
		deps.Notifier = email.NewSender(cfg, log)
	}

	statsClient := stats.NewClient(cfg.StatsFeedURL, cfg.StatsTimeout, log)
	if err := statsClient.Start(cfg.StatsRefreshSpec); err != nil {
		log.Fatalf("Failed to start stats refresher: %v", err)
	}
	defer statsClient.Stop()
	deps.Stats = statsClient

	// Initialize layers
	svc := service.NewService(scoring.NewEngine(), deps, log, cfg)
	defer svc.Close()
	h := handler.NewHandler(svc, cfg, log)

	// Start server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newRouter(h, cfg, m, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Infof("Received %s, shutting down", sig)
	case err := <-errCh:
		log.Errorf("Server failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}
