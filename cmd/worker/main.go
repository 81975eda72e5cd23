package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	apptrepo "medportal_backend/internal/appointments/repository"
	"medportal_backend/internal/enrichment"
	"medportal_backend/internal/events"
	"medportal_backend/internal/ghl"
	"medportal_backend/internal/noteparser"
	projectrepo "medportal_backend/internal/projects/repository"
	projectsvc "medportal_backend/internal/projects/service"
	"medportal_backend/internal/scheduler"
	"medportal_backend/platform/config"
	"medportal_backend/platform/db"
	"medportal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting enrichment worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	projectsService := projectsvc.New(projectrepo.New(pool), cfg, eventBus, log)
	enrichmentService := enrichment.NewService(
		apptrepo.New(pool),
		projectsService,
		ghl.NewClient(cfg, log),
		noteparser.NewClient(cfg, log),
		eventBus,
		log,
	)

	worker, err := scheduler.NewWorker(cfg, enrichmentService, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	log.Info("enrichment worker running", "queue", cfg.GetAsynqQueueName())
	worker.Run(ctx)
	log.Info("enrichment worker stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
