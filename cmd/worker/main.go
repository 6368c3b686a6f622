package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/otoservis/otoservis-backend/internal/cron"
	"github.com/otoservis/otoservis-backend/internal/customers"
	"github.com/otoservis/otoservis-backend/internal/notifications"
	"github.com/otoservis/otoservis-backend/internal/tirehotel"
	"github.com/otoservis/otoservis-backend/pkg/config"
	"github.com/otoservis/otoservis-backend/pkg/db"
	"github.com/otoservis/otoservis-backend/pkg/logger"
	"github.com/otoservis/otoservis-backend/pkg/metrics"
	"github.com/otoservis/otoservis-backend/pkg/redis"
)

const lockTTL = 25 * time.Hour

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	customersRepo := customers.NewRepository(gormDB)
	customersService, err := customers.NewService(customersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(
		notifications.NewRepository(gormDB),
		notifications.NewTransport(cfg.Twilio),
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	tireHotelService, err := tirehotel.NewService(
		tirehotel.NewRepository(gormDB),
		dbClient,
		customersService,
		customersRepo,
		notificationsService,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create tire hotel service", err)
		os.Exit(1)
	}

	reminderJob, err := cron.NewTireReminderJob(tireHotelService, logg, cfg.Reminder)
	if err != nil {
		logg.Error(context.Background(), "failed to create reminder job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.CronLockKey("daily"), lockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	cronService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(reminderJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(registry),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		addr := ":" + cfg.App.Port
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()

	logg.Info(logg.WithField(ctx, "env", cfg.App.Env), "starting reminder worker")
	if err := cronService.Run(ctx); err != nil && err != context.Canceled {
		logg.Error(ctx, "reminder worker stopped unexpectedly", err)
		os.Exit(1)
	}
}
