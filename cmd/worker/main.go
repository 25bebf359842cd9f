package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/attendly/attendly/internal/app"
	"github.com/attendly/attendly/internal/attendance"
	"github.com/attendly/attendly/internal/branches"
	jobmetrics "github.com/attendly/attendly/internal/jobs"
	"github.com/attendly/attendly/internal/platform/cache"
	"github.com/attendly/attendly/internal/platform/db"
	"github.com/attendly/attendly/internal/students"
	"github.com/attendly/attendly/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)

	attendanceRepo := attendance.NewRepository(dbpool)
	studentsRepo := students.NewRepository(dbpool)
	branchesRepo := branches.NewRepository(dbpool)
	attendanceService := attendance.NewService(attendanceRepo, studentsRepo, branchesRepo, redisClient, nil, logger)

	autoCheckout := jobs.NewAutoCheckoutJob(attendanceService, logger, metrics)
	dailySummary := jobs.NewDailySummaryJob(dbpool, attendanceService, logger, metrics)

	autoCheckoutTask, err := jobs.NewAutoCheckoutTask(jobs.AutoCheckoutPayload{})
	if err != nil {
		logger.Error("build auto checkout task", slog.Any("error", err))
		os.Exit(1)
	}
	dailySummaryTask, err := jobs.NewDailySummaryTask(jobs.DailySummaryPayload{})
	if err != nil {
		logger.Error("build daily summary task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAttendanceAutoCheckout, Handler: autoCheckout.Handle},
			{Type: jobs.TaskReportsDailySummary, Handler: dailySummary.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.AutoCheckoutCron, Task: autoCheckoutTask},
			{Spec: cfg.DailySummaryCron, Task: dailySummaryTask},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker starting",
		slog.String("auto_checkout_cron", cfg.AutoCheckoutCron),
		slog.String("daily_summary_cron", cfg.DailySummaryCron))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
