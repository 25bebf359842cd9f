package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/attendly/attendly/internal/app"
	"github.com/attendly/attendly/internal/attendance"
	"github.com/attendly/attendly/internal/audit"
	"github.com/attendly/attendly/internal/auth"
	"github.com/attendly/attendly/internal/branches"
	"github.com/attendly/attendly/internal/devices"
	"github.com/attendly/attendly/internal/observability"
	"github.com/attendly/attendly/internal/platform/cache"
	"github.com/attendly/attendly/internal/platform/db"
	"github.com/attendly/attendly/internal/rbac"
	"github.com/attendly/attendly/internal/reports"
	"github.com/attendly/attendly/internal/shared"
	"github.com/attendly/attendly/internal/students"
	"github.com/attendly/attendly/internal/teachers"
	"github.com/attendly/attendly/internal/tenants"
	"github.com/attendly/attendly/internal/users"
	"github.com/attendly/attendly/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(dbpool)

	authRepo := auth.NewRepository(dbpool)
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := auth.NewService(authRepo, tokenManager)
	authHandler := auth.NewHandler(logger, authService)
	authMiddleware := auth.Middleware{Service: authService, Logger: logger}

	rbacMiddleware := rbac.Middleware{Logger: logger}
	permissionsHandler := rbac.NewPermissionsHandler(logger, rbacMiddleware)

	tenantsRepo := tenants.NewRepository(dbpool)
	tenantsService := tenants.NewService(tenantsRepo, auditLogger)
	tenantsHandler := tenants.NewHandler(logger, tenantsService, rbacMiddleware)

	branchesRepo := branches.NewRepository(dbpool)
	branchesService := branches.NewService(branchesRepo)
	branchesHandler := branches.NewHandler(logger, branchesService, rbacMiddleware)

	studentsRepo := students.NewRepository(dbpool)
	studentsService := students.NewService(studentsRepo)
	studentsHandler := students.NewHandler(logger, studentsService, rbacMiddleware)

	teachersRepo := teachers.NewRepository(dbpool)
	teachersService := teachers.NewService(teachersRepo)
	teachersHandler := teachers.NewHandler(logger, teachersService, rbacMiddleware)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, auditLogger)
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	devicesRepo := devices.NewRepository(dbpool)
	devicesService := devices.NewService(devicesRepo, branchesRepo, auditLogger)
	devicesHandler := devices.NewHandler(logger, devicesService, rbacMiddleware)

	attendanceRepo := attendance.NewRepository(dbpool)
	attendanceService := attendance.NewService(attendanceRepo, studentsRepo, branchesRepo, redisClient, metrics, logger)
	attendanceHandler := attendance.NewHandler(logger, attendanceService, rbacMiddleware)
	kioskHandler := attendance.NewKioskHandler(logger, attendanceService, metrics, cfg.KioskSecret)

	reportsService := reports.NewService(attendanceService, redisClient, logger)
	pdfClient := reports.NewPDFClient(cfg.GotenbergURL)
	if err := pdfClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg ping", slog.Any("error", err))
	}
	reportsHandler := reports.NewHandler(logger, reportsService, pdfClient, rbacMiddleware)

	auditRepo := audit.NewRepository(dbpool)
	auditHandler := audit.NewHandler(logger, auditRepo, rbacMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("build jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger, rbacMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AuthMiddleware:     authMiddleware,
		AuthHandler:        authHandler,
		TenantsHandler:     tenantsHandler,
		BranchesHandler:    branchesHandler,
		StudentsHandler:    studentsHandler,
		TeachersHandler:    teachersHandler,
		UsersHandler:       usersHandler,
		DevicesHandler:     devicesHandler,
		AttendanceHandler:  attendanceHandler,
		KioskHandler:       kioskHandler,
		ReportsHandler:     reportsHandler,
		AuditHandler:       auditHandler,
		PermissionsHandler: permissionsHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
}
