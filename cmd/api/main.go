package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Behnamfe76/expense-ledger/internal/api/http"
	"github.com/Behnamfe76/expense-ledger/internal/api/http/handlers"
	"github.com/Behnamfe76/expense-ledger/internal/auth"
	"github.com/Behnamfe76/expense-ledger/internal/config"
	"github.com/Behnamfe76/expense-ledger/internal/events"
	"github.com/Behnamfe76/expense-ledger/internal/observability"
	"github.com/Behnamfe76/expense-ledger/internal/persistence"
	"github.com/Behnamfe76/expense-ledger/internal/repository"
	"github.com/Behnamfe76/expense-ledger/internal/service"
	"github.com/Behnamfe76/expense-ledger/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	var publisher service.ChannelPublisher
	var redisPinger handlers.Pinger
	if redis.Enabled() {
		publisher = redis.Client
		redisPinger = redis
	}
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, publisher, cfg.Redis.Channel, logger))

	pool := pg.PoolHandle()
	deps := service.Dependencies{
		DepartmentRepo: repository.NewDepartmentRepository(pool),
		ExpenseRepo:    repository.NewExpenseRepository(pool),
		Dispatcher:     dispatcher,
		Logger:         logger,
	}

	var authMiddleware *auth.AuthMiddleware
	if cfg.Auth.Enabled() {
		authMiddleware = auth.NewAuthMiddleware(auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes))
		logger.Info("operator authentication enabled for mutating routes")
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisPinger, metrics),
		Departments:    handlers.NewDepartmentsHandler(service.NewDepartmentService(deps)),
		Expenses:       handlers.NewExpensesHandler(service.NewExpenseService(deps)),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
