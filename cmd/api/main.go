package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/nimbus-works/identity-service/internal/api/http"
	"github.com/nimbus-works/identity-service/internal/api/http/handlers"
	"github.com/nimbus-works/identity-service/internal/auth"
	"github.com/nimbus-works/identity-service/internal/config"
	"github.com/nimbus-works/identity-service/internal/events"
	"github.com/nimbus-works/identity-service/internal/notification"
	"github.com/nimbus-works/identity-service/internal/observability"
	"github.com/nimbus-works/identity-service/internal/persistence"
	"github.com/nimbus-works/identity-service/internal/repository"
	"github.com/nimbus-works/identity-service/internal/service"
	"github.com/nimbus-works/identity-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	dispatcher := events.NewInMemoryDispatcher()
	mailer := notification.NewMailer(cfg.Notification, logger)

	notificationService := service.NewNotificationService(mailer, dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	accountService := service.NewAccountService(cfg.Auth, userRepo, dispatcher)
	verificationService := service.NewVerificationService(cfg.Auth, userRepo, notificationService, dispatcher)
	resetService := service.NewPasswordResetService(cfg.Auth, userRepo, notificationService, dispatcher)

	authMiddleware := auth.NewMiddleware(accountService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.AllowedOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(accountService, cfg.App.IsProduction()),
		Verification:   handlers.NewVerificationHandler(verificationService),
		PasswordReset:  handlers.NewPasswordResetHandler(resetService),
		User:           handlers.NewUserHandler(),
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
