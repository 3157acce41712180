package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/authkit-labs/token-auth/internal/api/http"
	"github.com/authkit-labs/token-auth/internal/api/http/handlers"
	"github.com/authkit-labs/token-auth/internal/auth"
	"github.com/authkit-labs/token-auth/internal/config"
	"github.com/authkit-labs/token-auth/internal/events"
	"github.com/authkit-labs/token-auth/internal/observability"
	"github.com/authkit-labs/token-auth/internal/persistence"
	"github.com/authkit-labs/token-auth/internal/repository"
	"github.com/authkit-labs/token-auth/internal/service"
	"github.com/authkit-labs/token-auth/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, "auth")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := cfg.TokenStore.Validate(); err != nil {
		logger.Fatal("invalid token store config", zap.Error(err))
	}
	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		logger.Fatal("invalid auth config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := map[string]handlers.Pinger{}
	store := repository.NewMemoryTokenStore()
	if cfg.TokenStore.Backend == config.StoreBackendRedis {
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		store = repository.NewRedisTokenStore(redis.Client, cfg.TokenStore.Key)
		deps["redis"] = redis
	}
	logger.Info("token store ready", zap.String("backend", cfg.TokenStore.Backend))

	credentials := auth.NewCredentialVerifier(cfg.Auth.Users)
	if len(cfg.Auth.Users) == 0 {
		logger.Warn("AUTH_USERS not set; logins are accepted without a password")
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService := service.NewAuthService(tokens, service.AuthDependencies{
		TokenStore:  store,
		Credentials: credentials,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name + "-auth", DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterAuthRoutes(app, httptransport.AuthRouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name+"-auth", cfg.App.Version, deps),
		Auth:   handlers.NewAuthHandler(authService),
	})

	go func() {
		logger.Info("auth service listening", zap.String("addr", cfg.App.AuthAddr()))
		if err := app.Listen(cfg.App.AuthAddr()); err != nil {
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
