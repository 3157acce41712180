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
	"github.com/authkit-labs/token-auth/internal/observability"
	"github.com/authkit-labs/token-auth/internal/persistence"
	"github.com/authkit-labs/token-auth/internal/repository"
	"github.com/authkit-labs/token-auth/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, "resource")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// This service verifies access tokens only and never sees the refresh secret.
	if err := cfg.Auth.ValidateVerifier(); err != nil {
		logger.Fatal("invalid auth config", zap.Error(err))
	}
	verifier := auth.NewAccessVerifier(auth.NewAccessSigner(cfg.Auth.AccessTokenSecret, cfg.Auth.AccessTokenTTL()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	deps := map[string]handlers.Pinger{}
	posts := repository.NewStaticPostRepository(repository.DefaultPosts)
	if pg.Configured() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		posts = repository.NewPostRepository(pg.PoolHandle())
		deps["postgres"] = pg
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name + "-resource", DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterResourceRoutes(app, httptransport.ResourceRouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name+"-resource", cfg.App.Version, deps),
		Posts:          handlers.NewPostsHandler(service.NewPostService(posts)),
		AccessVerifier: verifier,
	})

	go func() {
		logger.Info("resource service listening", zap.String("addr", cfg.App.ResourceAddr()))
		if err := app.Listen(cfg.App.ResourceAddr()); err != nil {
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
