package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/band-vault/internal/api/http"
	"github.com/spec-kit/band-vault/internal/api/http/handlers"
	"github.com/spec-kit/band-vault/internal/auth"
	"github.com/spec-kit/band-vault/internal/config"
	"github.com/spec-kit/band-vault/internal/events"
	"github.com/spec-kit/band-vault/internal/observability"
	"github.com/spec-kit/band-vault/internal/persistence"
	"github.com/spec-kit/band-vault/internal/repository"
	"github.com/spec-kit/band-vault/internal/service"
	"github.com/spec-kit/band-vault/internal/storage"
	"github.com/spec-kit/band-vault/internal/worker"
)

// bodyLimit leaves headroom above the audio size cap for multipart framing.
const bodyLimit = service.MaxAudioSize + 5<<20

func main() {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			log.Fatalf("refusing to start: %v", err)
		}
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.Shared(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	blobs, err := storage.NewBlobStore(ctx, cfg.Blob, logger)
	if err != nil {
		logger.Fatal("failed to init blob store", zap.Error(err))
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	songRepo := repository.NewSongRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartActivityWorker(service.NewActivityService(dispatcher, logger))

	limiter := service.NewLoginLimiter(redis.Cmdable(), cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		Limiter:    limiter,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	songService := service.NewSongService(songRepo, blobs, dispatcher, logger)
	messageService := service.NewMessageService(messageRepo, songRepo, dispatcher, logger)

	metrics := observability.NewMetrics()
	cookies := auth.NewSessionCookies(auth.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.App.IsProduction(),
	})
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo, cookies, auth.DefaultRouteRules(), logger)
	authMiddleware.ObserveDecisions(metrics.RecordDecision)

	readiness := map[string]handlers.Pinger{"postgres": pg, "blob": blobs}
	if redis.Enabled() {
		readiness["redis"] = redis
	}

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: bodyLimit,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Auth:           handlers.NewAuthHandler(authService, cookies, logger),
		Pages:          handlers.NewPagesHandler(cfg.App.Name),
		Songs:          handlers.NewSongsHandler(songService),
		Messages:       handlers.NewMessagesHandler(messageService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
