package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/lead-capture-service/internal/api/http"
	"github.com/spec-kit/lead-capture-service/internal/api/http/handlers"
	"github.com/spec-kit/lead-capture-service/internal/auth"
	"github.com/spec-kit/lead-capture-service/internal/config"
	"github.com/spec-kit/lead-capture-service/internal/email"
	"github.com/spec-kit/lead-capture-service/internal/events"
	"github.com/spec-kit/lead-capture-service/internal/observability"
	"github.com/spec-kit/lead-capture-service/internal/pages"
	"github.com/spec-kit/lead-capture-service/internal/persistence"
	"github.com/spec-kit/lead-capture-service/internal/repository"
	"github.com/spec-kit/lead-capture-service/internal/service"
	"github.com/spec-kit/lead-capture-service/internal/worker"
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
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := repository.New(store)
	dispatcher := events.NewInMemoryDispatcher()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	revocations := persistence.NewRevocations(redis.Client)
	guard := persistence.NewInFlightGuard(redis.Client, cfg.Forms.InFlightTTL())

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    repos.Users,
		ProfileRepo: repos.Profiles,
		Tokens:      tokens,
		Logger:      logger,
	})
	leadService := service.NewLeadService(service.LeadDependencies{
		Records:    repos.Records,
		Leads:      repos.Leads,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	triageService := service.NewTriageService(repos.Contacts, dispatcher, logger)

	sender := email.NewSender(cfg.Notification.ResendAPIKey, cfg.Notification.EmailFrom, logger)
	notificationService := service.NewNotificationService(dispatcher, sender, logger, cfg.Notification, cfg.App.CompanyName)
	worker.StartNotificationWorker(notificationService, logger)

	if err := authService.EnsureAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPass); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	renderer, err := pages.NewRenderer(cfg.App.CompanyName)
	if err != nil {
		logger.Fatal("failed to load pages", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics,
			handlers.Dependency{Name: store.Driver, Pinger: store},
			handlers.Dependency{Name: "redis", Pinger: redis},
		),
		Pages:   handlers.NewPagesHandler(renderer),
		Forms:   handlers.NewFormsHandler(leadService, guard, metrics, logger),
		Auth:    handlers.NewAuthHandler(authService, cfg.App.Env == "production", logger),
		Admin:   handlers.NewAdminHandler(triageService, leadService, logger),
		Session: auth.NewSessionMiddleware(tokens, repos.Users, repos.Profiles, revocations, logger),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("store", store.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
