package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/joinboard/backend/api/handler"
	"github.com/joinboard/backend/internal/config"
	"github.com/joinboard/backend/internal/infrastructure/monitor"
	pgInfra "github.com/joinboard/backend/internal/infrastructure/postgres"
	redisInfra "github.com/joinboard/backend/internal/infrastructure/redis"
	"github.com/joinboard/backend/internal/middleware"
	"github.com/joinboard/backend/internal/router"
	"github.com/joinboard/backend/internal/services"
	"github.com/joinboard/backend/internal/services/lifecycle"
	"github.com/joinboard/backend/pkg/httpcontext"
	"github.com/joinboard/backend/pkg/logger"
	"github.com/joinboard/backend/repository/postgres"
	redisRepo "github.com/joinboard/backend/repository/redis"
	authUC "github.com/joinboard/backend/usecase/auth"
	contactUC "github.com/joinboard/backend/usecase/contact"
	taskUC "github.com/joinboard/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	mon := monitor.New(pool, redisClient, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)
	tokenCache := redisRepo.NewTokenCache(redisClient, cfg.Auth.TokenCacheTTL)

	authUseCase := authUC.New(userRepo, tokenRepo, tokenCache, zapLogger)
	contactUseCase := contactUC.New(contactRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, contactRepo, zapLogger)

	reaper := services.NewGuestReaper(authUseCase, services.ReaperConfig{
		Schedule:  cfg.Auth.CleanupSchedule,
		Retention: cfg.Auth.GuestRetention,
	}, zapLogger)
	reaper.Start()
	manager.Register("guest_reaper", func(ctx context.Context) error {
		reaper.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Contact: apiHandler.NewContactHandler(contactUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Profile: apiHandler.NewProfileHandler(authUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.TokenAuth(authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware, router.Options{
		EnableMetrics: cfg.HTTP.EnableMetrics,
	})

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
