package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/foodbridge/backend/api/handler"
	"github.com/foodbridge/backend/internal/config"
	"github.com/foodbridge/backend/internal/infrastructure/journal"
	"github.com/foodbridge/backend/internal/infrastructure/monitor"
	pgInfra "github.com/foodbridge/backend/internal/infrastructure/postgres"
	redisInfra "github.com/foodbridge/backend/internal/infrastructure/redis"
	"github.com/foodbridge/backend/internal/middleware"
	"github.com/foodbridge/backend/internal/router"
	"github.com/foodbridge/backend/internal/services/lifecycle"
	"github.com/foodbridge/backend/pkg/httpcontext"
	"github.com/foodbridge/backend/pkg/logger"
	"github.com/foodbridge/backend/pkg/token"
	"github.com/foodbridge/backend/repository/postgres"
	redisRepo "github.com/foodbridge/backend/repository/redis"
	accountUC "github.com/foodbridge/backend/usecase/account"
	claimUC "github.com/foodbridge/backend/usecase/claim"
	listingUC "github.com/foodbridge/backend/usecase/listing"
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

	tokenService, err := token.NewService([]byte(cfg.JWT.Secret), cfg.JWT.TTL)
	if err != nil {
		zapLogger.Fatal("token service init failed", zap.Error(err))
	}

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

	claimJournal, err := journal.Open(cfg.Journal.Path, cfg.Journal.Retention)
	if err != nil {
		zapLogger.Fatal("failed to open claim journal", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return claimJournal.Close()
	})

	mon := monitor.New(pool, redisClient, claimJournal, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	listingRepo := postgres.NewListingRepository(pool)
	feedCache := redisRepo.NewFeedCache(redisClient, cfg.Redis.FeedTTL)

	accountUseCase := accountUC.New(userRepo, tokenService, zapLogger)
	listingUseCase := listingUC.New(listingRepo, feedCache, zapLogger)
	claimEngine := claimUC.NewEngine(listingRepo, userRepo, feedCache, claimJournal, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(accountUseCase, ctxAdapter, zapLogger),
		Food:   apiHandler.NewFoodHandler(listingUseCase, claimEngine, ctxAdapter, zapLogger),
		Admin:  apiHandler.NewAdminHandler(accountUseCase, claimEngine, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.TokenAuth(tokenService, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      router.Handler(r),
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
