package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/yearpeer/backend/api/handler"
	"github.com/yearpeer/backend/internal/config"
	"github.com/yearpeer/backend/internal/infrastructure/buffer"
	"github.com/yearpeer/backend/internal/infrastructure/monitor"
	pgInfra "github.com/yearpeer/backend/internal/infrastructure/postgres"
	redisInfra "github.com/yearpeer/backend/internal/infrastructure/redis"
	"github.com/yearpeer/backend/internal/middleware"
	"github.com/yearpeer/backend/internal/router"
	"github.com/yearpeer/backend/internal/services"
	"github.com/yearpeer/backend/internal/services/lifecycle"
	"github.com/yearpeer/backend/pkg/httpcontext"
	"github.com/yearpeer/backend/pkg/logger"
	"github.com/yearpeer/backend/repository/postgres"
	redisRepo "github.com/yearpeer/backend/repository/redis"
	authUC "github.com/yearpeer/backend/usecase/auth"
	goalUC "github.com/yearpeer/backend/usecase/goal"
	profileUC "github.com/yearpeer/backend/usecase/profile"
	taskUC "github.com/yearpeer/backend/usecase/task"
	"github.com/yearpeer/backend/usecase/validation"
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

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		userRepo,
		goalRepo,
		taskRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	overlapValidator := validation.NewGoalOverlap(goalRepo)
	limitValidator := validation.NewTaskLimit(taskRepo, cfg.Limits.TasksPerDay)

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	profileUseCase := profileUC.New(userRepo, bufferBridge, zapLogger)
	goalUseCase := goalUC.New(goalRepo, overlapValidator, bufferBridge, cfg.Limits.MaxGoalsPerYear, zapLogger)
	taskUseCase := taskUC.New(taskRepo, goalRepo, limitValidator, bufferBridge, cfg.Limits.MaxDescriptionLength, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	devMode := cfg.IsDevelopment()

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, devMode, cfg.JWT.SessionTTL),
		Profile: apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger, devMode),
		Goal:    apiHandler.NewGoalHandler(goalUseCase, ctxAdapter, zapLogger, devMode),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger, devMode),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

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
