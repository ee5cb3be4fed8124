package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/tasklist/api/handler"
	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/internal/config"
	"github.com/fastygo/tasklist/internal/infrastructure/monitor"
	"github.com/fastygo/tasklist/internal/infrastructure/storage"
	"github.com/fastygo/tasklist/internal/middleware"
	"github.com/fastygo/tasklist/internal/router"
	"github.com/fastygo/tasklist/internal/services"
	"github.com/fastygo/tasklist/internal/services/lifecycle"
	"github.com/fastygo/tasklist/pkg/httpcontext"
	"github.com/fastygo/tasklist/pkg/logger"
	"github.com/fastygo/tasklist/repository"
	fileRepo "github.com/fastygo/tasklist/repository/file"
	"github.com/fastygo/tasklist/usecase"
	taskUC "github.com/fastygo/tasklist/usecase/task"
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
	stopListening := manager.Listen(cancel)
	defer stopListening()

	handle, err := storage.Open(cfg.Storage, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to open task storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	manager.Register("storage", func(ctx context.Context) error {
		return handle.Close()
	})

	store, err := taskUC.New(appCtx, handle.Repository, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to load tasks", zap.Error(err))
	}
	dispatcher := usecase.NewDispatcher()
	store.Register(dispatcher)

	var pinger repository.Pinger
	if p, ok := handle.Repository.(repository.Pinger); ok {
		pinger = p
	}
	mon := monitor.New(pinger, handle.Driver, cfg.Monitor.Interval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	// Final write runs after the HTTP server and the backup scheduler stopped.
	manager.Register("flush", func(ctx context.Context) error {
		_, err := dispatcher.ExecuteCommand(ctx, taskUC.CommandFlush, nil)
		return err
	})

	if cfg.Backup.Schedule != "" {
		backup, err := services.NewBackupService(
			func(ctx context.Context) ([]domain.Task, error) {
				out, err := dispatcher.ExecuteQuery(ctx, taskUC.QuerySnapshot, nil)
				if err != nil {
					return nil, err
				}
				tasks, _ := out.([]domain.Task)
				return tasks, nil
			},
			fileRepo.NewTaskRepository(cfg.Backup.Path, cfg.Storage.LockTimeout),
			cfg.Backup.Schedule,
			zapLogger,
		)
		if err != nil {
			zapLogger.Fatal("failed to schedule backups", zap.Error(err))
		}
		backup.Start()
		manager.Register("backup", func(ctx context.Context) error {
			backup.Stop(ctx)
			return nil
		})
	}

	ctxAdapter := httpcontext.NewAdapter(appCtx, cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(dispatcher, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.Auth.Secret, cfg.Auth.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("env", cfg.Environment),
			zap.String("storage", handle.Driver),
			zap.String("location", handle.Location),
			zap.Bool("auth", cfg.Auth.Secret != ""),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server crashed", zap.Error(err))
			cancel()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
