package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/XuanBac3105/do-an-server2-sub000/config"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/api/handler"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/api/router"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/jobs"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/service"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/database"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/jwt"
	applogger "github.com/XuanBac3105/do-an-server2-sub000/pkg/logger"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/mailer"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/redis"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "path to the yaml config file")
	flag.Parse()

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting classroom server",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("mail_provider", cfg.Mail.Provider),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. redis (optional: the server keeps running without blacklist, rate limit and OTP cooldown)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without it", zap.Error(err))
		rdb = nil
	}

	// 5. object storage and mail
	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := storage.New(startCtx, &cfg.Storage, cfg.Server.BaseURL, cfg.Auth.JWTSecret, logger)
	startCancel()
	if err != nil {
		logger.Fatal("init storage", zap.Error(err))
	}

	mail, err := mailer.New(&cfg.Mail, logger)
	if err != nil {
		logger.Fatal("init mailer", zap.Error(err))
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, mail, store, logger)
	h := handler.NewHandler(svc, store, cfg.Storage.MaxUploadBytes, logger)

	// 7. router
	engine, err := router.Setup(cfg, h, jwtMgr, rdb, logger)
	if err != nil {
		logger.Fatal("setup router", zap.Error(err))
	}

	// 8. housekeeping
	scheduler, err := jobs.NewScheduler(cfg.Jobs.CleanupSpec, jobs.NewRunner(repo, logger), logger)
	if err != nil {
		logger.Fatal("init scheduler", zap.Error(err))
	}
	scheduler.Start()

	// 9. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	scheduler.Stop()

	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("close redis", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}
