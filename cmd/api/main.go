package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"task-manager/internal/core/auth"
	"task-manager/internal/core/cache"
	"task-manager/internal/core/config"
	"task-manager/internal/core/database"
	"task-manager/internal/core/logger"
	"task-manager/internal/core/server"
	"task-manager/internal/core/storage"
	"task-manager/internal/repo"
	"task-manager/internal/service"
	"task-manager/internal/transport/http/handler"
	"task-manager/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// JWT
	jwter := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.TTLHours)*time.Hour)

	// 可选 Redis：只缓存调用者身份
	var rc *cache.Cache
	if cfg.Redis.Addr != "" {
		rc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = rc.Close() }()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unreachable, falling back to db", zap.Error(err))
		}
		cancel()
	}

	store, err := storage.New(context.Background(), cfg.Upload)
	if err != nil {
		log.Fatal("upload storage", zap.Error(err))
	}

	// 依赖
	users, tasks := repo.NewUserRepo(db), repo.NewTaskRepo(db)
	authSvc := service.NewAuthService(users, jwter, service.AuthOptions{
		AdminInviteToken: cfg.Auth.AdminInviteToken,
		Cache:            rc,
		CacheTTL:         time.Duration(cfg.Redis.TTLSec) * time.Second,
		Logger:           log,
	})
	mods := router.NewRegistry(
		handler.NewAuthHandler(authSvc, service.NewMediaService(store, int64(cfg.Upload.MaxSizeMB)<<20)),
		handler.NewTaskHandler(service.NewTaskService(tasks, users, log), service.NewReportService(tasks)),
		handler.NewUserHandler(service.NewUserService(users, tasks)),
	)

	uploadDir := ""
	if cfg.Upload.Driver == "" || cfg.Upload.Driver == "local" {
		uploadDir = cfg.Upload.Dir
	}

	// 路由（用户端）
	r := router.NewAPIEngine(router.Deps{
		Logger:         log,
		JWT:            jwter,
		Users:          authSvc,
		Modules:        mods,
		CORSOrigins:    cfg.CORS.AllowOrigins,
		UploadDir:      uploadDir,
		RequestTimeout: time.Duration(cfg.App.HTTP.RequestTimeoutSec) * time.Second,
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
		log,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("task api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, log); err != nil {
			log.Fatal("task api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	if err := server.Shutdown(srv, 10*time.Second); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("task api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
