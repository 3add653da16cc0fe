package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leave-service/internal/app"
	"leave-service/internal/audit"
	"leave-service/internal/bootstrap"
	"leave-service/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg, err := app.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := app.NewLogger(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apperror.Init()
	r := gin.Default()

	// build dependency + routes
	application, err := app.BuildApp(ctx, cfg, r, logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	err = bootstrap.RunHTTPServer(
		ctx,
		r,
		bootstrap.ServerConfig{
			Port:            cfg.Port,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		audit.NewStdoutAuditLogger(logger),
		application.Shutdown,
	)
	if err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}
