package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"leave-service/internal/audit"
	"leave-service/internal/employeeregistry"
	"leave-service/internal/leave"
	"leave-service/internal/messaging/kafka"
	"leave-service/internal/middleware"
	"leave-service/internal/notifier"
	"leave-service/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// App holds the long-lived dependencies of the API process.
type App struct {
	Router   *gin.Engine
	Notifier *notifier.Dispatcher
	closers  []func() error
	logger   *zap.Logger
}

// Shutdown runs after the HTTP server has finished in-flight requests. It
// flushes the notifier, then releases connections.
func (a *App) Shutdown(ctx context.Context) {
	if a.Notifier != nil {
		if err := a.Notifier.Stop(ctx); err != nil {
			a.logger.Warn("notifier did not drain before shutdown deadline", zap.Error(err))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close dependency failed", zap.Error(err))
		}
	}
}

// BuildApp connects infrastructure, wires the leave module and registers
// routes on router. The notifier runs until Shutdown. It fails when
// the local employee replica is unreachable: the verifier cannot work
// without its fallback.
func BuildApp(ctx context.Context, cfg Config, router *gin.Engine, logger *zap.Logger) (*App, error) {
	log := logger.Named("app.api")
	a := &App{Router: router, logger: log}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, sqlDB.Close)
	log.Info("database connection established")

	if cfg.AutoMigrate {
		if err := Migrate(gormDB); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	local := employeeregistry.NewLocalSource(gormDB)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := local.Ping(pingCtx); err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		log.Info("redis connection established")
	}

	verifier := buildVerifier(cfg, local, rdb, logger)

	sinks, closeSinks, err := buildSinks(cfg, sqlDB, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeSinks...)
	a.Notifier = notifier.NewDispatcher(notifier.DefaultQueueSize, sinks, logger)
	a.Notifier.Start()

	registerModules(router, cfg, sqlDB, gormDB, rdb, verifier, a.Notifier, logger)

	return a, nil
}

func buildVerifier(cfg Config, local *employeeregistry.LocalSource, rdb *redis.Client, logger *zap.Logger) *employeeregistry.Verifier {
	var cache employeeregistry.Cache = employeeregistry.NewMemoryCache()
	if cfg.VerificationCache == CacheRedis && rdb != nil {
		cache = employeeregistry.NewRedisCache(rdb, cfg.VerificationCacheTTL, logger)
	}

	opts := []employeeregistry.Option{
		employeeregistry.WithCache(cache),
		employeeregistry.WithLogger(logger),
	}
	if cfg.EmployeeServiceURL != "" {
		remote := employeeregistry.NewRemoteSource(cfg.EmployeeServiceURL, cfg.EmployeeServiceTimeout, logger)
		opts = append(opts, employeeregistry.WithRemote(remote, cfg.EmployeeServiceTimeout))
	} else {
		logger.Warn("EMPLOYEE_SERVICE_URL not set, verifying employees against the local replica only")
	}

	return employeeregistry.NewVerifier(local, opts...)
}

func buildSinks(cfg Config, sqlDB *sql.DB, logger *zap.Logger) ([]notifier.Sink, []func() error, error) {
	// In outbox and kafka modes the leave lifecycle consumer writes the
	// audit trail, so the in-process audit sink is only used in log mode.
	switch cfg.NotifierMode {
	case NotifierOutbox:
		return []notifier.Sink{notifier.NewOutboxSink(kafka.NewOutboxRepository(sqlDB))}, nil, nil
	case NotifierKafka:
		writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
		if err != nil {
			return nil, nil, err
		}
		return []notifier.Sink{notifier.NewKafkaSink(writer)}, []func() error{writer.Close}, nil
	}
	return []notifier.Sink{notifier.NewAuditSink(audit.NewStdoutAuditLogger(logger))}, nil, nil
}

func registerModules(
	router *gin.Engine,
	cfg Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	verifier leave.EmployeeVerifier,
	n leave.Notifier,
	logger *zap.Logger,
) {
	router.Use(
		middleware.ContextLogger(logger),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Leave module ---
	leaveRepo := leave.NewRepository(gormDB)
	leaveService := leave.NewService(db, leaveRepo, verifier, n, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)

	api := router.Group("/api/v1")
	if cfg.JWTSecret != "" {
		api.Use(
			middleware.AuthMiddleware(cfg.JWTSecret),
			middleware.RateLimitByActor(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		)
	}

	var createMiddleware []gin.HandlerFunc
	if rdb != nil {
		createMiddleware = append(createMiddleware, middleware.Idempotency(rdb))
	}
	leave.RegisterRoutes(api, leaveHandler, createMiddleware...)
}
