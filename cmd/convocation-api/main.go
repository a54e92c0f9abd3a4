package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/MaiNhanKiet/look-up-convocation2025/api/swagger"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/handler"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/repository"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/router"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/service"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/validation"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/cache"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/config"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/database"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/identity"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/jobs"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/logger"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/middleware/ratelimit"
)

// @title Convocation Lookup API
// @version 1.0.0
// @description Graduation ceremony lookup and photo correction requests
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	mongoDB, err := database.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoDB.Close(closeCtx); err != nil {
			logr.Warn("failed to close mongo", zap.Error(err))
		}
	}()

	if err := repository.EnsureIndexes(ctx, repository.Collections{
		Bachelors:          mongoDB.Bachelors(),
		MissingInformation: mongoDB.MissingInformation(),
		Users:              mongoDB.Users(),
	}); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close() //nolint:errcheck
	}

	var auditDB *sqlx.DB
	if cfg.Database.Enabled {
		auditDB, err = database.NewPostgres(cfg.Database)
		if err != nil {
			return err
		}
		defer auditDB.Close() //nolint:errcheck
	}

	metrics := service.NewMetricsService()

	auditSvc := service.NewAuditService(nil, logr)
	if auditDB != nil {
		auditStore := repository.NewAuditRepository(auditDB)
		if err := auditStore.EnsureSchema(ctx); err != nil {
			return err
		}
		auditQueue := jobs.NewQueue[*models.AuditLog]("audit", auditStore.CreateAuditLog, jobs.Config{
			Workers:    2,
			BufferSize: 512,
			MaxRetries: 3,
			Logger:     logr,
		})
		auditQueue.Start(context.WithoutCancel(ctx))
		defer auditQueue.Stop()
		auditSvc = service.NewAuditService(auditStore, logr, service.WithAuditQueue(auditQueue))
	}

	bachelorOpts := []service.BachelorServiceOption{service.WithWorkflowMetrics(metrics)}
	if cfg.Cache.Enabled && redisClient != nil {
		views := service.NewViewCache(repository.NewViewCacheRepository(redisClient), metrics, cfg.Cache.TTL, logr)
		bachelorOpts = append(bachelorOpts, service.WithViewCache(views))
	}

	bachelorSvc := service.NewBachelorService(
		repository.NewBachelorRepository(mongoDB.Bachelors()),
		repository.NewMissingInformationRepository(mongoDB.MissingInformation()),
		logr,
		bachelorOpts...,
	)
	exportSvc := service.NewExportService(bachelorSvc, logr)
	authSvc := service.NewAuthService(
		repository.NewUserRepository(mongoDB.Users()),
		identity.NewGoogleVerifier(cfg.Google.ClientID),
		logr,
		service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            cfg.JWT.Issuer,
		},
	)

	var limiter gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		limiter, err = ratelimit.New(cfg.RateLimit.Rate, redisClient)
		if err != nil {
			return err
		}
	}

	validator := validation.New()
	engine := router.New(router.Dependencies{
		Config:          cfg,
		Logger:          logr,
		Metrics:         metrics,
		Audit:           auditSvc,
		Auth:            authSvc,
		RateLimit:       limiter,
		BachelorHandler: handler.NewBachelorHandler(bachelorSvc, exportSvc, validator),
		AuthHandler:     handler.NewAuthHandler(authSvc, validator),
		MetricsHandler:  handler.NewMetricsHandler(metrics, mongoDB),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
