package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-attendance-monitor/api/swagger"
	"github.com/noah-isme/sma-attendance-monitor/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-attendance-monitor/internal/middleware"
	"github.com/noah-isme/sma-attendance-monitor/internal/models"
	"github.com/noah-isme/sma-attendance-monitor/internal/repository"
	"github.com/noah-isme/sma-attendance-monitor/internal/service"
	"github.com/noah-isme/sma-attendance-monitor/pkg/cache"
	"github.com/noah-isme/sma-attendance-monitor/pkg/config"
	"github.com/noah-isme/sma-attendance-monitor/pkg/database"
	"github.com/noah-isme/sma-attendance-monitor/pkg/export"
	"github.com/noah-isme/sma-attendance-monitor/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-attendance-monitor/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-attendance-monitor/pkg/middleware/requestid"
)

// @title Attendance Monitor API
// @version 1.0.0
// @description Roll-call reconciliation for school administrators
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Snapshot.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, reference cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(cfg, logr, db, redisClient)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	case <-ctx.Done():
		logr.Info("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logr.Error("could not stop server gracefully", zap.Error(err))
			_ = server.Close()
		}
	}
}

func newRouter(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, redisClient *redis.Client) *gin.Engine {
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, service.CacheOptions{
		Namespace: service.ReferenceCacheNamespace,
		TTL:       cfg.Snapshot.TTL,
		Enabled:   cfg.Snapshot.Enabled && redisClient != nil,
	}, logr)

	profiles := repository.NewProfileRepository(db)
	monitorSvc := service.NewAttendanceMonitorService(service.AttendanceMonitorServiceParams{
		Periods:    repository.NewPeriodRepository(db),
		Timetables: repository.NewTimetableRepository(db),
		Classes:    repository.NewClassRepository(db),
		Subjects:   repository.NewSubjectRepository(db),
		Teachers:   profiles,
		Sessions:   repository.NewSessionRepository(db),
		Cache:      cacheSvc,
		Metrics:    metricsSvc,
		CSV:        export.NewCSVExporter(),
		PDF:        export.NewPDFExporter(),
		Validator:  validator.New(),
		Logger:     logr,
		Config: service.AttendanceMonitorConfig{
			Classifier: service.ClassifierConfig{
				LateThresholdMin:        cfg.Attendance.LateThresholdMin,
				MissingControlWindowMin: cfg.Attendance.MissingControlWindowMin,
				ForgivenessMin:          cfg.Attendance.ForgivenessMin,
			},
		},
	})

	authSvc := service.NewAuthService(logr, service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret})
	guard := service.NewAccessGuard(profiles, logr, models.RoleAdmin, models.RoleSuperAdmin)

	monitorHandler := handler.NewAttendanceMonitorHandler(monitorSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	admin := r.Group(cfg.APIPrefix + "/admin")
	admin.Use(internalmiddleware.JWT(authSvc), internalmiddleware.RequireAccess(guard))
	{
		admin.GET("/attendance/monitor", monitorHandler.Monitor)
		admin.GET("/attendance/monitor/export", monitorHandler.Export)
		admin.DELETE("/attendance/monitor/cache", monitorHandler.InvalidateCache)
	}

	return r
}
