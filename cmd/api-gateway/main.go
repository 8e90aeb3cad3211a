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
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/seatbook-api/api/swagger"
	"github.com/noah-isme/seatbook-api/internal/handler"
	internalmiddleware "github.com/noah-isme/seatbook-api/internal/middleware"
	"github.com/noah-isme/seatbook-api/internal/models"
	"github.com/noah-isme/seatbook-api/internal/repository"
	"github.com/noah-isme/seatbook-api/internal/service"
	"github.com/noah-isme/seatbook-api/pkg/cache"
	"github.com/noah-isme/seatbook-api/pkg/config"
	"github.com/noah-isme/seatbook-api/pkg/database"
	"github.com/noah-isme/seatbook-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/seatbook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/seatbook-api/pkg/middleware/requestid"
)

// @title Seatbook API
// @version 0.1.0
// @description Office seat booking with weekly auto-booking and attendance compliance
// @BasePath /api/v1
// @schemes http

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to apply schema", zap.Error(err))
		}
		logr.Info("database schema applied")
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, falling back to in-process run lock and no cache", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	seatRepo := repository.NewSeatRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logger.Component(logr, "cache"))

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.AutoBooking.PreviewTTL, logger.Component(logr, "cache"), redisClient != nil)
	tokenSvc := service.NewTokenService(service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})
	bookingSvc := service.NewBookingService(bookingRepo, seatRepo, userRepo)
	autoBookingSvc := service.NewAutoBookingService(
		userRepo,
		seatRepo,
		bookingRepo,
		auditRepo,
		runLocker(redisClient, cfg.AutoBooking.LockTTL),
		cacheSvc,
		metricsSvc,
		validate,
		logger.Component(logr, "auto-booking"),
		service.AutoBookingConfig{PreviewTTL: cfg.AutoBooking.PreviewTTL},
	)

	var scheduler *service.AutoBookingScheduler
	if cfg.AutoBooking.Enabled {
		scheduler = service.NewAutoBookingScheduler(autoBookingSvc, service.AutoBookingSchedulerConfig{
			PeriodicEnabled: cfg.AutoBooking.ScheduleEnabled,
			Interval:        cfg.AutoBooking.Interval,
			HorizonWeeks:    cfg.AutoBooking.HorizonWeeks,
			Workers:         cfg.AutoBooking.Workers,
			Retries:         cfg.AutoBooking.Retries,
		}, logger.Component(logr, "auto-booking-scheduler"))
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)
	r.GET("/health", metricsHandler.Health)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(tokenSvc))

	bookingHandler := handler.NewBookingHandler(bookingSvc)
	bookings := api.Group("/bookings")
	bookings.GET("/available-seats", bookingHandler.AvailableSeats)
	bookings.GET("/weekly-status", bookingHandler.WeeklyStatus)
	bookings.GET("/my", bookingHandler.My)

	if scheduler != nil {
		autoBookingHandler := handler.NewAutoBookingHandler(autoBookingSvc, nil)
		if cfg.AutoBooking.LoginHookEnabled {
			autoBookingHandler = handler.NewAutoBookingHandler(autoBookingSvc, scheduler)
		}

		admin := api.Group("/admin/auto-bookings", internalmiddleware.RequireRoles(models.RoleAdmin))
		admin.POST("", internalmiddleware.Audit(auditRepo, logger.Component(logr, "audit"), models.AuditActionAutoBookingRun, models.AuditResourceAutoBooking), autoBookingHandler.Run)
		admin.GET("/preferences", autoBookingHandler.Preferences)

		if cfg.AutoBooking.LoginHookEnabled {
			bookings.POST("/auto/ensure", autoBookingHandler.Ensure)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// runLocker prefers a Redis lease so concurrent runs are rejected across instances.
func runLocker(client *redis.Client, ttl time.Duration) service.RunLocker {
	if client == nil {
		return service.NewLocalRunLock()
	}
	return repository.NewRedisRunLock(client, ttl)
}

