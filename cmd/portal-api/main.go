package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/iccthub/portal-api/api/swagger"
	"github.com/iccthub/portal-api/internal/handler"
	"github.com/iccthub/portal-api/internal/middleware"
	"github.com/iccthub/portal-api/internal/repository"
	"github.com/iccthub/portal-api/internal/service"
	"github.com/iccthub/portal-api/pkg/cache"
	"github.com/iccthub/portal-api/pkg/config"
	"github.com/iccthub/portal-api/pkg/database"
	"github.com/iccthub/portal-api/pkg/logger"
	corsmiddleware "github.com/iccthub/portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/iccthub/portal-api/pkg/middleware/requestid"
	"github.com/iccthub/portal-api/pkg/storage"
)

// @title ICCT HUB Portal API
// @version 1.0.0
// @description Campus portal backend: accounts, events, lost and found, messaging and reports.
// @BasePath /api/v1
// @schemes http
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
			redisClient = nil
		}
	}

	images, err := storage.NewImageStore(cfg.Uploads.StorageDir, cfg.Uploads.PublicBaseURL, cfg.Uploads.MaxFileSizeBytes)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare image storage", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	lostRepo := repository.NewLostItemRepository(db)
	foundRepo := repository.NewFoundItemRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	faqRepo := repository.NewFAQRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.PublicEventTTL, logr, cfg.Cache.Enabled)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "iccthub-portal",
	})
	eventSvc := service.NewEventService(eventRepo, userRepo, cacheSvc, cfg.Cache.PublicEventTTL, validate, logr)
	lostSvc := service.NewLostItemService(lostRepo, userRepo, validate, logr)
	foundSvc := service.NewFoundItemService(foundRepo, userRepo, validate, logr)
	messageSvc := service.NewMessageService(messageRepo, userRepo, validate, logr)
	profileSvc := service.NewProfileService(userRepo, images, validate, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	settingsSvc := service.NewSettingsService(userRepo, faqRepo, logr)
	reportSvc := service.NewReportService(userSvc, eventSvc, lostSvc, foundSvc, logr)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Events:    handler.NewEventHandler(eventSvc, images),
		LostItems: handler.NewLostItemHandler(lostSvc, images),
		FoundItem: handler.NewFoundItemHandler(foundSvc, images),
		Messages:  handler.NewMessageHandler(messageSvc),
		Profile:   handler.NewProfileHandler(profileSvc),
		Users:     handler.NewUserHandler(userSvc),
		Settings:  handler.NewSettingsHandler(settingsSvc),
		Reports:   handler.NewReportHandler(reportSvc),
		Metrics:   handler.NewMetricsHandler(metricsSvc),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", handlers.Metrics.Health)
	r.GET("/ready", handlers.Metrics.Health)
	r.GET("/metrics", handlers.Metrics.Prometheus)
	r.Static("/uploads", cfg.Uploads.StorageDir)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
