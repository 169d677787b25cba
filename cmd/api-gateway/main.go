package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MarkVallesAgbayani/AiToManabi-sub011/api/swagger"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/handler"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/middleware"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/repository"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/service"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/cache"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/config"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/database"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/export"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/logger"
	corsmiddleware "github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/middleware/cors"
	reqidmiddleware "github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/middleware/requestid"
)

// @title AiToManabi Analytics API
// @version 1.0.0
// @description Role-gated learning analytics reports for teachers and admins
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Analytics.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, true)
		}
	}

	analyticsRepo := repository.NewAnalyticsRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	userRepo := repository.NewUserRepository(db)
	entityRepo := repository.NewEntityRepository(courseRepo, userRepo)

	authSvc := service.NewAuthService(userRepo, validator.New(), logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "aitomanabi-analytics",
	})

	reportSvc := service.NewReportService(service.ReportServiceParams{
		Cohort:     analyticsRepo,
		Quizzes:    quizRepo,
		Engagement: engagementRepo,
		Entities:   entityRepo,
		Cache:      cacheSvc,
		Metrics:    metricsSvc,
		Logger:     logr,
		Config:     cfg.Analytics,
	})

	exportSvc := service.NewExportService(reportSvc, cfg.Export, logr, export.NewCSVExporter(), export.NewPDFExporter())

	authHandler := handler.NewAuthHandler(authSvc)
	reportHandler := handler.NewReportHandler(reportSvc, cfg.Analytics)
	exportHandler := handler.NewExportHandler(exportSvc, cfg.Analytics)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	reports := api.Group("/reports", middleware.JWT(authSvc))
	reports.GET("/completion",
		middleware.RequirePermission(models.PermViewCompletionReports), reportHandler.Completion)
	reports.GET("/progress",
		middleware.RequirePermission(models.PermViewProgressReports), reportHandler.Progress)
	reports.GET("/progress/students/:student_id/courses/:course_id",
		middleware.RequirePermission(models.PermViewProgressReports), reportHandler.StudentCourseProgress)
	reports.GET("/quiz",
		middleware.RequirePermission(models.PermViewQuizReports), reportHandler.Quiz)
	reports.GET("/engagement",
		middleware.RequirePermission(models.PermViewEngagementReports), reportHandler.Engagement)
	reports.GET("/export/:report",
		middleware.RequirePermission(models.PermExportReports), exportHandler.Download)

	system := api.Group("/system", middleware.JWT(authSvc))
	system.GET("/metrics",
		middleware.RequirePermission(models.PermViewSystemMetrics), metricsHandler.System)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
