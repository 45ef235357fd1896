package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/voyages-api/api/swagger"
	"github.com/noah-isme/voyages-api/internal/handler"
	"github.com/noah-isme/voyages-api/internal/middleware"
	"github.com/noah-isme/voyages-api/internal/repository"
	"github.com/noah-isme/voyages-api/internal/service"
	"github.com/noah-isme/voyages-api/pkg/cache"
	"github.com/noah-isme/voyages-api/pkg/config"
	"github.com/noah-isme/voyages-api/pkg/database"
	"github.com/noah-isme/voyages-api/pkg/export"
	"github.com/noah-isme/voyages-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/voyages-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/voyages-api/pkg/middleware/requestid"
	"github.com/noah-isme/voyages-api/pkg/storage"
)

// @title Voyages Scolaires API
// @version 1.0.0
// @description Trip registration backend: administrators mint access tokens, guardians submit student forms
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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		logr.Sugar().Fatalw("failed to ensure schema", "error", err)
	}
	cancel()

	var cacheRepo *repository.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	documentStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	tripRepo := repository.NewTripRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	linkRepo := repository.NewLinkRepository(db)

	tripSvc := service.NewTripService(tripRepo, studentRepo, export.NewCSVExporter(), export.NewPDFExporter(), validate, logr)
	linkSvc := service.NewLinkService(linkRepo, studentRepo, tripRepo, db, cacheRepo, metricsSvc, validate, logr, service.LinkOptions{
		DefaultCount:   cfg.Links.DefaultCount,
		MaxCount:       cfg.Links.MaxCount,
		StatusCacheTTL: cfg.Links.StatusCacheTTL,
	})
	documentSvc := service.NewDocumentService(linkRepo, documentStore, cfg.Uploads.MaxFileSizeBytes, logr)

	tripHandler := handler.NewTripHandler(tripSvc)
	linkHandler := handler.NewLinkHandler(linkSvc, documentSvc, cfg.Uploads.MaxFileSizeBytes)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/trips", tripHandler.Create)
		api.GET("/trips", tripHandler.List)
		api.POST("/trips/:id/links", linkHandler.Generate)
		api.GET("/trips/:id/students", tripHandler.ListStudents)
		if cfg.Exports.Enabled {
			api.GET("/trips/:id/students/export", tripHandler.ExportStudents)
		}
		api.POST("/links/:token/upload", linkHandler.Upload)
		api.POST("/links/:token/ocr", linkHandler.OCR)
		api.POST("/links/:token/submit", linkHandler.Submit)
		api.GET("/links/:token/status", linkHandler.Status)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
