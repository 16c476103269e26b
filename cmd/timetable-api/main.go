package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/acadboard/timetable-api/api/swagger"
	"github.com/acadboard/timetable-api/internal/handler"
	"github.com/acadboard/timetable-api/internal/middleware"
	"github.com/acadboard/timetable-api/internal/repository"
	"github.com/acadboard/timetable-api/internal/service"
	"github.com/acadboard/timetable-api/pkg/cache"
	"github.com/acadboard/timetable-api/pkg/config"
	"github.com/acadboard/timetable-api/pkg/database"
	"github.com/acadboard/timetable-api/pkg/jobs"
	"github.com/acadboard/timetable-api/pkg/logger"
	corsmiddleware "github.com/acadboard/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadboard/timetable-api/pkg/middleware/requestid"
)

// @title Timetable Projection API
// @version 0.1.0
// @description Projection, substitution resolution and edit service for generated timetables
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	cacheEnabled := cfg.Projection.CacheEnabled
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Projections work without the cache; run degraded rather than die.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
		cacheEnabled = false
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	timetableRepo := repository.NewTimetableRepository(db)
	substitutionRepo := repository.NewSubstitutionRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Projection.CacheTTL, logr, cacheEnabled)
	projectionSvc := service.NewProjectionService(timetableRepo, catalogRepo, cacheSvc, metricsSvc, logr)
	substitutionSvc := service.NewSubstitutionService(substitutionRepo, timetableRepo, projectionSvc, validate, metricsSvc, logr)
	conflictSvc := service.NewConflictService(timetableRepo, projectionSvc, metricsSvc, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, cacheSvc, validate, cfg.Projection.SlotsPerDay, logr)

	recheckQueue := jobs.NewQueue("conflict-recheck", service.RecheckHandler(conflictSvc, logr), jobs.QueueConfig{
		Workers:    cfg.Edits.RecheckWorkers,
		BufferSize: cfg.Edits.RecheckBufferSize,
		MaxRetries: cfg.Edits.RecheckRetries,
		RetryDelay: cfg.Edits.RecheckRetryDelay,
		Logger:     logr,
	})
	recheckQueue.Start(context.Background())
	defer recheckQueue.Stop()

	editSvc := service.NewEditService(timetableRepo, cacheSvc, recheckQueue, validate, metricsSvc, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportSvc = service.NewExportService(substitutionSvc, cfg.Projection.SlotsPerDay, logr)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, handler.Deps{
		Timetables:    handler.NewTimetableHandler(timetableSvc, projectionSvc, conflictSvc),
		Faculty:       handler.NewFacultyHandler(projectionSvc, substitutionSvc, exportSvc),
		Substitutions: handler.NewSubstitutionHandler(substitutionSvc),
		Edits:         handler.NewEditHandler(editSvc),
		Metrics:       metricsSvc,
		JWTSecret:     cfg.JWT.Secret,
		APIPrefix:     cfg.APIPrefix,
		Readiness: func(ctx context.Context) error {
			return db.PingContext(ctx)
		},
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
