package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/opencampus/lms-api/api/swagger"
	"github.com/opencampus/lms-api/internal/handler"
	"github.com/opencampus/lms-api/internal/middleware"
	"github.com/opencampus/lms-api/internal/repository"
	"github.com/opencampus/lms-api/internal/service"
	"github.com/opencampus/lms-api/pkg/cache"
	"github.com/opencampus/lms-api/pkg/config"
	"github.com/opencampus/lms-api/pkg/database"
	"github.com/opencampus/lms-api/pkg/logger"
	corsmiddleware "github.com/opencampus/lms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/opencampus/lms-api/pkg/middleware/requestid"
	"github.com/opencampus/lms-api/pkg/storage"
)

// @title Campus LMS API
// @version 1.0.0
// @description Course catalog, enrollment and material management service
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
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload directory", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)

	authSvc := service.NewAuthService(userRepo, sessionRepo, validate, logr, service.AuthConfig{
		SessionTTL: cfg.Session.TTL,
	})
	catalogSvc := service.NewCatalogService(courseRepo, materialRepo, uploads, validate, logr)
	materialSvc := service.NewMaterialService(materialRepo, catalogSvc, uploads, validate, logr, service.MaterialServiceConfig{
		MaxFileSize: cfg.Uploads.MaxFileSizeBytes,
	})
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, logr)
	rosterSvc := service.NewRosterService(enrollmentRepo, catalogSvc, logr)
	metricsSvc := service.NewMetricsService()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.Register(r, handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, cfg.Session),
		Courses:    handler.NewCourseHandler(catalogSvc),
		Students:   handler.NewStudentHandler(catalogSvc, enrollmentSvc),
		Instructor: handler.NewInstructorHandler(catalogSvc, materialSvc, rosterSvc),
		Metrics:    handler.NewMetricsHandler(metricsSvc),
	}, authSvc, cfg)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
