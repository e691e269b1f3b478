package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/config"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/detector"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/extractor"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/handler"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/health"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/middleware"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/repository"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/rotation"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/scheduler"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/service"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/shortener"
	"github.com/melvsalonga/affiliate-hub-sub000/pkg/cache"
	"github.com/melvsalonga/affiliate-hub-sub000/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	_ = godotenv.Load(".env")

	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	if err := config.Load(configPath); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig

	if err := database.Init(cfg.Database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	cacheRepo, err := cache.NewRepository(cache.Config{
		Enabled:    cfg.Redis.Enabled,
		Host:       cfg.Redis.Host,
		Port:       cfg.Redis.Port,
		Username:   cfg.Redis.Username,
		Password:   cfg.Redis.Password,
		ValidTTL:   cfg.Redis.ValidTTL,
		InvalidTTL: cfg.Redis.InvalidTTL,
	})
	if err != nil {
		log.Printf("Failed to initialize Redis cache: %v, continuing without cache", err)
	}
	if cacheRepo != nil {
		defer cacheRepo.Close()
	}

	// core components
	det := detector.New()
	ext := extractor.NewWithTimeout(time.Duration(cfg.Extractor.Timeout) * time.Second)
	validator := health.NewValidator(time.Duration(cfg.Health.Timeout) * time.Second)

	linkRepo := repository.NewAffiliateLinkRepository()
	monitor := health.NewMonitor(linkRepo, validator, cacheRepo, health.MonitorConfig{
		PageSize:       cfg.Health.PageSize,
		Concurrency:    cfg.Health.Concurrency,
		InterPageDelay: time.Duration(cfg.Health.InterPageDelayMs) * time.Millisecond,
	})

	// services
	short := shortener.New(linkRepo.ShortCodeExists,
		shortener.WithCodeLength(cfg.Shortener.CodeLength),
		shortener.WithMaxAttempts(cfg.Shortener.MaxAttempts))
	linkService := service.NewLinkService(det, ext, validator, short, cfg.Server.BaseURL)
	rotationService := service.NewRotationService(rotation.NewEngine())
	redirectService := service.NewRedirectService()
	importService := service.NewImportService(linkService)

	// scheduler: import tasks plus the periodic health sweep
	taskScheduler := scheduler.NewScheduler(importService, monitor, cfg.Health.SweepCron)
	if err := taskScheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer taskScheduler.Stop()

	// handlers
	linkHandler := handler.NewLinkHandler(linkService)
	redirectHandler := handler.NewRedirectHandler(redirectService)
	rotationHandler := handler.NewRotationHandler(rotationService)
	healthHandler := handler.NewHealthHandler(monitor)
	statisticsHandler := handler.NewStatisticsHandler()
	settingsHandler := handler.NewSettingsHandler()
	taskHandler := handler.NewImportTaskHandler(importService, taskScheduler)
	authHandler := handler.NewAuthHandler()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// public redirect path for shortened links
	r.GET("/r/:code", redirectHandler.Redirect)

	api := r.Group("/api/v1")
	{
		// public endpoints
		api.GET("/health", healthHandler.Health)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/platforms", linkHandler.Platforms)
		api.POST("/links/detect", linkHandler.Detect)
		api.POST("/links/extract", linkHandler.Extract)
		api.POST("/links/validate", linkHandler.Validate)
		api.POST("/links/process", linkHandler.Process)
		api.POST("/rotation/select", rotationHandler.Select)
		api.POST("/conversions", redirectHandler.RecordConversion)

		// admin endpoints
		apiAuth := api.Group("")
		apiAuth.Use(middleware.AuthMiddleware())
		{
			apiAuth.POST("/links/bulk-process", linkHandler.BulkProcess)
			apiAuth.GET("/links", linkHandler.List)
			apiAuth.POST("/links/:id/reactivate", linkHandler.Reactivate)
			apiAuth.PUT("/links/:id/commission", linkHandler.UpdateCommissionRate)
			apiAuth.DELETE("/links/:id", linkHandler.Delete)
			apiAuth.POST("/links/health-check", healthHandler.CheckLinks)
			apiAuth.POST("/links/health-sweep", healthHandler.Sweep)

			apiAuth.GET("/rotation/configs", rotationHandler.ListConfigs)
			apiAuth.GET("/rotation/configs/:productId", rotationHandler.GetConfig)
			apiAuth.PUT("/rotation/configs/:productId", rotationHandler.SaveConfig)
			apiAuth.DELETE("/rotation/configs/:productId", rotationHandler.DeleteConfig)

			apiAuth.GET("/statistics/overview", statisticsHandler.GetOverview)
			apiAuth.POST("/reports/performance", statisticsHandler.GenerateReport)

			apiAuth.GET("/settings", settingsHandler.GetByCategory)
			apiAuth.GET("/settings/:key", settingsHandler.GetSetting)
			apiAuth.PUT("/settings/:key", settingsHandler.UpdateSetting)

			apiAuth.GET("/import-tasks", taskHandler.ListTasks)
			apiAuth.POST("/import-tasks", taskHandler.CreateTask)
			apiAuth.GET("/import-tasks/:id", taskHandler.GetTask)
			apiAuth.PUT("/import-tasks/:id", taskHandler.UpdateTask)
			apiAuth.DELETE("/import-tasks/:id", taskHandler.DeleteTask)
			apiAuth.POST("/import-tasks/:id/run", taskHandler.RunTask)
			apiAuth.POST("/import-tasks/:id/test", taskHandler.TestTask)
			apiAuth.POST("/import-tasks/:id/enable", taskHandler.EnableTask)
			apiAuth.POST("/import-tasks/:id/disable", taskHandler.DisableTask)
			apiAuth.GET("/import-tasks/:id/executions", taskHandler.ListExecutions)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
