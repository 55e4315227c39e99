// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "alumni-api/docs" // Required for Swagger
	"alumni-api/internal/api"
	"alumni-api/internal/api/handlers"
	"alumni-api/internal/attachment"
	"alumni-api/internal/auth"
	"alumni-api/internal/cache"
	"alumni-api/internal/config"
	"alumni-api/internal/constants"
	"alumni-api/internal/logging"
	"alumni-api/internal/metrics"
	"alumni-api/internal/service"
	"alumni-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const dbConnectTimeout = time.Minute

// @title           Alumni Directory API
// @version         1.0
// @description     API for managing an alumni member directory

// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create database configuration
	dbConfig := storage.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
	}

	if err := storage.EnsureDatabase(dbConfig); err != nil {
		logger.Fatal("Failed to create database", zap.Error(err))
	}

	// Connect to the application database
	db, err := storage.Connect(dbConfig, dbConnectTimeout, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := storage.RunMigrations(ctx, db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	admins := storage.NewAdminStore(db)
	members := storage.NewMemberStore(db)
	tokens := auth.NewTokenService(cfg.JWT.Secret, constants.SessionTokenTTL)

	photos, err := attachment.NewMinioStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize photo storage", zap.Error(err))
	}

	checks := map[string]handlers.Pinger{"mysql": members}
	deps := service.Deps{
		Admins:  admins,
		Members: members,
		Tokens:  tokens,
		Photos:  photos,
		Metrics: metrics.New(prometheus.DefaultRegisterer),
		Logger:  logger,
	}

	if cfg.Redis.URL != "" {
		memberCache, err := cache.NewMemberCache(cfg.Redis.URL, constants.MemberListCacheTTL)
		if err != nil {
			logger.Fatal("Failed to initialize member cache", zap.Error(err))
		}
		defer memberCache.Close()
		deps.Cache = memberCache
		checks["redis"] = memberCache
	}

	records := service.NewRecordService(deps)

	// Set up and start the server
	router := api.SetupRouter(api.RouterConfig{
		Handler:             handlers.NewHandler(records, logger, checks),
		Tokens:              tokens,
		Admins:              admins,
		Metrics:             deps.Metrics,
		Gatherer:            prometheus.DefaultGatherer,
		Logger:              logger,
		RequireCurrentToken: cfg.Auth.RequireCurrentToken,
		RegistrationEnabled: cfg.Auth.RegistrationEnabled,
		EnableSwagger:       !cfg.IsProduction(),
	})

	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	if cfg.Env == "development" {
		logger.Info(fmt.Sprintf("Server starting on http://localhost%s", serverAddr))
		logger.Info(fmt.Sprintf("Swagger UI available at http://localhost%s/swagger/index.html", serverAddr))
	}

	if err := router.Run(serverAddr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
