// internal/api/routes.go
package api

import (
	"alumni-api/internal/api/handlers"
	"alumni-api/internal/api/middleware"
	"alumni-api/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Handler  *handlers.Handler
	Tokens   TokenVerifier
	Admins   AdminLookup
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger

	RequireCurrentToken bool
	RegistrationEnabled bool
	EnableSwagger       bool
}

func SetupRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.Metrics(cfg.Metrics))

	h := cfg.Handler

	router.GET("/", h.Home)
	router.GET("/health", h.Health)
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	//Swagger Route
	if cfg.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Auth routes
	if cfg.RegistrationEnabled {
		router.POST("/register", h.Register)
	}
	router.POST("/login", h.Login)

	// Public listings
	router.GET("/getalluser", h.ListMembers)
	router.GET("/batch/:batch", h.ListMembersByBatch)

	// Protected routes
	admin := router.Group("/")
	admin.Use(AuthMiddleware(cfg.Tokens, cfg.Admins, cfg.RequireCurrentToken, cfg.Logger))
	{
		admin.POST("/create", h.CreateMember)
		admin.PUT("/edituser/:id", h.EditMember)
		admin.DELETE("/deleteuser/:id", h.DeleteMember)
	}

	return router
}
