// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"inventrack/internal/core/idempotency"
	"inventrack/internal/core/security"
	"inventrack/internal/domain/analytics"
	"inventrack/internal/domain/audit"
	"inventrack/internal/domain/auth"
	"inventrack/internal/domain/catalogs/category"
	"inventrack/internal/domain/catalogs/product"
	"inventrack/internal/domain/catalogs/supplier"
	"inventrack/internal/domain/documents/supply_request"
	"inventrack/internal/domain/payment"
	"inventrack/internal/domain/registers/stock"
	"inventrack/internal/infrastructure/http/v1/dto"
	"inventrack/internal/infrastructure/http/v1/handlers"
	"inventrack/internal/infrastructure/http/v1/middleware"
	"inventrack/pkg/logger"
)

// Services groups the domain services the API exposes.
type Services struct {
	Auth       *auth.Service
	Journal    *audit.Journal
	Categories *category.Service
	Products   *product.Service
	Suppliers  *supplier.Service
	Stock      *stock.Engine
	Supply     *supply_request.Workflow
	Payments   *payment.Reconciler
	Analytics  *analytics.Service
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// TokenValidator checks bearer tokens, including revocation
	TokenValidator middleware.TokenValidator

	// Authorizer enforces role capabilities on routes that carry no actor
	Authorizer security.Authorizer

	// IdempotencyStore enables replay protection when set
	IdempotencyStore idempotency.Store

	// HealthChecks are pinged by the readiness probe
	HealthChecks map[string]handlers.Pinger

	Version  string
	Debug    bool
	Services Services
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Authorizer == nil {
		cfg.Authorizer = security.DefaultPolicy()
	}
	dto.RegisterValidators()

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()
	svc := cfg.Services

	v1 := router.Group("/api/v1")

	healthHandler := handlers.NewHealthHandler(cfg.Version, cfg.HealthChecks)
	health := v1.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	protected := v1.Group("")
	protected.Use(middleware.Auth(cfg.TokenValidator))
	if cfg.IdempotencyStore != nil {
		protected.Use(middleware.Idempotency(cfg.IdempotencyStore))
	}

	handlers.NewAuthHandler(base, svc.Auth, svc.Journal).RegisterRoutes(v1, protected)
	handlers.NewPaymentHandler(base, svc.Payments, svc.Journal).RegisterRoutes(v1, protected)
	handlers.NewCatalogHandler(base, svc.Categories, svc.Products, svc.Suppliers).RegisterRoutes(protected, cfg.Authorizer)
	handlers.NewStockHandler(base, svc.Stock).RegisterRoutes(protected, cfg.Authorizer)
	handlers.NewSupplyRequestHandler(base, svc.Supply).RegisterRoutes(protected)
	handlers.NewAnalyticsHandler(base, svc.Analytics).RegisterRoutes(protected, cfg.Authorizer)

	return router
}
