package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers mounted by the router
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Order    *handler.OrderHandler
	System   *handler.SystemHandler
}

// Router builds the gin engine with all middleware and routes
type Router struct {
	cfg      *config.Config
	log      *zap.Logger
	handlers Handlers
	auth     middleware.AuthConfig
}

// New creates a new Router
func New(cfg *config.Config, log *zap.Logger, handlers Handlers, auth middleware.AuthConfig) *Router {
	return &Router{
		cfg:      cfg,
		log:      log,
		handlers: handlers,
		auth:     auth,
	}
}

// Setup returns a configured gin engine. Route protection is layered:
// public reads, RequireAuth for customer routes, RequireAuth+RequireAdmin
// for management routes.
func (r *Router) Setup() *gin.Engine {
	if r.cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(r.log))
	engine.Use(logger.Recovery(r.log))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = r.cfg.HTTP.CORSAllowOrigins
	if len(r.cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = r.cfg.HTTP.CORSAllowMethods
	}
	if len(r.cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = r.cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	if r.cfg.HTTP.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(r.cfg.HTTP.RequestTimeout))
	}
	if r.cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(r.cfg.HTTP.MaxBodySize))
	}
	if r.cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(
			r.cfg.HTTP.RateLimitRequests,
			r.cfg.HTTP.RateLimitWindow,
		)))
	}

	engine.GET("/health", r.handlers.System.Health)
	engine.GET("/ready", r.handlers.System.Ready)

	api := engine.Group("/api/v1")

	requireAuth := middleware.RequireAuth(r.auth)
	requireAdmin := middleware.RequireAdmin()

	auth := api.Group("/auth")
	{
		// Credential endpoints get a stricter limiter to slow down
		// brute-force attempts
		if r.cfg.HTTP.AuthRateLimitEnabled {
			authLimiter := middleware.NewRateLimiter(
				r.cfg.HTTP.AuthRateLimitRequests,
				r.cfg.HTTP.AuthRateLimitWindow,
			)
			auth.POST("/register", middleware.RateLimit(authLimiter), r.handlers.Auth.Register)
			auth.POST("/login", middleware.RateLimit(authLimiter), r.handlers.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(authLimiter), r.handlers.Auth.Refresh)
		} else {
			auth.POST("/register", r.handlers.Auth.Register)
			auth.POST("/login", r.handlers.Auth.Login)
			auth.POST("/refresh", r.handlers.Auth.Refresh)
		}

		auth.POST("/logout", requireAuth, r.handlers.Auth.Logout)
		auth.GET("/profile", requireAuth, r.handlers.Auth.GetProfile)
		auth.PUT("/profile", requireAuth, r.handlers.Auth.UpdateProfile)
		auth.PUT("/password", requireAuth, r.handlers.Auth.ChangePassword)
	}

	products := api.Group("/products")
	{
		products.GET("", r.handlers.Product.List)
		products.GET("/featured", r.handlers.Product.ListFeatured)
		products.GET("/:id", r.handlers.Product.Get)

		products.POST("", requireAuth, requireAdmin, r.handlers.Product.Create)
		products.PUT("/:id", requireAuth, requireAdmin, r.handlers.Product.Update)
		products.PUT("/:id/stock", requireAuth, requireAdmin, r.handlers.Product.UpdateStock)
		products.PUT("/:id/restore", requireAuth, requireAdmin, r.handlers.Product.Restore)
		products.DELETE("/:id", requireAuth, requireAdmin, r.handlers.Product.Delete)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", r.handlers.Category.List)
		categories.GET("/:id", r.handlers.Category.Get)

		categories.POST("", requireAuth, requireAdmin, r.handlers.Category.Create)
		categories.PUT("/:id", requireAuth, requireAdmin, r.handlers.Category.Update)
		categories.DELETE("/:id", requireAuth, requireAdmin, r.handlers.Category.Delete)
	}

	orders := api.Group("/orders")
	{
		orders.GET("/track/:trackingNumber", r.handlers.Order.Track)

		orders.POST("", requireAuth, r.handlers.Order.Checkout)
		orders.GET("/user/orders", requireAuth, r.handlers.Order.ListForUser)
		orders.GET("/user/orders/:trackingNumber", requireAuth, r.handlers.Order.GetForUser)
		orders.PUT("/user/orders/:trackingNumber/cancel", requireAuth, r.handlers.Order.Cancel)

		orders.GET("", requireAuth, requireAdmin, r.handlers.Order.List)
		orders.GET("/summary", requireAuth, requireAdmin, r.handlers.Order.Summary)
		orders.PUT("/:id/status", requireAuth, requireAdmin, r.handlers.Order.UpdateStatus)
	}

	return engine
}
