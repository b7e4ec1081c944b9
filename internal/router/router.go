package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/legal-services-api/internal/handler/prometheus"
	"github.com/jwalitptl/legal-services-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers groups the route owners mounted under /api/v1.
type Handlers struct {
	Health       Handler
	Categories   Handler
	Services     Handler
	Inquiries    Handler
	Testimonials Handler
	Admin        Handler
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *prometheus.Handler
}

type RouterConfig struct {
	Mode          string
	Timeout       time.Duration
	MaxUploadSize int64
	CORSConfig    middleware.CORSConfig
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	handlers Handlers,
	metrics *prometheus.Handler,
	config RouterConfig,
) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = true

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  metrics,
	}

	sizeLimit := middleware.DefaultSizeLimitConfig()
	if config.MaxUploadSize > 0 {
		sizeLimit.MaxUploadSize = config.MaxUploadSize
	}

	middleware.RegisterBindingTagNames()

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		metrics.Middleware(),
		middleware.CORS(config.CORSConfig),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.SizeLimit(sizeLimit),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
	)

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", r.metrics.Handler())

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Health.RegisterRoutes(api)

	// Catalog routes resolve an optional bearer token; each operation decides
	// whether it needs one.
	catalog := api.Group("")
	catalog.Use(r.auth.Authenticate(), middleware.Cache(middleware.DefaultCacheConfig()))
	r.handlers.Categories.RegisterRoutes(catalog)
	r.handlers.Services.RegisterRoutes(catalog)
	r.handlers.Inquiries.RegisterRoutes(catalog)
	r.handlers.Testimonials.RegisterRoutes(catalog)

	staff := api.Group("")
	staff.Use(r.auth.Authenticate(), r.auth.RequireStaff())
	r.handlers.Admin.RegisterRoutes(staff)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
