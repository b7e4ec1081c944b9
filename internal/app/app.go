// Package app assembles the catalog services and HTTP router from a store and
// configuration. The api server, the admin CLI and the router tests share it.
package app

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/legal-services-api/internal/config"
	adminHandler "github.com/jwalitptl/legal-services-api/internal/handler/admin"
	catalogHandler "github.com/jwalitptl/legal-services-api/internal/handler/catalog"
	categoryHandler "github.com/jwalitptl/legal-services-api/internal/handler/category"
	"github.com/jwalitptl/legal-services-api/internal/handler/health"
	inquiryHandler "github.com/jwalitptl/legal-services-api/internal/handler/inquiry"
	"github.com/jwalitptl/legal-services-api/internal/handler/prometheus"
	testimonialHandler "github.com/jwalitptl/legal-services-api/internal/handler/testimonial"
	"github.com/jwalitptl/legal-services-api/internal/middleware"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	"github.com/jwalitptl/legal-services-api/internal/repository/memory"
	"github.com/jwalitptl/legal-services-api/internal/repository/postgres"
	"github.com/jwalitptl/legal-services-api/internal/router"
	catalogService "github.com/jwalitptl/legal-services-api/internal/service/catalog"
	categoryService "github.com/jwalitptl/legal-services-api/internal/service/category"
	inquiryService "github.com/jwalitptl/legal-services-api/internal/service/inquiry"
	"github.com/jwalitptl/legal-services-api/internal/service/spreadsheet"
	testimonialService "github.com/jwalitptl/legal-services-api/internal/service/testimonial"
	"github.com/jwalitptl/legal-services-api/pkg/auth"
	"github.com/jwalitptl/legal-services-api/pkg/logger"
	"github.com/jwalitptl/legal-services-api/pkg/messaging"
	"github.com/jwalitptl/legal-services-api/pkg/metrics"
	"github.com/jwalitptl/legal-services-api/pkg/validator"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "catalog"

// OpenStore connects the configured backend. The returned close func is never
// nil.
func OpenStore(cfg config.DatabaseConfig) (*repository.Store, func() error, error) {
	switch cfg.Driver {
	case "memory":
		return memory.NewStore(), func() error { return nil }, nil
	case "postgres":
		db, err := postgres.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewStore(db), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Services holds one instance of every catalog service.
type Services struct {
	Categories   *categoryService.Service
	Catalog      *catalogService.Service
	Inquiries    *inquiryService.Service
	Testimonials *testimonialService.Service
	Spreadsheet  *spreadsheet.Codec
}

// NewServices wires the services against store. The featured-list cache is
// shared so category writes also invalidate cached service lists.
func NewServices(store *repository.Store, cacheCfg config.CacheConfig, publisher messaging.Publisher, m *metrics.Metrics, log *logger.Logger) *Services {
	if log == nil {
		log = logger.Nop()
	}

	v := validator.New()
	cache := gocache.New(cacheCfg.TTL, cacheCfg.CleanupInterval)

	categories := categoryService.NewService(store.Categories, v, cache)
	catalog := catalogService.NewService(store, v, cache)

	return &Services{
		Categories:   categories,
		Catalog:      catalog,
		Inquiries:    inquiryService.NewService(store, v, publisher, log.WithFields(map[string]interface{}{"component": "inquiry"})),
		Testimonials: testimonialService.NewService(store.Testimonials, store.Services, v, cache),
		Spreadsheet:  spreadsheet.NewCodec(categories, catalog, m, log.WithFields(map[string]interface{}{"component": "spreadsheet"})),
	}
}

// NewTokenManager builds the bearer token issuer and validator from config.
func NewTokenManager(cfg config.JWTConfig) *auth.TokenManager {
	return auth.NewTokenManager(cfg.Secret, cfg.Issuer, cfg.TokenTTL())
}

// NewRouter mounts every HTTP handler.
func NewRouter(cfg *config.Config, services *Services, tokens auth.JWTService, pinger repository.Pinger, prom *prometheus.Handler) *router.Router {
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RateLimit.InquiryRPS),
		Burst: cfg.RateLimit.InquiryBurst,
	})

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}

	r := router.NewRouter(
		middleware.NewAuthMiddleware(tokens),
		router.Handlers{
			Health:       health.NewHandler(pinger),
			Categories:   categoryHandler.NewHandler(services.Categories),
			Services:     catalogHandler.NewHandler(services.Catalog),
			Inquiries:    inquiryHandler.NewHandler(services.Inquiries, limiter.RateLimit()),
			Testimonials: testimonialHandler.NewHandler(services.Testimonials),
			Admin:        adminHandler.NewHandler(services.Spreadsheet),
		},
		prom,
		router.RouterConfig{
			Mode:          strings.ToLower(cfg.Server.Mode),
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			MaxUploadSize: cfg.Server.MaxUploadMB << 20,
			CORSConfig:    corsConfig,
		},
	)
	r.Setup()
	return r
}
