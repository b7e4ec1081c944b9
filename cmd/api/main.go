package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/legal-services-api/internal/app"
	"github.com/jwalitptl/legal-services-api/internal/config"
	"github.com/jwalitptl/legal-services-api/internal/handler/prometheus"
	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	"github.com/jwalitptl/legal-services-api/pkg/auth"
	"github.com/jwalitptl/legal-services-api/pkg/logger"
	"github.com/jwalitptl/legal-services-api/pkg/messaging"
	"github.com/jwalitptl/legal-services-api/pkg/messaging/redis"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})
	logger.SetGlobal(appLogger)

	// Initialize store
	store, closeStore, err := app.OpenStore(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer closeStore()

	tokens := app.NewTokenManager(cfg.JWT)
	if cfg.Database.Driver == "memory" {
		seedDevelopmentUser(store, tokens)
	}

	prom := prometheus.New(app.MetricsNamespace)

	// Inquiry notifications are optional
	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if cfg.Redis.URL != "" {
		broker, err := redis.NewRedisBroker(redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, appLogger.Zerolog())
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, inquiry notifications disabled")
		} else {
			defer broker.Close()
			publisher = messaging.NewChannelPublisher(broker, cfg.Redis.Channel)
		}
	}
	publisher = messaging.Instrument(publisher, prom.Metrics().NotificationsPublished)

	services := app.NewServices(store, cfg.Cache, publisher, prom.Metrics(), appLogger)
	r := app.NewRouter(cfg, services, tokens, store.Health, prom)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

// seedDevelopmentUser creates a staff account in the in-memory store, which
// otherwise has no way to obtain users, and logs a token for it.
func seedDevelopmentUser(store *repository.Store, tokens auth.JWTService) {
	user := &model.User{Username: "admin", Email: "admin@example.com", IsStaff: true}
	if err := store.Users.Create(context.Background(), user); err != nil {
		log.Fatal().Err(err).Msg("failed to seed development user")
	}
	token, err := tokens.GenerateAccessToken(user.Actor())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to issue development token")
	}
	log.Warn().
		Int64("user_id", user.ID).
		Str("token", token).
		Msg("memory store: seeded staff user admin")
}
