package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jwalitptl/legal-services-api/internal/app"
	"github.com/jwalitptl/legal-services-api/internal/config"
	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	"github.com/jwalitptl/legal-services-api/pkg/logger"
	"github.com/jwalitptl/legal-services-api/pkg/messaging"
)

// env is what every command needs: configuration, an open store and the
// services built on it.
type env struct {
	cfg      *config.Config
	store    *repository.Store
	services *app.Services
	close    func() error
}

func loadEnv(c *cli.Context) (*env, error) {
	cfg, err := config.LoadConfig(c.StringSlice("config-path")...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stderr,
		Pretty:     true,
	})
	logger.SetGlobal(log)

	store, closeStore, err := app.OpenStore(cfg.Database)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:      cfg,
		store:    store,
		services: app.NewServices(store, cfg.Cache, messaging.NoopPublisher{}, nil, log),
		close:    closeStore,
	}, nil
}

// actor loads the user a command acts on behalf of.
func (e *env) actor(ctx context.Context, userID int64) (*model.Actor, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("--user is required")
	}
	user, err := e.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return user.Actor(), nil
}
