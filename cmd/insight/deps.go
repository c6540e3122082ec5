package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kmargell/insight-core/internal/domain/events"
	"github.com/kmargell/insight-core/internal/domain/ports"
	"github.com/kmargell/insight-core/internal/domain/services"
	"github.com/kmargell/insight-core/internal/infrastructure/config"
	"github.com/kmargell/insight-core/internal/infrastructure/store/sqlite"
)

// Deps holds the services commands operate on. The store and logger are
// wired underneath and cleaned up by withDeps.
type Deps struct {
	Config        *config.Config
	Logger        *zap.Logger
	Bus           *events.Bus
	Insights      *services.InsightService
	Categories    *services.CategoryService
	Relationships *services.RelationshipService
	Settings      *services.SettingService
}

// internalDeps adds the low-level components for commands that need direct
// store access.
type internalDeps struct {
	Deps
	store *sqlite.Repository
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including the store.
func withInternalDeps(fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.DBPath(cwd)})
	if err != nil {
		return fmt.Errorf("creating sqlite store: %w", err)
	}
	defer store.Close()

	if err := store.Init(context.Background()); err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}

	bus := events.NewBus()

	deps := &internalDeps{
		Deps: Deps{
			Config:        cfg,
			Logger:        logger,
			Bus:           bus,
			Insights:      services.NewInsightService(store, bus, logger),
			Categories:    services.NewCategoryService(store, bus, logger),
			Relationships: services.NewRelationshipService(store, bus, logger),
			Settings:      services.NewSettingService(store, bus, logger),
		},
		store: store,
	}

	return fn(deps)
}

// withStore provides direct store access for commands that need it.
func withStore(fn func(ports.Store) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(d.store)
	})
}
