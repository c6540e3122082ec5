package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmargell/insight-core/internal/domain/events"
	"github.com/kmargell/insight-core/internal/domain/services"
	"github.com/kmargell/insight-core/internal/infrastructure/config"
	"github.com/kmargell/insight-core/internal/infrastructure/store/sqlite"
)

// testDeps wires the full service stack over a real SQLite database.
type testDeps struct {
	store         *sqlite.Repository
	bus           *events.Bus
	insights      *services.InsightService
	categories    *services.CategoryService
	relationships *services.RelationshipService
	settings      *services.SettingService
}

// setupDeps creates an initialized store in a temp directory and the
// services on top of it.
func setupDeps(t *testing.T) *testDeps {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Init(context.Background()))

	bus := events.NewBus()
	return &testDeps{
		store:         store,
		bus:           bus,
		insights:      services.NewInsightService(store, bus, nil),
		categories:    services.NewCategoryService(store, bus, nil),
		relationships: services.NewRelationshipService(store, bus, nil),
		settings:      services.NewSettingService(store, bus, nil),
	}
}
