package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmargell/insight-core/internal/domain/entities"
	"github.com/kmargell/insight-core/internal/infrastructure/config"
	"github.com/kmargell/insight-core/internal/infrastructure/store/sqlite"
)

func TestInitSeedsDefaultCategoriesOnce(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, store.Init(ctx))

	cats, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, len(entities.DefaultCategories))

	names := make(map[string]bool, len(cats))
	for _, cat := range cats {
		names[cat.Name] = true
	}
	for _, want := range entities.DefaultCategoryNames() {
		assert.True(t, names[want], "missing default category %s", want)
	}

	require.NoError(t, store.Close())

	// Reopening the same database must not seed again, even after a user
	// deleted a default.
	store, err = sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Init(ctx))

	require.NoError(t, store.DeleteCategoryDetach(ctx, cats[0].ID))
	require.NoError(t, store.Close())

	store, err = sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Init(ctx))

	count, err := store.CountCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(entities.DefaultCategories)-1, count)
}

func TestDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, store.Init(ctx))

	ins := &entities.Insight{ID: "i-1", Title: "Persistent", Tags: []string{"a", "b"}}
	require.NoError(t, store.SaveInsight(ctx, ins))
	require.NoError(t, store.Close())

	store, err = sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Init(ctx))

	got, err := store.FindInsightByID(ctx, "i-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Persistent", got.Title)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
}
