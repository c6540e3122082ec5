package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmargell/insight-core/internal/domain/entities"
)

// Deleting an insight must take every relationship touching it along, in
// both directions, leaving no dangling edges.
func TestDeleteInsightCascadesRelationships(t *testing.T) {
	d := setupDeps(t)
	ctx := context.Background()

	a, err := d.insights.Create(ctx, "Note A", "", nil, nil)
	require.NoError(t, err)
	b, err := d.insights.Create(ctx, "Note B", "", nil, nil)
	require.NoError(t, err)
	c, err := d.insights.Create(ctx, "Note C", "", nil, nil)
	require.NoError(t, err)

	_, err = d.relationships.Create(ctx, a.ID, b.ID, "supports", "", 0.8)
	require.NoError(t, err)
	_, err = d.relationships.Create(ctx, b.ID, a.ID, "supports", "", 0.8)
	require.NoError(t, err)
	_, err = d.relationships.Create(ctx, b.ID, c.ID, "relates", "", 1.0)
	require.NoError(t, err)

	require.NoError(t, d.insights.Delete(ctx, a.ID))

	gone, err := d.insights.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	remaining, err := d.relationships.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID, remaining[0].SourceID)
	assert.Equal(t, c.ID, remaining[0].TargetID)

	// The cascade is recorded in the change log.
	changes, err := d.store.FindChanges(ctx, a.ID)
	require.NoError(t, err)
	require.NotEmpty(t, changes)
	assert.Equal(t, "insight.delete", changes[0].Action)
}

func TestCategoryNamesAreUniqueCaseInsensitive(t *testing.T) {
	d := setupDeps(t)
	ctx := context.Background()

	// Work is seeded by Init.
	_, err := d.categories.Create(ctx, "WORK", "#000000", "x")
	var dup *entities.DuplicateNameError
	require.ErrorAs(t, err, &dup)

	work, err := d.categories.FindByName(ctx, "wOrK")
	require.NoError(t, err)
	require.NotNil(t, work)
	assert.Equal(t, "Work", work.Name)
}

func TestDeleteCategoryDetachesInsights(t *testing.T) {
	d := setupDeps(t)
	ctx := context.Background()

	cat, err := d.categories.Create(ctx, "Research", "#673AB7", "flask")
	require.NoError(t, err)

	ins, err := d.insights.Create(ctx, "Paper notes", "", nil, &cat.ID)
	require.NoError(t, err)

	require.NoError(t, d.categories.Delete(ctx, cat.ID))

	kept, err := d.insights.Get(ctx, ins.ID)
	require.NoError(t, err)
	require.NotNil(t, kept, "insights survive category deletion")
	assert.Nil(t, kept.CategoryID)
}

func TestBidirectionalPairSurvivesReload(t *testing.T) {
	d := setupDeps(t)
	ctx := context.Background()

	a, err := d.insights.Create(ctx, "A", "", nil, nil)
	require.NoError(t, err)
	b, err := d.insights.Create(ctx, "B", "", nil, nil)
	require.NoError(t, err)

	forward, reverse, err := d.relationships.CreateBidirectional(ctx, a.ID, b.ID, "relates", "", 0.5)
	require.NoError(t, err)

	got, err := d.relationships.StrengthBetween(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)

	got, err = d.relationships.StrengthBetween(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)

	require.NoError(t, d.relationships.Delete(ctx, forward.ID))

	// The reverse edge is independent and stays.
	still, err := d.relationships.Get(ctx, reverse.ID)
	require.NoError(t, err)
	require.NotNil(t, still)
}
