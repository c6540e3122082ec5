package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmargell/insight-core/internal/domain/entities"
	"github.com/kmargell/insight-core/internal/domain/mocks"
)

func setupRelationshipService(t *testing.T) (*mocks.Store, *RelationshipService) {
	t.Helper()
	store := mocks.NewStore()
	store.Insights["a"] = &entities.Insight{ID: "a", Title: "A"}
	store.Insights["b"] = &entities.Insight{ID: "b", Title: "B"}
	return store, NewRelationshipService(store, nil, nil)
}

func TestRelationshipService_Create(t *testing.T) {
	store, svc := setupRelationshipService(t)
	ctx := context.Background()

	rel, err := svc.Create(ctx, "a", "b", "supports", "why not", 0.7)
	require.NoError(t, err)
	assert.NotEmpty(t, rel.ID)
	assert.Equal(t, 0.7, rel.Strength)
	assert.Contains(t, store.Relationships, rel.ID)

	t.Run("strength is clamped", func(t *testing.T) {
		high, err := svc.Create(ctx, "b", "a", "contradicts", "", 3.5)
		require.NoError(t, err)
		assert.Equal(t, 1.0, high.Strength)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		_, err := svc.Create(ctx, "a", "missing", "relates", "", 1)
		assert.ErrorIs(t, err, entities.ErrNotFound)

		_, err = svc.Create(ctx, "missing", "b", "relates", "", 1)
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestRelationshipService_CreateBidirectional(t *testing.T) {
	store, svc := setupRelationshipService(t)
	ctx := context.Background()

	forward, reverse, err := svc.CreateBidirectional(ctx, "a", "b", "relates", "", 1)
	require.NoError(t, err)

	assert.Equal(t, "a", forward.SourceID)
	assert.Equal(t, "b", forward.TargetID)
	assert.Equal(t, "b", reverse.SourceID)
	assert.Equal(t, "a", reverse.TargetID)
	assert.Equal(t, forward.Type, reverse.Type)
	assert.NotEqual(t, forward.ID, reverse.ID)
	assert.Len(t, store.Relationships, 2)
}

func TestRelationshipService_PartialPair(t *testing.T) {
	store, svc := setupRelationshipService(t)
	ctx := context.Background()

	store.PairErr = errors.New("write failed")
	_, _, err := svc.CreateBidirectional(ctx, "a", "b", "relates", "", 1)

	var partial *entities.PartialPairError
	require.ErrorAs(t, err, &partial)
	assert.Contains(t, store.Relationships, partial.SurvivingID,
		"surviving edge id lets the caller clean up or retry")
	assert.Len(t, store.Relationships, 1)
}

func TestRelationshipService_StrengthBetween(t *testing.T) {
	_, svc := setupRelationshipService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "a", "b", "supports", "", 0.4)
	require.NoError(t, err)

	got, err := svc.StrengthBetween(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 0.4, got)

	// Absence is 0.0, not an error; direction matters.
	got, err = svc.StrengthBetween(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestRelationshipService_ListForInsight(t *testing.T) {
	store, svc := setupRelationshipService(t)
	ctx := context.Background()
	store.Insights["c"] = &entities.Insight{ID: "c", Title: "C"}

	_, err := svc.Create(ctx, "a", "b", "relates", "", 1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "c", "a", "relates", "", 1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "b", "c", "relates", "", 1)
	require.NoError(t, err)

	forA, err := svc.ListForInsight(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, forA, 2, "matches source or target")

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRelationshipService_Delete(t *testing.T) {
	_, svc := setupRelationshipService(t)
	ctx := context.Background()

	rel, err := svc.Create(ctx, "a", "b", "relates", "", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rel.ID))
	err = svc.Delete(ctx, rel.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
