package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmargell/insight-core/internal/domain/entities"
	"github.com/kmargell/insight-core/internal/domain/events"
	"github.com/kmargell/insight-core/internal/domain/mocks"
)

func TestInsightService_Create(t *testing.T) {
	store := mocks.NewStore()
	bus := events.NewBus()
	svc := NewInsightService(store, bus, nil)

	ch, cancel := bus.Subscribe(4, events.KindInsight)
	defer cancel()

	catID := "cat-1"
	ins, err := svc.Create(context.Background(), "Title", "Content", []string{"go", "notes"}, &catID)
	require.NoError(t, err)
	assert.NotEmpty(t, ins.ID)
	assert.False(t, ins.CreatedAt.IsZero())
	assert.Nil(t, ins.UpdatedAt)

	stored := store.Insights[ins.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "Title", stored.Title)
	require.NotNil(t, stored.CategoryID)
	assert.Equal(t, "cat-1", *stored.CategoryID)

	ev := <-ch
	assert.Equal(t, events.OpCreate, ev.Op)
	assert.Equal(t, ins.ID, ev.ID)

	require.Len(t, store.Changes, 1)
	assert.Equal(t, "insight.create", store.Changes[0].Action)
}

func TestInsightService_Update(t *testing.T) {
	store := mocks.NewStore()
	svc := NewInsightService(store, nil, nil)
	ctx := context.Background()

	ins, err := svc.Create(ctx, "Before", "c", nil, nil)
	require.NoError(t, err)

	ins.Title = "After"
	require.NoError(t, svc.Update(ctx, ins))
	assert.NotNil(t, ins.UpdatedAt)
	assert.Equal(t, "After", store.Insights[ins.ID].Title)

	t.Run("missing insight", func(t *testing.T) {
		err := svc.Update(ctx, &entities.Insight{ID: "missing"})
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestInsightService_DeleteCascades(t *testing.T) {
	store := mocks.NewStore()
	bus := events.NewBus()
	svc := NewInsightService(store, bus, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, "Note1", "", nil, nil)
	require.NoError(t, err)
	b, err := svc.Create(ctx, "Note2", "", nil, nil)
	require.NoError(t, err)

	store.Relationships["r-1"] = &entities.Relationship{ID: "r-1", SourceID: a.ID, TargetID: b.ID}
	store.Relationships["r-2"] = &entities.Relationship{ID: "r-2", SourceID: b.ID, TargetID: a.ID}

	ch, cancel := bus.Subscribe(8)
	defer cancel()

	require.NoError(t, svc.Delete(ctx, a.ID))

	assert.NotContains(t, store.Insights, a.ID)
	assert.Empty(t, store.Relationships, "cascade removes edges in both directions")

	// Two relationship deletes plus the insight delete.
	var relDeletes, insDeletes int
	for i := 0; i < 3; i++ {
		ev := <-ch
		switch ev.Kind {
		case events.KindRelationship:
			relDeletes++
		case events.KindInsight:
			insDeletes++
		}
	}
	assert.Equal(t, 2, relDeletes)
	assert.Equal(t, 1, insDeletes)
}

func TestInsightService_DeleteCascadeFailure(t *testing.T) {
	store := mocks.NewStore()
	svc := NewInsightService(store, nil, nil)
	ctx := context.Background()

	ins, err := svc.Create(ctx, "Note", "", nil, nil)
	require.NoError(t, err)
	store.Relationships["r-1"] = &entities.Relationship{ID: "r-1", SourceID: ins.ID, TargetID: "other"}

	store.CascadeErr = errors.New("disk full")
	err = svc.Delete(ctx, ins.ID)

	var cascadeErr *entities.CascadeError
	require.ErrorAs(t, err, &cascadeErr)
	assert.Equal(t, ins.ID, cascadeErr.ID)

	// Nothing was deleted: no dangling state.
	assert.Contains(t, store.Insights, ins.ID)
	assert.Contains(t, store.Relationships, "r-1")
}

func TestInsightService_SearchAndList(t *testing.T) {
	store := mocks.NewStore()
	svc := NewInsightService(store, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Go concurrency", "channels and goroutines", []string{"golang"}, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Shopping", "milk", nil, nil)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := svc.Search(ctx, "golang", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Go concurrency", found[0].Title)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
