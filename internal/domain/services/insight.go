// Package services implements the domain operations on top of the Store
// port: insight CRUD with relationship cascade, the category registry, the
// relationship graph and settings access.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kmargell/insight-core/internal/domain/entities"
	"github.com/kmargell/insight-core/internal/domain/events"
	"github.com/kmargell/insight-core/internal/domain/ports"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// InsightService manages insight CRUD and owns the cascading-delete rule:
// deleting an insight removes every relationship that references it.
type InsightService struct {
	store  ports.Store
	bus    *events.Bus
	logger *zap.Logger

	// Serializes read-then-write sequences on the insight collection so the
	// cascade invariant cannot interleave with concurrent mutation.
	mu sync.Mutex
}

// NewInsightService creates a new InsightService.
func NewInsightService(store ports.Store, bus *events.Bus, logger *zap.Logger) *InsightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightService{store: store, bus: bus, logger: logger}
}

// Create stores a new insight with a generated ID and creation timestamp.
func (s *InsightService) Create(ctx context.Context, title, content string, tags []string, categoryID *string) (*entities.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ins := &entities.Insight{
		ID:         uuid.New().String(),
		Title:      title,
		Content:    content,
		Tags:       tags,
		CategoryID: categoryID,
		CreatedAt:  timeNow(),
	}

	if err := s.store.SaveInsight(ctx, ins); err != nil {
		return nil, fmt.Errorf("saving insight: %w", err)
	}
	if err := s.store.LogChange(ctx, "insight.create", ins.ID, map[string]any{"title": ins.Title}); err != nil {
		s.logger.Warn("change log write failed", zap.String("insight_id", ins.ID), zap.Error(err))
	}

	s.logger.Info("insight created", zap.String("id", ins.ID), zap.String("title", ins.Title))
	s.publish(events.OpCreate, ins.ID)
	return ins, nil
}

// Update rewrites an existing insight and stamps UpdatedAt. Returns
// entities.ErrNotFound when the insight does not exist.
func (s *InsightService) Update(ctx context.Context, ins *entities.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.FindInsightByID(ctx, ins.ID)
	if err != nil {
		return fmt.Errorf("finding insight: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("insight %s: %w", ins.ID, entities.ErrNotFound)
	}

	now := timeNow()
	ins.CreatedAt = existing.CreatedAt
	ins.UpdatedAt = &now

	if err := s.store.SaveInsight(ctx, ins); err != nil {
		return fmt.Errorf("saving insight: %w", err)
	}
	if err := s.store.LogChange(ctx, "insight.update", ins.ID, nil); err != nil {
		s.logger.Warn("change log write failed", zap.String("insight_id", ins.ID), zap.Error(err))
	}

	s.publish(events.OpUpdate, ins.ID)
	return nil
}

// Delete removes the insight and every relationship where it appears as
// source or target, as one invariant-preserving operation. A cascade that
// cannot complete surfaces as *entities.CascadeError and leaves the store
// in its pre-delete state.
func (s *InsightService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Collected first so each removed relationship gets its own event.
	rels, err := s.store.FindRelationshipsByInsight(ctx, id)
	if err != nil {
		return fmt.Errorf("finding relationships: %w", err)
	}

	if err := s.store.DeleteInsightCascade(ctx, id); err != nil {
		return err
	}
	if err := s.store.LogChange(ctx, "insight.delete", id, map[string]any{"cascaded": len(rels)}); err != nil {
		s.logger.Warn("change log write failed", zap.String("insight_id", id), zap.Error(err))
	}

	s.logger.Info("insight deleted", zap.String("id", id), zap.Int("cascaded_relationships", len(rels)))
	for _, rel := range rels {
		if s.bus != nil {
			s.bus.Publish(events.EntityChanged{Kind: events.KindRelationship, Op: events.OpDelete, ID: rel.ID})
		}
	}
	s.publish(events.OpDelete, id)
	return nil
}

// Get returns the insight or nil when absent.
func (s *InsightService) Get(ctx context.Context, id string) (*entities.Insight, error) {
	return s.store.FindInsightByID(ctx, id)
}

// List returns all insights. No order is implied; callers sort as needed.
func (s *InsightService) List(ctx context.Context) ([]*entities.Insight, error) {
	return s.store.ListInsights(ctx)
}

// Search matches insights by title, content or tag, case-insensitively.
func (s *InsightService) Search(ctx context.Context, query string, limit int) ([]*entities.Insight, error) {
	return s.store.SearchInsights(ctx, query, limit)
}

// Count returns the number of stored insights.
func (s *InsightService) Count(ctx context.Context) (int, error) {
	return s.store.CountInsights(ctx)
}

func (s *InsightService) publish(op events.Op, id string) {
	if s.bus != nil {
		s.bus.Publish(events.EntityChanged{Kind: events.KindInsight, Op: op, ID: id})
	}
}
