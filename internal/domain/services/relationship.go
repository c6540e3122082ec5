package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kmargell/insight-core/internal/domain/entities"
	"github.com/kmargell/insight-core/internal/domain/events"
	"github.com/kmargell/insight-core/internal/domain/ports"
)

// DefaultStrength is used when a relationship is created without an
// explicit strength.
const DefaultStrength = 1.0

// RelationshipService manages the directed, typed, weighted edges between
// insight IDs. It validates endpoint existence at creation time only; the
// cascade on insight delete keeps the graph free of dangling edges after
// that.
type RelationshipService struct {
	store  ports.Store
	bus    *events.Bus
	logger *zap.Logger
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(store ports.Store, bus *events.Bus, logger *zap.Logger) *RelationshipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelationshipService{store: store, bus: bus, logger: logger}
}

// Create stores a directed edge from sourceID to targetID. Both endpoints
// must reference existing insights; strength is clamped to [0, 1].
func (s *RelationshipService) Create(ctx context.Context, sourceID, targetID, relType, description string, strength float64) (*entities.Relationship, error) {
	if err := s.checkEndpoints(ctx, sourceID, targetID); err != nil {
		return nil, err
	}

	rel := s.newRelationship(sourceID, targetID, relType, description, strength)
	if err := s.store.SaveRelationship(ctx, rel); err != nil {
		return nil, fmt.Errorf("saving relationship: %w", err)
	}
	if err := s.store.LogChange(ctx, "relationship.create", rel.ID, map[string]any{"type": relType}); err != nil {
		s.logger.Warn("change log write failed", zap.String("relationship_id", rel.ID), zap.Error(err))
	}

	s.publish(events.OpCreate, rel.ID)
	return rel, nil
}

// CreateBidirectional stores the forward and reverse edge as a pair. When
// the store cannot complete the pair it returns *entities.PartialPairError
// naming the surviving edge; callers may retry or delete the stray edge.
func (s *RelationshipService) CreateBidirectional(ctx context.Context, a, b, relType, description string, strength float64) (*entities.Relationship, *entities.Relationship, error) {
	if err := s.checkEndpoints(ctx, a, b); err != nil {
		return nil, nil, err
	}

	forward := s.newRelationship(a, b, relType, description, strength)
	reverse := forward.Reverse(uuid.New().String())

	if err := s.store.SaveRelationshipPair(ctx, forward, &reverse); err != nil {
		return nil, nil, err
	}
	if err := s.store.LogChange(ctx, "relationship.create", forward.ID, map[string]any{"type": relType, "pair": reverse.ID}); err != nil {
		s.logger.Warn("change log write failed", zap.String("relationship_id", forward.ID), zap.Error(err))
	}

	s.logger.Info("bidirectional relationship created",
		zap.String("forward", forward.ID), zap.String("reverse", reverse.ID), zap.String("type", relType))
	s.publish(events.OpCreate, forward.ID)
	s.publish(events.OpCreate, reverse.ID)
	return forward, &reverse, nil
}

// Delete removes a relationship by ID.
func (s *RelationshipService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteRelationship(ctx, id); err != nil {
		return err
	}
	if err := s.store.LogChange(ctx, "relationship.delete", id, nil); err != nil {
		s.logger.Warn("change log write failed", zap.String("relationship_id", id), zap.Error(err))
	}
	s.publish(events.OpDelete, id)
	return nil
}

// Get returns the relationship or nil when absent.
func (s *RelationshipService) Get(ctx context.Context, id string) (*entities.Relationship, error) {
	return s.store.FindRelationshipByID(ctx, id)
}

// ListAll returns every relationship in the store.
func (s *RelationshipService) ListAll(ctx context.Context) ([]entities.Relationship, error) {
	return s.store.ListRelationships(ctx)
}

// ListForInsight returns relationships where the insight appears as source
// or target.
func (s *RelationshipService) ListForInsight(ctx context.Context, insightID string) ([]entities.Relationship, error) {
	return s.store.FindRelationshipsByInsight(ctx, insightID)
}

// StrengthBetween returns the strength of the directed edge from a to b, or
// 0.0 when no such edge exists. Absence is not an error.
func (s *RelationshipService) StrengthBetween(ctx context.Context, a, b string) (float64, error) {
	rel, err := s.store.FindRelationshipBetween(ctx, a, b)
	if err != nil {
		return 0, fmt.Errorf("finding relationship: %w", err)
	}
	if rel == nil {
		return 0, nil
	}
	return rel.Strength, nil
}

// Count returns the total number of relationships.
func (s *RelationshipService) Count(ctx context.Context) (int, error) {
	return s.store.CountRelationships(ctx)
}

func (s *RelationshipService) newRelationship(sourceID, targetID, relType, description string, strength float64) *entities.Relationship {
	return &entities.Relationship{
		ID:          uuid.New().String(),
		SourceID:    sourceID,
		TargetID:    targetID,
		Type:        relType,
		Description: description,
		Strength:    entities.ClampStrength(strength),
		CreatedAt:   timeNow(),
	}
}

func (s *RelationshipService) checkEndpoints(ctx context.Context, sourceID, targetID string) error {
	src, err := s.store.FindInsightByID(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("checking source insight: %w", err)
	}
	if src == nil {
		return fmt.Errorf("source insight %s: %w", sourceID, entities.ErrNotFound)
	}
	tgt, err := s.store.FindInsightByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("checking target insight: %w", err)
	}
	if tgt == nil {
		return fmt.Errorf("target insight %s: %w", targetID, entities.ErrNotFound)
	}
	return nil
}

func (s *RelationshipService) publish(op events.Op, id string) {
	if s.bus != nil {
		s.bus.Publish(events.EntityChanged{Kind: events.KindRelationship, Op: op, ID: id})
	}
}
