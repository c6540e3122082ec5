package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kmargell/insight-core/internal/domain/entities"
	"github.com/kmargell/insight-core/internal/domain/events"
	"github.com/kmargell/insight-core/internal/domain/ports"
)

// CategoryService is the category registry. It enforces case-insensitive
// name uniqueness and the detach-before-delete ordering: every insight
// referencing a category is rewritten with a null category before the
// category record is removed.
type CategoryService struct {
	store  ports.Store
	bus    *events.Bus
	logger *zap.Logger

	// Serializes the duplicate-name check-then-write so two concurrent
	// creates cannot both pass the check.
	mu sync.Mutex
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(store ports.Store, bus *events.Bus, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{store: store, bus: bus, logger: logger}
}

// Create stores a new category. Returns *entities.DuplicateNameError when
// the name collides case-insensitively with an existing category.
func (s *CategoryService) Create(ctx context.Context, name, color, icon string) (*entities.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.FindCategoryByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking category name: %w", err)
	}
	if existing != nil {
		return nil, &entities.DuplicateNameError{Name: name, ExistingID: existing.ID}
	}

	cat := &entities.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     color,
		Icon:      icon,
		CreatedAt: timeNow(),
	}
	if err := s.store.SaveCategory(ctx, cat); err != nil {
		return nil, fmt.Errorf("saving category: %w", err)
	}
	if err := s.store.LogChange(ctx, "category.create", cat.ID, map[string]any{"name": cat.Name}); err != nil {
		s.logger.Warn("change log write failed", zap.String("category_id", cat.ID), zap.Error(err))
	}

	s.logger.Info("category created", zap.String("id", cat.ID), zap.String("name", cat.Name))
	s.publish(events.OpCreate, cat.ID)
	return cat, nil
}

// Update rewrites an existing category. The duplicate-name check excludes
// the category's own ID, so renaming only the casing is allowed.
func (s *CategoryService) Update(ctx context.Context, cat *entities.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.FindCategoryByID(ctx, cat.ID)
	if err != nil {
		return fmt.Errorf("finding category: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("category %s: %w", cat.ID, entities.ErrNotFound)
	}

	byName, err := s.store.FindCategoryByName(ctx, cat.Name)
	if err != nil {
		return fmt.Errorf("checking category name: %w", err)
	}
	if byName != nil && byName.ID != cat.ID {
		return &entities.DuplicateNameError{Name: cat.Name, ExistingID: byName.ID}
	}

	cat.CreatedAt = existing.CreatedAt
	if err := s.store.SaveCategory(ctx, cat); err != nil {
		return fmt.Errorf("saving category: %w", err)
	}
	if err := s.store.LogChange(ctx, "category.update", cat.ID, nil); err != nil {
		s.logger.Warn("change log write failed", zap.String("category_id", cat.ID), zap.Error(err))
	}

	s.publish(events.OpUpdate, cat.ID)
	return nil
}

// Delete detaches every referencing insight, then removes the category. The
// two steps are a single logical transaction: a failure partway surfaces as
// *entities.CascadeError with the store unchanged.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Collected first so each detached insight gets an update event.
	detached, err := s.referencingInsights(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteCategoryDetach(ctx, id); err != nil {
		return err
	}
	if err := s.store.LogChange(ctx, "category.delete", id, map[string]any{"detached": len(detached)}); err != nil {
		s.logger.Warn("change log write failed", zap.String("category_id", id), zap.Error(err))
	}

	s.logger.Info("category deleted", zap.String("id", id), zap.Int("detached_insights", len(detached)))
	for _, insID := range detached {
		if s.bus != nil {
			s.bus.Publish(events.EntityChanged{Kind: events.KindInsight, Op: events.OpUpdate, ID: insID})
		}
	}
	s.publish(events.OpDelete, id)
	return nil
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]*entities.Category, error) {
	return s.store.ListCategories(ctx)
}

// FindByID returns the category, or nil when id is empty or unknown.
func (s *CategoryService) FindByID(ctx context.Context, id string) (*entities.Category, error) {
	if id == "" {
		return nil, nil
	}
	return s.store.FindCategoryByID(ctx, id)
}

// FindByName returns the category matching the name case-insensitively, or
// nil when absent.
func (s *CategoryService) FindByName(ctx context.Context, name string) (*entities.Category, error) {
	return s.store.FindCategoryByName(ctx, name)
}

func (s *CategoryService) referencingInsights(ctx context.Context, categoryID string) ([]string, error) {
	all, err := s.store.ListInsights(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing insights: %w", err)
	}
	ids := make([]string, 0, 8)
	for _, ins := range all {
		if ins.CategoryID != nil && *ins.CategoryID == categoryID {
			ids = append(ids, ins.ID)
		}
	}
	return ids, nil
}

func (s *CategoryService) publish(op events.Op, id string) {
	if s.bus != nil {
		s.bus.Publish(events.EntityChanged{Kind: events.KindCategory, Op: op, ID: id})
	}
}
