// Package ports defines the interfaces between the domain services and the
// infrastructure implementations.
package ports

import (
	"context"

	"github.com/kmargell/insight-core/internal/domain/entities"
)

// Store is the persistence boundary: four durable collections (insights,
// relationships, categories, settings) keyed by entity ID, plus the change
// log. All operations fail with entities.ErrNotInitialized until Init has
// succeeded.
//
// Composite operations (DeleteInsightCascade, DeleteCategoryDetach,
// SaveRelationshipPair) must be atomic: either every step applies or none
// does. Implementations without a transaction primitive must compensate on
// partial failure and surface it instead of leaving state inconsistent.
type Store interface {
	// Init opens the collections, creates missing schema and seeds the
	// default categories when the category collection is empty. Failure is
	// fatal: the store stays unusable.
	Init(ctx context.Context) error

	// Close releases the underlying resources.
	Close() error

	// Insight operations

	// SaveInsight inserts or updates an insight.
	SaveInsight(ctx context.Context, ins *entities.Insight) error

	// FindInsightByID returns the insight or nil when absent.
	FindInsightByID(ctx context.Context, id string) (*entities.Insight, error)

	// ListInsights returns all insights. No order is guaranteed; callers
	// sort as needed.
	ListInsights(ctx context.Context) ([]*entities.Insight, error)

	// SearchInsights matches title, content or tags case-insensitively.
	SearchInsights(ctx context.Context, query string, limit int) ([]*entities.Insight, error)

	// DeleteInsightCascade removes the insight and, atomically with it,
	// every relationship whose source or target equals id. Returns
	// entities.ErrNotFound when the insight does not exist.
	DeleteInsightCascade(ctx context.Context, id string) error

	// CountInsights returns the number of stored insights.
	CountInsights(ctx context.Context) (int, error)

	// ClearInsights empties the insight collection.
	ClearInsights(ctx context.Context) error

	// ClearRelationships empties the relationship collection.
	ClearRelationships(ctx context.Context) error

	// ClearCategories empties the category collection.
	ClearCategories(ctx context.Context) error

	// ClearSettings empties the settings collection.
	ClearSettings(ctx context.Context) error

	// Category operations

	// SaveCategory inserts or updates a category.
	SaveCategory(ctx context.Context, cat *entities.Category) error

	// FindCategoryByID returns the category or nil when absent.
	FindCategoryByID(ctx context.Context, id string) (*entities.Category, error)

	// FindCategoryByName matches the normalized (case-insensitive) name.
	FindCategoryByName(ctx context.Context, name string) (*entities.Category, error)

	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]*entities.Category, error)

	// DeleteCategoryDetach rewrites every insight referencing id with a
	// null category, then removes the category, atomically in that order.
	// Returns entities.ErrNotFound when the category does not exist.
	DeleteCategoryDetach(ctx context.Context, id string) error

	// CountCategories returns the number of stored categories.
	CountCategories(ctx context.Context) (int, error)

	// Relationship operations

	// SaveRelationship inserts or updates a relationship.
	SaveRelationship(ctx context.Context, rel *entities.Relationship) error

	// SaveRelationshipPair writes a forward/reverse pair atomically. On a
	// half-written pair it returns *entities.PartialPairError.
	SaveRelationshipPair(ctx context.Context, forward, reverse *entities.Relationship) error

	// FindRelationshipByID returns the relationship or nil when absent.
	FindRelationshipByID(ctx context.Context, id string) (*entities.Relationship, error)

	// ListRelationships returns all relationships.
	ListRelationships(ctx context.Context) ([]entities.Relationship, error)

	// FindRelationshipsByInsight returns relationships where the insight
	// appears as source or target.
	FindRelationshipsByInsight(ctx context.Context, insightID string) ([]entities.Relationship, error)

	// FindRelationshipBetween returns the edge from sourceID to targetID,
	// or nil when absent. Direction matters.
	FindRelationshipBetween(ctx context.Context, sourceID, targetID string) (*entities.Relationship, error)

	// DeleteRelationship removes a relationship by ID. Returns
	// entities.ErrNotFound when absent.
	DeleteRelationship(ctx context.Context, id string) error

	// CountRelationships returns the number of stored relationships.
	CountRelationships(ctx context.Context) (int, error)

	// Setting operations

	// PutSetting inserts or replaces a setting by key.
	PutSetting(ctx context.Context, key string, value entities.SettingValue) error

	// GetSetting returns the setting or nil when absent.
	GetSetting(ctx context.Context, key string) (*entities.Setting, error)

	// DeleteSetting removes a setting; deleting a missing key is a no-op.
	DeleteSetting(ctx context.Context, key string) error

	// ListSettings returns all settings ordered by key.
	ListSettings(ctx context.Context) ([]*entities.Setting, error)

	// Change log

	// LogChange appends an entry to the change log.
	LogChange(ctx context.Context, action, entityID string, details map[string]any) error

	// FindChanges returns change entries for an entity, newest first.
	FindChanges(ctx context.Context, entityID string) ([]entities.ChangeEntry, error)

	// FindChangesByAction returns change entries by action, newest first.
	FindChangesByAction(ctx context.Context, action string, limit int) ([]entities.ChangeEntry, error)
}
