// Package mocks provides in-memory test doubles for the domain ports.
package mocks

import (
	"context"
	"sort"
	"strings"

	"github.com/kmargell/insight-core/internal/domain/entities"
)

// Store is a mock implementation of ports.Store backed by maps.
// Set Err to force every operation to fail, or the narrower PairErr /
// CascadeErr to fail only the composite operations.
type Store struct {
	Insights      map[string]*entities.Insight
	Categories    map[string]*entities.Category
	Relationships map[string]*entities.Relationship
	Settings      map[string]*entities.Setting
	Changes       []entities.ChangeEntry

	Err        error
	PairErr    error // fails the reverse write of SaveRelationshipPair
	CascadeErr error // fails the cascade step of composite deletes
}

// NewStore creates an empty mock store.
func NewStore() *Store {
	return &Store{
		Insights:      make(map[string]*entities.Insight),
		Categories:    make(map[string]*entities.Category),
		Relationships: make(map[string]*entities.Relationship),
		Settings:      make(map[string]*entities.Setting),
	}
}

// Init is a no-op for the mock.
func (m *Store) Init(_ context.Context) error { return m.Err }

// Close is a no-op for the mock.
func (m *Store) Close() error { return nil }

// Insight operations.

// SaveInsight inserts or updates an insight.
func (m *Store) SaveInsight(_ context.Context, ins *entities.Insight) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *ins
	m.Insights[ins.ID] = &cp
	return nil
}

// FindInsightByID returns the insight or nil when absent.
func (m *Store) FindInsightByID(_ context.Context, id string) (*entities.Insight, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	ins, ok := m.Insights[id]
	if !ok {
		return nil, nil
	}
	cp := *ins
	return &cp, nil
}

// ListInsights returns all insights sorted by ID for deterministic tests.
func (m *Store) ListInsights(_ context.Context) ([]*entities.Insight, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*entities.Insight, 0, len(m.Insights))
	for _, ins := range m.Insights {
		cp := *ins
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// SearchInsights matches title, content or tags case-insensitively.
func (m *Store) SearchInsights(_ context.Context, query string, limit int) ([]*entities.Insight, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	q := strings.ToLower(query)
	result := make([]*entities.Insight, 0, 8)
	for _, ins := range m.Insights {
		if matchInsight(ins, q) {
			cp := *ins
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func matchInsight(ins *entities.Insight, q string) bool {
	if strings.Contains(strings.ToLower(ins.Title), q) ||
		strings.Contains(strings.ToLower(ins.Content), q) {
		return true
	}
	for _, tag := range ins.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// DeleteInsightCascade removes the insight and its relationships, or leaves
// everything untouched when CascadeErr is set.
func (m *Store) DeleteInsightCascade(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Insights[id]; !ok {
		return entities.ErrNotFound
	}
	if m.CascadeErr != nil {
		return &entities.CascadeError{Op: "insight.delete", ID: id, Err: m.CascadeErr}
	}
	for relID, rel := range m.Relationships {
		if rel.SourceID == id || rel.TargetID == id {
			delete(m.Relationships, relID)
		}
	}
	delete(m.Insights, id)
	return nil
}

// CountInsights returns the number of stored insights.
func (m *Store) CountInsights(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Insights), nil
}

// ClearInsights empties the insight collection.
func (m *Store) ClearInsights(_ context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	m.Insights = make(map[string]*entities.Insight)
	return nil
}

// ClearRelationships empties the relationship collection.
func (m *Store) ClearRelationships(_ context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	m.Relationships = make(map[string]*entities.Relationship)
	return nil
}

// ClearCategories empties the category collection.
func (m *Store) ClearCategories(_ context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	m.Categories = make(map[string]*entities.Category)
	return nil
}

// ClearSettings empties the settings collection.
func (m *Store) ClearSettings(_ context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	m.Settings = make(map[string]*entities.Setting)
	return nil
}

// Category operations.

// SaveCategory inserts or updates a category.
func (m *Store) SaveCategory(_ context.Context, cat *entities.Category) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *cat
	m.Categories[cat.ID] = &cp
	return nil
}

// FindCategoryByID returns the category or nil when absent.
func (m *Store) FindCategoryByID(_ context.Context, id string) (*entities.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	cat, ok := m.Categories[id]
	if !ok {
		return nil, nil
	}
	cp := *cat
	return &cp, nil
}

// FindCategoryByName matches the normalized name.
func (m *Store) FindCategoryByName(_ context.Context, name string) (*entities.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	norm := entities.NormalizeName(name)
	for _, cat := range m.Categories {
		if entities.NormalizeName(cat.Name) == norm {
			cp := *cat
			return &cp, nil
		}
	}
	return nil, nil
}

// ListCategories returns all categories sorted by name.
func (m *Store) ListCategories(_ context.Context) ([]*entities.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*entities.Category, 0, len(m.Categories))
	for _, cat := range m.Categories {
		cp := *cat
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// DeleteCategoryDetach detaches referencing insights then removes the
// category, or leaves everything untouched when CascadeErr is set.
func (m *Store) DeleteCategoryDetach(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Categories[id]; !ok {
		return entities.ErrNotFound
	}
	if m.CascadeErr != nil {
		return &entities.CascadeError{Op: "category.delete", ID: id, Err: m.CascadeErr}
	}
	for _, ins := range m.Insights {
		if ins.CategoryID != nil && *ins.CategoryID == id {
			ins.CategoryID = nil
		}
	}
	delete(m.Categories, id)
	return nil
}

// CountCategories returns the number of stored categories.
func (m *Store) CountCategories(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Categories), nil
}

// Relationship operations.

// SaveRelationship inserts or updates a relationship.
func (m *Store) SaveRelationship(_ context.Context, rel *entities.Relationship) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *rel
	m.Relationships[rel.ID] = &cp
	return nil
}

// SaveRelationshipPair writes the pair, or only the forward edge when
// PairErr is set so tests can exercise partial-write handling.
func (m *Store) SaveRelationshipPair(_ context.Context, forward, reverse *entities.Relationship) error {
	if m.Err != nil {
		return m.Err
	}
	fwd := *forward
	m.Relationships[forward.ID] = &fwd
	if m.PairErr != nil {
		return &entities.PartialPairError{SurvivingID: forward.ID, Err: m.PairErr}
	}
	rev := *reverse
	m.Relationships[reverse.ID] = &rev
	return nil
}

// FindRelationshipByID returns the relationship or nil when absent.
func (m *Store) FindRelationshipByID(_ context.Context, id string) (*entities.Relationship, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	rel, ok := m.Relationships[id]
	if !ok {
		return nil, nil
	}
	cp := *rel
	return &cp, nil
}

// ListRelationships returns all relationships sorted by ID.
func (m *Store) ListRelationships(_ context.Context) ([]entities.Relationship, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.Relationship, 0, len(m.Relationships))
	for _, rel := range m.Relationships {
		result = append(result, *rel)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// FindRelationshipsByInsight returns relationships touching the insight.
func (m *Store) FindRelationshipsByInsight(_ context.Context, insightID string) ([]entities.Relationship, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.Relationship, 0, 8)
	for _, rel := range m.Relationships {
		if rel.SourceID == insightID || rel.TargetID == insightID {
			result = append(result, *rel)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// FindRelationshipBetween returns the directed edge or nil.
func (m *Store) FindRelationshipBetween(_ context.Context, sourceID, targetID string) (*entities.Relationship, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, rel := range m.Relationships {
		if rel.SourceID == sourceID && rel.TargetID == targetID {
			cp := *rel
			return &cp, nil
		}
	}
	return nil, nil
}

// DeleteRelationship removes a relationship by ID.
func (m *Store) DeleteRelationship(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Relationships[id]; !ok {
		return entities.ErrNotFound
	}
	delete(m.Relationships, id)
	return nil
}

// CountRelationships returns the number of stored relationships.
func (m *Store) CountRelationships(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Relationships), nil
}

// Setting operations.

// PutSetting inserts or replaces a setting.
func (m *Store) PutSetting(_ context.Context, key string, value entities.SettingValue) error {
	if m.Err != nil {
		return m.Err
	}
	m.Settings[key] = &entities.Setting{Key: key, Value: value}
	return nil
}

// GetSetting returns the setting or nil when absent.
func (m *Store) GetSetting(_ context.Context, key string) (*entities.Setting, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.Settings[key]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// DeleteSetting removes a setting; missing keys are a no-op.
func (m *Store) DeleteSetting(_ context.Context, key string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Settings, key)
	return nil
}

// ListSettings returns all settings sorted by key.
func (m *Store) ListSettings(_ context.Context) ([]*entities.Setting, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*entities.Setting, 0, len(m.Settings))
	for _, s := range m.Settings {
		cp := *s
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

// Change log.

// LogChange appends a change entry.
func (m *Store) LogChange(_ context.Context, action, entityID string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.Changes = append(m.Changes, entities.ChangeEntry{
		ID:       int64(len(m.Changes) + 1),
		Action:   action,
		EntityID: entityID,
		Details:  details,
	})
	return nil
}

// FindChanges returns change entries for an entity, newest first.
func (m *Store) FindChanges(_ context.Context, entityID string) ([]entities.ChangeEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.ChangeEntry, 0, 8)
	for i := len(m.Changes) - 1; i >= 0; i-- {
		if m.Changes[i].EntityID == entityID {
			result = append(result, m.Changes[i])
		}
	}
	return result, nil
}

// FindChangesByAction returns change entries by action, newest first.
func (m *Store) FindChangesByAction(_ context.Context, action string, limit int) ([]entities.ChangeEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.ChangeEntry, 0, 8)
	for i := len(m.Changes) - 1; i >= 0 && (limit <= 0 || len(result) < limit); i-- {
		if m.Changes[i].Action == action {
			result = append(result, m.Changes[i])
		}
	}
	return result, nil
}
