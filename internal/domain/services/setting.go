package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kmargell/insight-core/internal/domain/entities"
	"github.com/kmargell/insight-core/internal/domain/events"
	"github.com/kmargell/insight-core/internal/domain/ports"
)

// MindMapSettingKey is the setting under which the serialized mind-map
// snapshot is persisted.
const MindMapSettingKey = "mindmap.snapshot"

// SettingService provides typed access to the settings collection.
type SettingService struct {
	store  ports.Store
	bus    *events.Bus
	logger *zap.Logger
}

// NewSettingService creates a new SettingService.
func NewSettingService(store ports.Store, bus *events.Bus, logger *zap.Logger) *SettingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingService{store: store, bus: bus, logger: logger}
}

// Put inserts or replaces the setting under key.
func (s *SettingService) Put(ctx context.Context, key string, value entities.SettingValue) error {
	if err := value.Validate(); err != nil {
		return err
	}
	if err := s.store.PutSetting(ctx, key, value); err != nil {
		return fmt.Errorf("putting setting: %w", err)
	}
	s.publish(events.OpUpdate, key)
	return nil
}

// Get returns the setting or nil when absent.
func (s *SettingService) Get(ctx context.Context, key string) (*entities.Setting, error) {
	return s.store.GetSetting(ctx, key)
}

// Delete removes the setting; a missing key is a no-op.
func (s *SettingService) Delete(ctx context.Context, key string) error {
	if err := s.store.DeleteSetting(ctx, key); err != nil {
		return fmt.Errorf("deleting setting: %w", err)
	}
	s.publish(events.OpDelete, key)
	return nil
}

// List returns all settings.
func (s *SettingService) List(ctx context.Context) ([]*entities.Setting, error) {
	return s.store.ListSettings(ctx)
}

// SaveMindMap persists an already-serialized mind-map snapshot as a bytes
// setting. Callers must serialize before any further structural mutation of
// the engine so an in-progress edit cannot race the write.
func (s *SettingService) SaveMindMap(ctx context.Context, snapshot []byte) error {
	return s.Put(ctx, MindMapSettingKey, entities.BytesValue(snapshot))
}

// LoadMindMap returns the persisted snapshot bytes, or nil when no snapshot
// has been saved yet.
func (s *SettingService) LoadMindMap(ctx context.Context) ([]byte, error) {
	setting, err := s.store.GetSetting(ctx, MindMapSettingKey)
	if err != nil {
		return nil, fmt.Errorf("loading mind-map snapshot: %w", err)
	}
	if setting == nil {
		return nil, nil
	}
	if setting.Value.Kind != entities.SettingBytes {
		return nil, fmt.Errorf("setting %s holds %s, expected bytes", MindMapSettingKey, setting.Value.Kind)
	}
	return setting.Value.Bytes, nil
}

func (s *SettingService) publish(op events.Op, key string) {
	if s.bus != nil {
		s.bus.Publish(events.EntityChanged{Kind: events.KindSetting, Op: op, ID: key})
	}
}
