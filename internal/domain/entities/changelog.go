package entities

import "time"

// ChangeEntry is a logged mutation, e.g. "insight.create" or
// "category.delete". EntityID may be empty for bulk actions.
type ChangeEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	EntityID  string         `json:"entity_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
