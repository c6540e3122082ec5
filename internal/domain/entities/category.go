package entities

import (
	"strings"
	"time"
)

// Category is a named label attachable to insights. Names are unique
// case-insensitively across all categories.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"` // hex, e.g. "#2196F3"
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeName converts a category name to lowercase for case-insensitive
// uniqueness checks.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
