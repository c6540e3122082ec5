package entities

import "time"

// Insight is a captured note: a title/content pair with free-form tags and
// an optional weak reference to a Category. The category reference may be
// absent or dangling; it never implies ownership.
type Insight struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Tags       []string   `json:"tags,omitempty"`
	CategoryID *string    `json:"category_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}
