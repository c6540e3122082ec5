package entities

import "time"

// Relationship is a directed, typed, weighted edge between two insight IDs.
// A "bidirectional" link is stored as two Relationship records with swapped
// endpoints, created as a pair.
//
// Endpoint existence is verified when a relationship is created through
// RelationshipService and never re-verified afterward. Deleting an insight
// removes every relationship that references it, so a stored relationship
// never points at a missing insight.
type Relationship struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id"`
	TargetID    string    `json:"target_id"`
	Type        string    `json:"type"` // free-form, e.g. "supports", "contradicts"
	Description string    `json:"description,omitempty"`
	Strength    float64   `json:"strength"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClampStrength restricts a relationship strength to [0, 1].
func ClampStrength(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// Reverse returns a copy of the relationship with swapped endpoints and the
// given fresh ID. Used when creating bidirectional pairs.
func (r Relationship) Reverse(id string) Relationship {
	rev := r
	rev.ID = id
	rev.SourceID = r.TargetID
	rev.TargetID = r.SourceID
	return rev
}
