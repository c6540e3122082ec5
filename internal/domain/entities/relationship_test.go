package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampStrength(t *testing.T) {
	assert.Equal(t, 0.0, ClampStrength(-3))
	assert.Equal(t, 0.0, ClampStrength(0))
	assert.Equal(t, 0.5, ClampStrength(0.5))
	assert.Equal(t, 1.0, ClampStrength(1))
	assert.Equal(t, 1.0, ClampStrength(7))
}

func TestRelationship_Reverse(t *testing.T) {
	rel := Relationship{ID: "r-1", SourceID: "a", TargetID: "b", Type: "supports", Description: "d", Strength: 0.4}
	rev := rel.Reverse("r-2")

	assert.Equal(t, "r-2", rev.ID)
	assert.Equal(t, "b", rev.SourceID)
	assert.Equal(t, "a", rev.TargetID)
	assert.Equal(t, "supports", rev.Type)
	assert.Equal(t, "d", rev.Description)
	assert.Equal(t, 0.4, rev.Strength)
}
