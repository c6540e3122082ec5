package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "work", NormalizeName("  Work "))
	assert.Equal(t, "work", NormalizeName("WORK"))
	assert.Equal(t, "work", NormalizeName("work"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestDefaultCategories(t *testing.T) {
	assert.Len(t, DefaultCategories, 4)

	names := DefaultCategoryNames()
	assert.Equal(t, []string{"Work", "Personal", "Ideas", "Tasks"}, names)

	seen := make(map[string]bool, len(DefaultCategories))
	for _, cat := range DefaultCategories {
		assert.False(t, seen[NormalizeName(cat.Name)], "duplicate default name %s", cat.Name)
		seen[NormalizeName(cat.Name)] = true
		assert.NotEmpty(t, cat.Color)
		assert.NotEmpty(t, cat.Icon)
	}
}
