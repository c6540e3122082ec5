package entities

// DefaultCategories are seeded into an empty store on first init.
var DefaultCategories = []Category{
	{
		Name:  "Work",
		Color: "#2196F3",
		Icon:  "briefcase",
	},
	{
		Name:  "Personal",
		Color: "#4CAF50",
		Icon:  "person",
	},
	{
		Name:  "Ideas",
		Color: "#FFC107",
		Icon:  "lightbulb",
	},
	{
		Name:  "Tasks",
		Color: "#F44336",
		Icon:  "check",
	},
}

// DefaultCategoryNames returns just the names of the seeded categories.
func DefaultCategoryNames() []string {
	names := make([]string, len(DefaultCategories))
	for i, c := range DefaultCategories {
		names[i] = c.Name
	}
	return names
}
