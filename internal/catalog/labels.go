package catalog

import "github.com/yourorg/atlas-directory/internal/model"

// CategoryLabel returns the display name of a category, or the unmapped label
func CategoryLabel(categories []model.Category, id string) string {
	if cat := findCategory(categories, id); cat != nil {
		return cat.Name
	}
	return model.UnmappedCategoryLabel
}

// CategoryColor returns the color token of a category, or the default token
func CategoryColor(categories []model.Category, id string) string {
	if cat := findCategory(categories, id); cat != nil && cat.Color != "" {
		return cat.Color
	}
	return model.DefaultCategoryColor
}

func findCategory(categories []model.Category, id string) *model.Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}
