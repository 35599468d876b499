package model

// UnmappedCategoryLabel is shown for resources whose category is not in the dataset
const UnmappedCategoryLabel = "Unmapped"

// DefaultCategoryColor is used when a resource's category has no color token
const DefaultCategoryColor = "bg-atlas-blue/10 text-atlas-blue"

// Category represents a named grouping of resources
type Category struct {
	ID      string `json:"id" yaml:"id" validate:"required"`
	Name    string `json:"name" yaml:"name" validate:"required"`
	Tagline string `json:"tagline" yaml:"tagline"`
	Color   string `json:"color" yaml:"color"`
}
