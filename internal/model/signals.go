package model

// CategoryShare is the percentage of resources in one category
type CategoryShare struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Share int    `json:"share"`
}

// Signals are aggregate statistics over the full dataset
type Signals struct {
	Total          int             `json:"total"`
	RegionCount    int             `json:"region_count"`
	CategorySpread []CategoryShare `json:"category_spread"`
}

// TagCount pairs a tag with the number of resources carrying it
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
