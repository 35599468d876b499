package model

// CardMetric is a single formatted metric on a resource card
type CardMetric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is the render model of a resource
type Card struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	URL           string       `json:"url"`
	CategoryID    string       `json:"category_id"`
	CategoryLabel string       `json:"category_label"`
	CategoryColor string       `json:"category_color"`
	Region        string       `json:"region"`
	Stage         Stage        `json:"stage"`
	Summary       string       `json:"summary"`
	Highlight     string       `json:"highlight"`
	Tags          []string     `json:"tags"`
	Metrics       []CardMetric `json:"metrics,omitempty"`
}

// Focus is the header describing the active category selection
type Focus struct {
	Title   string `json:"title"`
	Tagline string `json:"tagline"`
}

// FilterSummary describes the active filters for display above the results
type FilterSummary struct {
	Chips   []string `json:"chips"`
	Viewing string   `json:"viewing,omitempty"`
}
