package model

import "strings"

// AllFilter is the sentinel meaning "no constraint" for category and stage
const AllFilter = "all"

// SortMode selects the ordering of filtered resources
type SortMode string

const (
	SortAlphabetical SortMode = "alphabetical"
	SortMaturity     SortMode = "maturity"
)

// ParseSortMode maps a user supplied value to a sort mode. "signal" is accepted
// as an alias of alphabetical since older clients send it.
func ParseSortMode(value string) (SortMode, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(SortAlphabetical), "signal":
		return SortAlphabetical, true
	case string(SortMaturity):
		return SortMaturity, true
	default:
		return SortAlphabetical, false
	}
}

// Criteria is the user-selected filter state applied to the catalog
type Criteria struct {
	Query    string   `json:"query"`
	Category string   `json:"category"`
	Stage    string   `json:"stage"`
	Tags     []string `json:"tags"`
	Sort     SortMode `json:"sort"`
}

// DefaultCriteria returns criteria that match every resource
func DefaultCriteria() Criteria {
	return Criteria{
		Category: AllFilter,
		Stage:    AllFilter,
		Tags:     []string{},
		Sort:     SortAlphabetical,
	}
}

// Normalize fills empty fields with their "no constraint" values. The receiver
// is not modified.
func (c Criteria) Normalize() Criteria {
	out := c
	if out.Category == "" {
		out.Category = AllFilter
	}
	if out.Stage == "" {
		out.Stage = AllFilter
	}
	if out.Sort == "" {
		out.Sort = SortAlphabetical
	}
	out.Tags = append([]string{}, c.Tags...)
	return out
}

// HasTag reports whether the tag is selected
func (c Criteria) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsUnfiltered reports whether no query, stage or tag constraint is active.
// The category is not considered, matching the summary line of the page.
func (c Criteria) IsUnfiltered() bool {
	return c.Query == "" && (c.Stage == "" || c.Stage == AllFilter) && len(c.Tags) == 0
}
