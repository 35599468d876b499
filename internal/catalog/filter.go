// Package catalog implements the filtering, ordering and aggregation applied
// to the atlas dataset. Every function is pure: inputs are never modified and
// results depend only on the arguments.
package catalog

import (
	"sort"
	"strings"

	"github.com/yourorg/atlas-directory/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterAndSort returns the resources matching every active predicate of the
// criteria, ordered by the criteria's sort mode. The input slice is left
// untouched.
func FilterAndSort(resources []model.Resource, criteria model.Criteria) []model.Resource {
	criteria = criteria.Normalize()
	query := normalizeQuery(criteria.Query)

	result := make([]model.Resource, 0, len(resources))
	for i := range resources {
		if matches(&resources[i], criteria, query) {
			result = append(result, resources[i])
		}
	}

	SortResources(result, criteria.Sort)
	return result
}

// Matches reports whether a single resource satisfies the criteria
func Matches(resource model.Resource, criteria model.Criteria) bool {
	criteria = criteria.Normalize()
	return matches(&resource, criteria, normalizeQuery(criteria.Query))
}

// SortResources orders resources in place. Both modes are stable so equal
// elements keep their relative order.
func SortResources(resources []model.Resource, mode model.SortMode) {
	switch mode {
	case model.SortMaturity:
		sort.SliceStable(resources, func(i, j int) bool {
			return resources[i].Stage.Rank() < resources[j].Stage.Rank()
		})
	default:
		// collate.Collator keeps internal buffers, so one per call
		col := collate.New(language.Und)
		sort.SliceStable(resources, func(i, j int) bool {
			return col.CompareString(resources[i].Name, resources[j].Name) < 0
		})
	}
}

func matches(r *model.Resource, c model.Criteria, query string) bool {
	if c.Category != model.AllFilter && r.CategoryID != c.Category {
		return false
	}
	if c.Stage != model.AllFilter && string(r.Stage) != c.Stage {
		return false
	}
	for _, tag := range c.Tags {
		if !r.HasTag(tag) {
			return false
		}
	}
	if query == "" {
		return true
	}
	return strings.Contains(haystack(r), query)
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// haystack is the lower-cased text searched by the free-text query
func haystack(r *model.Resource) string {
	return strings.ToLower(strings.Join([]string{
		r.Name,
		r.Summary,
		r.Region,
		strings.Join(r.Tags, " "),
	}, " "))
}
