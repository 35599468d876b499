package catalog

import (
	"sort"

	"github.com/yourorg/atlas-directory/internal/model"
)

// DefaultTagLimit is the size of the tag palette shown next to the filters
const DefaultTagLimit = 12

// TagFrequency counts tag occurrences across resources, most frequent first.
// Ties keep the order in which tags were first seen. A limit <= 0 disables
// truncation.
func TagFrequency(resources []model.Resource, limit int) []model.TagCount {
	index := make(map[string]int)
	counts := make([]model.TagCount, 0)

	for i := range resources {
		for _, tag := range resources[i].Tags {
			if pos, ok := index[tag]; ok {
				counts[pos].Count++
				continue
			}
			index[tag] = len(counts)
			counts = append(counts, model.TagCount{Tag: tag, Count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// ToggleTag removes the tag when selected and appends it otherwise. A new
// slice is always returned.
func ToggleTag(selected []string, tag string) []string {
	out := make([]string, 0, len(selected)+1)
	found := false
	for _, t := range selected {
		if t == tag {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		out = append(out, tag)
	}
	return out
}
