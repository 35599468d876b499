package catalog

import "github.com/yourorg/atlas-directory/internal/model"

// ComputeSignals aggregates statistics over the full resource collection.
// Shares are rounded half up; an empty collection yields 0 for every category.
func ComputeSignals(resources []model.Resource, categories []model.Category) model.Signals {
	total := len(resources)

	regions := make(map[string]struct{}, total)
	perCategory := make(map[string]int, len(categories))
	for i := range resources {
		regions[resources[i].Region] = struct{}{}
		perCategory[resources[i].CategoryID]++
	}

	spread := make([]model.CategoryShare, 0, len(categories))
	for _, cat := range categories {
		spread = append(spread, model.CategoryShare{
			ID:    cat.ID,
			Name:  cat.Name,
			Share: percentShare(perCategory[cat.ID], total),
		})
	}

	return model.Signals{
		Total:          total,
		RegionCount:    len(regions),
		CategorySpread: spread,
	}
}

// percentShare computes round(100*count/total) in integer arithmetic
func percentShare(count, total int) int {
	if total <= 0 || count <= 0 {
		return 0
	}
	return (200*count + total) / (2 * total)
}
