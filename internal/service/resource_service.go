package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/yourorg/atlas-directory/internal/catalog"
	"github.com/yourorg/atlas-directory/internal/model"
	"github.com/yourorg/atlas-directory/internal/utils"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const defaultFocusTagline = "Use filters to pivot across the ChatPT Atlas and surface your next integration partner."

// DatasetProvider returns the currently published dataset
type DatasetProvider interface {
	Current() (*model.Dataset, error)
}

// ListResult is one page of filtered resources together with the header data
// shown above them
type ListResult struct {
	Cards          []model.Card        `json:"cards"`
	Total          int                 `json:"total"`
	Focus          model.Focus         `json:"focus"`
	Summary        model.FilterSummary `json:"summary"`
	Criteria       model.Criteria      `json:"criteria"`
	DatasetVersion int                 `json:"dataset_version"`
}

// ResourceService answers catalog queries
type ResourceService struct {
	datasets DatasetProvider
	logger   *zap.Logger
}

// NewResourceService creates a new resource service
func NewResourceService(datasets DatasetProvider, logger *zap.Logger) *ResourceService {
	return &ResourceService{
		datasets: datasets,
		logger:   logger,
	}
}

// List filters and sorts the catalog and returns the requested page as cards.
// A limit below 1 returns every match.
func (s *ResourceService) List(ctx context.Context, criteria model.Criteria, page, limit int) (*ListResult, error) {
	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}

	criteria = criteria.Normalize()
	matches := catalog.FilterAndSort(ds.Resources, criteria)

	start, end := utils.PageBounds(len(matches), page, limit)
	cards := make([]model.Card, 0, end-start)
	for i := start; i < end; i++ {
		cards = append(cards, RenderCard(matches[i], ds.Categories))
	}

	s.logger.Debug("Catalog query",
		zap.String("query", criteria.Query),
		zap.String("category", criteria.Category),
		zap.String("stage", criteria.Stage),
		zap.Strings("tags", criteria.Tags),
		zap.String("sort", string(criteria.Sort)),
		zap.Int("matches", len(matches)))

	return &ListResult{
		Cards:          cards,
		Total:          len(matches),
		Focus:          FocusFor(ds.Categories, criteria),
		Summary:        SummaryFor(criteria, len(matches), len(ds.Resources)),
		Criteria:       criteria,
		DatasetVersion: ds.Version,
	}, nil
}

// Get returns the card of a single resource
func (s *ResourceService) Get(ctx context.Context, id string) (*model.Card, error) {
	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}

	res, ok := ds.ResourceByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, id)
	}

	card := RenderCard(*res, ds.Categories)
	return &card, nil
}

// Categories returns the categories in dataset order
func (s *ResourceService) Categories(ctx context.Context) ([]model.Category, error) {
	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}
	return ds.Categories, nil
}

// RenderCard converts a resource into its display model
func RenderCard(r model.Resource, categories []model.Category) model.Card {
	tags := make([]string, 0, len(r.Tags))
	for _, tag := range r.Tags {
		tags = append(tags, "#"+tag)
	}

	return model.Card{
		ID:            r.ID,
		Name:          r.Name,
		URL:           r.URL,
		CategoryID:    r.CategoryID,
		CategoryLabel: catalog.CategoryLabel(categories, r.CategoryID),
		CategoryColor: catalog.CategoryColor(categories, r.CategoryID),
		Region:        r.Region,
		Stage:         r.Stage,
		Summary:       r.Summary,
		Highlight:     r.Highlight,
		Tags:          tags,
		Metrics:       renderMetrics(r.Metrics),
	}
}

// renderMetrics formats the metrics that are present and non-zero
func renderMetrics(m *model.Metrics) []model.CardMetric {
	if m == nil {
		return nil
	}

	var out []model.CardMetric
	if m.Users != nil && *m.Users != 0 {
		out = append(out, model.CardMetric{Label: "Teams", Value: humanize.Comma(*m.Users)})
	}
	if m.Rating != nil && *m.Rating != 0 {
		out = append(out, model.CardMetric{Label: "Rating", Value: strconv.FormatFloat(*m.Rating, 'f', 1, 64)})
	}
	if m.Launches != nil && *m.Launches != 0 {
		out = append(out, model.CardMetric{Label: "Launches", Value: strconv.FormatInt(*m.Launches, 10)})
	}
	return out
}

// FocusFor describes the selected category, or all categories
func FocusFor(categories []model.Category, criteria model.Criteria) model.Focus {
	for _, cat := range categories {
		if cat.ID == criteria.Category {
			return model.Focus{Title: cat.Name, Tagline: cat.Tagline}
		}
	}
	return model.Focus{Title: "All categories", Tagline: defaultFocusTagline}
}

// SummaryFor lists the active filter chips. When no query, stage or tag is
// active it reports how many resources are visible instead.
func SummaryFor(criteria model.Criteria, visible, total int) model.FilterSummary {
	chips := []string{}
	if criteria.Query != "" {
		chips = append(chips, "Search: \u201c"+criteria.Query+"\u201d")
	}
	if criteria.Stage != "" && criteria.Stage != model.AllFilter {
		chips = append(chips, "Stage: "+criteria.Stage)
	}
	for _, tag := range criteria.Tags {
		chips = append(chips, "#"+tag)
	}

	summary := model.FilterSummary{Chips: chips}
	if criteria.IsUnfiltered() {
		summary.Viewing = fmt.Sprintf("Viewing %d of %d builders", visible, total)
	}
	return summary
}
