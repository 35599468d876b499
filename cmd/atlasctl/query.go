package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/yourorg/atlas-directory/internal/catalog"
	"github.com/yourorg/atlas-directory/internal/model"
	"github.com/yourorg/atlas-directory/internal/service"

	"github.com/spf13/cobra"
)

type queryOptions struct {
	search   string
	category string
	stage    string
	tags     []string
	sort     string
}

func newQueryCmd(global *globalOptions) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter and sort the catalog",
		Example: `  atlasctl query --search agent --stage Growth
  atlasctl query --tag infra --tag search --sort maturity`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := opts.criteria()
			if err != nil {
				return err
			}

			ds, err := global.loadDataset(cmd.Context())
			if err != nil {
				return err
			}

			matches := catalog.FilterAndSort(ds.Resources, criteria)
			if global.jsonOut {
				cards := make([]model.Card, 0, len(matches))
				for _, r := range matches {
					cards = append(cards, service.RenderCard(r, ds.Categories))
				}
				return writeJSON(cmd.OutOrStdout(), cards)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSTAGE\tREGION\tTAGS")
			for _, r := range matches {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Name, catalog.CategoryLabel(ds.Categories, r.CategoryID),
					r.Stage, r.Region, strings.Join(r.Tags, ","))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			summary := service.SummaryFor(criteria, len(matches), len(ds.Resources))
			if summary.Viewing != "" {
				fmt.Fprintln(cmd.OutOrStdout(), summary.Viewing)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%d matches (%s)\n", len(matches), strings.Join(summary.Chips, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Free-text search over name, summary, region and tags")
	cmd.Flags().StringVarP(&opts.category, "category", "c", model.AllFilter, "Category id")
	cmd.Flags().StringVar(&opts.stage, "stage", model.AllFilter, "Stage (Research, Early, Growth, Enterprise)")
	cmd.Flags().StringArrayVarP(&opts.tags, "tag", "t", nil, "Required tag; repeat for several")
	cmd.Flags().StringVar(&opts.sort, "sort", string(model.SortAlphabetical), "Sort mode (alphabetical or maturity)")

	return cmd
}

func (o *queryOptions) criteria() (model.Criteria, error) {
	criteria := model.DefaultCriteria()
	criteria.Query = o.search
	criteria.Category = o.category

	if o.stage != model.AllFilter && !model.Stage(o.stage).Valid() {
		return criteria, fmt.Errorf("unknown stage %q", o.stage)
	}
	criteria.Stage = o.stage

	sortMode, ok := model.ParseSortMode(o.sort)
	if !ok {
		return criteria, fmt.Errorf("unknown sort %q", o.sort)
	}
	criteria.Sort = sortMode

	for _, tag := range o.tags {
		if tag = strings.TrimSpace(tag); tag != "" && !criteria.HasTag(tag) {
			criteria.Tags = append(criteria.Tags, tag)
		}
	}
	return criteria.Normalize(), nil
}
