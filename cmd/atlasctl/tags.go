package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/yourorg/atlas-directory/internal/catalog"

	"github.com/spf13/cobra"
)

func newTagsCmd(global *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Print the most used tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := global.loadDataset(cmd.Context())
			if err != nil {
				return err
			}

			tags := catalog.TagFrequency(ds.Resources, limit)
			if global.jsonOut {
				return writeJSON(cmd.OutOrStdout(), tags)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TAG\tCOUNT")
			for _, tc := range tags {
				fmt.Fprintf(tw, "#%s\t%d\n", tc.Tag, tc.Count)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", catalog.DefaultTagLimit, "Maximum number of tags; 0 prints all")
	return cmd
}
