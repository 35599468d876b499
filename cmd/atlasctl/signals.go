package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/yourorg/atlas-directory/internal/catalog"

	"github.com/spf13/cobra"
)

func newSignalsCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "signals",
		Short: "Print catalog totals and the category spread",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := global.loadDataset(cmd.Context())
			if err != nil {
				return err
			}

			signals := catalog.ComputeSignals(ds.Resources, ds.Categories)
			if global.jsonOut {
				return writeJSON(cmd.OutOrStdout(), signals)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Builders: %d\n", signals.Total)
			fmt.Fprintf(out, "Regions:  %d\n", signals.RegionCount)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tSHARE")
			for _, share := range signals.CategorySpread {
				fmt.Fprintf(tw, "%s\t%d%%\n", share.Name, share.Share)
			}
			return tw.Flush()
		},
	}
}
