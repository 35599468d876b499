package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/yourorg/atlas-directory/internal/repository"
	"github.com/yourorg/atlas-directory/internal/validator"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newValidateCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a dataset file for errors and warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			info, err := os.Stat(global.dataPath)
			if err != nil {
				return fmt.Errorf("stat dataset: %w", err)
			}

			raw, hint, err := repository.NewFileSource(global.dataPath).Fetch(cmd.Context())
			if err != nil {
				return err
			}
			format := global.format
			if format == "" {
				format = hint
			}

			ds, err := repository.Decode(raw, format)
			if err != nil {
				return err
			}

			report, err := validator.NewDatasetValidator().ValidateDataset(ds)
			var verr *validator.ValidationError
			if errors.As(err, &verr) {
				for _, problem := range verr.Problems {
					fmt.Fprintf(out, "error: %s\n", problem)
				}
				return fmt.Errorf("%s: %d problem(s)", global.dataPath, len(verr.Problems))
			}
			if err != nil {
				return err
			}

			for _, warning := range report.Warnings {
				fmt.Fprintf(out, "warning: %s\n", warning)
			}
			fmt.Fprintf(out, "%s: ok (%d resources, %d categories, %s)\n",
				global.dataPath, len(ds.Resources), len(ds.Categories), humanize.Bytes(uint64(info.Size())))
			return nil
		},
	}
}
