// Command atlasctl queries and validates catalog datasets offline.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/yourorg/atlas-directory/internal/model"
	"github.com/yourorg/atlas-directory/internal/repository"
	"github.com/yourorg/atlas-directory/internal/validator"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalOptions struct {
	dataPath string
	format   string
	jsonOut  bool
	verbose  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "atlasctl",
		Short:         "Query and validate Atlas catalog datasets",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&opts.dataPath, "data", "d", "data/resources.json", "Path to the dataset file")
	root.PersistentFlags().StringVar(&opts.format, "format", "", "Dataset format (json or yaml); inferred from the extension when empty")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Print JSON instead of a table")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newQueryCmd(opts))
	root.AddCommand(newSignalsCmd(opts))
	root.AddCommand(newTagsCmd(opts))
	root.AddCommand(newValidateCmd(opts))

	return root
}

func (o *globalOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// loadDataset reads and validates the dataset file
func (o *globalOptions) loadDataset(ctx context.Context) (*model.Dataset, error) {
	repo := repository.NewDatasetRepository(
		repository.NewFileSource(o.dataPath),
		o.format,
		validator.NewDatasetValidator(),
		o.logger(),
	)
	return repo.Load(ctx)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
