package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yourorg/atlas-directory/internal/model"
	"github.com/yourorg/atlas-directory/internal/validator"

	"go.uber.org/zap"
)

// ErrDatasetNotLoaded is returned before the first successful load
var ErrDatasetNotLoaded = errors.New("dataset not loaded")

// DatasetRepository holds the published catalog snapshot. Snapshots are
// replaced as a whole and never modified after publication.
type DatasetRepository struct {
	source    Source
	format    string
	validator *validator.DatasetValidator
	logger    *zap.Logger

	mu        sync.RWMutex
	current   *model.Dataset
	listeners []func(*model.Dataset)

	// serialises Load so versions are assigned in publish order
	loadMu sync.Mutex
}

// NewDatasetRepository creates a new dataset repository. format overrides the
// source's format hint when non-empty.
func NewDatasetRepository(source Source, format string, v *validator.DatasetValidator, logger *zap.Logger) *DatasetRepository {
	return &DatasetRepository{
		source:    source,
		format:    format,
		validator: v,
		logger:    logger,
	}
}

// Load fetches, decodes and validates the dataset, then publishes it as a new
// version. On failure the previous snapshot stays in place.
func (r *DatasetRepository) Load(ctx context.Context) (*model.Dataset, error) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	raw, hint, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset from %s: %w", r.source.Describe(), err)
	}

	format := r.format
	if format == "" {
		format = hint
	}

	ds, err := Decode(raw, format)
	if err != nil {
		return nil, err
	}

	report, err := r.validator.ValidateDataset(ds)
	if err != nil {
		return nil, err
	}
	for _, warning := range report.Warnings {
		r.logger.Warn("Dataset warning", zap.String("detail", warning))
	}

	r.mu.Lock()
	version := 1
	if r.current != nil {
		version = r.current.Version + 1
	}
	ds.Version = version
	ds.LoadedAt = time.Now().UTC()
	ds.Source = r.source.Describe()
	r.current = ds
	listeners := append([]func(*model.Dataset){}, r.listeners...)
	r.mu.Unlock()

	r.logger.Info("Dataset loaded",
		zap.String("source", ds.Source),
		zap.Int("version", ds.Version),
		zap.Int("resources", len(ds.Resources)),
		zap.Int("categories", len(ds.Categories)))

	for _, fn := range listeners {
		fn(ds)
	}

	return ds, nil
}

// Current returns the published snapshot
func (r *DatasetRepository) Current() (*model.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return nil, ErrDatasetNotLoaded
	}
	return r.current, nil
}

// OnReload registers a function called after every successful load
func (r *DatasetRepository) OnReload(fn func(*model.Dataset)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Source returns the configured source
func (r *DatasetRepository) Source() Source {
	return r.source
}
