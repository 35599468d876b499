package service

import (
	"context"
	"sync"

	"github.com/yourorg/atlas-directory/internal/catalog"
	"github.com/yourorg/atlas-directory/internal/model"

	"go.uber.org/zap"
)

// SignalService serves aggregates over the full dataset. Results are computed
// once per dataset version.
type SignalService struct {
	datasets DatasetProvider
	tagLimit int
	logger   *zap.Logger

	mu       sync.Mutex
	cached   bool
	version  int
	signals  model.Signals
	tags     []model.TagCount
	computed int
}

// NewSignalService creates a new signal service
func NewSignalService(datasets DatasetProvider, tagLimit int, logger *zap.Logger) *SignalService {
	if tagLimit <= 0 {
		tagLimit = catalog.DefaultTagLimit
	}
	return &SignalService{
		datasets: datasets,
		tagLimit: tagLimit,
		logger:   logger,
	}
}

// Signals returns total, region count and category spread
func (s *SignalService) Signals(ctx context.Context) (model.Signals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refreshLocked(); err != nil {
		return model.Signals{}, err
	}

	out := s.signals
	out.CategorySpread = append([]model.CategoryShare{}, s.signals.CategorySpread...)
	return out, nil
}

// Tags returns the tag palette. A limit <= 0 uses the configured limit.
func (s *SignalService) Tags(ctx context.Context, limit int) ([]model.TagCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refreshLocked(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.tagLimit
	}
	n := len(s.tags)
	if limit < n {
		n = limit
	}
	out := make([]model.TagCount, n)
	copy(out, s.tags[:n])
	return out, nil
}

// Invalidate drops the memoised results so the next call recomputes them
func (s *SignalService) Invalidate(ds *model.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = false
}

func (s *SignalService) refreshLocked() error {
	ds, err := s.datasets.Current()
	if err != nil {
		return err
	}
	if s.cached && s.version == ds.Version {
		return nil
	}

	s.signals = catalog.ComputeSignals(ds.Resources, ds.Categories)
	s.tags = catalog.TagFrequency(ds.Resources, 0)
	s.version = ds.Version
	s.cached = true
	s.computed++

	s.logger.Debug("Signals computed",
		zap.Int("version", ds.Version),
		zap.Int("total", s.signals.Total),
		zap.Int("tags", len(s.tags)))
	return nil
}
