package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/football-history/internal/domain/match"
	"github.com/riskibarqy/football-history/internal/platform/logging"
)

// DatasetService ties the history operations to a durable store: load when
// no dataset is held yet, run the operation, save the result.
type DatasetService struct {
	repo    match.Repository
	history *HistoryService
	logger  *logging.Logger
}

func NewDatasetService(repo match.Repository, history *HistoryService, logger *logging.Logger) *DatasetService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DatasetService{
		repo:    repo,
		history: history,
		logger:  logger,
	}
}

// Load reads the stored dataset. ok is false when nothing has been stored yet.
func (s *DatasetService) Load(ctx context.Context) (match.Dataset, bool, error) {
	ctx, span := startSpan(ctx, "DatasetService.Load")
	defer span.End()

	dataset, ok, err := s.repo.Load(ctx)
	if err != nil {
		failSpan(span, err)
		return nil, false, fmt.Errorf("load history store: %w", err)
	}
	if !ok {
		s.logger.InfoContext(ctx, "history store is empty")
		return nil, false, nil
	}
	s.logger.InfoContext(ctx, "history store loaded", "rows", len(dataset))
	return dataset, true, nil
}

// Ingest runs IngestMissingSeasons on current (or the stored dataset when
// current is nil) and saves the result.
func (s *DatasetService) Ingest(ctx context.Context, current match.Dataset, input IngestInput) (match.Dataset, IngestReport, error) {
	ctx, span := startSpan(ctx, "DatasetService.Ingest", attribute.Bool("dataset.in_memory", current != nil))
	defer span.End()

	base, err := s.baseline(ctx, current)
	if err != nil {
		return nil, IngestReport{}, err
	}
	next, report, err := s.history.IngestMissingSeasons(ctx, base, input)
	if err != nil {
		return nil, IngestReport{}, err
	}
	if err := s.save(ctx, next); err != nil {
		return nil, IngestReport{}, err
	}
	return next, report, nil
}

// Refresh runs RefreshRecent the same way Ingest does.
func (s *DatasetService) Refresh(ctx context.Context, current match.Dataset, input RefreshInput) (match.Dataset, RefreshReport, error) {
	ctx, span := startSpan(ctx, "DatasetService.Refresh", attribute.Bool("dataset.in_memory", current != nil))
	defer span.End()

	base, err := s.baseline(ctx, current)
	if err != nil {
		return nil, RefreshReport{}, err
	}
	next, report, err := s.history.RefreshRecent(ctx, base, input)
	if err != nil {
		return nil, RefreshReport{}, err
	}
	if err := s.save(ctx, next); err != nil {
		return nil, RefreshReport{}, err
	}
	return next, report, nil
}

func (s *DatasetService) baseline(ctx context.Context, current match.Dataset) (match.Dataset, error) {
	if current != nil {
		return current, nil
	}
	dataset, _, err := s.Load(ctx)
	return dataset, err
}

func (s *DatasetService) save(ctx context.Context, dataset match.Dataset) error {
	if err := s.repo.Save(ctx, dataset); err != nil {
		return fmt.Errorf("save history store: %w", err)
	}
	s.logger.InfoContext(ctx, "history store saved", "rows", len(dataset))
	return nil
}
