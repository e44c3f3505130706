package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/football-history/internal/domain/match"
)

// DefaultPreviewRows is how many trailing records a summary shows.
const DefaultPreviewRows = 100

// HistorySummary describes the dataset held by a session.
type HistorySummary struct {
	Loaded  bool
	Rows    int
	First   time.Time
	Last    time.Time
	Preview match.Dataset
}

// HistorySession holds one dataset for a long-lived control surface.
// Operations are serialized; the held dataset is replaced only when an
// operation succeeds.
type HistorySession struct {
	datasets *DatasetService

	mu      sync.Mutex
	dataset match.Dataset
}

func NewHistorySession(datasets *DatasetService) *HistorySession {
	return &HistorySession{datasets: datasets}
}

// Load replaces the held dataset with the stored one. When nothing is stored
// the session keeps what it had.
func (s *HistorySession) Load(ctx context.Context) (HistorySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataset, ok, err := s.datasets.Load(ctx)
	if err != nil {
		return HistorySummary{}, err
	}
	if ok {
		s.dataset = dataset
	}
	return summarize(s.dataset, DefaultPreviewRows), nil
}

func (s *HistorySession) Ingest(ctx context.Context, input IngestInput) (IngestReport, HistorySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, report, err := s.datasets.Ingest(ctx, s.dataset, input)
	if err != nil {
		return IngestReport{}, HistorySummary{}, err
	}
	s.dataset = next
	return report, summarize(next, DefaultPreviewRows), nil
}

func (s *HistorySession) Refresh(ctx context.Context, input RefreshInput) (RefreshReport, HistorySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, report, err := s.datasets.Refresh(ctx, s.dataset, input)
	if err != nil {
		return RefreshReport{}, HistorySummary{}, err
	}
	s.dataset = next
	return report, summarize(next, DefaultPreviewRows), nil
}

// Summary reports on the held dataset with up to limit preview rows.
func (s *HistorySession) Summary(limit int) HistorySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.dataset, limit)
}

// TrainingRows projects the held dataset for model training. ok is false
// when no dataset is held.
func (s *HistorySession) TrainingRows() ([]match.TrainingRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset == nil {
		return nil, false
	}
	return s.dataset.TrainingRows(), true
}

// Summarize builds a summary of dataset with up to limit preview rows.
func Summarize(dataset match.Dataset, limit int) HistorySummary {
	return summarize(dataset, limit)
}

func summarize(dataset match.Dataset, limit int) HistorySummary {
	summary := HistorySummary{
		Loaded:  dataset != nil,
		Rows:    len(dataset),
		Preview: dataset.Tail(limit),
	}
	if first, last, ok := dataset.Span(); ok {
		summary.First = first
		summary.Last = last
	}
	return summary
}
