package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/football-history/internal/domain/competition"
	"github.com/riskibarqy/football-history/internal/platform/cache"
	"github.com/riskibarqy/football-history/internal/platform/logging"
)

const competitionsCacheKey = "competitions:all"

// DefaultCompetitionsTTL matches how long the selection list stays valid.
const DefaultCompetitionsTTL = 15 * time.Minute

type CompetitionSource interface {
	ListCompetitions(ctx context.Context) ([]competition.Summary, error)
}

// Catalog is the competitions list together with the preferred default
// selection.
type Catalog struct {
	Competitions []competition.Summary
	DefaultCodes []string
	FetchedAt    time.Time
}

// CompetitionService serves the competitions list from a short-lived cache.
type CompetitionService struct {
	source    CompetitionSource
	cache     *cache.Store[[]competition.Summary]
	preferred []string
	logger    *logging.Logger
}

func NewCompetitionService(source CompetitionSource, store *cache.Store[[]competition.Summary], preferred []string, logger *logging.Logger) *CompetitionService {
	if store == nil {
		store = cache.NewStore[[]competition.Summary](DefaultCompetitionsTTL)
	}
	if len(preferred) == 0 {
		preferred = competition.DefaultCodes
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CompetitionService{
		source:    source,
		cache:     store,
		preferred: preferred,
		logger:    logger,
	}
}

// List returns the accessible competitions, ordered by area then name.
func (s *CompetitionService) List(ctx context.Context) ([]competition.Summary, error) {
	ctx, span := startSpan(ctx, "CompetitionService.List")
	defer span.End()

	items, err := s.cache.GetOrLoad(ctx, competitionsCacheKey, func(ctx context.Context) ([]competition.Summary, error) {
		items, err := s.source.ListCompetitions(ctx)
		if err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "competitions list refreshed", "count", len(items))
		return competition.Clean(items), nil
	})
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	out := make([]competition.Summary, len(items))
	copy(out, items)
	return out, nil
}

// Catalog returns the list with the preferred codes that are available.
func (s *CompetitionService) Catalog(ctx context.Context) (Catalog, error) {
	items, err := s.List(ctx)
	if err != nil {
		return Catalog{}, err
	}
	_, fetchedAt, _ := s.cache.Get(ctx, competitionsCacheKey)
	return Catalog{
		Competitions: items,
		DefaultCodes: competition.SelectDefaults(s.preferred, items),
		FetchedAt:    fetchedAt,
	}, nil
}

// Invalidate drops the cached list so the next call goes to the provider.
func (s *CompetitionService) Invalidate(ctx context.Context) {
	s.cache.Delete(ctx, competitionsCacheKey)
}
