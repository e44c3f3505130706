package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-history/internal/domain/competition"
	"github.com/riskibarqy/football-history/internal/platform/cache"
)

type competitionSourceMock struct {
	mock.Mock
}

func (m *competitionSourceMock) ListCompetitions(ctx context.Context) ([]competition.Summary, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]competition.Summary)
	return items, args.Error(1)
}

func TestCompetitionService_CachesForTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	store := cache.NewStore[[]competition.Summary](15*time.Minute, cache.WithClock[[]competition.Summary](func() time.Time { return now }))

	source := &competitionSourceMock{}
	source.Test(t)
	source.On("ListCompetitions", mock.Anything).Return([]competition.Summary{
		{Code: "SA", Name: "Serie A", AreaName: "Italy"},
		{Code: "PL", Name: "Premier League", AreaName: "England"},
		{Code: "WC", Name: "FIFA World Cup", AreaName: "World"},
	}, nil).Twice()

	svc := NewCompetitionService(source, store, nil, nil)

	catalog, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"PL", "SA", "WC"}, competition.Codes(catalog.Competitions))
	assert.Equal(t, []string{"PL", "SA"}, catalog.DefaultCodes)
	assert.Equal(t, now, catalog.FetchedAt)

	now = now.Add(10 * time.Minute)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "ListCompetitions", 1)

	now = now.Add(5 * time.Minute)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "ListCompetitions", 2)
	source.AssertExpectations(t)
}

func TestCompetitionService_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	source := &competitionSourceMock{}
	source.Test(t)
	source.On("ListCompetitions", mock.Anything).Return(nil, &ConfigurationError{Key: "FOOTBALL_DATA_TOKEN"}).Once()
	source.On("ListCompetitions", mock.Anything).Return([]competition.Summary{{Code: "PL", Name: "Premier League", AreaName: "England"}}, nil).Once()

	svc := NewCompetitionService(source, nil, []string{"PL"}, nil)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	source.AssertExpectations(t)
}

func TestCompetitionService_Invalidate(t *testing.T) {
	t.Parallel()

	source := &competitionSourceMock{}
	source.On("ListCompetitions", mock.Anything).Return([]competition.Summary{{Code: "PL", Name: "Premier League"}}, nil)

	svc := NewCompetitionService(source, nil, nil, nil)
	_, _ = svc.List(context.Background())
	svc.Invalidate(context.Background())
	_, _ = svc.List(context.Background())
	source.AssertNumberOfCalls(t, "ListCompetitions", 2)
}
