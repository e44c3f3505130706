package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-history/internal/domain/match"
)

type matchSourceMock struct {
	mock.Mock
}

func newMatchSourceMock(t *testing.T) *matchSourceMock {
	m := &matchSourceMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *matchSourceMock) FetchCompetitionMatches(ctx context.Context, code string, season int) (match.Payload, error) {
	args := m.Called(ctx, code, season)
	return args.Get(0).(match.Payload), args.Error(1)
}

func (m *matchSourceMock) FetchMatchesByDate(ctx context.Context, from, to time.Time, codes []string) (match.Payload, error) {
	args := m.Called(ctx, from, to, codes)
	return args.Get(0).(match.Payload), args.Error(1)
}

type fixedIDs struct{}

func (fixedIDs) NewID() (string, error) { return "run-1", nil }

func newTestHistoryService(source MatchSource) (*HistoryService, *[]time.Duration) {
	svc := NewHistoryService(source, fixedIDs{}, nil)
	sleeps := &[]time.Duration{}
	svc.sleep = func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return svc, sleeps
}

func finishedPayload(code, name string, entries ...payloadEntry) match.Payload {
	out := match.Payload{}
	for _, e := range entries {
		home, away := e.home, e.away
		out.Matches = append(out.Matches, match.PayloadMatch{
			UTCDate:     e.date,
			Status:      match.StatusFinished,
			HomeTeam:    match.PayloadTeam{Name: e.homeTeam},
			AwayTeam:    match.PayloadTeam{Name: e.awayTeam},
			Competition: match.PayloadCompetition{Name: name, Code: code},
			Score:       match.PayloadScore{FullTime: match.PayloadScoreLine{Home: &home, Away: &away}},
		})
	}
	return out
}

type payloadEntry struct {
	date     string
	homeTeam string
	awayTeam string
	home     int
	away     int
}

func existingPL2022() match.Dataset {
	date, _ := match.ParseTimestamp("2022-08-05 19:00:00")
	return match.Dataset{{
		Date:            date,
		HomeTeam:        "Crystal Palace FC",
		AwayTeam:        "Arsenal FC",
		HomeGoals:       0,
		AwayGoals:       2,
		CompetitionName: "Premier League",
		CompetitionCode: "PL",
		Season:          2022,
	}}
}

func TestHistoryService_IngestMissingSeasons_SkipsPresentPairs(t *testing.T) {
	t.Parallel()

	source := newMatchSourceMock(t)
	svc, sleeps := newTestHistoryService(source)
	dataset := existingPL2022()

	got, report, err := svc.IngestMissingSeasons(context.Background(), dataset, IngestInput{
		Codes:   []string{"PL"},
		Seasons: []int{2022},
		Delay:   6500 * time.Millisecond,
	})
	require.NoError(t, err)

	source.AssertNotCalled(t, "FetchCompetitionMatches", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, *sleeps)
	assert.Equal(t, match.Merge(dataset, nil), got)
	assert.Equal(t, []match.CompSeason{{Code: "PL", Season: 2022}}, report.Skipped)
	assert.Empty(t, report.Fetched)
}

func TestHistoryService_IngestMissingSeasons_FetchesInOrderAndSleepsAfterEach(t *testing.T) {
	t.Parallel()

	source := newMatchSourceMock(t)
	svc, sleeps := newTestHistoryService(source)

	var calls []string
	record := func(args mock.Arguments) {
		calls = append(calls, fmt.Sprintf("%s/%d", args.String(1), args.Int(2)))
	}

	source.On("FetchCompetitionMatches", mock.Anything, "PL", 2023).Run(record).Return(finishedPayload("PL", "Premier League",
		payloadEntry{date: "2023-08-11T19:00:00Z", homeTeam: "Burnley FC", awayTeam: "Manchester City FC", home: 0, away: 3},
		payloadEntry{date: "2024-05-19T15:00:00Z", homeTeam: "Liverpool FC", awayTeam: "Wolverhampton Wanderers FC", home: 2, away: 0},
	), nil).Once()
	source.On("FetchCompetitionMatches", mock.Anything, "PD", 2022).Run(record).Return(match.Payload{}, nil).Once()
	source.On("FetchCompetitionMatches", mock.Anything, "PD", 2023).Run(record).Return(finishedPayload("PD", "Primera Division",
		payloadEntry{date: "2023-08-11T17:30:00Z", homeTeam: "UD Almería", awayTeam: "Rayo Vallecano de Madrid", home: 0, away: 2},
	), nil).Once()

	got, report, err := svc.IngestMissingSeasons(context.Background(), existingPL2022(), IngestInput{
		Codes:   []string{"PL", "pd"},
		Seasons: []int{2022, 2023},
		Delay:   time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"PL/2023", "PD/2022", "PD/2023"}, calls)
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, *sleeps)
	assert.Len(t, got, 4)
	assert.Equal(t, 3, report.RecordsFetched)
	assert.Equal(t, 4, report.DatasetSize)
	assert.Equal(t, "run-1", report.RunID)
	assert.Len(t, report.Requested, 4)

	// 2024 match keeps the requested season rather than its calendar year
	last := got[len(got)-1]
	assert.Equal(t, "Liverpool FC", last.HomeTeam)
	assert.Equal(t, 2023, last.Season)
}

func TestHistoryService_IngestMissingSeasons_AbortsOnFetchError(t *testing.T) {
	t.Parallel()

	source := newMatchSourceMock(t)
	svc, sleeps := newTestHistoryService(source)

	source.On("FetchCompetitionMatches", mock.Anything, "PL", 2021).Return(finishedPayload("PL", "Premier League",
		payloadEntry{date: "2021-08-13T19:00:00Z", homeTeam: "Brentford FC", awayTeam: "Arsenal FC", home: 2, away: 0},
	), nil).Once()
	upstream := &RemoteError{Op: "competition_matches", StatusCode: 429}
	source.On("FetchCompetitionMatches", mock.Anything, "PL", 2023).Return(match.Payload{}, upstream).Once()

	dataset := existingPL2022()
	got, _, err := svc.IngestMissingSeasons(context.Background(), dataset, IngestInput{
		Codes:   []string{"PL"},
		Seasons: []int{2021, 2022, 2023, 2024},
		Delay:   time.Second,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)
	assert.Nil(t, got)
	assert.Len(t, *sleeps, 1, "no sleep after the failing call")
	assert.Len(t, dataset, 1, "input dataset untouched")
}

func TestHistoryService_IngestMissingSeasons_CancelledDuringSleep(t *testing.T) {
	t.Parallel()

	source := newMatchSourceMock(t)
	svc := NewHistoryService(source, fixedIDs{}, nil)
	source.On("FetchCompetitionMatches", mock.Anything, "SA", 2023).Return(match.Payload{}, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, _, err := svc.IngestMissingSeasons(ctx, nil, IngestInput{
		Codes:   []string{"SA"},
		Seasons: []int{2023},
		Delay:   time.Minute,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHistoryService_IngestMissingSeasons_RejectsNegativeDelay(t *testing.T) {
	t.Parallel()

	svc, _ := newTestHistoryService(newMatchSourceMock(t))
	_, _, err := svc.IngestMissingSeasons(context.Background(), nil, IngestInput{Codes: []string{"PL"}, Seasons: []int{2023}, Delay: -time.Second})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHistoryService_IngestMissingSeasons_NilDatasetNoPairs(t *testing.T) {
	t.Parallel()

	svc, _ := newTestHistoryService(newMatchSourceMock(t))
	got, report, err := svc.IngestMissingSeasons(context.Background(), nil, IngestInput{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, report.DatasetSize)
}

func TestHistoryService_RefreshRecent(t *testing.T) {
	t.Parallel()

	source := newMatchSourceMock(t)
	svc, _ := newTestHistoryService(source)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 22, 45, 0, 0, time.UTC) }

	from := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	source.On("FetchMatchesByDate", mock.Anything, from, to, []string{"PL", "BSA"}).Return(finishedPayload("BSA", "Campeonato Brasileiro Série A",
		payloadEntry{date: "2024-06-13T22:00:00Z", homeTeam: "SE Palmeiras", awayTeam: "EC Vitória", home: 0, away: 2},
	), nil).Once()

	got, report, err := svc.RefreshRecent(context.Background(), existingPL2022(), RefreshInput{Codes: []string{"PL", "BSA"}})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2024, got[1].Season)
	assert.Equal(t, 1, report.RecordsFetched)
	assert.Equal(t, from, report.From)
	assert.Equal(t, to, report.To)
}

func TestHistoryService_RefreshRecent_ErrorLeavesNoDataset(t *testing.T) {
	t.Parallel()

	source := newMatchSourceMock(t)
	svc, _ := newTestHistoryService(source)
	source.On("FetchMatchesByDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(match.Payload{}, &RemoteError{Op: "matches_by_date", Timeout: true}).Once()

	got, _, err := svc.RefreshRecent(context.Background(), existingPL2022(), RefreshInput{})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestTrailingWindow(t *testing.T) {
	t.Parallel()

	from, to := TrailingWindow(time.Date(2024, 6, 15, 1, 30, 0, 0, time.FixedZone("WIB", 7*3600)))
	// 01:30 at UTC+7 is still 14 June in UTC
	assert.Equal(t, time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), to)

	from, to = TrailingWindow(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-06-08", from.Format(time.DateOnly))
	assert.Equal(t, "2024-06-15", to.Format(time.DateOnly))
}

func TestDefaultSeasonsAndOptions(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []int{2021, 2022, 2023}, DefaultSeasons(now))

	options := SeasonOptions(now)
	require.Len(t, options, 11)
	assert.Equal(t, 2014, options[0])
	assert.Equal(t, 2024, options[10])
}

func TestSleepContext(t *testing.T) {
	t.Parallel()

	assert.NoError(t, sleepContext(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errors.Is(sleepContext(ctx, time.Hour), context.Canceled))
}
