package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-history/internal/domain/match"
)

func TestHistorySession_LoadThenRefreshSwapsDataset(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{dataset: existingPL2022()}
	source := newMatchSourceMock(t)
	history, _ := newTestHistoryService(source)
	session := NewHistorySession(NewDatasetService(repo, history, nil))

	assert.False(t, session.Summary(10).Loaded)

	summary, err := session.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Loaded)
	assert.Equal(t, 1, summary.Rows)
	assert.Equal(t, summary.First, summary.Last)

	source.On("FetchMatchesByDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(finishedPayload("PL", "Premier League",
		payloadEntry{date: "2023-05-28T15:30:00Z", homeTeam: "Everton FC", awayTeam: "AFC Bournemouth", home: 1, away: 0},
	), nil).Once()

	report, summary, err := session.Refresh(context.Background(), RefreshInput{Codes: []string{"PL"}})
	require.NoError(t, err)
	assert.Equal(t, 1, report.RecordsFetched)
	assert.Equal(t, 2, summary.Rows)

	rows, ok := session.TrainingRows()
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, "Everton FC", rows[1].HomeTeam)
}

func TestHistorySession_FailedOperationKeepsDataset(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{dataset: existingPL2022()}
	source := newMatchSourceMock(t)
	history, _ := newTestHistoryService(source)
	session := NewHistorySession(NewDatasetService(repo, history, nil))

	_, err := session.Load(context.Background())
	require.NoError(t, err)

	source.On("FetchCompetitionMatches", mock.Anything, "PL", 2023).Return(match.Payload{}, &RemoteError{Op: "competition_matches", StatusCode: 500}).Once()
	_, _, err = session.Ingest(context.Background(), IngestInput{Codes: []string{"PL"}, Seasons: []int{2023}})
	require.Error(t, err)

	assert.Equal(t, 1, session.Summary(10).Rows)
	assert.Equal(t, 0, repo.saved)
}

func TestHistorySession_LoadAbsentKeepsNothing(t *testing.T) {
	t.Parallel()

	session := NewHistorySession(NewDatasetService(&memoryRepository{}, nil, nil))

	summary, err := session.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, summary.Loaded)

	_, ok := session.TrainingRows()
	assert.False(t, ok)
}

func TestHistorySession_LoadErrorIsReturned(t *testing.T) {
	t.Parallel()

	session := NewHistorySession(NewDatasetService(&memoryRepository{loadErr: errors.New("disk gone")}, nil, nil))
	_, err := session.Load(context.Background())
	assert.ErrorContains(t, err, "disk gone")
}

func TestHistorySession_ConcurrentReads(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{dataset: existingPL2022()}
	session := NewHistorySession(NewDatasetService(repo, nil, nil))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = session.Load(context.Background())
			_ = session.Summary(5)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, session.Summary(5).Rows)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	summary := Summarize(nil, 10)
	assert.False(t, summary.Loaded)
	assert.Zero(t, summary.Rows)
	assert.True(t, summary.First.IsZero())
	assert.Empty(t, summary.Preview)

	summary = Summarize(match.Dataset{}, 10)
	assert.True(t, summary.Loaded)
}
