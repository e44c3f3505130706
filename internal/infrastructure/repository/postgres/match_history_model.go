package postgres

import (
	"time"

	"github.com/riskibarqy/football-history/internal/domain/match"
)

const (
	matchHistoryTable    = "match_history"
	matchSnapshotTable   = "match_history_snapshots"
	currentSnapshotID    = 1
	insertBatchSize      = 1000
	matchHistoryOrdering = "match_date ASC, id ASC"
)

type matchHistoryTableModel struct {
	ID              int64     `db:"id"`
	MatchDate       time.Time `db:"match_date"`
	HomeTeam        string    `db:"home_team"`
	AwayTeam        string    `db:"away_team"`
	HomeGoals       int       `db:"home_goals"`
	AwayGoals       int       `db:"away_goals"`
	CompetitionName string    `db:"competition_name"`
	CompetitionCode string    `db:"competition_code"`
	Season          int       `db:"season"`
}

type matchHistoryInsertModel struct {
	MatchDate       time.Time `db:"match_date"`
	HomeTeam        string    `db:"home_team"`
	AwayTeam        string    `db:"away_team"`
	HomeGoals       int       `db:"home_goals"`
	AwayGoals       int       `db:"away_goals"`
	CompetitionName string    `db:"competition_name"`
	CompetitionCode string    `db:"competition_code"`
	Season          int       `db:"season"`
}

type matchSnapshotTableModel struct {
	SnapshotID int       `db:"snapshot_id"`
	RowCount   int       `db:"row_count"`
	SavedAt    time.Time `db:"saved_at"`
}

func matchHistoryColumns() []string {
	return []string{
		"id",
		"match_date",
		"home_team",
		"away_team",
		"home_goals",
		"away_goals",
		"competition_name",
		"competition_code",
		"season",
	}
}

func toMatchRecord(row matchHistoryTableModel) match.Record {
	return match.Record{
		Date:            row.MatchDate.UTC(),
		HomeTeam:        row.HomeTeam,
		AwayTeam:        row.AwayTeam,
		HomeGoals:       row.HomeGoals,
		AwayGoals:       row.AwayGoals,
		CompetitionName: row.CompetitionName,
		CompetitionCode: row.CompetitionCode,
		Season:          row.Season,
	}
}

func toMatchInsertModel(record match.Record) matchHistoryInsertModel {
	return matchHistoryInsertModel{
		MatchDate:       record.Date.UTC(),
		HomeTeam:        record.HomeTeam,
		AwayTeam:        record.AwayTeam,
		HomeGoals:       record.HomeGoals,
		AwayGoals:       record.AwayGoals,
		CompetitionName: record.CompetitionName,
		CompetitionCode: record.CompetitionCode,
		Season:          record.Season,
	}
}

// insertBatches splits records into chunks small enough to stay under the
// Postgres bind parameter limit.
func insertBatches(records match.Dataset, size int) [][]matchHistoryInsertModel {
	if size <= 0 {
		size = insertBatchSize
	}
	out := make([][]matchHistoryInsertModel, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		batch := make([]matchHistoryInsertModel, 0, end-start)
		for _, record := range records[start:end] {
			batch = append(batch, toMatchInsertModel(record))
		}
		out = append(out, batch)
	}
	return out
}
